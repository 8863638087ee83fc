// mnemonics.go - the 78-entry 8080 mnemonic table.
//
// Each entry packs its base opcode and operand shape into a 3-character
// octal string: the first character is the opcode's top two bits (shifted
// into position); the second is either a literal octal digit (shifted into
// bits 3-5) or one of 'D'/'U'/'V'/'N' marking a register, register-pair, or
// restart-number operand; the third is either a literal octal digit (the
// opcode's low 3 bits) or 'S', marking that a register operand is read from
// the low 3 bits instead. A mnemonic whose second character is 'D' and
// whose third is 'S' (MOV) takes two register operands.
package assembler

type encodingType int

const (
	EncodeNone       encodingType = 0 // no operand
	EncodeSrcReg     encodingType = 1 // source register, low 3 bits
	EncodeDstReg     encodingType = 2 // destination register, bits 3-5
	EncodeDstSrcReg  encodingType = 3 // destination then source register
	EncodeRegPair    encodingType = 4 // register pair, bits 4-5
	EncodeRestart    encodingType = 5 // restart number, bits 3-5
)

type mnemonicEntry struct {
	Name       string
	Opcode     byte
	Type       encodingType
	ExtraBytes int // immediate/address bytes following the opcode byte
}

// mnemonicSource holds the three parallel tables from the reference
// assembler verbatim: name, extra-byte count, and the packed octal code.
var mnemonicSource = []struct {
	name   string
	extra  int
	packed string
}{
	{"ACI", 1, "316"}, {"ADC", 0, "21S"}, {"ADD", 0, "20S"}, {"ADI", 1, "306"},
	{"ANA", 0, "24S"}, {"ANI", 1, "346"}, {"CALL", 2, "315"}, {"CC", 2, "334"},
	{"CM", 2, "374"}, {"CMA", 0, "057"}, {"CMC", 0, "077"}, {"CMP", 0, "27S"},
	{"CNC", 2, "324"}, {"CNZ", 2, "304"}, {"CP", 2, "364"}, {"CPE", 2, "354"},
	{"CPI", 1, "376"}, {"CPO", 2, "344"}, {"CZ", 2, "314"}, {"DAA", 0, "047"},
	{"DAD", 0, "0V1"}, {"DCR", 0, "0D5"}, {"DCX", 0, "0V3"}, {"DI", 0, "363"},
	{"EI", 0, "373"}, {"HLT", 0, "166"}, {"IN", 1, "333"}, {"INR", 0, "0D4"},
	{"INX", 0, "0U3"}, {"JC", 2, "332"}, {"JM", 2, "372"}, {"JMP", 2, "303"},
	{"JNC", 2, "322"}, {"JNZ", 2, "302"}, {"JP", 2, "362"}, {"JPE", 2, "352"},
	{"JPO", 2, "342"}, {"JZ", 2, "312"}, {"LDA", 2, "072"}, {"LDAX", 0, "0V2"},
	{"LHLD", 2, "052"}, {"LXI", 2, "0U1"}, {"MVI", 1, "0D6"}, {"MOV", 0, "1DS"},
	{"NOP", 0, "000"}, {"ORA", 0, "26S"}, {"ORI", 1, "366"}, {"OUT", 1, "323"},
	{"PCHL", 0, "351"}, {"POP", 0, "3U1"}, {"PUSH", 0, "3U5"}, {"RAL", 0, "027"},
	{"RAR", 0, "037"}, {"RC", 0, "330"}, {"RET", 0, "311"}, {"RLC", 0, "007"},
	{"RM", 0, "370"}, {"RNC", 0, "320"}, {"RNZ", 0, "300"}, {"RP", 0, "360"},
	{"RPE", 0, "350"}, {"RPO", 0, "340"}, {"RRC", 0, "017"}, {"RST", 0, "3N7"},
	{"RZ", 0, "310"}, {"SBB", 0, "23S"}, {"SBI", 1, "336"}, {"SHLD", 2, "042"},
	{"SPHL", 0, "371"}, {"STA", 2, "062"}, {"STAX", 0, "0U2"}, {"STC", 0, "067"},
	{"SUB", 0, "22S"}, {"SUI", 1, "326"}, {"XCHG", 0, "353"}, {"XRA", 0, "25S"},
	{"XRI", 1, "356"}, {"XTHL", 0, "343"},
}

// mnemonics maps a mnemonic name to its decoded entry. Populated at package
// init time by decoding mnemonicSource exactly as the reference mninit()
// does, so the packed table above stays the single source of truth.
var mnemonics map[string]mnemonicEntry

func init() {
	mnemonics = make(map[string]mnemonicEntry, len(mnemonicSource))
	for _, src := range mnemonicSource {
		opcode := byte(digit(src.packed[0])) << 6
		var t encodingType
		switch src.packed[1] {
		case 'D':
			t = EncodeDstReg // DCR/INR/MVI: destination register in bits 3-5
		case 'U':
			t = EncodeRegPair
			// push/pop/stax/inx/lxi: register pair encodes in
			// bits 4-5 but is written via the same shift as DAD.
		case 'V':
			t = EncodeRegPair
			opcode |= 1 << 3
		case 'N':
			t = EncodeRestart
		default:
			t = EncodeNone
			opcode |= byte(digit(src.packed[1])) << 3
		}
		if src.packed[2] == 'S' {
			t = srcRegVariant(t)
		} else {
			opcode |= byte(digit(src.packed[2]))
		}
		mnemonics[src.name] = mnemonicEntry{Name: src.name, Opcode: opcode, Type: t, ExtraBytes: src.extra}
	}
}

// srcRegVariant upgrades a bits-3-5 encoding to "both registers" when the
// mnemonic also reads a source register in the low 3 bits (MOV), or starts
// a plain source-register encoding otherwise (ADD, SUB, ANA, ...).
func srcRegVariant(base encodingType) encodingType {
	if base == EncodeDstReg {
		return EncodeDstSrcReg
	}
	return EncodeSrcReg
}

func digit(c byte) int {
	return int(c - '0')
}

// Lookup returns the mnemonic entry for name, or false if name is not a
// known 8080 mnemonic.
func Lookup(name string) (mnemonicEntry, bool) {
	e, ok := mnemonics[name]
	return e, ok
}

// registerCode maps register names to their 3-bit 8080 encoding.
var registerCode = map[string]byte{
	"B": 0, "C": 1, "D": 2, "E": 3, "H": 4, "L": 5, "M": 6, "A": 7,
}

// pairCode maps register-pair names to their 2-bit encoding. SP and PSW
// share code 3 (PSW only applies to PUSH/POP, SP only to the rest; the
// assembler does not disambiguate by instruction since the source text
// already picked the right token).
var pairCode = map[string]byte{
	"B": 0, "D": 1, "H": 2, "SP": 3, "PSW": 3,
}

// restartCode maps a literal 0-7 to an RST number.
func restartCode(s string) (byte, bool) {
	if len(s) != 1 || s[0] < '0' || s[0] > '7' {
		return 0, false
	}
	return s[0] - '0', true
}
