// assembler.go - the two-pass assembly driver.
//
// Pass one walks every token exactly as pass two does, so that labels and
// equates land on the addresses pass two will actually emit at; the only
// difference is that byte output is discarded rather than written to the
// configured sinks. This mirrors the reference compiler's single parse()
// routine being called twice with output wired up only the second time.
package assembler

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Mode controls how the ambiguous "CC" token is read: as the conditional
// call mnemonic, as the hex byte 0xCC, or decided per-occurrence from
// context (whichever the current mood favors).
type Mode int

const (
	ModeSmart Mode = iota
	ModeHex
	ModeOpcode
)

type mood int

const (
	moodOpcode mood = iota
	moodHex
	moodASCII
	moodDEC
	moodVAR
)

// Opener loads the contents of a source file by path, used for both the
// top-level file and every nested "include".
type Opener func(path string) (string, error)

func defaultOpener(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Assembler holds all state for one assembly run: the shared symbol table,
// the live include stack, the current mood/countdown emission state, and
// the sinks bytes are flushed to.
type Assembler struct {
	Symbols *SymbolTable

	mode    Mode
	opener  Opener
	sinks   []ByteSink
	verbose bool

	stack     sourceStack
	pass      int
	mood      mood
	countdown int
	origin    uint16
	byteCount int
	nrpt      int
	targetAddr int // -1 means no fill target pending
	emitBuf   []byte

	Warnings []string
}

type Option func(*Assembler)

func WithOrigin(org uint16) Option {
	return func(a *Assembler) { a.origin = org }
}

func WithSinks(sinks ...ByteSink) Option {
	return func(a *Assembler) { a.sinks = append(a.sinks, sinks...) }
}

func WithMode(m Mode) Option {
	return func(a *Assembler) { a.mode = m }
}

func WithVerbose(v bool) Option {
	return func(a *Assembler) { a.verbose = v }
}

func WithOpener(o Opener) Option {
	return func(a *Assembler) { a.opener = o }
}

func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		Symbols: NewSymbolTable(),
		opener:  defaultOpener,
		mode:    ModeSmart,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// fatalError unwinds out of a deeply nested token-processing call stack the
// moment recovery is impossible (source exhausted mid-operand, include
// stack overflow, symbol table exhausted), the same points the reference
// compiler calls error() and exits.
type fatalError struct{ err error }

func (a *Assembler) fatal(format string, args ...interface{}) {
	panic(fatalError{fmt.Errorf(format, args...)})
}

func (a *Assembler) warnf(format string, args ...interface{}) {
	a.Warnings = append(a.Warnings, fmt.Sprintf(format, args...))
}

// Assemble runs both passes over filename and everything it includes,
// writing the second pass's output to the configured sinks.
func (a *Assembler) Assemble(filename string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fe, ok := r.(fatalError)
			if !ok {
				panic(r)
			}
			err = fe.err
		}
	}()

	source, rerr := a.opener(filename)
	if rerr != nil {
		return fmt.Errorf("cannot open %q: %w", filename, rerr)
	}

	startOrigin := a.origin
	for pass := 0; pass < 2; pass++ {
		a.beginPass(pass, startOrigin)
		if perr := a.stack.push(source, filename); perr != nil {
			return perr
		}
		a.runPass()
	}
	return nil
}

func (a *Assembler) beginPass(pass int, startOrigin uint16) {
	a.pass = pass
	a.stack = sourceStack{}
	a.mood = moodOpcode
	a.countdown = 0
	a.nrpt = 1
	a.targetAddr = -1
	a.emitBuf = nil
	a.origin = startOrigin
	a.byteCount = 0
	a.Symbols.Define("ORG", Value{V: startOrigin, Defined: true}, 0, "")
}

func (a *Assembler) pc() uint16 {
	return a.origin + uint16(a.byteCount)
}

func (a *Assembler) runPass() {
	for {
		tok, ok := a.stack.nextToken()
		if !ok {
			break
		}
		a.processToken(tok)
	}
	a.Symbols.Define("END", Value{V: a.pc(), Defined: true}, 0, "")
}

func (a *Assembler) processToken(tok string) {
	switch tok {
	case "mode":
		modeTok := a.requireToken("mode name")
		switch modeTok {
		case "hex":
			a.mode = ModeHex
		case "code":
			a.mode = ModeOpcode
		default:
			a.mode = ModeSmart
		}
		return
	case "include":
		a.doInclude(a.requireToken("include file name"))
		return
	}

	if !isQuoted(tok) {
		if name, rest, ok := splitOnce(tok, '='); ok {
			a.doEquate(name, rest)
			return
		}
		if name, rest, ok := splitOnce(tok, ':'); ok {
			a.doLabel(name)
			tok = rest
		}
		if cnt, rest, ok := splitOnce(tok, '*'); ok {
			n, err := strconv.Atoi(cnt)
			if err != nil || n < 0 {
				a.warnf("invalid repeat count %q", cnt)
				n = 1
			}
			a.nrpt = n
			tok = rest
		} else if a.countdown == 0 {
			a.nrpt = 1
		}
		if target, rest, ok := splitOnce(tok, '>'); ok {
			a.targetAddr = int(a.resolveTarget(target))
			tok = rest
		}
	}

	if tok == "" {
		return
	}
	a.dispatch(tok)
}

func isQuoted(tok string) bool {
	return len(tok) > 0 && (tok[0] == '"' || tok[0] == '\'')
}

// splitOnce mirrors the reference compiler's split(): it reports whether sep
// occurs in tok, and if so returns the text before it and the text after it.
func splitOnce(tok string, sep byte) (before, after string, found bool) {
	i := strings.IndexByte(tok, sep)
	if i < 0 {
		return tok, "", false
	}
	return tok[:i], tok[i+1:], true
}

func (a *Assembler) doInclude(name string) {
	path := name
	if !strings.Contains(path, ".") {
		path += ".tri"
	}
	src, err := a.opener(path)
	if err != nil {
		a.fatal("cannot open include file %q: %v", path, err)
	}
	if perr := a.stack.push(src, path); perr != nil {
		a.fatal("%v", perr)
	}
}

func (a *Assembler) doEquate(name, exprTok string) {
	val := a.resolveTarget(exprTok)
	if name == "ORG" {
		a.origin = val
		a.byteCount = 0
		a.Symbols.Define("ORG", Value{V: val, Defined: true}, a.line(), a.file())
		return
	}
	if prev, ok := a.Symbols.Lookup(name); ok && prev.Defined && a.pass == 0 {
		a.warnf("%s:%d: redefinition of %q", a.file(), a.line(), name)
	}
	if !a.Symbols.Define(name, Value{V: val, Defined: true}, a.line(), a.file()) {
		a.fatal("symbol table full, cannot define %q", name)
	}
}

func (a *Assembler) doLabel(name string) {
	if prev, ok := a.Symbols.Lookup(name); ok && prev.Defined && a.pass == 0 {
		a.warnf("%s:%d: redefinition of %q", a.file(), a.line(), name)
	}
	if !a.Symbols.Define(name, Value{V: a.pc(), Defined: true}, a.line(), a.file()) {
		a.fatal("symbol table full, cannot define %q", name)
	}
}

// resolveTarget evaluates either a plain numeric literal or a "!name"
// variable reference, used by the '=' equate and '>' fill-target modifiers.
func (a *Assembler) resolveTarget(tok string) uint16 {
	if strings.HasPrefix(tok, "!") {
		return a.Symbols.Reference(tok[1:]).V
	}
	v, _, err := evalNumber(tok)
	if err != nil {
		a.warnf("%s:%d: %v, using 0", a.file(), a.line(), err)
		return 0
	}
	return v
}

func (a *Assembler) dispatch(tok string) {
	switch {
	case tok[0] == '"':
		a.emitString(tok)
	case len(tok) == 3 && tok[0] == '\'' && tok[2] == '\'':
		a.byteOut(tok[1], moodASCII)
	case tok[0] == '%':
		a.emitDecimal(tok)
	case tok[0] == '!':
		a.emitVariable(tok[1:])
	default:
		a.emitMnemonicOrHex(tok)
	}
}

func (a *Assembler) emitString(tok string) {
	body := tok
	if len(body) >= 2 && body[len(body)-1] == '"' {
		body = body[1 : len(body)-1]
	} else {
		body = body[1:]
	}
	if len(body) == 0 {
		return
	}
	a.countdown = len(body)
	for i := 0; i < len(body); i++ {
		a.byteOut(body[i], moodASCII)
	}
}

func (a *Assembler) emitDecimal(tok string) {
	v, _, err := evalNumber(tok)
	if err != nil || v > 0xFF {
		a.warnf("%s:%d: %v, using 0", a.file(), a.line(), err)
		a.byteOut(0, moodDEC)
		return
	}
	a.byteOut(byte(v), moodDEC)
}

func (a *Assembler) emitVariable(rest string) {
	name := rest
	selector := byte(0)
	if dot := strings.IndexByte(rest, '.'); dot >= 0 {
		name = rest[:dot]
		if dot+1 < len(rest) {
			selector = rest[dot+1]
		}
	}
	v := a.Symbols.Reference(name)
	if selector == 0 {
		a.wordOut(v.V, moodVAR)
		return
	}
	switch selector {
	case 'H':
		a.byteOut(byte(v.V>>8), moodVAR)
	case 'L':
		a.byteOut(byte(v.V), moodVAR)
	default:
		a.warnf("%s:%d: invalid byte specification %q", a.file(), a.line(), rest)
		a.byteOut(0, moodVAR)
	}
}

func (a *Assembler) emitMnemonicOrHex(tok string) {
	entry, isMnemonic := Lookup(tok)
	if tok == "CC" {
		switch a.mode {
		case ModeHex:
			isMnemonic = false
		case ModeOpcode:
			isMnemonic = true
		default:
			isMnemonic = a.mood == moodOpcode
		}
		if isMnemonic {
			entry = mnemonics["CC"]
		}
	}
	if isMnemonic {
		a.emitInstruction(entry)
		return
	}

	var v uint16
	if looksNumeric(tok) {
		parsed, _, err := evalNumber(tok)
		if err != nil {
			a.warnf("%s:%d: %v, using 0", a.file(), a.line(), err)
			parsed = 0
		}
		v = parsed
	} else {
		// Not a known mnemonic and not a numeric literal: treat it as a
		// bare label reference (a forward jump target is the common case).
		v = a.Symbols.Reference(tok).V
	}
	if v < 0x100 {
		a.byteOut(byte(v), moodHex)
	} else {
		a.wordOut(v, moodHex)
	}
}

func (a *Assembler) emitInstruction(e mnemonicEntry) {
	opcode := e.Opcode
	switch e.Type {
	case EncodeSrcReg:
		opcode |= a.readRegister()
	case EncodeDstReg:
		opcode |= a.readRegister() << 3
	case EncodeDstSrcReg:
		opcode |= a.readRegister() << 3
		opcode |= a.readRegister()
	case EncodeRegPair:
		opcode |= a.readPair() << 4
	case EncodeRestart:
		opcode |= a.readRestart() << 3
	}
	a.countdown = e.ExtraBytes
	a.byteOut(opcode, moodOpcode)
}

func (a *Assembler) requireToken(context string) string {
	tok, ok := a.stack.nextToken()
	if !ok {
		a.fatal("%s:%d: unexpected end of input while reading %s", a.file(), a.line(), context)
	}
	return tok
}

func (a *Assembler) readRegister() byte {
	tok := a.requireToken("register operand")
	if r, ok := registerCode[tok]; ok {
		return r
	}
	a.warnf("%s:%d: invalid register specification %q", a.file(), a.line(), tok)
	return 0
}

func (a *Assembler) readPair() byte {
	tok := a.requireToken("register pair operand")
	if p, ok := pairCode[tok]; ok {
		return p
	}
	a.warnf("%s:%d: invalid register pair specification %q", a.file(), a.line(), tok)
	return 0
}

func (a *Assembler) readRestart() byte {
	tok := a.requireToken("restart number")
	if n, ok := restartCode(tok); ok {
		return n
	}
	a.warnf("%s:%d: invalid restart number %q", a.file(), a.line(), tok)
	return 0
}

// byteOut buffers v, switching the CC-disambiguation mood when the buffer
// is currently idle (countdown == 0) or the byte is itself an opcode, and
// decrementing the countdown of a multi-byte instruction's trailing bytes
// otherwise. The buffer is flushed once countdown reaches zero.
func (a *Assembler) byteOut(v byte, newMood mood) {
	if a.countdown == 0 || newMood == moodOpcode {
		if newMood == moodHex || newMood == moodOpcode {
			a.mood = newMood
		}
	} else if newMood != moodOpcode {
		a.countdown--
	}
	a.emitBuf = append(a.emitBuf, v)
	if a.countdown == 0 {
		a.flush()
	}
}

func (a *Assembler) wordOut(v uint16, newMood mood) {
	if a.countdown == 0 {
		a.countdown = 2
	}
	a.byteOut(byte(v), newMood)
	a.byteOut(byte(v>>8), newMood)
}

// flush hands the accumulated buffer to every sink (pass two only),
// repeating it either a fixed number of times or until the fill target is
// reached, then resets the repeat and fill state for the next token group.
func (a *Assembler) flush() {
	buf := append([]byte(nil), a.emitBuf...)
	a.emitBuf = a.emitBuf[:0]
	defer func() {
		a.nrpt = 1
		a.targetAddr = -1
	}()

	if a.targetAddr >= 0 {
		for int(a.pc()) < a.targetAddr {
			a.emit(buf)
		}
		return
	}
	for i := 0; i < a.nrpt; i++ {
		a.emit(buf)
	}
}

func (a *Assembler) emit(buf []byte) {
	if a.pass == 1 {
		for _, s := range a.sinks {
			if err := s.Write(buf); err != nil {
				a.warnf("output write failed: %v", err)
			}
		}
	}
	a.byteCount += len(buf)
}

func (a *Assembler) line() int {
	if f := a.stack.top(); f != nil {
		return f.line
	}
	return 0
}

func (a *Assembler) file() string {
	if f := a.stack.top(); f != nil {
		return f.file
	}
	return ""
}
