package assembler

import "testing"

func assembleString(t *testing.T, src string, opts ...Option) []byte {
	t.Helper()
	mem := &MemorySink{}
	opener := func(path string) (string, error) { return src, nil }
	allOpts := append([]Option{WithOpener(opener), WithSinks(mem)}, opts...)
	asm := NewAssembler(allOpts...)
	if err := asm.Assemble("main.tri"); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	return mem.Bytes
}

func TestSimpleMnemonics(t *testing.T) {
	got := assembleString(t, "MOV A B\nHLT")
	want := []byte{0x78, 0x76}
	if string(got) != string(want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestImmediateAndPair(t *testing.T) {
	got := assembleString(t, "LXI H 0x1234")
	want := []byte{0x21, 0x34, 0x12}
	if string(got) != string(want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestRestart(t *testing.T) {
	got := assembleString(t, "RST 3")
	if len(got) != 1 || got[0] != 0xDF {
		t.Fatalf("got % X, want [DF]", got)
	}
}

func TestCCModeHexForcesHexByte(t *testing.T) {
	got := assembleString(t, "mode hex\nCC")
	if len(got) != 1 || got[0] != 0xCC {
		t.Fatalf("got % X, want [CC]", got)
	}
}

func TestCCModeCodeForcesMnemonic(t *testing.T) {
	got := assembleString(t, "mode code\nCC 0x1000")
	want := []byte{0xDC, 0x00, 0x10}
	if string(got) != string(want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestCCSmartFollowsMood(t *testing.T) {
	// After an opcode byte (NOP), mood is OPCODE, so a bare CC reads as the
	// conditional call mnemonic and consumes an address operand.
	got := assembleString(t, "NOP\nCC 0x2000")
	want := []byte{0x00, 0xDC, 0x00, 0x20}
	if string(got) != string(want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestLabelAndReference(t *testing.T) {
	got := assembleString(t, "start: NOP\nJMP start", WithOrigin(0x1000))
	want := []byte{0x00, 0xC3, 0x00, 0x10}
	if string(got) != string(want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestEquateDefinesSymbol(t *testing.T) {
	mem := &MemorySink{}
	opener := func(path string) (string, error) { return "VALUE=0x42\nMVI A !VALUE.L", nil }
	asm := NewAssembler(WithOpener(opener), WithSinks(mem))
	if err := asm.Assemble("main.tri"); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	want := []byte{0x3E, 0x42}
	if string(mem.Bytes) != string(want) {
		t.Fatalf("got % X, want % X", mem.Bytes, want)
	}
}

func TestVariableWordDereference(t *testing.T) {
	mem := &MemorySink{}
	opener := func(path string) (string, error) { return "ADDR=0x1234\nLDA !ADDR", nil }
	asm := NewAssembler(WithOpener(opener), WithSinks(mem))
	if err := asm.Assemble("main.tri"); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	want := []byte{0x3A, 0x34, 0x12}
	if string(mem.Bytes) != string(want) {
		t.Fatalf("got % X, want % X", mem.Bytes, want)
	}
}

func TestRepeatModifier(t *testing.T) {
	got := assembleString(t, "4*00")
	want := []byte{0, 0, 0, 0}
	if string(got) != string(want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestFillToTarget(t *testing.T) {
	got := assembleString(t, "0x0004>00", WithOrigin(0))
	want := []byte{0, 0, 0, 0}
	if string(got) != string(want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestFillAlreadyPastEmitsNothing(t *testing.T) {
	got := assembleString(t, "NOP\nNOP\n0x0001>00", WithOrigin(0))
	want := []byte{0, 0}
	if string(got) != string(want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestStringLiteral(t *testing.T) {
	got := assembleString(t, `"HI"`)
	want := []byte("HI")
	if string(got) != string(want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestCharLiteral(t *testing.T) {
	got := assembleString(t, "'A'")
	if len(got) != 1 || got[0] != 'A' {
		t.Fatalf("got % X, want [41]", got)
	}
}

func TestDecimalLiteral(t *testing.T) {
	got := assembleString(t, "%100")
	if len(got) != 1 || got[0] != 100 {
		t.Fatalf("got %v, want [100]", got)
	}
}

func TestUndefinedSymbolEmitsZero(t *testing.T) {
	got := assembleString(t, "JMP !nowhere")
	want := []byte{0xC3, 0x00, 0x00}
	if string(got) != string(want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestInclude(t *testing.T) {
	mem := &MemorySink{}
	files := map[string]string{
		"main.tri": "include sub\nHLT",
		"sub.tri":  "NOP",
	}
	opener := func(path string) (string, error) {
		src, ok := files[path]
		if !ok {
			t.Fatalf("unexpected open of %q", path)
		}
		return src, nil
	}
	asm := NewAssembler(WithOpener(opener), WithSinks(mem))
	if err := asm.Assemble("main.tri"); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	want := []byte{0x00, 0x76}
	if string(mem.Bytes) != string(want) {
		t.Fatalf("got % X, want % X", mem.Bytes, want)
	}
}

func TestIncludeDepthExceeded(t *testing.T) {
	opener := func(path string) (string, error) { return "include " + path, nil }
	asm := NewAssembler(WithOpener(opener), WithSinks(&MemorySink{}))
	if err := asm.Assemble("loop.tri"); err == nil {
		t.Fatal("expected a fatal error for unbounded self-include")
	}
}

func TestIdempotence(t *testing.T) {
	src := "start: LXI H 0x1234\nMVI A 0x05\nJMP start"
	a := assembleString(t, src)
	b := assembleString(t, src)
	if string(a) != string(b) {
		t.Fatalf("two independent assemblies diverged: % X vs % X", a, b)
	}
}
