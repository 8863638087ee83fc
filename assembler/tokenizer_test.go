package assembler

import "testing"

func collectTokens(t *testing.T, src string) []string {
	t.Helper()
	var s sourceStack
	if err := s.push(src, "t.tri"); err != nil {
		t.Fatalf("push: %v", err)
	}
	var toks []string
	for {
		tok, ok := s.nextToken()
		if !ok {
			break
		}
		toks = append(toks, tok)
	}
	return toks
}

func TestTokenizerBasicSplit(t *testing.T) {
	got := collectTokens(t, "MOV A,B\nHLT")
	want := []string{"MOV", "A", "B", "HLT"}
	if !equalStrings(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokenizerHashComment(t *testing.T) {
	got := collectTokens(t, "NOP #this is a comment# HLT")
	want := []string{"NOP", "HLT"}
	if !equalStrings(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokenizerHashCommentToEndOfLine(t *testing.T) {
	got := collectTokens(t, "NOP # rest of the line is ignored\nHLT")
	want := []string{"NOP", "HLT"}
	if !equalStrings(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokenizerEndSentinelStopsEarly(t *testing.T) {
	got := collectTokens(t, "NOP\nend\nHLT")
	want := []string{"NOP"}
	if !equalStrings(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokenizerQuotedStringKeepsWhitespace(t *testing.T) {
	got := collectTokens(t, `"hello, world" NOP`)
	want := []string{`"hello, world"`, "NOP"}
	if !equalStrings(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestIncludeStackDepthLimit(t *testing.T) {
	var s sourceStack
	for i := 0; i < maxIncludeDepth; i++ {
		if err := s.push("", "f"); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	if err := s.push("", "f"); err == nil {
		t.Fatal("expected an error pushing past maxIncludeDepth")
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
