// tokenizer.go - source frame stack and token scanner.
//
// Tokens are whitespace-separated runs of characters, where whitespace is
// space, tab, newline, comma, semicolon, and '#' (which additionally opens
// a comment that runs to the next '#' or end of line). Quoted strings and
// characters are scanned verbatim, including embedded whitespace.

package assembler

import (
	"fmt"
)

const maxIncludeDepth = 5

// sourceFrame is one level of the include stack: a source string, the
// current byte offset into it, the line number reached so far, and the
// file name used in diagnostics.
type sourceFrame struct {
	text string
	pos  int
	line int
	file string
}

func newSourceFrame(text, file string) *sourceFrame {
	return &sourceFrame{text: text, file: file, line: 1}
}

func (f *sourceFrame) nextRune() (byte, bool) {
	if f.pos >= len(f.text) {
		return 0, false
	}
	c := f.text[f.pos]
	f.pos++
	if c == '\n' {
		f.line++
	}
	return c, true
}

func (f *sourceFrame) peek() (byte, bool) {
	if f.pos >= len(f.text) {
		return 0, false
	}
	return f.text[f.pos], true
}

func isTokenWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', ',', ';', '#':
		return true
	}
	return false
}

// sourceStack is the include-nesting stack of source frames, bounded to
// maxIncludeDepth to match the fixed-size stack of the reference compiler.
type sourceStack struct {
	frames []*sourceFrame
}

func (s *sourceStack) push(text, file string) error {
	if len(s.frames) >= maxIncludeDepth {
		return fmt.Errorf("include nesting too deep (max %d)", maxIncludeDepth)
	}
	s.frames = append(s.frames, newSourceFrame(text, file))
	return nil
}

func (s *sourceStack) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *sourceStack) top() *sourceFrame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

func (s *sourceStack) empty() bool {
	return len(s.frames) == 0
}

// nextToken reads the next whitespace-delimited token from the top frame of
// the stack, popping exhausted frames as it goes. It returns ("", false)
// once every frame is exhausted. Quoted strings and characters are returned
// including their delimiters so the caller can tell them apart from bare
// identifiers.
func (s *sourceStack) nextToken() (string, bool) {
	for !s.empty() {
		f := s.top()
		tok, ok := scanToken(f)
		if ok {
			return tok, true
		}
		s.pop()
	}
	return "", false
}

func scanToken(f *sourceFrame) (string, bool) {
	var c byte
	var ok bool
	for {
		c, ok = f.peek()
		if !ok {
			return "", false
		}
		if c == '#' {
			f.nextRune()
			for {
				c, ok = f.nextRune()
				if !ok || c == '#' || c == '\n' {
					break
				}
			}
			continue
		}
		if isTokenWhitespace(c) {
			f.nextRune()
			continue
		}
		break
	}

	var buf []byte
	quote := byte(0)
	for {
		c, ok = f.peek()
		if !ok {
			break
		}
		if quote == 0 && isTokenWhitespace(c) {
			break
		}
		f.nextRune()
		buf = append(buf, c)
		if quote == 0 && (c == '"' || c == '\'') {
			quote = c
		} else if quote != 0 && c == quote {
			quote = 0
		}
	}
	tok := string(buf)
	if tok == "end" {
		return "", false
	}
	return tok, true
}
