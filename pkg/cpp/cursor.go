// Package cpp implements the ncc source preprocessor.
package cpp

import (
	"fmt"
	"strings"
)

// Cursor scans a named text buffer one character at a time and tracks
// the current line.
type Cursor struct {
	input string
	pos   int
	line  int
	name  string
}

// NewCursor creates a cursor positioned at the start of input, line 1.
func NewCursor(input, name string) *Cursor {
	return NewCursorAt(input, name, 1)
}

// NewCursorAt creates a cursor whose line counter starts at line. It is
// used for text derived from another source, such as macro bodies.
func NewCursorAt(input, name string, line int) *Cursor {
	return &Cursor{
		input: input,
		line:  line,
		name:  name,
	}
}

// Name returns the source name.
func (c *Cursor) Name() string { return c.name }

// Line returns the current line number.
func (c *Cursor) Line() int { return c.line }

// EOF reports whether all input has been consumed.
func (c *Cursor) EOF() bool {
	return c.pos >= len(c.input)
}

// Peek returns the current character without consuming it, or 0 at end of input.
func (c *Cursor) Peek() byte {
	if c.pos >= len(c.input) {
		return 0
	}
	return c.input[c.pos]
}

// Eat consumes and returns the current character.
func (c *Cursor) Eat() byte {
	if c.pos >= len(c.input) {
		return 0
	}
	ch := c.input[c.pos]
	c.pos++
	if ch == '\n' {
		c.line++
	}
	return ch
}

// MatchChars consumes lit if the input continues with it exactly.
func (c *Cursor) MatchChars(lit string) bool {
	if !strings.HasPrefix(c.input[c.pos:], lit) {
		return false
	}
	for range lit {
		c.Eat()
	}
	return true
}

// MatchToken skips whitespace and comments, then consumes lit if it follows.
func (c *Cursor) MatchToken(lit string) (bool, error) {
	if err := c.skipWhitespace(); err != nil {
		return false, err
	}
	return c.MatchChars(lit), nil
}

// ExpectToken is like MatchToken but fails when lit does not follow.
func (c *Cursor) ExpectToken(lit string) error {
	ok, err := c.MatchToken(lit)
	if err != nil {
		return err
	}
	if !ok {
		return c.Errorf("expected %q", lit)
	}
	return nil
}

// EatSpaces skips horizontal whitespace.
func (c *Cursor) EatSpaces() {
	for !c.EOF() {
		switch c.Peek() {
		case ' ', '\t', '\r':
			c.Eat()
		default:
			return
		}
	}
}

func (c *Cursor) skipWhitespace() error {
	for !c.EOF() {
		switch {
		case isSpace(c.Peek()):
			c.Eat()
		case c.MatchChars("//"):
			c.EatComment()
		case c.MatchChars("/*"):
			if err := c.EatMultiComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

// ParseIdent consumes an identifier.
func (c *Cursor) ParseIdent() (string, error) {
	if !isIdentStart(c.Peek()) {
		return "", c.Errorf("expected identifier")
	}
	start := c.pos
	for !c.EOF() && isIdentContinue(c.Peek()) {
		c.Eat()
	}
	return c.input[start:c.pos], nil
}

// ParseStr consumes the opening delimiter at the cursor and returns the
// text up to end, which is consumed but not included.
func (c *Cursor) ParseStr(end byte) (string, error) {
	c.Eat()
	var sb strings.Builder
	for {
		if c.EOF() {
			return "", c.Errorf("end of input inside string, expected %q", end)
		}
		ch := c.Eat()
		if ch == end {
			return sb.String(), nil
		}
		sb.WriteByte(ch)
	}
}

// EatComment discards the rest of the line. The newline itself is kept.
func (c *Cursor) EatComment() {
	for !c.EOF() && c.Peek() != '\n' {
		c.Eat()
	}
}

// EatMultiComment discards input through the closing "*/". The opening
// "/*" must already be consumed.
func (c *Cursor) EatMultiComment() error {
	line := c.line
	for !c.EOF() {
		if c.MatchChars("*/") {
			return nil
		}
		c.Eat()
	}
	return &Error{File: c.name, Line: line, Msg: "end of input inside multi-line comment"}
}

// Errorf returns an error located at the current line.
func (c *Cursor) Errorf(format string, args ...any) *Error {
	return &Error{File: c.name, Line: c.line, Msg: fmt.Sprintf(format, args...)}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}
