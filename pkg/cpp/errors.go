package cpp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDepthExceeded is wrapped by errors reporting runaway include or
// macro expansion nesting.
var ErrDepthExceeded = errors.New("maximum nesting depth exceeded")

// Error is a preprocessing failure located in a source.
type Error struct {
	File string
	Line int
	Msg  string
	Err  error // underlying cause, if any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// IncludeKind distinguishes between <file> and "file" includes.
type IncludeKind int

const (
	IncludeQuoted IncludeKind = iota // "file" form
	IncludeAngled                    // <file> form
)

func (k IncludeKind) String() string {
	if k == IncludeAngled {
		return "angled"
	}
	return "quoted"
}

// IncludeError indicates that an include file could not be read.
type IncludeError struct {
	Path string
	Kind IncludeKind
	Err  error
}

func (e *IncludeError) Error() string {
	return fmt.Sprintf("could not open include file %q (%s): %v", e.Path, e.Kind, e.Err)
}

func (e *IncludeError) Unwrap() error { return e.Err }

// depthError builds the error for nesting beyond the configured limit.
func depthError(cur *Cursor, limit int, stack []string) *Error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "maximum nesting depth %d exceeded", limit)
	if len(stack) > 0 {
		sb.WriteString("\ninclude stack:\n")
		for i, f := range stack {
			sb.WriteString("  ")
			sb.WriteString(strings.Repeat("  ", i))
			sb.WriteString(f)
			sb.WriteString("\n")
		}
	}
	return &Error{File: cur.Name(), Line: cur.Line(), Msg: strings.TrimSuffix(sb.String(), "\n"), Err: ErrDepthExceeded}
}
