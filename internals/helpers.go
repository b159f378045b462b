package internals

import (
	"errors"
	"fmt"
	"strings"
)

// WithSource returns an error whose message carries a caret-annotated snippet
// of src for every positioned language error in err. Other errors are
// returned unchanged.
//
//	ParseError at 2:7: expected ':' after while condition, found newline
//
//	   1 | a = 1
//	   2 | while a < 3
//	     |       ^
func WithSource(err error, src string) error {
	if err == nil {
		return nil
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		parts := joined.Unwrap()
		rendered := make([]error, 0, len(parts))
		for _, part := range parts {
			rendered = append(rendered, WithSource(part, src))
		}
		return errors.Join(rendered...)
	}

	var langErr *Error
	if !errors.As(err, &langErr) || !langErr.Positioned() {
		return err
	}

	return &snippetError{
		cause:   langErr,
		message: snippet(src, langErr),
	}
}

type snippetError struct {
	cause   *Error
	message string
}

func (s *snippetError) Error() string { return s.message }
func (s *snippetError) Unwrap() error { return s.cause }

// one line of context before and after the failing line
func snippet(src string, e *Error) string {
	lines := strings.Split(src, "\n")
	line := e.Row
	col := e.Col
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", e.Kind, e.Row, e.Col, e.Msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) && strings.TrimSpace(lines[line]) != "" {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return strings.TrimRight(b.String(), "\n")
}
