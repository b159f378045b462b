package internals

import (
	"errors"
	"fmt"
)

// This file handles the error kinds raised by the lexer, parser and evaluator,
// and an error collector obj used by the parser

type Kind string

const (
	LexError          Kind = "LexError"
	ParseError        Kind = "ParseError"
	NameError         Kind = "NameError"
	TypeError         Kind = "TypeError"
	ZeroDivisionError Kind = "ZeroDivisionError"
	OverflowError     Kind = "OverflowError"
)

// Error is a language level failure. Row and Col are 1-based, zero means the
// position is unknown (runtime errors raised by the value model).
type Error struct {
	Kind Kind
	Msg  string
	Row  int
	Col  int
}

func (e *Error) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s: %s (line %d, column %d)", e.Kind, e.Msg, e.Row, e.Col)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Positioned reports whether the error points to a location in the source.
func (e *Error) Positioned() bool { return e.Row > 0 }

func NewError(kind Kind, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, a...)}
}

func NewErrorAt(kind Kind, row, col int, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, a...), Row: row, Col: col}
}

// KindOf returns the kind of the first language error found in err's chain.
func KindOf(err error) (Kind, bool) {
	var langErr *Error
	if errors.As(err, &langErr) {
		return langErr.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries a language error of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

type ErrorCollector struct {
	Errors []error
}

func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		Errors: make([]error, 0),
	}
}

func (ec *ErrorCollector) Add(err error) {
	if err == nil {
		return
	}
	ec.Errors = append(ec.Errors, err)
}

func (ec *ErrorCollector) Len() int { return len(ec.Errors) }

// Err returns nil when nothing was collected, the error itself when there is
// exactly one, and the joined errors otherwise.
func (ec *ErrorCollector) Err() error {
	switch len(ec.Errors) {
	case 0:
		return nil
	case 1:
		return ec.Errors[0]
	default:
		return errors.Join(ec.Errors...)
	}
}
