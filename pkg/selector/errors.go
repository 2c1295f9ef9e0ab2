package selector

import (
	"errors"
	"fmt"
)

// ErrInvalidSelector is the sentinel all selector parse errors unwrap to.
var ErrInvalidSelector = errors.New("invalid selector")

// Error is a selector error whose message repeats the offending selector.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return ErrInvalidSelector }

func newError(format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// SyntaxError is returned by the attribute-selector parser and carries the
// code point offset where parsing failed.
type SyntaxError struct {
	Message  string
	Selector string
	Pos      int
}

func (e *SyntaxError) Error() string { return e.Message }

func (e *SyntaxError) Unwrap() error { return ErrInvalidSelector }
