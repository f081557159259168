package querylang

import (
	"errors"
	"fmt"
)

// ErrNotSupported marks well-formed input that asks for something the
// grammar cannot express (unknown options, macros, arithmetic, ...).
var ErrNotSupported = errors.New("operation not supported")

// SyntaxError reports malformed query text.
type SyntaxError struct {
	Option string
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Option == "" {
		return e.Msg
	}
	return fmt.Sprintf("invalid %s: %s", e.Option, e.Msg)
}

func syntaxErr(option, format string, args ...any) error {
	return &SyntaxError{Option: option, Msg: fmt.Sprintf(format, args...)}
}

func notSupported(format string, args ...any) error {
	return &UnsupportedError{What: fmt.Sprintf(format, args...)}
}

// UnsupportedError names the construct that was rejected. It matches
// ErrNotSupported with errors.Is.
type UnsupportedError struct {
	What string
}

func (e *UnsupportedError) Error() string {
	return ErrNotSupported.Error() + ": " + e.What
}

// Is reports ErrNotSupported as a match.
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrNotSupported
}
