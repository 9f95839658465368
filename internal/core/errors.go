// Package core holds the types shared across every component: the typed
// value union, the argument bag, the logger contract, and the error
// taxonomy every other package wraps.
package core

import (
	"errors"
	"strconv"
)

// The five error kinds from the error-handling design. Every concrete
// failure wraps one of these so callers can classify with errors.Is
// without depending on a specific message string.
var (
	ErrInput       = errors.New("core: input error")
	ErrIntegrity   = errors.New("core: integrity error")
	ErrMissing     = errors.New("core: missing")
	ErrUnsupported = errors.New("core: unsupported")
	ErrInternal    = errors.New("core: internal error")
)

// Diagnostic is a machine-readable, source-located error produced by the
// build-time front end (lexer, parser, validator, extractor).
type Diagnostic struct {
	Code    string
	Message string
	File    string
	Line    int
	Column  int
}

func (d *Diagnostic) Error() string {
	if d.File == "" {
		return d.Code + ": " + d.Message
	}
	return d.File + ":" + strconv.Itoa(d.Line) + ":" + strconv.Itoa(d.Column) + ": " + d.Code + ": " + d.Message
}

// Unwrap lets Diagnostic participate in errors.Is/As chains against the
// input-error sentinel: every diagnostic originates from malformed
// user-supplied source text.
func (d *Diagnostic) Unwrap() error {
	return ErrInput
}
