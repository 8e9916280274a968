// Package errors provides a const-able string error type and the sentinel
// errors shared by the cstlint engine.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSeparator separates the message from the cause in a wrapped error message.
const ErrSeparator = " -- "

// Error provides a string based error type allowing the definition of const errors in packages
type Error string

const (
	// ErrConfiguration marks malformed or contradictory configuration. It fails a single file.
	ErrConfiguration Error = "configuration error"
	// ErrSchedulingCycle marks a cycle in rule ordering constraints. It fails the whole run.
	ErrSchedulingCycle Error = "rule ordering cycle"
	// ErrTreeInvariant marks a mutation that broke the syntax tree.
	ErrTreeInvariant Error = "syntax tree invariant violated"
	// ErrNotConverged marks autocorrection that did not reach a fixed point.
	ErrNotConverged Error = "format did not converge"
	// ErrRuleFailure marks a rule that panicked or returned an error.
	ErrRuleFailure Error = "rule failed"
	// ErrTimeout marks a file whose processing exceeded the run's per-file deadline.
	ErrTimeout Error = "file processing timed out"
)

func (s Error) Error() string {
	return string(s)
}

// Is reports whether target carries the same message, either exactly or as the
// prefix of a wrapped message.
func (s Error) Is(target error) bool {
	msg := target.Error()
	return msg == string(s) || strings.HasPrefix(msg, string(s)+ErrSeparator)
}

// Wrap attaches err as the cause of s.
func (s Error) Wrap(err error) error {
	return wrappedError{cause: err, msg: string(s)}
}

// Wrapf attaches a formatted cause to s.
func (s Error) Wrapf(format string, args ...any) error {
	return wrappedError{cause: fmt.Errorf(format, args...), msg: string(s)}
}

type wrappedError struct {
	cause error
	msg   string
}

func (w wrappedError) Error() string {
	if w.cause != nil {
		return fmt.Sprintf("%s%s%v", w.msg, ErrSeparator, w.cause)
	}
	return w.msg
}

func (w wrappedError) Is(target error) bool {
	return Error(w.msg).Is(target)
}

func (w wrappedError) Unwrap() error {
	return w.cause
}

// The below are just wrappers as we are stealing the namespace of the errors package

// Is checks if err is equivalent to target
func Is(err error, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New returns a new error with the specified message.
func New(message string) error {
	return errors.New(message)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
