package config

import (
	"fmt"

	"github.com/cstlint/cstlint/errors"
)

// Error describes a malformed scope file or a property value that does not parse.
type Error struct {
	// Path is the scope file, or the linted file when a resolved value is invalid.
	Path  string
	Key   string
	Value string
	Err   error
}

var _ error = (*Error)(nil)

func (e *Error) Error() string {
	msg := e.Path
	if e.Key != "" {
		msg += fmt.Sprintf(": %s=%q", e.Key, e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return errors.ErrConfiguration.Error() + errors.ErrSeparator + msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{errors.ErrConfiguration}
	}
	return []error{errors.ErrConfiguration, e.Err}
}
