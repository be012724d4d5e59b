package command

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// NotFoundError reports an unknown command or tool name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tool %q not found", e.Name)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError reports a binding or validation failure for an invocation.
type ValidationError struct {
	Option string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// MissingRequired builds the validation error for absent mandatory options.
func MissingRequired(names ...string) *ValidationError {
	msg := "missing required options:"
	for _, n := range names {
		msg += " --" + n
	}
	opt := ""
	if len(names) > 0 {
		opt = names[0]
	}
	return &ValidationError{Option: opt, Reason: msg}
}

// Invalid builds a validation error for a single option.
func Invalid(option, format string, args ...any) *ValidationError {
	return &ValidationError{
		Option: option,
		Reason: fmt.Sprintf("invalid value for option %q: %s", option, fmt.Sprintf(format, args...)),
	}
}
