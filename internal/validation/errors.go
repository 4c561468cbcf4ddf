// Package validation provides the error taxonomy and argument guards shared by bandtint packages.
package validation

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingArgument matches any MissingArgumentError via errors.Is.
	ErrMissingArgument = errors.New("missing argument")

	// ErrInvalidFormat matches any FormatError via errors.Is.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrUnsupportedValue matches any UnsupportedValueError via errors.Is.
	ErrUnsupportedValue = errors.New("unsupported value")
)

// MissingArgumentError reports that a required argument was nil.
// Name is the parameter name exactly as the caller declared it.
type MissingArgumentError struct {
	Name string
}

// Error implements the error interface.
func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("missing argument: %s", e.Name)
}

// Is reports whether target is ErrMissingArgument.
func (e *MissingArgumentError) Is(target error) bool {
	return target == ErrMissingArgument
}

// FormatError reports text that does not match an expected grammar.
type FormatError struct {
	Input    string
	Expected string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("invalid format: %q", e.Input)
	}
	return fmt.Sprintf("invalid format: %q (expected %s)", e.Input, e.Expected)
}

// Is reports whether target is ErrInvalidFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// UnsupportedValueError reports an enumeration value with no table entry.
type UnsupportedValueError struct {
	Kind  string
	Value any
}

// Error implements the error interface.
func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("unsupported %s: %v", e.Kind, e.Value)
}

// Is reports whether target is ErrUnsupportedValue.
func (e *UnsupportedValueError) Is(target error) bool {
	return target == ErrUnsupportedValue
}

// MissingArgumentName returns the parameter name carried by err, if err is
// (or wraps) a MissingArgumentError.
func MissingArgumentName(err error) (string, bool) {
	var missing *MissingArgumentError
	if errors.As(err, &missing) {
		return missing.Name, true
	}
	return "", false
}
