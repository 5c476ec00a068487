package config

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a configuration validation failure.
type ErrorKind string

const (
	// KindMutuallyExclusive indicates two options that cannot both be set are both present.
	KindMutuallyExclusive ErrorKind = "MutuallyExclusiveFields"

	// KindMissingRequired indicates a field required by other settings is absent.
	KindMissingRequired ErrorKind = "MissingRequiredField"

	// KindOutOfRange indicates a numeric field outside its valid domain.
	KindOutOfRange ErrorKind = "OutOfRangeValue"

	// KindInvalidEnum indicates a string field that is not one of its legal values.
	KindInvalidEnum ErrorKind = "InvalidEnumValue"

	// KindNotANumber indicates a field expected to be numeric that fails numeric coercion.
	KindNotANumber ErrorKind = "NotANumber"
)

// ValidationError is returned when a raw card configuration violates a rule.
type ValidationError struct {
	// Kind is the failure classification.
	Kind ErrorKind `json:"kind"`

	// Field is the dotted path of the offending field (e.g. "data_period.hours_to_show").
	Field string `json:"field,omitempty"`

	// Message is the human-readable, field-specific explanation.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("WindRoseCard: %s (field=%s)", e.Message, e.Field)
	}
	return "WindRoseCard: " + e.Message
}

// Is implements error equality checking for errors.Is. Two validation
// errors match when their kinds match.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is.
var (
	ErrMutuallyExclusive = &ValidationError{Kind: KindMutuallyExclusive}
	ErrMissingRequired   = &ValidationError{Kind: KindMissingRequired}
	ErrOutOfRange        = &ValidationError{Kind: KindOutOfRange}
	ErrInvalidEnum       = &ValidationError{Kind: KindInvalidEnum}
	ErrNotANumber        = &ValidationError{Kind: KindNotANumber}
)

func newValidationError(kind ErrorKind, field, format string, args ...any) *ValidationError {
	return &ValidationError{
		Kind:    kind,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

func mutuallyExclusive(field, format string, args ...any) *ValidationError {
	return newValidationError(KindMutuallyExclusive, field, format, args...)
}

func missingRequired(field, format string, args ...any) *ValidationError {
	return newValidationError(KindMissingRequired, field, format, args...)
}

func outOfRange(field, format string, args ...any) *ValidationError {
	return newValidationError(KindOutOfRange, field, format, args...)
}

func invalidEnum(field, format string, args ...any) *ValidationError {
	return newValidationError(KindInvalidEnum, field, format, args...)
}

func notANumber(field, format string, args ...any) *ValidationError {
	return newValidationError(KindNotANumber, field, format, args...)
}

// KindOf returns the kind of the first ValidationError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *ValidationError
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries a ValidationError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsValidationError reports whether err is a configuration validation failure.
func IsValidationError(err error) bool {
	_, ok := KindOf(err)
	return ok
}
