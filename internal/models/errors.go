package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for client input.
var (
	ErrInvalidCursor = errors.New("invalid cursor")
	ErrInvalidLimit  = errors.New("limit must be between 1 and 100")
)

// Sentinel errors for entity lookups.
var (
	ErrCallNotFound     = errors.New("call not found")
	ErrJobNotFound      = errors.New("job not found")
	ErrContactNotFound  = errors.New("contact not found")
	ErrFollowUpNotFound = errors.New("follow-up not found")
)

// Sentinel errors for auth.
var (
	ErrNoSession          = errors.New("no session")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// InvalidFilterError names the filter field and value that failed validation.
type InvalidFilterError struct {
	Field string
	Value string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid value %q for filter %q", e.Value, e.Field)
}

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d", field, maxLen)
}

// ErrMissingField returns an error indicating a required field is absent.
func ErrMissingField(field string) error {
	return fmt.Errorf("%s is required", field)
}
