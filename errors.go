package resolveref

import (
	"errors"
	"fmt"
)

// ErrInvalidQuery is returned when a RefQuery is missing mandatory fields or names an invalid repository.
// No request is made for an invalid query.
var ErrInvalidQuery = errors.New("invalid query")

// InvalidQueryError provides structured information about an invalid RefQuery.
// It implements the error interface and supports errors.Is/As for the underlying ErrInvalidQuery.
type InvalidQueryError struct {
	Field  string
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidQuery, e.Field, e.Reason)
}

func (e *InvalidQueryError) Unwrap() error {
	return ErrInvalidQuery
}

// NewInvalidQueryError creates a new InvalidQueryError for the given field.
func NewInvalidQueryError(field, reason string) *InvalidQueryError {
	return &InvalidQueryError{
		Field:  field,
		Reason: reason,
	}
}
