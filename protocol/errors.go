package protocol

import (
	"fmt"
)

// strError is a simple string-based error type that implements the error interface.
// It allows creating lightweight error values from string constants without
// allocating a new error for each instance.
type strError string

// Error implements the error interface by returning the string value of the error.
func (e strError) Error() string {
	return string(e)
}

// ErrMalformedAdvertisement is returned when the discovery response is not a smart-HTTP ref advertisement.
// This error should only be used with errors.Is() for comparison, not for type assertions.
const ErrMalformedAdvertisement = strError("malformed ref advertisement")

// MalformedAdvertisementError provides structured information about an advertisement the scanner could not read.
type MalformedAdvertisementError struct {
	// Reason describes what was wrong with the advertisement.
	Reason string
}

func (e *MalformedAdvertisementError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformedAdvertisement, e.Reason)
}

// Is enables errors.Is() compatibility with ErrMalformedAdvertisement.
func (e *MalformedAdvertisementError) Is(target error) bool {
	return target == ErrMalformedAdvertisement
}

// NewMalformedAdvertisementError creates a new MalformedAdvertisementError with the given reason.
func NewMalformedAdvertisementError(reason string) *MalformedAdvertisementError {
	return &MalformedAdvertisementError{Reason: reason}
}
