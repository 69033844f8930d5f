package workflow

import "errors"

// Failure kinds of the design workflow. Callers match them with errors.Is;
// wrapped errors carry the human-readable detail.
var (
	// ErrInvalidTransition is returned when the trigger is not legal from the
	// current status, or when the status changed under a concurrent writer.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrUnauthorized is returned when the actor lacks the role or ownership
	// required by the trigger.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidQuoteAmount is returned for non-positive or non-numeric amounts.
	ErrInvalidQuoteAmount = errors.New("invalid quote amount")

	// ErrInvalidInput is returned for malformed request fields other than amounts.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when the design id is unknown.
	ErrNotFound = errors.New("design not found")

	// ErrMissingAddress is returned when a customer converts without any
	// shipping address on file.
	ErrMissingAddress = errors.New("missing address")

	// ErrAlreadyConverted is returned when a design already produced an order.
	ErrAlreadyConverted = errors.New("already converted")

	// ErrDependencyFailure is returned when an external collaborator failed.
	ErrDependencyFailure = errors.New("dependency failure")
)
