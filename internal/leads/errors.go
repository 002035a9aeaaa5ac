package leads

import "errors"

var (
	// ErrInvalidName is returned when the name is missing
	ErrInvalidName = errors.New("name is required")

	// ErrInvalidPhone is returned when the phone fails the form's policy
	ErrInvalidPhone = errors.New("a valid phone number is required")

	// ErrInvalidPurpose is returned for an unknown purchase purpose
	ErrInvalidPurpose = errors.New("unknown purchase purpose")

	// ErrInvalidStatus is returned for an unknown lifecycle status
	ErrInvalidStatus = errors.New("unknown lead status")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")

	// ErrDuplicateSubmission is returned when the dedupe guard rejects a
	// repeated submission inside the configured window
	ErrDuplicateSubmission = errors.New("duplicate submission")
)
