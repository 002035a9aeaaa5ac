package projects

import "errors"

var (
	// ErrInvalidName is returned when the project name is missing
	ErrInvalidName = errors.New("project name is required")

	// ErrInvalidStatus is returned for an unknown construction stage
	ErrInvalidStatus = errors.New("unknown project status")

	// ErrInvalidPriceRange is returned when the price band is inconsistent
	ErrInvalidPriceRange = errors.New("invalid price range")

	// ErrProjectNotFound is returned when a project is not found
	ErrProjectNotFound = errors.New("project not found")
)
