package domain

import "errors"

// Fatal preconditions. Anything else that goes wrong during an
// estimation is absorbed into margin widening, grade downgrade, and the
// caveat list rather than surfaced as an error.
var (
	// ErrInvalidLocation marks a missing or out-of-range GPS coordinate.
	ErrInvalidLocation = errors.New("invalid or missing location")

	// ErrNoImages marks a request carrying zero photos.
	ErrNoImages = errors.New("no images supplied")

	// ErrInsufficientVisionInput marks a request where no supplied photo
	// survived quality filtering.
	ErrInsufficientVisionInput = errors.New("no usable image for vision analysis")
)
