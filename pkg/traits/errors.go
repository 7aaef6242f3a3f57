package traits

import "errors"

// Predefined errors for the traits package.
var (
	// ErrNullValue indicates a null trait value reached value parsing.
	// Null is a delete marker and is handled before parsing.
	ErrNullValue = errors.New("trait value is null")

	// ErrInvalidValue indicates the raw trait value could not be decoded.
	ErrInvalidValue = errors.New("invalid trait value")

	// ErrValueTooLong indicates a string trait value exceeds the stored limit.
	ErrValueTooLong = errors.New("trait value string is too long")

	// ErrEmptyKey indicates a trait update with an empty key.
	ErrEmptyKey = errors.New("trait key cannot be empty")
)
