package audit

import "errors"

// Predefined errors for the audit package.
var (
	// ErrRecordValidation indicates a record missing required fields.
	ErrRecordValidation = errors.New("audit record validation failed")

	// ErrStorageRequired indicates a logger or reader built without storage.
	ErrStorageRequired = errors.New("audit storage is required")
)
