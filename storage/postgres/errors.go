package postgres

import "errors"

// Predefined errors for the postgres storage package.
var (
	// ErrPoolRequired indicates a store built without a connection pool.
	ErrPoolRequired = errors.New("postgres connection pool is required")

	// ErrQueryFailed wraps database errors from identity and trait queries.
	ErrQueryFailed = errors.New("postgres query failed")

	// ErrCorruptTraitValue indicates a stored trait value that no longer
	// parses as a typed scalar.
	ErrCorruptTraitValue = errors.New("corrupt trait value")
)
