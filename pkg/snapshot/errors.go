package snapshot

import "errors"

// Predefined errors for the snapshot package.
var (
	// ErrEnvironmentNotFound indicates no environment exists for the
	// requested api key.
	ErrEnvironmentNotFound = errors.New("environment not found")

	// ErrCacheUnavailable indicates the cache backend failed; callers fall
	// back to a direct load.
	ErrCacheUnavailable = errors.New("snapshot cache unavailable")

	// ErrEncodeDocument indicates the environment document could not be
	// serialized for caching.
	ErrEncodeDocument = errors.New("failed to encode environment document")

	// ErrNilLoader indicates a Source was constructed without a loader.
	ErrNilLoader = errors.New("snapshot loader is required")
)
