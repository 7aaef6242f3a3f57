package resolver

import "errors"

// Predefined errors for the resolver service.
var (
	// ErrIdentityStoreRequired indicates New was called without a store.
	ErrIdentityStoreRequired = errors.New("identity store is required")

	// ErrNilDocument indicates a resolve call without an environment
	// document.
	ErrNilDocument = errors.New("environment document is required")

	// ErrFeatureNotFound indicates the requested feature name resolved to
	// nothing in this environment.
	ErrFeatureNotFound = errors.New("feature not found")

	// ErrTraitsNotAllowed indicates a client-side key tried to write traits
	// in an environment that forbids it.
	ErrTraitsNotAllowed = errors.New("client keys are not allowed to write traits in this environment")

	// ErrEmptyIdentifier indicates an identify call without an identifier.
	ErrEmptyIdentifier = errors.New("identity identifier cannot be empty")

	// ErrIdentityNotFound indicates a trait write for an unknown identity.
	ErrIdentityNotFound = errors.New("identity not found")
)
