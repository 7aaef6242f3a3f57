package webhook

import "errors"

// Predefined errors for the webhook package.
var (
	// ErrInvalidConfiguration indicates missing or invalid sender setup.
	ErrInvalidConfiguration = errors.New("invalid webhook configuration")

	// ErrInvalidPayload indicates the payload could not be prepared.
	ErrInvalidPayload = errors.New("invalid webhook payload")

	// ErrDeliveryFailed indicates every delivery attempt failed.
	ErrDeliveryFailed = errors.New("webhook delivery failed")

	// ErrSenderRequired indicates a dispatcher without a sender.
	ErrSenderRequired = errors.New("webhook sender is required")

	// ErrEndpointsRequired indicates a dispatcher without an endpoint source.
	ErrEndpointsRequired = errors.New("webhook endpoint source is required")
)
