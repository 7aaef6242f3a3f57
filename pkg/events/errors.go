package events

import "errors"

// Predefined errors for the events package.
var (
	// ErrBrokerClosed indicates an emit after the broker was closed.
	ErrBrokerClosed = errors.New("event broker is closed")
)
