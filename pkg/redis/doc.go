// Package redis wires Redis connectivity for the shared environment
// document cache using go-redis/v9.
//
// Connect parses a redis:// URL from Config, retries within a connect
// timeout, and verifies the connection with a ping before handing it to
// the caller. Healthcheck adapts the client to the standard
// func(context.Context) error health probe shape.
package redis
