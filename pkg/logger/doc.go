// Package logger builds configured slog loggers for the engine.
//
// New applies functional options over production-safe defaults (JSON at
// info level) and wraps the handler in a ContextHandler that injects
// request-scoped attributes at log time. Attr helpers (EnvironmentID,
// FeatureName, Identifier, SegmentID) keep attribute keys consistent
// across packages.
package logger
