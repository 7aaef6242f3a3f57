// Package serialize shapes resolved flags and traits for the SDK wire
// format and applies sensitive-data redaction.
//
// Redaction is deliberately a boundary concern: the resolution engine
// always produces complete flags, and this package nulls out feature
// metadata and state provenance when the environment's hide_sensitive_data
// setting is on. Keeping the two apart means the engine's determinism
// contract is unaffected by presentation policy.
package serialize
