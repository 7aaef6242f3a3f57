// Package postgres implements the resolver's identity store on
// PostgreSQL via pgx/v5.
//
// Identities are get-or-create rows unique per (environment, identifier);
// trait values are stored as JSONB scalars so the typed representation
// round-trips without a type column. Concurrent identify calls are
// resolved by unique constraints rather than locks: duplicate creates
// collapse onto the existing row and the last trait writer wins.
//
// The schema ships as embedded goose migrations in Migrations.
package postgres
