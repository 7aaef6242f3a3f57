// Package pg wires PostgreSQL connectivity for the identity store using
// the pgx/v5 driver.
//
// It exposes three cooperating pieces: Config (pool limits and retry
// cadence from the environment), Connect (a retrying pool opener), and
// Migrate (goose/v3 migrations from an embedded filesystem, logged
// through slog). Error helpers such as IsDuplicateKeyError classify
// *pgconn.PgError codes so storage code never matches on SQLSTATE
// strings directly.
package pg
