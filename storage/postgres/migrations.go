package postgres

import "embed"

// Migrations carries the schema for the identity store; pass it to
// pg.Migrate at startup.
//
//go:embed migrations/*.sql
var Migrations embed.FS
