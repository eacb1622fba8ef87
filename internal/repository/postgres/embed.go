package postgres

import "embed"

// Migrations holds the schema migrations applied at startup.
//
//go:embed migrations/*.up.sql
var Migrations embed.FS
