package postgresql

import "embed"

// Migrations holds the presale schema migrations for golang-migrate's iofs source.
//
//go:embed migrations/*.sql
var Migrations embed.FS

const MigrationsDir = "migrations"
