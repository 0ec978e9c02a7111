// Package db holds the embedded schema migrations applied with goose.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
