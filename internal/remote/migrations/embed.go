// Package migrations embeds the PostgreSQL schema migrations for the
// document store, applied through the goose programmatic API.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
