// Package migrations embeds the SQLite schema migrations for the local
// draft store, applied through the goose programmatic API.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
