// Package migrations embeds goose SQL migrations shared by the PostgreSQL
// and SQLite zone stores.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
