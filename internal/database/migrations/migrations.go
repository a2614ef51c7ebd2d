// Package migrations embeds the goose SQL migrations for the journal schema.
package migrations

import "embed"

// FS holds the numbered migration files.
//
//go:embed *.sql
var FS embed.FS
