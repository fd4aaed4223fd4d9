package migrations

import "embed"

// FS contains embedded SQLite migrations for API storage.
//
//go:embed *.sql
var FS embed.FS
