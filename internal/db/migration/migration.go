// Package migration embeds the goose migrations of the database schema.
package migration

import "embed"

//go:embed *.sql
var FS embed.FS
