// Package migrations embeds the schema files applied at API start and by
// cmd/migrate.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed *.sql
var files embed.FS

// GetFS returns the embedded migration files
func GetFS() fs.FS {
	return files
}
