// Package migrations embeds the schema migrations of every storage backend.
// Each backend reads its own sub-directory.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
