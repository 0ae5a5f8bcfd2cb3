// Package migrations embeds the SQL migrations for the op-journal store.
package migrations

import "embed"

//go:embed journal/*.sql
var JournalFS embed.FS
