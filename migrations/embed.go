// Package migrations embeds the SQL schema files for every store.
package migrations

import "embed"

//go:embed credentials/*.sql stub/sqlite/*.sql stub/postgres/*.sql
var FS embed.FS
