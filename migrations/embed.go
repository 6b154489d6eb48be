// Package migrations embeds the SQL schema migrations that are applied
// at startup.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
