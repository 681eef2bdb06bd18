// Package migrations embeds the SQL migration files so the binary can apply
// them without shipping the files separately.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
