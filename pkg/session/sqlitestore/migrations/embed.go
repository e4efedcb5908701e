// Package migrations embeds the credential store schema migrations.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
