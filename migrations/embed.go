// Package migrations embeds the receipt archive schema migrations, applied
// in lexical order at startup.
package migrations

import "embed"

//go:embed *.up.sql
var FS embed.FS
