// Package migrations embeds the Postgres schema so the server and the
// migrate command ship it inside their binaries.
package migrations

import "embed"

// FS holds every *.sql migration in this directory
//
//go:embed *.sql
var FS embed.FS
