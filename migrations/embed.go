// Package migrations carries the SQL schema migrations compiled into the binaries.
package migrations

import "embed"

// FS holds every NNNNNN_name.{up,down}.sql file in this directory.
//
//go:embed *.sql
var FS embed.FS
