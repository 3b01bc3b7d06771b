// Package migrations carries the schema migration files compiled into the
// binary, so deployments never depend on a migrations directory being
// present on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
