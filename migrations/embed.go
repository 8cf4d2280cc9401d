// Package migrations compiles the SQL migration files into the binary
// so the daemon can bring its schema up to date with no files on disk.
package migrations

import (
	"embed"

	"github.com/nerrad567/busylight-core/internal/infrastructure/database"
)

//go:embed *.sql
var files embed.FS

// Importing this package for side effects hands the embedded files to
// the database package, which applies them during startup.
func init() {
	database.MigrationsFS = files
	database.MigrationsDir = "."
}
