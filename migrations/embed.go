// Package migrations embeds SQL migration files into the binary,
// so the schema can be applied without the files on disk.
package migrations

import (
	"embed"

	"github.com/nerrad567/blindbridge/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
