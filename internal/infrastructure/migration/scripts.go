package migration

import "embed"

// Scripts holds the versioned SQL shipped inside the binary.
//
//	scripts/goose/<dialect>/  goose files, one per version, Up and Down in the same file
//	scripts/migrate/          golang-migrate pairs for MySQL, one statement per file
//
//go:embed scripts
var Scripts embed.FS

const (
	gooseDir   = "scripts/goose"
	migrateDir = "scripts/migrate"
)

// SourceDir is where `migrate create` writes new goose files, relative to the repository root.
const SourceDir = "internal/infrastructure/migration/" + gooseDir
