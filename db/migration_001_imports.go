package db

import (
	"database/sql"
)

func init() {
	RegisterMigration(Migration{
		Version:     1,
		Description: "Add imports journal table",
		Up:          migration001_imports,
	})
}

// Timestamps are epoch milliseconds
func migration001_imports(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS imports (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			project_ref TEXT NOT NULL,
			project_name TEXT,
			file_count INTEGER NOT NULL DEFAULT 0,
			skipped_binary INTEGER NOT NULL DEFAULT 0,
			command_count INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			error TEXT,
			started_at INTEGER NOT NULL,
			finished_at INTEGER
		);
		CREATE INDEX IF NOT EXISTS idx_imports_started_at ON imports(started_at DESC);
		CREATE INDEX IF NOT EXISTS idx_imports_project_ref ON imports(project_ref);
	`)
	return err
}
