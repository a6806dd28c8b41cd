package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates all necessary tables and indexes.
// Note: WAL mode is configured in db.go.
func InitSchema(db *sql.DB) error {
	if err := createDocumentsTable(db); err != nil {
		return err
	}

	return createLocalCoursesTable(db)
}

// createDocumentsTable creates the raw document cache, keyed by the
// canonical query key.
func createDocumentsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS documents (
		key TEXT PRIMARY KEY,
		body TEXT NOT NULL,
		cached_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_documents_cached_at ON documents(cached_at);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}

	return nil
}

// createLocalCoursesTable creates the locally maintained timetable used
// when the upstream endpoint is unavailable or disabled.
func createLocalCoursesTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS local_courses (
		weekday INTEGER NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		teacher TEXT,
		location TEXT,
		time_range TEXT,
		weeks TEXT,
		PRIMARY KEY (weekday, position)
	);
	CREATE INDEX IF NOT EXISTS idx_local_courses_weekday ON local_courses(weekday);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create local_courses table: %w", err)
	}

	return nil
}
