package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domerrors "github.com/N724/kcb/internal/errors"
)

// SaveDocument inserts or refreshes a cached document under its query key
func (db *DB) SaveDocument(ctx context.Context, key, body string) error {
	query := `
		INSERT INTO documents (key, body, cached_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			body = excluded.body,
			cached_at = excluded.cached_at
	`
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query, key, body, time.Now().Unix())
	if err != nil {
		slog.ErrorContext(ctx, "failed to save document",
			"key", key,
			"error", err)
		return fmt.Errorf("failed to save document: %w", err)
	}

	// Warn on slow queries (>100ms)
	if duration := time.Since(start); duration > 100*time.Millisecond {
		slog.WarnContext(ctx, "slow database operation",
			"operation", "SaveDocument",
			"duration_ms", duration.Milliseconds(),
			"key", key)
	}
	return nil
}

// GetDocument retrieves a cached document body by query key.
// Returns ErrNotFound when the key has never been cached and
// ErrCacheExpired when the entry exists but exceeded the TTL.
func (db *DB) GetDocument(ctx context.Context, key string) (string, error) {
	query := `SELECT body, cached_at FROM documents WHERE key = ?`

	var body string
	var cachedAt int64
	err := db.conn.QueryRowContext(ctx, query, key).Scan(&body, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domerrors.ErrNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query document",
			"key", key,
			"error", err)
		return "", fmt.Errorf("query document: %w", err)
	}

	if cachedAt <= db.getTTLTimestamp() {
		return "", domerrors.ErrCacheExpired
	}
	return body, nil
}

// PurgeExpiredDocuments deletes cache entries past the TTL and returns
// how many rows were removed. Called periodically by the cleanup job.
func (db *DB) PurgeExpiredDocuments(ctx context.Context) (int64, error) {
	query := `DELETE FROM documents WHERE cached_at <= ?`

	result, err := db.conn.ExecContext(ctx, query, db.getTTLTimestamp())
	if err != nil {
		slog.ErrorContext(ctx, "failed to purge expired documents", "error", err)
		return 0, fmt.Errorf("purge expired documents: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge expired documents: %w", err)
	}
	return removed, nil
}

// CountDocuments returns the number of cached documents, expired or not
func (db *DB) CountDocuments(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}

// ReplaceLocalCourses swaps the whole locally maintained timetable in one
// transaction. Positions are assigned per weekday in slice order.
func (db *DB) ReplaceLocalCourses(ctx context.Context, courses []LocalCourse) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM local_courses`); err != nil {
		return fmt.Errorf("clear local courses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO local_courses (weekday, position, name, teacher, location, time_range, weeks)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	positions := make(map[int]int)
	for _, c := range courses {
		pos := positions[c.Weekday]
		positions[c.Weekday] = pos + 1
		if _, err := stmt.ExecContext(ctx, c.Weekday, pos, c.Name, c.Teacher, c.Location, c.TimeRange, c.Weeks); err != nil {
			slog.ErrorContext(ctx, "failed to insert local course",
				"course", c.Name,
				"error", err)
			return fmt.Errorf("insert local course %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit local courses: %w", err)
	}
	return nil
}

// GetLocalCoursesByWeekday returns the local timetable rows for one
// weekday, ordered by position. An empty day returns an empty slice.
func (db *DB) GetLocalCoursesByWeekday(ctx context.Context, weekday int) ([]LocalCourse, error) {
	query := `
		SELECT weekday, position, name, teacher, location, time_range, weeks
		FROM local_courses
		WHERE weekday = ?
		ORDER BY position
	`
	rows, err := db.conn.QueryContext(ctx, query, weekday)
	if err != nil {
		return nil, fmt.Errorf("query local courses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanLocalCourses(rows)
}

// GetAllLocalCourses returns the full local timetable ordered by weekday
// then position.
func (db *DB) GetAllLocalCourses(ctx context.Context) ([]LocalCourse, error) {
	query := `
		SELECT weekday, position, name, teacher, location, time_range, weeks
		FROM local_courses
		ORDER BY weekday, position
	`
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query local courses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanLocalCourses(rows)
}

func scanLocalCourses(rows *sql.Rows) ([]LocalCourse, error) {
	courses := []LocalCourse{}
	for rows.Next() {
		var c LocalCourse
		if err := rows.Scan(&c.Weekday, &c.Position, &c.Name, &c.Teacher, &c.Location, &c.TimeRange, &c.Weeks); err != nil {
			return nil, fmt.Errorf("scan local course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate local courses: %w", err)
	}
	return courses, nil
}
