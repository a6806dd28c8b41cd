// Package main provides the course schedule bot server entry point.
package main

import (
	"context"
	"time"

	"github.com/N724/kcb/internal/logger"
	"github.com/N724/kcb/internal/metrics"
	"github.com/N724/kcb/internal/storage"
	"github.com/N724/kcb/internal/timeouts"
)

// cleanupExpiredCache periodically removes expired cached documents from the database
func cleanupExpiredCache(ctx context.Context, db *storage.DB, m *metrics.Metrics, log *logger.Logger) {
	// Run initial cleanup after a short delay to let the server stabilize
	select {
	case <-ctx.Done():
		return
	case <-time.After(timeouts.CacheCleanupInitialDelay):
		performCacheCleanup(ctx, db, m, log)
	}

	ticker := time.NewTicker(timeouts.CacheCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			performCacheCleanup(ctx, db, m, log)
		}
	}
}

// performCacheCleanup executes one cleanup pass
func performCacheCleanup(ctx context.Context, db *storage.DB, m *metrics.Metrics, log *logger.Logger) {
	start := time.Now()

	deleted, err := db.PurgeExpiredDocuments(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to purge expired documents")
		return
	}

	remaining, err := db.CountDocuments(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to count cached documents")
		return
	}

	if m != nil {
		m.RecordCachePurge(deleted, remaining)
	}

	log.WithField("deleted", deleted).
		WithField("remaining", remaining).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Debug("Cache cleanup complete")
}
