// Package warmup prefetches schedule documents into the cache so the
// first user queries after startup are served without an upstream round
// trip.
package warmup

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/N724/kcb/internal/logger"
	"github.com/N724/kcb/internal/schedule"
	"github.com/N724/kcb/internal/storage"
)

// Source provides raw schedule documents for a query.
type Source interface {
	Name() string
	FetchDocument(ctx context.Context, q schedule.Query) (string, error)
}

// Stats tracks warming results. Fields use atomic operations for
// concurrent access.
type Stats struct {
	Fetched atomic.Int64
	Skipped atomic.Int64
	Failed  atomic.Int64
}

// DefaultQueries covers the requests users issue most: today's
// schedule, the current week, and the full timetable.
func DefaultQueries() []schedule.Query {
	return []schedule.Query{
		{Mode: schedule.ModeToday},
		{Mode: schedule.ModeWeek},
		{Mode: schedule.ModeAll},
	}
}

// Run fetches the given queries concurrently and writes the documents to
// the cache. Queries already cached and fresh are skipped. Individual
// fetch failures are logged but do not abort the run.
func Run(ctx context.Context, db *storage.DB, source Source, queries []schedule.Query, log *logger.Logger) (*Stats, error) {
	stats := &Stats{}
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(2) // be gentle with the upstream endpoint

	for _, q := range queries {
		g.Go(func() error {
			key := q.CacheKey()

			if _, err := db.GetDocument(ctx, key); err == nil {
				stats.Skipped.Add(1)
				return nil
			}

			body, err := source.FetchDocument(ctx, q)
			if err != nil {
				stats.Failed.Add(1)
				log.WithError(err).WithField("query", key).Warn("warmup fetch failed")
				return nil
			}

			if err := db.SaveDocument(ctx, key, body); err != nil {
				stats.Failed.Add(1)
				log.WithError(err).WithField("query", key).Warn("warmup cache write failed")
				return nil
			}

			stats.Fetched.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return stats, fmt.Errorf("warmup aborted: %w", err)
	}

	log.WithField("fetched", stats.Fetched.Load()).
		WithField("skipped", stats.Skipped.Load()).
		WithField("failed", stats.Failed.Load()).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Info("Cache warmup complete")

	return stats, nil
}

// RunInBackground starts Run in a goroutine so server startup is not
// blocked. Panics are contained.
func RunInBackground(ctx context.Context, db *storage.DB, source Source, queries []schedule.Query, log *logger.Logger) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Panic in warmup goroutine")
			}
		}()
		if _, err := Run(ctx, db, source, queries, log); err != nil {
			log.WithError(err).Warn("Cache warmup did not complete")
		}
	}()
}
