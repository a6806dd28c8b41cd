// Package main provides the course schedule bot server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/N724/kcb/internal/bot"
	"github.com/N724/kcb/internal/bot/course"
	"github.com/N724/kcb/internal/buildinfo"
	"github.com/N724/kcb/internal/config"
	"github.com/N724/kcb/internal/fetch"
	"github.com/N724/kcb/internal/logger"
	"github.com/N724/kcb/internal/metrics"
	"github.com/N724/kcb/internal/ratelimit"
	"github.com/N724/kcb/internal/sentry"
	"github.com/N724/kcb/internal/storage"
	"github.com/N724/kcb/internal/timeouts"
	"github.com/N724/kcb/internal/warmup"
	"github.com/N724/kcb/internal/webhook"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)
	log.WithField("version", buildinfo.Short()).Info("Starting course schedule server")

	// Initialize Sentry error reporting (no-op when DSN is empty)
	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Warn("Failed to initialize Sentry, error reporting disabled")
	} else if sentry.IsEnabled() {
		log.WithField("environment", cfg.SentryEnvironment).Info("Sentry initialized")
	}

	// Connect to database with configured TTL
	db, err := storage.New(cfg.SQLitePath(), cfg.CacheTTL)
	if err != nil {
		log.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()
	log.WithField("path", cfg.SQLitePath()).
		WithField("cache_ttl", cfg.CacheTTL).
		Info("Database connected")

	// Create Prometheus registry
	registry := prometheus.NewRegistry()

	// Register Go and process collectors
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	// Create metrics
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	dialect := cfg.ParseDialect()

	// Local source serves the built-in timetable and acts as the fallback
	// when the upstream endpoint is unreachable
	local := storage.NewLocalSource(db, dialect, cfg.SemesterStart)
	if err := local.SeedDefault(context.Background()); err != nil {
		log.WithError(err).Error("Failed to seed local timetable")
	}

	// Pick the primary document source
	var upstream *fetch.Client
	courseOpts := []course.HandlerOption{
		course.WithMetrics(m),
		course.WithDialect(dialect),
	}

	var source course.Source
	if cfg.LocalSource {
		source = local
		log.Info("Serving from local timetable, upstream fetch disabled")
	} else {
		upstream = fetch.NewClient(
			cfg.APIURL,
			cfg.FetchTimeout,
			cfg.FetchMaxRetries,
			log,
			fetch.WithMetrics(m),
		)
		source = upstream
		courseOpts = append(courseOpts, course.WithFallback(local))
		log.WithField("api_url", cfg.APIURL).Info("Upstream client created")
	}

	// Warm the cache for the common queries so first requests skip the
	// upstream round trip
	if upstream != nil {
		warmup.RunInBackground(context.Background(), db, upstream, warmup.DefaultQueries(), log)
		log.Info("Background cache warming started")
	}

	// Register bot handlers
	bots := bot.NewRegistry()
	bots.Register(course.NewHandler(db, source, log, courseOpts...))

	// Create webhook handler with optional per-user rate limiting
	webhookOpts := []webhook.Option{webhook.WithMetrics(m)}
	if cfg.UserRateLimitTokens > 0 {
		limiter := ratelimit.NewPerUserLimiter(ratelimit.PerUserConfig{
			MaxTokens:  cfg.UserRateLimitTokens,
			RefillRate: cfg.UserRateLimitRefill,
		})
		defer limiter.Stop()
		webhookOpts = append(webhookOpts, webhook.WithRateLimiter(limiter))
		log.WithField("tokens", cfg.UserRateLimitTokens).
			WithField("refill_per_sec", cfg.UserRateLimitRefill).
			Info("Per-user rate limiting enabled")
	}
	webhookHandler := webhook.NewHandler(bots, log, cfg.WebhookTimeout, webhookOpts...)
	log.Info("Webhook handler created")

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(log))

	// Setup routes
	setupRoutes(router, webhookHandler, db, registry, upstream)

	// Create HTTP server with timeouts sized for small chat payloads
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  timeouts.ServerHTTPRead,
		WriteTimeout: timeouts.ServerHTTPWrite,
		IdleTimeout:  timeouts.ServerHTTPIdle,
	}

	// Start background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	// Cache cleanup goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Panic in cache cleanup goroutine")
			}
		}()
		cleanupExpiredCache(ctx, db, m, log)
	}()

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Failed to start server")
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Cancel context to stop background goroutines
	cancel()

	// Wait for goroutines to finish (with timeout)
	goDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(goDone)
	}()

	select {
	case <-goDone:
		log.Info("All background goroutines stopped")
	case <-time.After(timeouts.BackgroundStop):
		log.Warn("Timeout waiting for goroutines to stop")
	}

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown server gracefully
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	// Flush buffered Sentry events before exit
	sentry.Flush(2 * time.Second)

	// Close database connection
	if err := db.Close(); err != nil {
		log.WithError(err).Error("Failed to close database")
	}

	log.Info("Server stopped")
}
