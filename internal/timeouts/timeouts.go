// Package timeouts provides centralized timeout constants for the application.
//
// These values are tuned for the course schedule service:
//   - the upstream endpoint serves small plain-text documents but can stall
//     under load, so fetch timeouts stay short with retries on top
//   - chat replies should come back within a few seconds for good UX
//   - SQLite in WAL mode tolerates brief write contention from the cleanup job
package timeouts

import "time"

// HTTP server timeouts
const (
	// ServerHTTPRead is the HTTP server read timeout.
	// Webhook payloads are small JSON bodies, so this stays short.
	ServerHTTPRead = 10 * time.Second

	// ServerHTTPWrite is the HTTP server write timeout.
	// Must accommodate the webhook processing bound plus serialization.
	ServerHTTPWrite = 30 * time.Second

	// ServerHTTPIdle is the HTTP server idle timeout for keep-alive connections.
	ServerHTTPIdle = 120 * time.Second
)

// Background job intervals
const (
	// CacheCleanupInitialDelay is how long after startup the first cache
	// cleanup runs. Lets the server stabilize before touching the database.
	CacheCleanupInitialDelay = time.Minute

	// CacheCleanupInterval is how often expired cached documents are deleted.
	CacheCleanupInterval = time.Hour
)

// Readiness probe
const (
	// ReadyUpstreamCheck bounds the upstream availability check in the
	// readiness handler so a stalled endpoint cannot hang the probe.
	ReadyUpstreamCheck = 3 * time.Second
)

// Shutdown
const (
	// BackgroundStop is how long shutdown waits for background goroutines
	// before moving on to closing the HTTP server.
	BackgroundStop = 5 * time.Second
)
