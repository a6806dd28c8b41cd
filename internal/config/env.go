// Package config defines environment variable keys for configuration.
package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Upstream
	EnvAPIURL          = "KCB_API_URL"
	EnvFetchTimeout    = "KCB_FETCH_TIMEOUT"
	EnvFetchMaxRetries = "KCB_FETCH_MAX_RETRIES"

	// Server
	EnvPort            = "KCB_PORT"
	EnvLogLevel        = "KCB_LOG_LEVEL"
	EnvShutdownTimeout = "KCB_SHUTDOWN_TIMEOUT"
	EnvWebhookTimeout  = "KCB_WEBHOOK_TIMEOUT"

	// Rate limiting (tokens = burst capacity, refill = tokens per second;
	// zero tokens disables per-user limiting)
	EnvUserRateLimitTokens = "KCB_USER_RATE_LIMIT_TOKENS"
	EnvUserRateLimitRefill = "KCB_USER_RATE_LIMIT_REFILL"

	// Data
	EnvDataDir  = "KCB_DATA_DIR"
	EnvCacheTTL = "KCB_CACHE_TTL"

	// Parsing
	EnvDialect       = "KCB_DIALECT"
	EnvLocalSource   = "KCB_LOCAL_SOURCE"
	EnvSemesterStart = "KCB_SEMESTER_START"

	// Sentry Feature
	EnvSentryDSN         = "KCB_SENTRY_DSN"
	EnvSentryEnvironment = "KCB_SENTRY_ENVIRONMENT"
	EnvSentrySampleRate  = "KCB_SENTRY_SAMPLE_RATE"
)
