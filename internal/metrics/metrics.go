package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Upstream fetch metrics
	FetchRequestsTotal   *prometheus.CounterVec
	FetchDurationSeconds *prometheus.HistogramVec

	// Cache metrics
	CacheHitsTotal     *prometheus.CounterVec
	CacheMissesTotal   *prometheus.CounterVec
	CachePurgedTotal   prometheus.Counter
	CacheSizeDocuments prometheus.Gauge

	// Webhook metrics
	WebhookDurationSeconds *prometheus.HistogramVec
	WebhookRequestsTotal   *prometheus.CounterVec

	// Parse pipeline metrics
	DocumentsParsedTotal *prometheus.CounterVec
	ParseWarningsTotal   *prometheus.CounterVec

	// Singleflight metrics
	SingleflightDedupTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		FetchRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "kcb_fetch_requests_total",
				Help: "Total number of upstream fetch requests by source and status",
			},
			[]string{"source", "status"}, // status: success, error, timeout
		),

		FetchDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kcb_fetch_duration_seconds",
				Help:    "Upstream fetch duration in seconds by source",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20}, // matches 10s timeout + retries
			},
			[]string{"source"}, // source: remote, local
		),

		CacheHitsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "kcb_cache_hits_total",
				Help: "Total number of cache hits by module",
			},
			[]string{"module"},
		),

		CacheMissesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "kcb_cache_misses_total",
				Help: "Total number of cache misses by module",
			},
			[]string{"module"},
		),

		CachePurgedTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "kcb_cache_purged_total",
				Help: "Total number of expired cached documents removed by the cleanup job",
			},
		),

		CacheSizeDocuments: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "kcb_cache_size_documents",
				Help: "Current number of cached documents in the database",
			},
		),

		WebhookDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kcb_webhook_duration_seconds",
				Help:    "Webhook processing duration in seconds by event type",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 15},
			},
			[]string{"event_type"},
		),

		WebhookRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "kcb_webhook_requests_total",
				Help: "Total number of webhook requests by event type and status",
			},
			[]string{"event_type", "status"}, // status: success, error, ignored, timeout, rate_limited
		),

		DocumentsParsedTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "kcb_documents_parsed_total",
				Help: "Total number of documents run through the parse pipeline by dialect and status",
			},
			[]string{"dialect", "status"}, // status: ok, degraded, unparseable
		),

		ParseWarningsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "kcb_parse_warnings_total",
				Help: "Total number of parse warnings by document section",
			},
			[]string{"section"}, // section: timestamp, courseBlock, weatherBlock, curfewLine
		),

		SingleflightDedupTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "kcb_singleflight_dedup_total",
				Help: "Total number of deduplicated fetches (requests that waited instead of executing)",
			},
			[]string{"source"},
		),
	}

	return m
}

// RecordFetch records an upstream fetch with status
func (m *Metrics) RecordFetch(source, status string, duration float64) {
	m.FetchRequestsTotal.WithLabelValues(source, status).Inc()
	m.FetchDurationSeconds.WithLabelValues(source).Observe(duration)
}

// RecordCacheHit records a cache hit
func (m *Metrics) RecordCacheHit(module string) {
	m.CacheHitsTotal.WithLabelValues(module).Inc()
}

// RecordCacheMiss records a cache miss
func (m *Metrics) RecordCacheMiss(module string) {
	m.CacheMissesTotal.WithLabelValues(module).Inc()
}

// RecordCachePurge records the result of one cleanup run
func (m *Metrics) RecordCachePurge(deleted int64, remaining int) {
	m.CachePurgedTotal.Add(float64(deleted))
	m.CacheSizeDocuments.Set(float64(remaining))
}

// RecordWebhook records a webhook request
func (m *Metrics) RecordWebhook(eventType, status string, duration float64) {
	m.WebhookRequestsTotal.WithLabelValues(eventType, status).Inc()
	m.WebhookDurationSeconds.WithLabelValues(eventType).Observe(duration)
}

// RecordDocumentParsed records one pipeline run
func (m *Metrics) RecordDocumentParsed(dialect, status string) {
	m.DocumentsParsedTotal.WithLabelValues(dialect, status).Inc()
}

// RecordParseWarning records a parse warning for a document section
func (m *Metrics) RecordParseWarning(section string) {
	m.ParseWarningsTotal.WithLabelValues(section).Inc()
}

// RecordSingleflightDedup records a deduplicated fetch
func (m *Metrics) RecordSingleflightDedup(source string) {
	m.SingleflightDedupTotal.WithLabelValues(source).Inc()
}
