// Package course provides functional options for Handler configuration.
package course

import (
	"github.com/N724/kcb/internal/metrics"
	"github.com/N724/kcb/internal/schedule"
)

// HandlerOption is a functional option for configuring Handler.
type HandlerOption func(*Handler)

// WithFallback sets a secondary document source tried when the primary
// source fails.
func WithFallback(s Source) HandlerOption {
	return func(h *Handler) {
		h.fallback = s
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) HandlerOption {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithDialect selects the document dialect used for normalization and
// parsing.
func WithDialect(d schedule.Dialect) HandlerOption {
	return func(h *Handler) {
		h.dialect = d
	}
}
