// Package webhook exposes the chat endpoint: a JSON POST carrying one
// user message, dispatched to the bot modules and answered synchronously
// with reply texts.
package webhook

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/N724/kcb/internal/bot"
	"github.com/N724/kcb/internal/ctxutil"
	"github.com/N724/kcb/internal/logger"
	"github.com/N724/kcb/internal/metrics"
	"github.com/N724/kcb/internal/ratelimit"
)

// Incoming messages longer than this are rejected outright.
const maxMessageLength = 2000

// Request is one incoming chat message.
type Request struct {
	UserID  string `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// Response carries the ordered reply texts for one request. Replies is
// never null; an empty array means no module claimed the message.
type Response struct {
	RequestID string   `json:"request_id"`
	Replies   []string `json:"replies"`
}

// RateLimitedMessage is the reply sent when a user exceeds their quota.
const RateLimitedMessage = "🙏 查询太频繁了，请稍后再试～"

// Handler handles chat webhook requests
type Handler struct {
	registry *bot.Registry
	logger   *logger.Logger
	metrics  *metrics.Metrics
	limiter  *ratelimit.PerUserLimiter
	timeout  time.Duration
}

// Option configures a Handler.
type Option func(*Handler)

// WithMetrics attaches webhook metrics recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithRateLimiter throttles requests per user ID. Rejected requests get
// a polite reply instead of being processed.
func WithRateLimiter(l *ratelimit.PerUserLimiter) Option {
	return func(h *Handler) {
		h.limiter = l
	}
}

// NewHandler creates a new webhook handler. timeout bounds the
// processing of a single message, fetches included.
func NewHandler(registry *bot.Registry, log *logger.Logger, timeout time.Duration, opts ...Option) *Handler {
	h := &Handler{
		registry: registry,
		logger:   log.WithModule("webhook"),
		timeout:  timeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle is the Gin handler for the webhook endpoint
func (h *Handler) Handle(c *gin.Context) {
	start := time.Now()
	requestID := uuid.NewString()
	log := h.logger.WithRequestID(requestID)

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		log.WithError(err).Warn("malformed webhook request")
		h.record("message", "error", start)
		c.JSON(http.StatusBadRequest, gin.H{
			"request_id": requestID,
			"error":      "user_id and message are required",
		})
		return
	}

	if len(req.Message) > maxMessageLength {
		log.WithField("length", len(req.Message)).Warn("message too long")
		h.record("message", "error", start)
		c.JSON(http.StatusBadRequest, gin.H{
			"request_id": requestID,
			"error":      "message too long",
		})
		return
	}

	if h.limiter != nil && !h.limiter.Allow(req.UserID) {
		log.WithField("user_id", req.UserID).Warn("user rate limited")
		h.record("message", "rate_limited", start)
		c.JSON(http.StatusOK, Response{
			RequestID: requestID,
			Replies:   []string{RateLimitedMessage},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()
	ctx = ctxutil.WithRequestID(ctx, requestID)
	ctx = ctxutil.WithUserID(ctx, req.UserID)

	replies := h.registry.DispatchMessage(ctx, req.Message)

	status := "success"
	if replies == nil {
		status = "ignored"
		replies = []string{}
	}
	if err := ctx.Err(); errors.Is(err, context.DeadlineExceeded) {
		status = "timeout"
		log.WithField("user_id", req.UserID).Warn("message processing timed out")
	}
	h.record("message", status, start)

	log.WithField("user_id", req.UserID).
		WithField("status", status).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Info("message processed")

	c.JSON(http.StatusOK, Response{
		RequestID: requestID,
		Replies:   replies,
	})
}

func (h *Handler) record(eventType, status string, start time.Time) {
	if h.metrics != nil {
		h.metrics.RecordWebhook(eventType, status, time.Since(start).Seconds())
	}
}
