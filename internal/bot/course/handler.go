// Package course implements the timetable query module: keyword
// matching, query normalization, document retrieval with caching and
// fallback, parsing and reply rendering.
package course

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/N724/kcb/internal/ctxutil"
	domerrors "github.com/N724/kcb/internal/errors"
	"github.com/N724/kcb/internal/logger"
	"github.com/N724/kcb/internal/metrics"
	"github.com/N724/kcb/internal/schedule"
	"github.com/N724/kcb/internal/storage"
)

const moduleName = "course"

// Source provides raw schedule documents for a query.
type Source interface {
	Name() string
	FetchDocument(ctx context.Context, q schedule.Query) (string, error)
}

// Keywords that route a message to this module. Checked in order, the
// longest matching prefix wins.
var keywords = []string{"课表帮助", "课程表", "课表", "kcb"}

// Handler handles timetable queries
type Handler struct {
	db       *storage.DB
	source   Source
	fallback Source
	dialect  schedule.Dialect
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

// NewHandler creates a new course handler. source is the primary
// document provider; a fallback can be attached via WithFallback.
func NewHandler(db *storage.DB, source Source, log *logger.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{
		db:      db,
		source:  source,
		dialect: schedule.DialectDefault,
		logger:  log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// CanHandle checks if the message is for the course module
func (h *Handler) CanHandle(text string) bool {
	_, _, ok := matchKeyword(text)
	return ok
}

// Name returns the module identifier
func (h *Handler) Name() string {
	return moduleName
}

// HandleMessage handles text messages for the course module
func (h *Handler) HandleMessage(ctx context.Context, text string) []string {
	log := h.logger.WithModule(moduleName)
	if requestID, ok := ctxutil.GetRequestID(ctx); ok {
		log = log.WithRequestID(requestID)
	}

	keyword, rest, ok := matchKeyword(text)
	if !ok {
		return nil
	}

	if keyword == "课表帮助" {
		return []string{HelpMessage()}
	}

	query, err := schedule.NormalizeQuery(strings.Fields(rest), h.dialect)
	if err != nil {
		var unrecognized *domerrors.UnrecognizedArgumentsError
		if errors.As(err, &unrecognized) {
			return []string{UnrecognizedArgumentsMessage(unrecognized.Tokens)}
		}
		log.WithError(err).Warn("query normalization failed")
		return []string{InvalidQueryMessage()}
	}

	raw, source, err := h.loadDocument(ctx, query)
	if err != nil {
		log.WithError(err).WithField("query", query.CacheKey()).Error("all document sources failed")
		return []string{FetchFailedMessage()}
	}

	doc, err := schedule.Parse(raw, h.dialect)
	if err != nil {
		h.recordParsed("unparseable")
		log.WithError(err).WithField("source", source).Error("document unparseable")
		return []string{UnparseableMessage()}
	}

	var replies []string
	if doc.HasWarnings() {
		h.recordParsed("degraded")
		for _, w := range doc.Warnings {
			h.recordWarning(w.Section)
		}
		log.WithField("warnings", len(doc.Warnings)).Info("document parsed with warnings")
		replies = append(replies, DegradedNoticeMessage())
	} else {
		h.recordParsed("ok")
	}

	return append(replies, RenderDocument(doc))
}

// loadDocument resolves a raw document: cache first, then the primary
// source, then the fallback. Fresh fetches are written back to the cache.
func (h *Handler) loadDocument(ctx context.Context, q schedule.Query) (string, string, error) {
	key := q.CacheKey()
	log := h.logger.WithModule(moduleName)

	if body, err := h.db.GetDocument(ctx, key); err == nil {
		h.recordCacheHit()
		return body, "cache", nil
	} else if !errors.Is(err, domerrors.ErrNotFound) && !errors.Is(err, domerrors.ErrCacheExpired) {
		log.WithError(err).Warn("cache lookup failed")
	}
	h.recordCacheMiss()

	body, err := h.source.FetchDocument(ctx, q)
	if err == nil {
		h.saveToCache(ctx, key, body)
		return body, h.source.Name(), nil
	}
	log.WithError(err).WithField("source", h.source.Name()).Warn("primary source failed")

	if h.fallback == nil {
		return "", "", err
	}

	body, fbErr := h.fallback.FetchDocument(ctx, q)
	if fbErr != nil {
		log.WithError(fbErr).WithField("source", h.fallback.Name()).Error("fallback source failed")
		return "", "", errors.Join(err, fbErr)
	}
	// Fallback documents are not cached; the next request should try
	// upstream again.
	return body, h.fallback.Name(), nil
}

func (h *Handler) saveToCache(ctx context.Context, key, body string) {
	// Cache writes use a short detached timeout so a slow disk cannot
	// hold up the reply. Tracing values survive the detach.
	saveCtx, cancel := context.WithTimeout(ctxutil.PreserveTracing(ctx), 2*time.Second)
	defer cancel()
	if err := h.db.SaveDocument(saveCtx, key, body); err != nil {
		h.logger.WithModule(moduleName).WithError(err).Warn("cache write failed")
	}
}

func (h *Handler) recordCacheHit() {
	if h.metrics != nil {
		h.metrics.RecordCacheHit(moduleName)
	}
}

func (h *Handler) recordCacheMiss() {
	if h.metrics != nil {
		h.metrics.RecordCacheMiss(moduleName)
	}
}

func (h *Handler) recordParsed(status string) {
	if h.metrics != nil {
		h.metrics.RecordDocumentParsed(h.dialect.Name, status)
	}
}

func (h *Handler) recordWarning(section schedule.SegmentName) {
	if h.metrics != nil {
		h.metrics.RecordParseWarning(string(section))
	}
}

// matchKeyword finds the routing keyword at the start of the trimmed
// text and returns the remainder after it.
func matchKeyword(text string) (keyword, rest string, ok bool) {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.HasPrefix(lower, kw) {
			return kw, strings.TrimSpace(text[len(kw):]), true
		}
	}
	return "", "", false
}
