// Package fetch retrieves raw schedule documents from the upstream text
// endpoint. It handles retries with backoff, request deduplication, gzip
// decompression and legacy Chinese encodings.
package fetch

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/corpix/uarand"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"

	apperrors "github.com/N724/kcb/internal/errors"
	"github.com/N724/kcb/internal/logger"
	"github.com/N724/kcb/internal/metrics"
	"github.com/N724/kcb/internal/schedule"
)

// Upstream documents are small text blobs; anything past this is junk.
const maxBodyBytes = 1 << 20

// Client fetches schedule documents over HTTP with retries and
// singleflight deduplication.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	userAgents []string
	flights    *FlightGroup
	log        *logger.Logger
	metrics    *metrics.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgents pins the User-Agent pool, mainly for deterministic tests.
func WithUserAgents(agents []string) Option {
	return func(c *Client) {
		c.userAgents = agents
	}
}

// WithMetrics attaches fetch metrics recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a new upstream client
func NewClient(baseURL string, timeout time.Duration, maxRetries int, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxRetries: maxRetries,
		flights:    NewFlightGroup(),
		log:        log.WithModule("fetch"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name identifies this source in logs and metrics.
func (c *Client) Name() string {
	return "remote"
}

// BaseURL returns the configured upstream base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchDocument retrieves the raw document for a query. Concurrent calls
// with the same cache key share one upstream request.
func (c *Client) FetchDocument(ctx context.Context, q schedule.Query) (string, error) {
	key := q.CacheKey()
	start := time.Now()

	result, err, shared := c.flights.Do(ctx, key, func() (interface{}, error) {
		return c.fetchOnce(ctx, q)
	})

	if c.metrics != nil {
		if shared {
			c.metrics.RecordSingleflightDedup(c.Name())
		}
		c.metrics.RecordFetch(c.Name(), fetchStatus(err), time.Since(start).Seconds())
	}

	if err != nil {
		c.log.WithError(err).WithField("query", key).Warn("upstream fetch failed")
		return "", err
	}

	body, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("unexpected singleflight result type %T", result)
	}
	return body, nil
}

func fetchStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

func (c *Client) fetchOnce(ctx context.Context, q schedule.Query) (string, error) {
	reqURL := c.buildURL(q)
	c.log.WithField("url", reqURL).Debug("fetching schedule document")

	var body string
	err := RetryWithBackoff(ctx, c.maxRetries, 1*time.Second, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return Permanent(fmt.Errorf("failed to create request: %w", err))
		}

		req.Header.Set("User-Agent", c.randomUserAgent())
		req.Header.Set("Accept", "text/plain,text/html;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en-US;q=0.8,en;q=0.7")
		req.Header.Set("Accept-Encoding", "gzip")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return apperrors.NewFetchError(reqURL, 0, err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			ferr := apperrors.NewFetchError(reqURL, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode))
			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				return ferr // rate limited, retry with backoff
			case resp.StatusCode >= 500:
				return ferr // server error, retry
			default:
				return Permanent(ferr) // client error, don't retry
			}
		}

		text, err := decodeBody(resp)
		if err != nil {
			return apperrors.NewFetchError(reqURL, resp.StatusCode, err)
		}
		body = text
		return nil
	})
	if err != nil {
		return "", err
	}
	return body, nil
}

// buildURL maps a query onto upstream parameters. The endpoint selects
// a single day with day=1..7 and a teaching week with week=1..18; week
// and all modes are passed through as mode=.
func (c *Client) buildURL(q schedule.Query) string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return c.baseURL
	}

	params := u.Query()
	if q.Mode != schedule.ModeToday {
		params.Set("mode", string(q.Mode))
	}
	if q.HasWeekday {
		params.Set("day", strconv.Itoa(q.Weekday))
	}
	if q.HasTeachingWeek {
		params.Set("week", strconv.Itoa(q.TeachingWeek))
	}
	u.RawQuery = params.Encode()
	return u.String()
}

// decodeBody reads the response body as UTF-8 text, handling gzip
// compression and GBK/Big5 charsets still common on Chinese hosts.
func decodeBody(resp *http.Response) (string, error) {
	var reader io.Reader = io.LimitReader(resp.Body, maxBodyBytes)

	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(reader)
		if err != nil {
			return "", fmt.Errorf("failed to decompress gzip: %w", err)
		}
		defer func() { _ = gzipReader.Close() }()
		reader = gzipReader
	}

	contentType := strings.ToUpper(resp.Header.Get("Content-Type"))
	switch {
	case strings.Contains(contentType, "GBK"), strings.Contains(contentType, "GB2312"):
		reader = transform.NewReader(reader, simplifiedchinese.GBK.NewDecoder())
	case strings.Contains(contentType, "BIG5"):
		reader = transform.NewReader(reader, traditionalchinese.Big5.NewDecoder())
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	return string(data), nil
}

// randomUserAgent returns a random user agent string
func (c *Client) randomUserAgent() string {
	if len(c.userAgents) == 0 {
		return uarand.GetRandom()
	}
	return c.userAgents[time.Now().UnixNano()%int64(len(c.userAgents))]
}
