package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"finitefield.org/media-web/internal/metrics"
)

const (
	// DefaultBaseURL is the public v3 API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"

	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 3
	defaultBackoff    = 300 * time.Millisecond
	maxBackoff        = 5 * time.Second
	maxBodyBytes      = 4 << 20
)

var tracer = otel.Tracer("finitefield.org/media-web/internal/tmdb")

// retryable lists upstream statuses worth another attempt.
var retryable = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
}

// Upstream is the subset of the metadata API used by the proxy handlers.
type Upstream interface {
	Trending(ctx context.Context) ([]byte, error)
	Details(ctx context.Context, id int64) ([]byte, error)
	Search(ctx context.Context, query string) ([]byte, error)
}

// Client is a GET-only client for the movie metadata API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			c.baseURL = base
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit caps outbound requests per second. Zero disables limiting.
func WithRateLimit(rps int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), rps)
	}
}

// WithRetry sets the retry count and base backoff. Attempt n waits backoff*2^(n-1).
func WithRetry(maxRetries int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		if maxRetries >= 0 {
			c.maxRetries = maxRetries
		}
		if backoff >= 0 {
			c.backoff = backoff
		}
	}
}

// WithLogger sets the logger used for failed calls.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a client authenticating with a bearer token.
func NewClient(token string, opts ...ClientOption) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNotConfigured
	}
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
		maxRetries: defaultMaxRetries,
		backoff:    defaultBackoff,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if _, err := url.Parse(c.baseURL); err != nil {
		return nil, fmt.Errorf("tmdb: invalid base url: %w", err)
	}
	return c, nil
}

// Trending returns the raw daily trending movie list.
func (c *Client) Trending(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "trending", "/trending/movie/day", nil)
}

// Details returns the raw record for a single movie id.
func (c *Client) Details(ctx context.Context, id int64) ([]byte, error) {
	return c.get(ctx, "details", "/movie/"+strconv.FormatInt(id, 10), nil)
}

// Search returns the raw search result page for query.
func (c *Client) Search(ctx context.Context, query string) ([]byte, error) {
	return c.get(ctx, "search", "/search/movie", url.Values{"query": []string{query}})
}

func (c *Client) get(ctx context.Context, op, path string, params url.Values) (body []byte, err error) {
	ctx, span := tracer.Start(ctx, "tmdb."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	span.SetAttributes(
		attribute.String("http.request.method", http.MethodGet),
		attribute.String("url.path", path),
	)

	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = outcomeOf(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
			c.logger.Warn("tmdb request failed",
				zap.String("op", op),
				zap.String("path", path),
				zap.Int("status", StatusOf(err)),
				zap.Error(err),
			)
		} else {
			span.SetStatus(codes.Ok, "")
		}
		metrics.UpstreamRequestsTotal.WithLabelValues(op, outcome).Inc()
	}()

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			span.SetAttributes(attribute.Int("http.request.resend_count", attempt))
		}
		status, retryAfter, payload, callErr := c.do(ctx, target)
		if callErr == nil && status >= 200 && status < 300 {
			span.SetAttributes(attribute.Int("http.response.status_code", status))
			if !json.Valid(payload) {
				return nil, &Error{Op: op, Status: status, Err: ErrBadResponse}
			}
			return payload, nil
		}

		var failure *Error
		switch {
		case callErr != nil:
			failure = classifyTransport(op, callErr)
		default:
			span.SetAttributes(attribute.Int("http.response.status_code", status))
			failure = &Error{Op: op, Status: status, Err: ErrUpstreamStatus}
		}

		if attempt >= c.maxRetries || !c.shouldRetry(ctx, status, callErr) {
			return nil, failure
		}
		if waitErr := sleepContext(ctx, c.delay(attempt+1, retryAfter)); waitErr != nil {
			return nil, classifyTransport(op, waitErr)
		}
	}
}

func (c *Client) do(ctx context.Context, target string) (int, time.Duration, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return 0, 0, nil, ctxErr
			}
			return 0, 0, nil, fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, 0, nil, err
	}
	return resp.StatusCode, parseRetryAfter(resp.Header.Get("Retry-After")), payload, nil
}

func (c *Client) shouldRetry(ctx context.Context, status int, callErr error) bool {
	if ctx.Err() != nil {
		return false
	}
	if callErr != nil {
		// only connection failures are retried; timeouts surface immediately
		return !errors.Is(callErr, context.Canceled) && errors.Is(classifyTransport("", callErr), ErrUnavailable)
	}
	return retryable[status]
}

func (c *Client) delay(retry int, retryAfter time.Duration) time.Duration {
	d := c.backoff << (retry - 1)
	if retryAfter > d {
		d = retryAfter
	}
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}

func classifyTransport(op string, err error) *Error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Op: op, Err: ErrTimeout, Cause: err}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &Error{Op: op, Err: ErrTimeout, Cause: err}
	default:
		return &Error{Op: op, Err: ErrUnavailable, Cause: err}
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrUpstreamStatus):
		return "status"
	case errors.Is(err, ErrBadResponse):
		return "bad_response"
	default:
		return "error"
	}
}

func parseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
