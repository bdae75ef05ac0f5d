package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, srv *httptest.Server, opts ...ClientOption) *Client {
	t.Helper()
	base := []ClientOption{WithBaseURL(srv.URL), WithRetry(3, time.Millisecond), WithRateLimit(0)}
	c, err := NewClient("test-token", append(base, opts...)...)
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresToken(t *testing.T) {
	t.Parallel()

	_, err := NewClient("  ")
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestClientSendsBearerAndEncodesQuery(t *testing.T) {
	t.Parallel()

	var gotAuth, gotQuery, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("query")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	t.Cleanup(srv.Close)

	body, err := newTestClient(t, srv).Search(context.Background(), "fast & furious")
	require.NoError(t, err)
	require.JSONEq(t, `{"results":[]}`, string(body))
	require.Equal(t, "Bearer test-token", gotAuth)
	require.Equal(t, "fast & furious", gotQuery)
	require.Equal(t, "/search/movie", gotPath)
}

func TestClientPaths(t *testing.T) {
	t.Parallel()

	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv)
	_, err := c.Trending(context.Background())
	require.NoError(t, err)
	_, err = c.Details(context.Background(), 550)
	require.NoError(t, err)
	require.Equal(t, []string{"/trending/movie/day", "/movie/550"}, paths)
}

func TestClientRetriesTransientStatuses(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	t.Cleanup(srv.Close)

	body, err := newTestClient(t, srv).Details(context.Background(), 1)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":1}`, string(body))
	require.EqualValues(t, 3, calls.Load())
}

func TestClientGivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	_, err := newTestClient(t, srv).Trending(context.Background())
	require.ErrorIs(t, err, ErrUpstreamStatus)
	require.Equal(t, http.StatusTooManyRequests, StatusOf(err))
	require.EqualValues(t, 4, calls.Load(), "one attempt plus three retries")
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	_, err := newTestClient(t, srv).Details(context.Background(), 42)
	require.ErrorIs(t, err, ErrUpstreamStatus)
	require.Equal(t, http.StatusNotFound, StatusOf(err))
	require.EqualValues(t, 1, calls.Load())

	var tErr *Error
	require.True(t, errors.As(err, &tErr))
	require.Equal(t, "details", tErr.Op)
}

func TestClientTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	_, err := newTestClient(t, srv, WithTimeout(50*time.Millisecond)).Trending(context.Background())
	require.ErrorIs(t, err, ErrTimeout)
}

func TestClientConnectionFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewClient("token", WithBaseURL(base), WithRetry(1, time.Millisecond))
	require.NoError(t, err)
	_, err = c.Trending(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestClientRejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	t.Cleanup(srv.Close)

	_, err := newTestClient(t, srv).Trending(context.Background())
	require.ErrorIs(t, err, ErrBadResponse)
}

func TestDelayBackoff(t *testing.T) {
	t.Parallel()

	c := &Client{backoff: 300 * time.Millisecond}
	require.Equal(t, 300*time.Millisecond, c.delay(1, 0))
	require.Equal(t, 600*time.Millisecond, c.delay(2, 0))
	require.Equal(t, 1200*time.Millisecond, c.delay(3, 0))
	require.Equal(t, 2*time.Second, c.delay(1, 2*time.Second))
	require.Equal(t, maxBackoff, c.delay(10, 0))
	require.Equal(t, 3*time.Second, parseRetryAfter("3"))
	require.Zero(t, parseRetryAfter("soon"))
}
