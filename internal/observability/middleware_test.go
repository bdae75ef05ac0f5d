package observability

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"finitefield.org/media-web/internal/requestctx"
)

func decodeLogLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &entry))
		lines = append(lines, entry)
	}
	return lines
}

func TestRequestLoggerMiddlewareLogsRouteAndStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, zapcore.DebugLevel)

	r := chi.NewRouter()
	r.Use(InjectLoggerMiddleware(logger))
	r.Use(RequestLoggerMiddleware())
	r.Get("/dashboard/video-movies/{id}", func(w http.ResponseWriter, r *http.Request) {
		requestctx.Logger(r.Context()).Debug("handler reached")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/video-movies/zz", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	lines := decodeLogLines(t, &buf)
	require.Len(t, lines, 2)
	require.Equal(t, "handler reached", lines[0]["message"])
	require.Equal(t, "/dashboard/video-movies/zz", lines[0]["path"])

	done := lines[1]
	require.Equal(t, "request completed", done["message"])
	require.Equal(t, "WARN", done["severity"])
	require.Equal(t, "/dashboard/video-movies/{id}", done["route"])
	require.EqualValues(t, http.StatusNotFound, done["status"])
	require.EqualValues(t, len("missing"), done["bytes"])
}

func TestRecoveryMiddlewareWritesJSONError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, zapcore.InfoLevel)

	r := chi.NewRouter()
	r.Use(InjectLoggerMiddleware(logger))
	r.Use(RequestLoggerMiddleware())
	r.Use(RecoveryMiddleware(nil))
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("kaboom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "internal_server_error", payload["error"])

	lines := decodeLogLines(t, &buf)
	require.Len(t, lines, 2)
	require.Equal(t, "panic recovered", lines[0]["message"])
	require.Equal(t, "ERROR", lines[1]["severity"])
}

func TestTraceMiddlewareHonoursIncomingTraceparent(t *testing.T) {
	const traceID = "4bf92f3577b34da6a3ce929d0e0e4736"

	var seen string
	h := TraceMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestctx.TraceID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("traceparent", "00-"+traceID+"-00f067aa0ba902b7-01")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, traceID, seen)
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	require.Equal(t, "/", SanitizeRoute(""))
	require.Equal(t, "GET", sanitizeString("GE\x00T", 10))
	require.Equal(t, "ééé", sanitizeString("éééé", 3))
	require.Equal(t, "ab", sanitizeString("a\nb", 0))
	require.Len(t, SanitizeQuery(strings.Repeat("x", 200)), 80)
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	t.Parallel()

	logger, err := NewLogger("nonsense")
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	debug, err := NewLogger("DEBUG")
	require.NoError(t, err)
	require.True(t, debug.Core().Enabled(zapcore.DebugLevel))
}
