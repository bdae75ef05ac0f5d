// Package httpx writes JSON responses and the shared error envelope used by /api routes.
package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"finitefield.org/media-web/internal/requestctx"
)

// Error is an API failure rendered as
// {"error","message","status","request_id","trace_id", ...details}.
type Error struct {
	Code      string
	Message   string
	Status    int
	RequestID string
	TraceID   string
	Details   map[string]any
}

// NewError builds an Error. A zero status means 500.
func NewError(code, message string, status int) Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return Error{
		Code:    sanitize(code, 80),
		Message: sanitize(message, 512),
		Status:  status,
	}
}

// NotFound is the envelope for unknown API routes.
func NotFound() Error {
	return NewError("not_found", "Resource not found", http.StatusNotFound)
}

// MethodNotAllowed is the envelope for unsupported methods on known API routes.
func MethodNotAllowed() Error {
	return NewError("method_not_allowed", "Method not allowed", http.StatusMethodNotAllowed)
}

// BadRequest is a 400 envelope with the given code.
func BadRequest(code, message string) Error {
	return NewError(code, message, http.StatusBadRequest)
}

func (e Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

// WithDetails attaches extra top-level fields. Keys that collide with the
// envelope fields are dropped when written.
func (e Error) WithDetails(details map[string]any) Error {
	if len(details) == 0 {
		return e
	}
	e.Details = make(map[string]any, len(details))
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

func (e Error) payload(ctx context.Context) map[string]any {
	out := make(map[string]any, len(e.Details)+5)
	for k, v := range e.Details {
		out[k] = v
	}
	out["error"] = e.Code
	out["message"] = e.Message
	out["status"] = e.Status

	delete(out, "request_id")
	if id := firstNonEmpty(e.RequestID, middleware.GetReqID(ctx)); id != "" {
		out["request_id"] = sanitize(id, 80)
	}
	delete(out, "trace_id")
	if id := firstNonEmpty(e.TraceID, requestctx.TraceID(ctx)); id != "" {
		out["trace_id"] = sanitize(id, 64)
	}
	return out
}

// WriteError writes err as JSON. Error responses are never cached.
func WriteError(ctx context.Context, w http.ResponseWriter, err Error) {
	if err.Status == 0 {
		err.Status = http.StatusInternalServerError
	}
	w.Header().Set("Cache-Control", "no-store")
	_ = WriteJSON(w, err.Status, err.payload(ctx))
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteRawJSON writes an already encoded JSON document, such as a proxied upstream body.
func WriteRawJSON(w http.ResponseWriter, status int, body []byte) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}

// sanitize flattens control characters to spaces and caps the length.
func sanitize(value string, limit int) string {
	value = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, strings.TrimSpace(value))
	if limit > 0 && len(value) > limit {
		value = value[:limit]
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
