package tmdb

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout reports that the upstream did not answer in time.
	ErrTimeout = errors.New("tmdb: request timed out")
	// ErrUnavailable reports a transport failure reaching the upstream.
	ErrUnavailable = errors.New("tmdb: upstream unreachable")
	// ErrUpstreamStatus reports a non-success HTTP status from the upstream.
	ErrUpstreamStatus = errors.New("tmdb: upstream returned an error status")
	// ErrBadResponse reports a body that is not valid JSON.
	ErrBadResponse = errors.New("tmdb: invalid upstream response")
	// ErrNotConfigured reports a missing API token.
	ErrNotConfigured = errors.New("tmdb: api token not configured")
)

// Error wraps a sentinel with the operation and, when known, the upstream status.
type Error struct {
	Op     string
	Status int
	Err    error
	Cause  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("tmdb %s: %v", e.Op, e.Err)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes the sentinel so callers can use errors.Is.
func (e *Error) Unwrap() error {
	return e.Err
}

// StatusOf returns the upstream HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var tErr *Error
	if errors.As(err, &tErr) {
		return tErr.Status
	}
	return 0
}
