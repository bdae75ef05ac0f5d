package dashboard

import (
	"context"
	"errors"
	"time"
)

// ErrNotConfigured indicates the dashboard service dependency has not been provided.
var ErrNotConfigured = errors.New("dashboard service not configured")

// Service exposes data retrieval for the landing view.
type Service interface {
	// Overview returns everything the landing view renders.
	Overview(ctx context.Context) (Overview, error)
}

// Overview aggregates the landing view sections.
type Overview struct {
	Counters     []Counter
	Sections     []Section
	QuickActions []QuickAction
	Activity     []ActivityItem
}

// Counter is a headline statistic card. Value is a raw quantity; Unit, when set,
// is appended after formatting (e.g. "GB").
type Counter struct {
	ID    string
	Label string
	Value int64
	Unit  string
}

// Section is a media section entry point.
type Section struct {
	Name string
	Href string
}

// QuickAction is a shortcut card linking into management pages.
type QuickAction struct {
	ID       string
	Title    string
	Subtitle string
	Href     string
}

// ActivityItem represents a recent event for the activity list.
type ActivityItem struct {
	ID       string
	Title    string
	Occurred time.Time
}
