package dashboard

import (
	"time"

	mediadashboard "finitefield.org/media-web/internal/dashboard"
	"finitefield.org/media-web/internal/format"
)

// PageData represents the landing view payload.
type PageData struct {
	Title        string
	Subtitle     string
	Counters     []CounterView
	Sections     []SectionView
	QuickActions []QuickActionView
	Activity     []ActivityView
	ActivityNote string
}

// CounterView is a formatted headline statistic.
type CounterView struct {
	ID    string
	Label string
	Value string
}

// SectionView is a media section card.
type SectionView struct {
	Name     string
	Href     string
	LinkText string
}

// QuickActionView is a shortcut card.
type QuickActionView struct {
	ID       string
	Title    string
	Subtitle string
	Href     string
}

// ActivityView is a recent activity entry with a relative timestamp.
type ActivityView struct {
	ID       string
	Title    string
	When     string
	Occurred time.Time
}

// BuildPageData prepares the landing template payload.
func BuildPageData(overview mediadashboard.Overview, lang string, now time.Time) PageData {
	if now.IsZero() {
		now = time.Now()
	}
	return PageData{
		Title:        "Dashboard",
		Subtitle:     "Overview of activity and quick links to manage your content.",
		Counters:     toCounterViews(overview.Counters, lang),
		Sections:     toSectionViews(overview.Sections),
		QuickActions: toQuickActionViews(overview.QuickActions),
		Activity:     toActivityViews(overview.Activity, now),
		ActivityNote: "No more activity. This is a placeholder list.",
	}
}

func toCounterViews(list []mediadashboard.Counter, lang string) []CounterView {
	result := make([]CounterView, 0, len(list))
	for _, item := range list {
		result = append(result, CounterView{
			ID:    item.ID,
			Label: item.Label,
			Value: format.FmtQuantity(item.Value, item.Unit, lang),
		})
	}
	return result
}

func toSectionViews(list []mediadashboard.Section) []SectionView {
	result := make([]SectionView, 0, len(list))
	for _, item := range list {
		result = append(result, SectionView{
			Name:     item.Name,
			Href:     item.Href,
			LinkText: "Click here",
		})
	}
	return result
}

func toQuickActionViews(list []mediadashboard.QuickAction) []QuickActionView {
	result := make([]QuickActionView, 0, len(list))
	for _, item := range list {
		result = append(result, QuickActionView{
			ID:       item.ID,
			Title:    item.Title,
			Subtitle: item.Subtitle,
			Href:     item.Href,
		})
	}
	return result
}

func toActivityViews(list []mediadashboard.ActivityItem, now time.Time) []ActivityView {
	result := make([]ActivityView, 0, len(list))
	for _, item := range list {
		result = append(result, ActivityView{
			ID:       item.ID,
			Title:    item.Title,
			When:     format.FmtRelative(item.Occurred, now),
			Occurred: item.Occurred,
		})
	}
	return result
}
