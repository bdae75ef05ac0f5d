package dashboard

import (
	"context"
	"time"
)

// StaticService provides canned responses for development and tests.
type StaticService struct {
	Counters     []Counter
	Sections     []Section
	QuickActions []QuickAction
	Activity     []RecentEvent

	now func() time.Time
}

// RecentEvent is a canned activity entry placed Age before the time of each Overview call.
type RecentEvent struct {
	ID    string
	Title string
	Age   time.Duration
}

// NewStaticService returns a StaticService populated with the default landing content.
// now is read on every Overview call; nil means time.Now.
func NewStaticService(now func() time.Time) *StaticService {
	if now == nil {
		now = time.Now
	}
	return &StaticService{
		Counters: []Counter{
			{ID: "videos", Label: "Total Videos", Value: 128},
			{ID: "categories", Label: "Categories", Value: 12},
			{ID: "users", Label: "Active Users", Value: 3214},
			{ID: "storage", Label: "Storage Used", Value: 42, Unit: "GB"},
		},
		Sections: []Section{
			{Name: "Movies", Href: "/video-movies"},
			{Name: "Series", Href: "/series"},
			{Name: "Anime", Href: "/anime"},
			{Name: "Manga", Href: "/manga"},
		},
		QuickActions: []QuickAction{
			{ID: "categories", Title: "Categories", Subtitle: "Manage categories", Href: "/dashboard/categories"},
			{ID: "videos", Title: "Videos & Movies", Subtitle: "Browse content", Href: "/dashboard/video-movies"},
		},
		Activity: []RecentEvent{
			{ID: "activity-upload", Title: `New video "Intro to Tailwind" uploaded`, Age: 2 * time.Hour},
			{ID: "activity-category", Title: `Category "Documentaries" created`, Age: 26 * time.Hour},
		},
		now: now,
	}
}

// Overview returns the configured landing content with activity times anchored at the current clock.
func (s *StaticService) Overview(ctx context.Context) (Overview, error) {
	if s == nil {
		return Overview{}, ErrNotConfigured
	}
	clock := s.now
	if clock == nil {
		clock = time.Now
	}
	now := clock()

	activity := make([]ActivityItem, 0, len(s.Activity))
	for _, ev := range s.Activity {
		activity = append(activity, ActivityItem{ID: ev.ID, Title: ev.Title, Occurred: now.Add(-ev.Age)})
	}
	return Overview{
		Counters:     append([]Counter(nil), s.Counters...),
		Sections:     append([]Section(nil), s.Sections...),
		QuickActions: append([]QuickAction(nil), s.QuickActions...),
		Activity:     activity,
	}, nil
}
