package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	mediadashboard "finitefield.org/media-web/internal/dashboard"
)

func TestBuildPageData(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	overview, err := mediadashboard.NewStaticService(func() time.Time { return now }).Overview(context.Background())
	require.NoError(t, err)

	data := BuildPageData(overview, "en", now)

	values := map[string]string{}
	for _, c := range data.Counters {
		values[c.Label] = c.Value
	}
	require.Equal(t, map[string]string{
		"Total Videos": "128",
		"Categories":   "12",
		"Active Users": "3,214",
		"Storage Used": "42 GB",
	}, values)

	require.Len(t, data.Sections, 4)
	require.Equal(t, "/video-movies", data.Sections[0].Href)
	require.Equal(t, "Click here", data.Sections[0].LinkText)

	require.Len(t, data.QuickActions, 2)
	require.Equal(t, "Browse content", data.QuickActions[1].Subtitle)

	require.Equal(t, "2 hours ago", data.Activity[0].When)
	require.Equal(t, "Yesterday", data.Activity[1].When)
}

func TestBuildPageDataEmptyOverview(t *testing.T) {
	t.Parallel()

	data := BuildPageData(mediadashboard.Overview{}, "en", time.Time{})
	require.NotNil(t, data.Counters)
	require.Empty(t, data.Counters)
	require.Empty(t, data.Activity)
	require.Equal(t, "Dashboard", data.Title)
}
