package nav

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Item represents a top-level navigation item.
type Item struct {
	Path  string
	Label string
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href   string
	Label  string
	Active bool
}

// Crumb represents a breadcrumb entry.
type Crumb struct {
	Href   string
	Label  string
	Active bool
}

// Main is the primary navigation definition.
var Main = []Item{
	{Path: "/dashboard", Label: "Dashboard"},
	{Path: "/dashboard/video-movies", Label: "Videos & Movies"},
	{Path: "/dashboard/categories", Label: "Categories"},
}

// labels overrides the prettified segment label for known slugs.
var labels = map[string]string{
	"dashboard":    "Dashboard",
	"video-movies": "Videos & Movies",
	"categories":   "Categories",
	"edit":         "Edit",
}

// Build renders navigation items with active state given the current path.
// Only the most specific matching item is marked active.
func Build(currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	if currentPath == "/" {
		currentPath = "/dashboard"
	}
	best := -1
	for i, it := range Main {
		if isActive(it.Path, currentPath) && (best < 0 || len(it.Path) > len(Main[best].Path)) {
			best = i
		}
	}
	items := make([]RenderedItem, 0, len(Main))
	for i, it := range Main {
		items = append(items, RenderedItem{
			Href:   it.Path,
			Label:  it.Label,
			Active: i == best,
		})
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	if currentPath == itemPath {
		return true
	}
	return strings.HasPrefix(currentPath, itemPath+"/")
}

// Breadcrumbs builds breadcrumb entries from the current path. The last
// segment may be replaced by leaf, e.g. a movie title instead of its id.
func Breadcrumbs(currentPath, leaf string) []Crumb {
	if currentPath == "" || currentPath == "/" {
		currentPath = "/dashboard"
	}
	clean := path.Clean(currentPath)
	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")

	crumbs := make([]Crumb, 0, len(parts))
	href := ""
	for i, part := range parts {
		if part == "" {
			continue
		}
		href += "/" + part
		label := titleFromSegment(part)
		last := i == len(parts)-1
		if last && leaf != "" {
			label = leaf
		}
		crumbs = append(crumbs, Crumb{Href: href, Label: label, Active: last})
	}
	return crumbs
}

func titleFromSegment(seg string) string {
	if label, ok := labels[seg]; ok {
		return label
	}
	s := strings.ReplaceAll(seg, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return cases.Title(language.English).String(s)
}
