package catalog

import "strings"

// Categories returns the selectable category options: the AllCategories sentinel
// followed by every distinct record category in order of first occurrence.
func Categories(records []Record) []string {
	out := make([]string, 0, len(records)+1)
	out = append(out, AllCategories)
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.Category]; ok {
			continue
		}
		seen[rec.Category] = struct{}{}
		out = append(out, rec.Category)
	}
	return out
}

// Matches reports whether rec satisfies both the text query and the category selection.
//
// A query that is blank after trimming matches every title; otherwise the title must
// contain the query case-insensitively. The category must equal rec.Category exactly
// unless it is AllCategories.
func Matches(rec Record, query, category string) bool {
	return matchesQuery(rec, query) && matchesCategory(rec, category)
}

func matchesQuery(rec Record, query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	return strings.Contains(strings.ToLower(rec.Title), strings.ToLower(query))
}

func matchesCategory(rec Record, category string) bool {
	return category == AllCategories || rec.Category == category
}

// DeriveView returns the records matching query and category, preserving input order.
// The result is never nil; an empty slice is the "no results" outcome.
func DeriveView(records []Record, query, category string) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if Matches(rec, query, category) {
			out = append(out, rec)
		}
	}
	return out
}
