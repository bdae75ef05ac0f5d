package observability

import (
	"strings"
	"unicode"
)

// sanitizeString strips control characters and keeps at most limit runes, so
// request-derived values cannot forge log lines.
func sanitizeString(value string, limit int) string {
	if limit <= 0 {
		limit = 256
	}
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
	if runes := []rune(cleaned); len(runes) > limit {
		return string(runes[:limit])
	}
	return cleaned
}

// SanitizeRoute bounds a route pattern or path for logs and span attributes.
func SanitizeRoute(route string) string {
	if route == "" {
		return "/"
	}
	return sanitizeString(route, 180)
}

// SanitizeQuery bounds free-text search input before it reaches a log line.
func SanitizeQuery(q string) string {
	return sanitizeString(q, 80)
}
