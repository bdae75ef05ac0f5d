package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FmtCount formats n with locale-aware grouping.
// Example: FmtCount(3214, "en") => "3,214"
func FmtCount(n int64, lang string) string {
	return printer(lang).Sprintf("%d", n)
}

// FmtQuantity formats a counter value followed by an optional unit.
// Example: FmtQuantity(42, "GB", "en") => "42 GB"
func FmtQuantity(n int64, unit, lang string) string {
	out := FmtCount(n, lang)
	if unit = strings.TrimSpace(unit); unit != "" {
		out += " " + unit
	}
	return out
}

// FmtRating renders a rating with one decimal. Negative or NaN ratings render as "-".
func FmtRating(r float64) string {
	if math.IsNaN(r) || r < 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", r)
}

// FmtYear renders a release year, or "-" when unknown.
func FmtYear(y int) string {
	if y <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d", y)
}

// FmtRelative describes how long before now t happened.
func FmtRelative(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	case d < 48*time.Hour:
		return "Yesterday"
	default:
		return plural(int(d/(24*time.Hour)), "day")
	}
}

// FmtDate formats time in a locale-friendly short form.
func FmtDate(t time.Time, lang string) string {
	switch strings.ToLower(lang) {
	case "ja":
		return t.Format("2006-01-02")
	default:
		return t.Format("Jan 2, 2006")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

func printer(lang string) *message.Printer {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}
