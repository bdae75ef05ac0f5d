// Package markup renders catalog overviews written in markdown into
// sanitised HTML fragments.
package markup

import (
	"bytes"
	"html"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	rendererOnce sync.Once
	md           goldmark.Markdown
	policy       *bluemonday.Policy
)

func setup() {
	rendererOnce.Do(func() {
		md = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
		policy = newOverviewPolicy()
	})
}

func newOverviewPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("p", "span", "code")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// Render converts markdown to HTML and strips anything the overview policy
// does not allow. Blank input renders as an empty fragment.
func Render(source string) (template.HTML, error) {
	if strings.TrimSpace(source) == "" {
		return "", nil
	}
	setup()

	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes())), nil
}

// Plain returns a sanitised text-only version suitable for summaries and
// attribute values.
func Plain(source string, limit int) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}
	setup()

	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return ""
	}
	text := html.UnescapeString(bluemonday.StrictPolicy().Sanitize(buf.String()))
	text = strings.Join(strings.Fields(text), " ")
	if limit > 0 {
		runes := []rune(text)
		if len(runes) > limit {
			text = strings.TrimSpace(string(runes[:limit])) + "…"
		}
	}
	return text
}
