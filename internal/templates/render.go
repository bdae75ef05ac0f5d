// Package templates parses the embedded HTML templates and renders pages
// and htmx fragments.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"finitefield.org/media-web/internal/nav"
)

//go:embed html/*.tmpl
var files embed.FS

// shared templates are parsed into every page set.
var shared = []string{"html/layout.tmpl", "html/catalog_results.tmpl"}

// pages maps page names to their content template file.
var pages = map[string]string{
	"dashboard": "html/dashboard.tmpl",
	"catalog":   "html/catalog.tmpl",
	"movie":     "html/movie.tmpl",
	"error":     "html/error.tmpl",
}

// Page wraps page-specific data with layout chrome.
type Page struct {
	Title  string
	Path   string
	Nav    []nav.RenderedItem
	Crumbs []nav.Crumb
	Body   any
}

// NewPage builds the layout payload for path. leaf replaces the last breadcrumb label.
func NewPage(title, path, leaf string, body any) Page {
	return Page{
		Title:  title,
		Path:   path,
		Nav:    nav.Build(path),
		Crumbs: nav.Breadcrumbs(path, leaf),
		Body:   body,
	}
}

// ErrorData is the payload of the error page.
type ErrorData struct {
	Status  int
	Heading string
	Message string
}

// Renderer executes parsed page sets.
type Renderer struct {
	sets map[string]*template.Template
}

// New parses all embedded templates.
func New() (*Renderer, error) {
	base, err := template.New("_root").Funcs(funcMap()).ParseFS(files, shared...)
	if err != nil {
		return nil, fmt.Errorf("templates: parse shared: %w", err)
	}
	sets := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("templates: clone for %s: %w", name, err)
		}
		set, err := clone.ParseFS(files, file)
		if err != nil {
			return nil, fmt.Errorf("templates: parse %s: %w", name, err)
		}
		sets[name] = set
	}
	return &Renderer{sets: sets}, nil
}

// Page renders a full document through the base layout.
func (r *Renderer) Page(w io.Writer, name string, page Page) error {
	set, ok := r.sets[name]
	if !ok {
		return fmt.Errorf("templates: unknown page %q", name)
	}
	return execute(w, set, "base", page)
}

// Fragment renders a named partial on its own, e.g. for htmx swaps.
func (r *Renderer) Fragment(w io.Writer, name string, data any) error {
	set := r.sets["catalog"]
	if set.Lookup(name) == nil {
		return fmt.Errorf("templates: unknown fragment %q", name)
	}
	return execute(w, set, name, data)
}

// execute buffers output so a failing template never leaves a half-written response.
func execute(w io.Writer, set *template.Template, name string, data any) error {
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("templates: execute %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"static": func(name string) string {
			return "/public/static/" + strings.TrimPrefix(name, "/")
		},
	}
}
