package ui

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"finitefield.org/media-web/internal/catalog"
	"finitefield.org/media-web/internal/dashboard"
	"finitefield.org/media-web/internal/observability"
	"finitefield.org/media-web/internal/requestctx"
	"finitefield.org/media-web/internal/templates"
	catalogtpl "finitefield.org/media-web/internal/templates/catalog"
	dashboardtpl "finitefield.org/media-web/internal/templates/dashboard"
)

// CatalogBasePath is the canonical catalog page path.
const CatalogBasePath = "/dashboard/video-movies"

// pageLang selects number formatting on rendered pages.
const pageLang = "en"

// Dependencies collects the services required by the UI handlers.
type Dependencies struct {
	Catalog   catalog.Source
	Dashboard dashboard.Service
	Renderer  *templates.Renderer
	Now       func() time.Time
}

// Handlers exposes HTTP handlers for pages and fragments.
type Handlers struct {
	catalog   catalog.Source
	dashboard dashboard.Service
	renderer  *templates.Renderer
	now       func() time.Time
}

// NewHandlers wires the UI handler set, filling in static defaults for missing services.
func NewHandlers(deps Dependencies) (*Handlers, error) {
	src := deps.Catalog
	if src == nil {
		static, err := catalog.NewStaticSource(nil)
		if err != nil {
			return nil, err
		}
		src = static
	}
	svc := deps.Dashboard
	if svc == nil {
		svc = dashboard.NewStaticService(deps.Now)
	}
	renderer := deps.Renderer
	if renderer == nil {
		r, err := templates.New()
		if err != nil {
			return nil, err
		}
		renderer = r
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Handlers{catalog: src, dashboard: svc, renderer: renderer, now: now}, nil
}

// Dashboard renders the landing view.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboard.Overview(r.Context())
	if err != nil {
		requestctx.Logger(r.Context()).Error("dashboard overview failed", zap.Error(err))
		h.renderError(w, r, http.StatusInternalServerError, "Something went wrong", "The dashboard could not be loaded. Please try again later.")
		return
	}
	body := dashboardtpl.BuildPageData(overview, pageLang, h.now())
	h.renderPage(w, r, "dashboard", templates.NewPage(body.Title, r.URL.Path, "", body))
}

// Catalog renders the catalog page for the q and genre query parameters.
func (h *Handlers) Catalog(w http.ResponseWriter, r *http.Request) {
	state, ok := h.viewState(w, r)
	if !ok {
		return
	}
	body := catalogtpl.BuildPageData(state, CatalogBasePath)
	h.renderPage(w, r, "catalog", templates.NewPage(body.Title, r.URL.Path, "", body))
}

// CatalogResults renders only the results grid for htmx swaps. HX-Push-Url points
// the browser at the equivalent catalog page so a reload keeps the filter.
func (h *Handlers) CatalogResults(w http.ResponseWriter, r *http.Request) {
	state, ok := h.viewState(w, r)
	if !ok {
		return
	}
	pushURL := CatalogBasePath
	if q := catalogtpl.ResultsQuery(state); q != "" {
		pushURL += "?" + q
	}
	w.Header().Set("HX-Push-Url", pushURL)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Fragment(w, "catalog_results", catalogtpl.ResultsPayload(state)); err != nil {
		requestctx.Logger(r.Context()).Error("render catalog results failed", zap.Error(err))
		http.Error(w, "failed to render results", http.StatusInternalServerError)
	}
}

// MovieDetail renders a single record, the target of a card's View link.
func (h *Handlers) MovieDetail(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.catalog.Snapshot(r.Context())
	if err != nil {
		h.sourceFailed(w, r, err)
		return
	}
	id, ok := recordID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	rec, ok := snapshot.Find(id)
	if !ok {
		h.NotFound(w, r)
		return
	}
	detail, err := catalogtpl.BuildDetailData(rec, CatalogBasePath)
	if err != nil {
		requestctx.Logger(r.Context()).Error("build movie detail failed", zap.String("id", rec.ID), zap.Error(err))
		h.renderError(w, r, http.StatusInternalServerError, "Something went wrong", "This movie could not be displayed.")
		return
	}
	h.renderPage(w, r, "movie", templates.NewPage(rec.Title, r.URL.Path, rec.Title, detail))
}

// NotFound renders the HTML 404 page.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "Page not found", "The page you are looking for does not exist.")
}

// recordID returns the decoded {id} segment. chi matches on the escaped path when
// it differs from the default encoding, so escaped ids arrive still encoded.
func recordID(r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return id, true
	}
	decoded, err := url.PathUnescape(id)
	if err != nil {
		return "", false
	}
	return decoded, true
}

// viewState builds the catalog state from the request. Unknown genres fall back to All.
func (h *Handlers) viewState(w http.ResponseWriter, r *http.Request) (*catalog.ViewState, bool) {
	snapshot, err := h.catalog.Snapshot(r.Context())
	if err != nil {
		h.sourceFailed(w, r, err)
		return nil, false
	}
	params := r.URL.Query()
	state := catalog.NewViewState(snapshot)
	state.SetQuery(params.Get("q"))
	if genre := params.Get("genre"); genre != "" {
		if err := state.SetCategory(genre); err != nil {
			requestctx.Logger(r.Context()).Debug("ignoring unknown genre",
				zap.String("genre", observability.SanitizeQuery(genre)),
				zap.Bool("unknown", errors.Is(err, catalog.ErrUnknownCategory)),
			)
		}
	}
	return state, true
}

func (h *Handlers) sourceFailed(w http.ResponseWriter, r *http.Request, err error) {
	requestctx.Logger(r.Context()).Error("catalog snapshot failed", zap.Error(err))
	h.renderError(w, r, http.StatusInternalServerError, "Something went wrong", "The catalog could not be loaded. Please try again later.")
}

func (h *Handlers) renderPage(w http.ResponseWriter, r *http.Request, name string, page templates.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Page(w, name, page); err != nil {
		requestctx.Logger(r.Context()).Error("render page failed", zap.String("page", name), zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

func (h *Handlers) renderError(w http.ResponseWriter, r *http.Request, status int, heading, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	page := templates.NewPage(heading, "/dashboard", "", templates.ErrorData{Status: status, Heading: heading, Message: message})
	if err := h.renderer.Page(w, "error", page); err != nil {
		requestctx.Logger(r.Context()).Error("render error page failed", zap.Error(err))
		_, _ = w.Write([]byte(message))
	}
}
