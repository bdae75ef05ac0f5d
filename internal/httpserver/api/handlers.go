package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"finitefield.org/media-web/internal/catalog"
	"finitefield.org/media-web/internal/httpx"
	"finitefield.org/media-web/internal/observability"
	"finitefield.org/media-web/internal/requestctx"
	"finitefield.org/media-web/internal/tmdb"
)

// Upstream is the subset of the TMDB service used by the proxy routes.
type Upstream interface {
	Configured() bool
	TrendingJSON(ctx context.Context) ([]byte, error)
	Details(ctx context.Context, id int64) ([]byte, error)
	Search(ctx context.Context, query string) ([]byte, error)
}

// Handlers serves the JSON API.
type Handlers struct {
	catalog  catalog.Source
	upstream Upstream
}

// NewHandlers builds the API handler set. upstream may be nil, in which case the
// proxy routes answer 503.
func NewHandlers(src catalog.Source, upstream Upstream) *Handlers {
	return &Handlers{catalog: src, upstream: upstream}
}

// Routes registers the API endpoints on r.
func (h *Handlers) Routes(r chi.Router) {
	r.Get("/catalog/movies", h.CatalogMovies)
	r.Route("/tmdb", func(r chi.Router) {
		for _, suffix := range []string{"", "/"} {
			r.Get("/trending"+suffix, h.Trending)
			r.Get("/details/{id:[0-9]+}"+suffix, h.Details)
			r.Get("/search"+suffix, h.Search)
		}
	})
	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)
}

type catalogResponse struct {
	Categories []string         `json:"categories"`
	Query      string           `json:"query"`
	Genre      string           `json:"genre"`
	Count      int              `json:"count"`
	Movies     []catalog.Record `json:"movies"`
}

// CatalogMovies returns the derived view for the q and genre parameters.
func (h *Handlers) CatalogMovies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "Catalog is not configured", http.StatusServiceUnavailable))
		return
	}
	snapshot, err := h.catalog.Snapshot(ctx)
	if err != nil {
		requestctx.Logger(ctx).Error("catalog snapshot failed", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "Catalog could not be loaded", http.StatusInternalServerError))
		return
	}

	params := r.URL.Query()
	state := catalog.NewViewState(snapshot)
	state.SetQuery(params.Get("q"))
	if genre := params.Get("genre"); genre != "" {
		if err := state.SetCategory(genre); err != nil {
			httpx.WriteError(ctx, w, httpx.BadRequest("unknown_genre", "Unknown genre").
				WithDetails(map[string]any{"categories": snapshot.Categories()}))
			return
		}
	}

	view := state.View()
	if err := httpx.WriteJSON(w, http.StatusOK, catalogResponse{
		Categories: snapshot.Categories(),
		Query:      state.Query(),
		Genre:      state.Category(),
		Count:      len(view),
		Movies:     view,
	}); err != nil {
		requestctx.Logger(ctx).Warn("write catalog response failed", zap.Error(err))
	}
}

// Trending returns the cached trending movie list.
func (h *Handlers) Trending(w http.ResponseWriter, r *http.Request) {
	if !h.configured(w, r) {
		return
	}
	body, err := h.upstream.TrendingJSON(r.Context())
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	h.writeRaw(w, r, body)
}

// Details proxies a single movie lookup.
func (h *Handlers) Details(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.BadRequest("invalid_id", "Movie id must be an integer"))
		return
	}
	if !h.configured(w, r) {
		return
	}
	body, err := h.upstream.Details(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	h.writeRaw(w, r, body)
}

// Search proxies a title search.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		httpx.WriteError(r.Context(), w, httpx.BadRequest("missing_query", "Query parameter q is required"))
		return
	}
	if !h.configured(w, r) {
		return
	}
	body, err := h.upstream.Search(r.Context(), query)
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	h.writeRaw(w, r, body)
}

// NotFound answers unknown API routes with the JSON envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	httpx.WriteError(r.Context(), w, httpx.NotFound())
}

// MethodNotAllowed answers unsupported methods with the JSON envelope.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httpx.WriteError(r.Context(), w, httpx.MethodNotAllowed())
}

func (h *Handlers) configured(w http.ResponseWriter, r *http.Request) bool {
	if h.upstream != nil && h.upstream.Configured() {
		return true
	}
	writeUpstreamError(w, r, tmdb.ErrNotConfigured)
	return false
}

func (h *Handlers) writeRaw(w http.ResponseWriter, r *http.Request, body []byte) {
	if err := httpx.WriteRawJSON(w, http.StatusOK, body); err != nil {
		requestctx.Logger(r.Context()).Warn("write upstream response failed", zap.Error(err))
	}
}

func writeUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	logger := requestctx.Logger(ctx)

	var apiErr httpx.Error
	switch {
	case errors.Is(err, tmdb.ErrNotConfigured):
		apiErr = httpx.NewError("upstream_not_configured", "Upstream service is not configured", http.StatusServiceUnavailable)
	case errors.Is(err, tmdb.ErrTimeout):
		apiErr = httpx.NewError("upstream_timeout", "Upstream timed out", http.StatusGatewayTimeout)
	case errors.Is(err, tmdb.ErrUnavailable):
		apiErr = httpx.NewError("upstream_unavailable", "Could not connect to upstream service", http.StatusBadGateway)
	case errors.Is(err, tmdb.ErrUpstreamStatus):
		status := tmdb.StatusOf(err)
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		apiErr = httpx.NewError("upstream_error", "Upstream service error", status)
	default:
		apiErr = httpx.NewError("upstream_error", "Upstream request failed", http.StatusBadGateway)
	}

	logger.Warn("upstream request failed",
		zap.String("route", observability.SanitizeRoute(r.URL.Path)),
		zap.Int("status", apiErr.Status),
		zap.Int("upstream_status", tmdb.StatusOf(err)),
		zap.Error(err),
	)
	httpx.WriteError(ctx, w, apiErr)
}
