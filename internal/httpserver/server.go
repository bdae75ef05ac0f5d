package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"finitefield.org/media-web/internal/catalog"
	"finitefield.org/media-web/internal/dashboard"
	"finitefield.org/media-web/internal/httpserver/api"
	custommw "finitefield.org/media-web/internal/httpserver/middleware"
	"finitefield.org/media-web/internal/httpserver/ui"
	"finitefield.org/media-web/internal/metrics"
	"finitefield.org/media-web/internal/observability"
	"finitefield.org/media-web/internal/templates"
	"finitefield.org/media-web/public"
)

const defaultRateLimitPerMinute = 120

// Config holds runtime options for the HTTP server.
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	Logger             *zap.Logger
	Catalog            catalog.Source
	Dashboard          dashboard.Service
	Upstream           api.Upstream
	Renderer           *templates.Renderer
	RateLimitPerMinute int
	Now                func() time.Time
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) (*http.Server, error) {
	handler, err := NewRouter(cfg)
	if err != nil {
		return nil, err
	}
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  durationOr(cfg.ReadTimeout, 15*time.Second),
		WriteTimeout: durationOr(cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:  durationOr(cfg.IdleTimeout, 60*time.Second),
	}, nil
}

// NewRouter builds the routed handler without an http.Server around it.
func NewRouter(cfg Config) (http.Handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	src := cfg.Catalog
	if src == nil {
		static, err := catalog.NewStaticSource(nil)
		if err != nil {
			return nil, fmt.Errorf("httpserver: default catalog: %w", err)
		}
		src = static
	}

	uiHandlers, err := ui.NewHandlers(ui.Dependencies{
		Catalog:   src,
		Dashboard: cfg.Dashboard,
		Renderer:  cfg.Renderer,
		Now:       cfg.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("httpserver: ui handlers: %w", err)
	}
	apiHandlers := api.NewHandlers(src, cfg.Upstream)

	staticContent, err := public.StaticFS()
	if err != nil {
		return nil, fmt.Errorf("httpserver: embed static: %w", err)
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.TraceMiddleware())
	router.Use(observability.InjectLoggerMiddleware(logger))
	router.Use(custommw.HTMX())
	router.Use(observability.RequestLoggerMiddleware())
	router.Use(metrics.Middleware)
	router.Use(observability.RecoveryMiddleware(logger))
	router.Use(chimw.Compress(5))
	router.Use(chimw.Timeout(60 * time.Second))

	router.NotFound(uiHandlers.NotFound)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", metrics.Handler())
	router.Handle("/public/static/*", http.StripPrefix("/public/static/", http.FileServer(http.FS(staticContent))))

	router.Get("/", uiHandlers.Dashboard)
	router.Get("/video-movies", uiHandlers.Catalog)

	router.Route("/dashboard", func(r chi.Router) {
		r.Use(custommw.NoStore())

		r.Get("/", uiHandlers.Dashboard)
		r.Get("/video-movies", uiHandlers.Catalog)
		RegisterFragment(r, "/video-movies/results", uiHandlers.CatalogResults)
		r.Get("/video-movies/{id}", uiHandlers.MovieDetail)
	})

	perMinute := cfg.RateLimitPerMinute
	if perMinute <= 0 {
		perMinute = defaultRateLimitPerMinute
	}
	router.Route("/api", func(r chi.Router) {
		r.Use(custommw.NoStore())
		r.Use(custommw.PerMinute(perMinute))
		apiHandlers.Routes(r)
	})

	return router, nil
}

// RegisterFragment registers a GET handler intended for htmx fragment rendering.
func RegisterFragment(r chi.Router, pattern string, handler http.HandlerFunc) {
	r.With(custommw.RequireHTMX()).Get(pattern, handler)
}

func durationOr(v, fallback time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return fallback
}
