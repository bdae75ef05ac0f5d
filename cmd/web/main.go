package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"finitefield.org/media-web/internal/catalog"
	"finitefield.org/media-web/internal/config"
	"finitefield.org/media-web/internal/dashboard"
	"finitefield.org/media-web/internal/httpserver"
	"finitefield.org/media-web/internal/observability"
	"finitefield.org/media-web/internal/tmdb"
)

func main() {
	var (
		addr        string
		catalogFile string
		envFile     string
	)
	pflag.StringVar(&addr, "addr", "", "HTTP listen address (overrides MEDIA_WEB_ADDR)")
	pflag.StringVar(&catalogFile, "catalog", "", "YAML catalog file (overrides MEDIA_WEB_CATALOG_FILE)")
	pflag.StringVar(&envFile, "env-file", ".env", "dotenv file with local overrides")
	pflag.Parse()

	cfg, err := config.Load(config.WithEnvFile(envFile))
	if err != nil {
		var invalid *config.ValidationError
		if errors.As(err, &invalid) {
			fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", invalid.Fields())
		} else {
			fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		}
		os.Exit(1)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if catalogFile != "" {
		cfg.Catalog.File = catalogFile
	}

	baseLogger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("web")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, closeSource, err := newCatalogSource(cfg.Catalog, logger)
	if err != nil {
		logger.Fatal("failed to initialise catalog", zap.Error(err))
	}
	defer closeSource()

	upstream, closeUpstream := newUpstream(ctx, cfg, logger)
	defer closeUpstream()

	srv, err := httpserver.New(httpserver.Config{
		Address:            cfg.Server.Addr,
		ReadTimeout:        cfg.Server.ReadTimeout,
		WriteTimeout:       cfg.Server.WriteTimeout,
		IdleTimeout:        cfg.Server.IdleTimeout,
		Logger:             logger,
		Catalog:            source,
		Dashboard:          dashboard.NewStaticService(time.Now),
		Upstream:           upstream,
		RateLimitPerMinute: cfg.RateLimit.PerMinute,
	})
	if err != nil {
		logger.Fatal("failed to build http server", zap.Error(err))
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	logger.Info("server listening",
		zap.String("addr", cfg.Server.Addr),
		zap.String("catalog", describeCatalog(cfg.Catalog.File)),
		zap.Bool("tmdb", upstream.Configured()),
	)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}

func newCatalogSource(cfg config.CatalogConfig, logger *zap.Logger) (catalog.Source, func(), error) {
	if cfg.File == "" {
		src, err := catalog.NewStaticSource(nil)
		return src, func() {}, err
	}
	src, err := catalog.NewFileSource(cfg.File, catalog.WithLogger(logger.Named("catalog")))
	if err != nil {
		return nil, nil, err
	}
	if err := src.Watch(); err != nil {
		_ = src.Close()
		return nil, nil, err
	}
	return src, func() {
		if err := src.Close(); err != nil {
			logger.Warn("catalog close error", zap.Error(err))
		}
	}, nil
}

func newUpstream(ctx context.Context, cfg config.Config, logger *zap.Logger) (*tmdb.Service, func()) {
	cleanup := func() {}
	tmdbLogger := logger.Named("tmdb")
	if !cfg.TMDB.Enabled() {
		logger.Info("TMDB_API_KEY not set; metadata proxy disabled")
		return tmdb.NewService(nil, nil, cfg.TMDB.TrendingTTL, tmdbLogger), cleanup
	}

	client, err := tmdb.NewClient(cfg.TMDB.APIKey,
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithTimeout(cfg.TMDB.Timeout),
		tmdb.WithRateLimit(cfg.TMDB.RequestsPerSecond),
		tmdb.WithLogger(tmdbLogger),
	)
	if err != nil {
		logger.Warn("metadata client init failed; proxy disabled", zap.Error(err))
		return tmdb.NewService(nil, nil, cfg.TMDB.TrendingTTL, tmdbLogger), cleanup
	}

	var cache tmdb.Cache
	if cfg.Redis.Addr != "" {
		redisCache, err := tmdb.NewRedisCache(ctx, tmdb.RedisConfig{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB}, tmdbLogger)
		if err != nil {
			logger.Warn("redis unavailable; using in-memory cache", zap.Error(err))
		} else {
			cache = redisCache
			cleanup = func() {
				if err := redisCache.Close(); err != nil {
					logger.Warn("redis close error", zap.Error(err))
				}
			}
		}
	}
	return tmdb.NewService(client, cache, cfg.TMDB.TrendingTTL, tmdbLogger), cleanup
}

func describeCatalog(file string) string {
	if file == "" {
		return "built-in sample"
	}
	return file
}
