package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"finitefield.org/media-web/internal/metrics"
)

const (
	// DefaultTrendingTTL is how long a trending list is served from cache.
	DefaultTrendingTTL = 10 * time.Minute

	trendingKey = "tmdb:trending:movie:day"
)

// Service fronts an Upstream with the trending cache.
type Service struct {
	upstream Upstream
	cache    Cache
	ttl      time.Duration
	logger   *zap.Logger
	group    singleflight.Group
}

// NewService wires the upstream and cache. A nil upstream makes every call
// fail with ErrNotConfigured; a nil cache defaults to a MemoryCache.
func NewService(upstream Upstream, cache Cache, ttl time.Duration, logger *zap.Logger) *Service {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if ttl <= 0 {
		ttl = DefaultTrendingTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{upstream: upstream, cache: cache, ttl: ttl, logger: logger}
}

// Configured reports whether an upstream is available.
func (s *Service) Configured() bool {
	return s != nil && s.upstream != nil
}

// TrendingJSON returns the serialised trending list, served from cache when fresh.
// Concurrent misses share one upstream call.
func (s *Service) TrendingJSON(ctx context.Context) ([]byte, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	if cached, ok, err := s.cache.Get(ctx, trendingKey); err != nil {
		s.logger.Warn("trending cache read failed", zap.Error(err))
	} else if ok {
		metrics.UpstreamCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.UpstreamCacheTotal.WithLabelValues("miss").Inc()

	ch := s.group.DoChan(trendingKey, func() (any, error) {
		fillCtx := context.WithoutCancel(ctx)
		raw, err := s.upstream.Trending(fillCtx)
		if err != nil {
			return nil, err
		}
		movies, err := DecodeMovies(raw)
		if err != nil {
			return nil, &Error{Op: "trending", Err: ErrBadResponse, Cause: err}
		}
		encoded, err := json.Marshal(movies)
		if err != nil {
			return nil, fmt.Errorf("tmdb: encode trending: %w", err)
		}
		if err := s.cache.Set(fillCtx, trendingKey, encoded, s.ttl); err != nil {
			s.logger.Warn("trending cache write failed", zap.Error(err))
		}
		return encoded, nil
	})

	select {
	case <-ctx.Done():
		return nil, &Error{Op: "trending", Err: ErrTimeout, Cause: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Details proxies a single movie lookup.
func (s *Service) Details(ctx context.Context, id int64) ([]byte, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	return s.upstream.Details(ctx, id)
}

// Search proxies a title search.
func (s *Service) Search(ctx context.Context, query string) ([]byte, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	return s.upstream.Search(ctx, query)
}
