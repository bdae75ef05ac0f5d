package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile          = ".env"
	defaultAddr             = ":8080"
	defaultReadTimeout      = 15 * time.Second
	defaultWriteTimeout     = 30 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultRateLimitPerMin  = 120
	defaultLogLevel         = "info"
	defaultTMDBBaseURL      = "https://api.themoviedb.org/3"
	defaultTMDBTimeout      = 10 * time.Second
	defaultTMDBRequestsPerS = 20
	defaultTrendingTTL      = 10 * time.Minute
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	TMDB      TMDBConfig
	Redis     RedisConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// CatalogConfig points at the YAML catalog file. An empty path serves the sample set.
type CatalogConfig struct {
	File string
}

// RateLimitConfig controls request throttling on /api routes.
type RateLimitConfig struct {
	PerMinute int
}

// LogConfig selects the zap level.
type LogConfig struct {
	Level string
}

// TMDBConfig configures the upstream movie database proxy.
type TMDBConfig struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond int
	TrendingTTL       time.Duration
}

// Enabled reports whether an upstream credential is configured.
func (c TMDBConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// RedisConfig selects the response cache backend. An empty Addr keeps the cache in memory.
type RedisConfig struct {
	Addr string
	DB   int
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration from defaults, .env overrides, environment
// variables and any explicit map.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if value, ok := dotEnvValues[key]; ok {
			return value, true
		}
		return "", false
	}

	var invalid []string
	durationField := func(field, key string, fallback time.Duration) time.Duration {
		d, ok := durationWithDefault(lookup, key, fallback)
		if !ok {
			invalid = append(invalid, field)
		}
		return d
	}
	intField := func(field, key string, fallback int) int {
		n, ok := intWithDefault(lookup, key, fallback)
		if !ok {
			invalid = append(invalid, field)
		}
		return n
	}

	cfg := Config{
		Server: ServerConfig{
			Addr:            stringWithDefault(lookup, "MEDIA_WEB_ADDR", defaultAddr),
			ReadTimeout:     durationField("Server.ReadTimeout", "MEDIA_WEB_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    durationField("Server.WriteTimeout", "MEDIA_WEB_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     durationField("Server.IdleTimeout", "MEDIA_WEB_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout: durationField("Server.ShutdownTimeout", "MEDIA_WEB_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		},
		Catalog: CatalogConfig{
			File: stringWithDefault(lookup, "MEDIA_WEB_CATALOG_FILE", ""),
		},
		RateLimit: RateLimitConfig{
			PerMinute: intField("RateLimit.PerMinute", "MEDIA_WEB_RATELIMIT_PER_MIN", defaultRateLimitPerMin),
		},
		Log: LogConfig{
			Level: strings.ToLower(stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel)),
		},
		TMDB: TMDBConfig{
			APIKey:            strings.TrimSpace(stringWithDefault(lookup, "TMDB_API_KEY", "")),
			BaseURL:           strings.TrimRight(stringWithDefault(lookup, "MEDIA_WEB_TMDB_BASE_URL", defaultTMDBBaseURL), "/"),
			Timeout:           durationField("TMDB.Timeout", "MEDIA_WEB_TMDB_TIMEOUT", defaultTMDBTimeout),
			RequestsPerSecond: intField("TMDB.RequestsPerSecond", "MEDIA_WEB_TMDB_RPS", defaultTMDBRequestsPerS),
			TrendingTTL:       durationField("TMDB.TrendingTTL", "MEDIA_WEB_TRENDING_TTL", defaultTrendingTTL),
		},
		Redis: RedisConfig{
			Addr: stringWithDefault(lookup, "MEDIA_WEB_REDIS_ADDR", ""),
			DB:   intField("Redis.DB", "MEDIA_WEB_REDIS_DB", 0),
		},
	}

	if err := validateConfig(cfg, invalid); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config, invalid []string) error {
	missing := append([]string(nil), invalid...)

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		missing = append(missing, "Server.Addr")
	}
	positive := []struct {
		name  string
		value time.Duration
	}{
		{"Server.ReadTimeout", cfg.Server.ReadTimeout},
		{"Server.WriteTimeout", cfg.Server.WriteTimeout},
		{"Server.IdleTimeout", cfg.Server.IdleTimeout},
		{"Server.ShutdownTimeout", cfg.Server.ShutdownTimeout},
		{"TMDB.Timeout", cfg.TMDB.Timeout},
		{"TMDB.TrendingTTL", cfg.TMDB.TrendingTTL},
	}
	for _, p := range positive {
		if p.value <= 0 && !contains(missing, p.name) {
			missing = append(missing, p.name)
		}
	}
	if cfg.RateLimit.PerMinute <= 0 && !contains(missing, "RateLimit.PerMinute") {
		missing = append(missing, "RateLimit.PerMinute")
	}
	if cfg.TMDB.RequestsPerSecond <= 0 && !contains(missing, "TMDB.RequestsPerSecond") {
		missing = append(missing, "TMDB.RequestsPerSecond")
	}
	if !strings.HasPrefix(cfg.TMDB.BaseURL, "http://") && !strings.HasPrefix(cfg.TMDB.BaseURL, "https://") {
		missing = append(missing, "TMDB.BaseURL")
	}
	if cfg.Redis.DB < 0 && !contains(missing, "Redis.DB") {
		missing = append(missing, "Redis.DB")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

// durationWithDefault reports ok=false when a value is present but unparsable.
func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) (time.Duration, bool) {
	value, ok := lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, true
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback, false
	}
	return d, true
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) (int, bool) {
	value, ok := lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, true
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback, false
	}
	return parsed, true
}
