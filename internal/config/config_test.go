package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %s", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("unexpected shutdown timeout: %s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Catalog.File != "" {
		t.Errorf("expected empty catalog file, got %q", cfg.Catalog.File)
	}
	if cfg.RateLimit.PerMinute != 120 {
		t.Errorf("unexpected rate limit: %d", cfg.RateLimit.PerMinute)
	}
	if cfg.TMDB.BaseURL != defaultTMDBBaseURL {
		t.Errorf("unexpected tmdb base url: %s", cfg.TMDB.BaseURL)
	}
	if cfg.TMDB.Enabled() {
		t.Errorf("expected tmdb disabled without api key")
	}
	if cfg.TMDB.TrendingTTL != 10*time.Minute {
		t.Errorf("unexpected trending ttl: %s", cfg.TMDB.TrendingTTL)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("expected memory cache by default, got redis %q", cfg.Redis.Addr)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("unexpected log level: %s", cfg.Log.Level)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"MEDIA_WEB_ADDR":              "127.0.0.1:9090",
		"MEDIA_WEB_READ_TIMEOUT":      "20s",
		"MEDIA_WEB_CATALOG_FILE":      "/srv/catalog.yaml",
		"MEDIA_WEB_RATELIMIT_PER_MIN": "30",
		"TMDB_API_KEY":                " token ",
		"MEDIA_WEB_TMDB_BASE_URL":     "http://localhost:7000/3/",
		"MEDIA_WEB_TMDB_RPS":          "5",
		"MEDIA_WEB_TRENDING_TTL":      "1m",
		"MEDIA_WEB_REDIS_ADDR":        "localhost:6379",
		"MEDIA_WEB_REDIS_DB":          "2",
		"LOG_LEVEL":                   "DEBUG",
	}

	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Errorf("unexpected addr: %s", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 20*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Catalog.File != "/srv/catalog.yaml" {
		t.Errorf("unexpected catalog file: %s", cfg.Catalog.File)
	}
	if cfg.RateLimit.PerMinute != 30 {
		t.Errorf("unexpected rate limit: %d", cfg.RateLimit.PerMinute)
	}
	if cfg.TMDB.APIKey != "token" || !cfg.TMDB.Enabled() {
		t.Errorf("unexpected api key: %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.BaseURL != "http://localhost:7000/3" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.TMDB.BaseURL)
	}
	if cfg.TMDB.RequestsPerSecond != 5 {
		t.Errorf("unexpected rps: %d", cfg.TMDB.RequestsPerSecond)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.DB != 2 {
		t.Errorf("unexpected redis config: %+v", cfg.Redis)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("unexpected log level: %s", cfg.Log.Level)
	}
}

func TestLoadReportsInvalidFields(t *testing.T) {
	env := map[string]string{
		"MEDIA_WEB_READ_TIMEOUT":      "soon",
		"MEDIA_WEB_RATELIMIT_PER_MIN": "0",
		"MEDIA_WEB_TMDB_BASE_URL":     "ftp://example.com",
	}

	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := map[string]bool{}
	for _, f := range vErr.Fields() {
		fields[f] = true
	}
	for _, want := range []string{"Server.ReadTimeout", "RateLimit.PerMinute", "TMDB.BaseURL"} {
		if !fields[want] {
			t.Errorf("expected %s in %v", want, vErr.Fields())
		}
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "# local overrides\nexport MEDIA_WEB_ADDR=\":7000\"\nMEDIA_WEB_CATALOG_FILE=from-dotenv.yaml\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("MEDIA_WEB_CATALOG_FILE", "from-env.yaml")

	cfg, err := Load(WithEnvFile(envFile))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("expected .env addr, got %s", cfg.Server.Addr)
	}
	if cfg.Catalog.File != "from-env.yaml" {
		t.Errorf("expected process env to win over .env, got %s", cfg.Catalog.File)
	}

	cfg, err = Load(WithEnvFile(envFile), WithEnvMap(map[string]string{"MEDIA_WEB_CATALOG_FILE": "from-map.yaml"}))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Catalog.File != "from-map.yaml" {
		t.Errorf("expected explicit map to win, got %s", cfg.Catalog.File)
	}
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load(WithoutSystemEnv(), WithEnvFile(filepath.Join(t.TempDir(), "absent.env")))
	if err != nil {
		t.Fatalf("expected missing .env to be ignored, got %v", err)
	}
}
