package config

import (
	"errors"
	"testing"
	"time"

	"github.com/wichananm65/course-recommender/internal/recommend"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CATALOG_SOURCE", "")
	t.Setenv("RECOMMEND_ALPHA", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.CatalogSource != SourceJSON || cfg.CatalogPath != "embedded_courses.json" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Fatalf("unexpected cache ttl %v", cfg.CacheTTL)
	}
	if cfg.Recommend != recommend.DefaultConfig() {
		t.Fatalf("unexpected recommend config %+v", cfg.Recommend)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CATALOG_SOURCE", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/courses")
	t.Setenv("RECOMMEND_ALPHA", "0.5")
	t.Setenv("RECOMMEND_MIN_LIKED", "60")
	t.Setenv("RECOMMEND_TOP_N", "3")
	t.Setenv("RECOMMEND_DEPARTMENT_PREFIX_LEN", "0")
	t.Setenv("RECOMMEND_DIVERSIFY_FALLBACK", "true")
	t.Setenv("RECOMMEND_CACHE_TTL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rc := cfg.Recommend
	if cfg.CatalogSource != SourcePostgres || rc.Alpha != 0.5 || rc.MinLiked != 60 || rc.TopN != 3 || rc.DepartmentPrefixLen != 0 || !rc.DiversifyFallback {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Fatalf("unexpected cache ttl %v", cfg.CacheTTL)
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"unparseable float":   {"RECOMMEND_ALPHA": "high"},
		"unparseable int":     {"RECOMMEND_TOP_N": "five"},
		"unknown source":      {"CATALOG_SOURCE": "csv"},
		"postgres without db": {"CATALOG_SOURCE": "postgres", "DATABASE_URL": ""},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestLoad_InvalidRecommendConfig(t *testing.T) {
	t.Setenv("RECOMMEND_WEIGHT_LIKED", "0.9")

	_, err := Load()
	if !errors.Is(err, recommend.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoad_TrimsAndIgnoresBlankValues(t *testing.T) {
	t.Setenv("RECOMMEND_ALPHA", " 0.6 ")
	t.Setenv("RECOMMEND_TOP_N", "   ")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Recommend.Alpha != 0.6 || cfg.Recommend.TopN != recommend.DefaultConfig().TopN || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}
