package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/wichananm65/course-recommender/internal/recommend"
)

// Catalog sources.
const (
	SourceJSON     = "json"
	SourcePostgres = "postgres"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr string

	CatalogSource string
	CatalogPath   string
	DatabaseURL   string

	JWTSecret     string
	AdminUsername string
	AdminPassword string

	LogLevel  string
	LogFormat string

	RedisAddr string
	CacheTTL  time.Duration

	Recommend recommend.Config
}

// envConfig mirrors the environment one key per variable. A koanf path is
// the lowercased variable name.
type envConfig struct {
	Addr          string `koanf:"course_recommender_addr"`
	CatalogSource string `koanf:"catalog_source"`
	CatalogPath   string `koanf:"catalog_path"`
	DatabaseURL   string `koanf:"database_url"`
	JWTSecret     string `koanf:"jwt_secret"`
	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`
	LogLevel      string `koanf:"log_level"`
	LogFormat     string `koanf:"log_format"`
	RedisAddr     string `koanf:"redis_addr"`

	CacheTTL            time.Duration `koanf:"recommend_cache_ttl"`
	MinLiked            float64       `koanf:"recommend_min_liked"`
	WeightLiked         float64       `koanf:"recommend_weight_liked"`
	WeightEasy          float64       `koanf:"recommend_weight_easy"`
	WeightUseful        float64       `koanf:"recommend_weight_useful"`
	Alpha               float64       `koanf:"recommend_alpha"`
	TopN                int           `koanf:"recommend_top_n"`
	DepartmentPrefixLen int           `koanf:"recommend_department_prefix_len"`
	DiversifyFallback   bool          `koanf:"recommend_diversify_fallback"`
}

func defaultEnvConfig() *envConfig {
	rc := recommend.DefaultConfig()
	return &envConfig{
		Addr:                ":8080",
		CatalogSource:       SourceJSON,
		CatalogPath:         "embedded_courses.json",
		AdminUsername:       "admin",
		LogLevel:            "info",
		LogFormat:           "json",
		CacheTTL:            10 * time.Minute,
		MinLiked:            rc.MinLiked,
		WeightLiked:         rc.Weights.Liked,
		WeightEasy:          rc.Weights.Easy,
		WeightUseful:        rc.Weights.Useful,
		Alpha:               rc.Alpha,
		TopN:                rc.TopN,
		DepartmentPrefixLen: rc.DepartmentPrefixLen,
		DiversifyFallback:   rc.DiversifyFallback,
	}
}

// Load reads .env (when present) and then the environment on top of the
// built-in defaults. Values that are set but cannot be parsed are reported
// as errors rather than defaulted.
func Load() (Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	defaults := defaultEnvConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := loadEnv(k); err != nil {
		return Config{}, err
	}

	var ec envConfig
	if err := k.Unmarshal("", &ec); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg := Config{
		Addr:          ec.Addr,
		CatalogSource: strings.ToLower(ec.CatalogSource),
		CatalogPath:   ec.CatalogPath,
		DatabaseURL:   ec.DatabaseURL,
		JWTSecret:     ec.JWTSecret,
		AdminUsername: ec.AdminUsername,
		AdminPassword: ec.AdminPassword,
		LogLevel:      ec.LogLevel,
		LogFormat:     ec.LogFormat,
		RedisAddr:     ec.RedisAddr,
		CacheTTL:      ec.CacheTTL,
		Recommend: recommend.Config{
			MinLiked: ec.MinLiked,
			Weights: recommend.QualityWeights{
				Liked:  ec.WeightLiked,
				Easy:   ec.WeightEasy,
				Useful: ec.WeightUseful,
			},
			Alpha:               ec.Alpha,
			TopN:                ec.TopN,
			DepartmentPrefixLen: ec.DepartmentPrefixLen,
			DiversifyFallback:   ec.DiversifyFallback,
		},
	}

	switch cfg.CatalogSource {
	case SourceJSON:
	case SourcePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is not set")
		}
	default:
		return Config{}, fmt.Errorf("CATALOG_SOURCE must be %q or %q, got %q", SourceJSON, SourcePostgres, cfg.CatalogSource)
	}
	if err := cfg.Recommend.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadEnv layers the variables named by the defaults already in k over
// them. Blank values leave the default in place.
func loadEnv(k *koanf.Koanf) error {
	known := map[string]bool{}
	for _, key := range k.Keys() {
		known[key] = true
	}

	raw := koanf.New(".")
	err := raw.Load(env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if !known[key] {
			return ""
		}
		return key
	}), nil)
	if err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}

	for _, key := range raw.Keys() {
		v := strings.TrimSpace(raw.String(key))
		if v == "" {
			continue
		}
		if err := k.Set(key, v); err != nil {
			return fmt.Errorf("invalid %s: %w", strings.ToUpper(key), err)
		}
	}
	return nil
}
