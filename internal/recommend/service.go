package recommend

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/wichananm65/course-recommender/internal/metrics"
)

// Service is the caller-facing wrapper around Engine: it adds the optional
// result cache and metrics.
type Service struct {
	engine *Engine
	cache  Cache
	ttl    time.Duration
	logger zerolog.Logger
}

// NewService builds a service. cache may be nil.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewService(engine *Engine, cache Cache, ttl time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		engine: engine,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "recommend_service").Logger(),
	}
}

// Recommend returns recommendations for a completed-course list. Cache
// failures are logged and otherwise ignored.
func (s *Service) Recommend(ctx context.Context, completed []string) Result {
	cat := s.engine.catalogs.Catalog()
	if cat == nil || s.cache == nil {
		return s.observe(s.engine.RecommendFrom(cat, completed))
	}

	key := cacheKey(cat.Version(), completed)
	res, hit, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.CacheResults.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Msg("recommendation cache lookup failed")
	case hit:
		metrics.CacheResults.WithLabelValues("hit").Inc()
		return s.observe(res)
	default:
		metrics.CacheResults.WithLabelValues("miss").Inc()
	}

	res = s.engine.RecommendFrom(cat, completed)
	if res.Error == "" {
		if err := s.cache.Set(ctx, key, res, s.ttl); err != nil {
			s.logger.Warn().Err(err).Msg("recommendation cache store failed")
		}
	}
	return s.observe(res)
}

func (s *Service) observe(res Result) Result {
	path := res.Path
	if path == "" {
		path = PathError
	}
	metrics.Recommendations.WithLabelValues(string(path)).Inc()
	metrics.RecommendationSize.Observe(float64(len(res.Recommendations)))
	return res
}
