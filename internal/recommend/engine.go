package recommend

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/wichananm65/course-recommender/internal/course"
)

var ErrInvalidRequest = errors.New("invalid recommendation request")

// CatalogSource hands out the current catalog snapshot.
type CatalogSource interface {
	Catalog() *course.Catalog
}

// Engine turns a completed-course list into ranked recommendations.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	catalogs CatalogSource
	config   Config
	logger   zerolog.Logger
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(catalogs CatalogSource, cfg Config, logger zerolog.Logger) (*Engine, error) {
	if catalogs == nil {
		return nil, errors.New("recommend: nil catalog source")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		catalogs: catalogs,
		config:   cfg,
		logger:   logger.With().Str("component", "recommend").Logger(),
	}, nil
}

func (e *Engine) Config() Config {
	return e.config
}

// Recommend ranks against the current catalog snapshot.
func (e *Engine) Recommend(completed []string) (res Result) {
	defer e.recoverInto(&res)
	return e.RecommendFrom(e.catalogs.Catalog(), completed)
}

func (e *Engine) recoverInto(res *Result) {
	if r := recover(); r != nil {
		e.logger.Error().Interface("panic", r).Msg("recovered from fault while scoring")
		*res = errorResult(fmt.Sprintf("internal error while scoring: %v", r))
	}
}

// RecommendFrom ranks against a specific snapshot. Unknown or malformed
// identifiers are ignored. Faults while scoring are returned in
// Result.Error, never as a panic.
func (e *Engine) RecommendFrom(cat *course.Catalog, completed []string) (res Result) {
	defer e.recoverInto(&res)

	if cat == nil {
		return errorResult("course catalog is not loaded")
	}

	profile, ok := BuildProfile(cat, completed)
	if !ok {
		picked := rankByQuality(cat, canonicalSet(completed), e.config)
		e.logger.Debug().
			Str("path", string(PathFallback)).
			Int("results", len(picked)).
			Msg("no profile, ranked by quality")
		return Result{Recommendations: toRecommendations(picked), Path: PathFallback}
	}

	ranked, err := rankBySimilarity(cat, profile, e.config)
	if err != nil {
		e.logger.Error().Err(err).Msg("similarity ranking failed")
		return errorResult(err.Error())
	}
	picked := Diversify(ranked, e.config.TopN, e.config.DepartmentPrefixLen)
	e.logger.Debug().
		Str("path", string(PathSimilarity)).
		Int("matched", len(profile.Matched)).
		Int("candidates", len(ranked)).
		Int("results", len(picked)).
		Msg("ranked by similarity")
	return Result{Recommendations: toRecommendations(picked), Path: PathSimilarity}
}

// RecommendJSON accepts {"completed_courses": [...]} and returns the JSON
// encoding of the Result. Input that cannot be parsed produces a result
// with an empty list and an error message.
func (e *Engine) RecommendJSON(request []byte) []byte {
	var req Request
	var res Result
	if err := json.Unmarshal(request, &req); err != nil {
		res = errorResult(fmt.Errorf("%w: %v", ErrInvalidRequest, err).Error())
	} else {
		res = e.Recommend(req.CompletedCourses)
	}

	out, err := json.Marshal(res)
	if err != nil {
		out, _ = json.Marshal(errorResult(err.Error()))
	}
	return out
}
