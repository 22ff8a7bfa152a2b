package recommend

import (
	"errors"
	"fmt"
	"math"
)

// MaxRecommendations bounds every result list.
const MaxRecommendations = 5

// Substitutes for unknown quality percentages. An unknown liked percentage
// counts as unproven and fails any positive floor; unknown ease and
// usefulness are neutral.
const (
	UnknownLiked  = 0.0
	UnknownEasy   = 50.0
	UnknownUseful = 50.0
)

var ErrInvalidConfig = errors.New("invalid recommend config")

// Config contains the tunable parameters of the recommendation pipeline.
type Config struct {
	// Weights blends the three quality percentages. Must sum to 1.
	// Default: 0.4 liked, 0.3 easy, 0.3 useful. Liked carries the most
	// weight because it is the closest proxy for overall satisfaction.
	Weights QualityWeights `json:"weights"`

	// MinLiked rejects courses whose liked percentage is below it.
	// Default: 50.
	MinLiked float64 `json:"min_liked"`

	// Alpha is the share of the final score given to similarity; the rest
	// goes to quality. Default: 0.7, so topical relevance dominates.
	Alpha float64 `json:"alpha"`

	// TopN is the number of recommendations returned, at most
	// MaxRecommendations. Default: 5.
	TopN int `json:"top_n"`

	// DepartmentPrefixLen is the number of leading code characters that
	// name a department. 0 uses the full leading run of letters.
	// Default: 2.
	DepartmentPrefixLen int `json:"department_prefix_len"`

	// DiversifyFallback applies the department diversity pass to the
	// quality-only fallback ranking as well. Default: false.
	DiversifyFallback bool `json:"diversify_fallback"`
}

// QualityWeights are the relative weights of the quality percentages.
type QualityWeights struct {
	Liked  float64 `json:"liked"`
	Easy   float64 `json:"easy"`
	Useful float64 `json:"useful"`
}

// DefaultConfig returns the canonical defaults.
func DefaultConfig() Config {
	return Config{
		Weights:             QualityWeights{Liked: 0.4, Easy: 0.3, Useful: 0.3},
		MinLiked:            50,
		Alpha:               0.7,
		TopN:                MaxRecommendations,
		DepartmentPrefixLen: 2,
	}
}

// Validate checks every parameter and reports the first problem found.
//
//nolint:gocritic // value receiver keeps Config immutable
func (c Config) Validate() error {
	w := c.Weights
	for name, v := range map[string]float64{"liked": w.Liked, "easy": w.Easy, "useful": w.Useful} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: %s weight must be >= 0, got %v", ErrInvalidConfig, name, v)
		}
	}
	if sum := w.Liked + w.Easy + w.Useful; math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("%w: quality weights must sum to 1, got %v", ErrInvalidConfig, sum)
	}
	if c.Alpha < 0 || c.Alpha > 1 || math.IsNaN(c.Alpha) {
		return fmt.Errorf("%w: alpha must be in [0,1], got %v", ErrInvalidConfig, c.Alpha)
	}
	if c.MinLiked < 0 || c.MinLiked > 100 || math.IsNaN(c.MinLiked) {
		return fmt.Errorf("%w: min liked must be in [0,100], got %v", ErrInvalidConfig, c.MinLiked)
	}
	if c.TopN < 1 || c.TopN > MaxRecommendations {
		return fmt.Errorf("%w: top n must be in [1,%d], got %d", ErrInvalidConfig, MaxRecommendations, c.TopN)
	}
	if c.DepartmentPrefixLen < 0 {
		return fmt.Errorf("%w: department prefix length must be >= 0, got %d", ErrInvalidConfig, c.DepartmentPrefixLen)
	}
	return nil
}
