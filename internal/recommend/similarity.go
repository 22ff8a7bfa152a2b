package recommend

import (
	"fmt"
	"math"

	"github.com/wichananm65/course-recommender/internal/course"
)

// CosineSimilarity returns (a·b)/(|a||b|). A zero vector has similarity 0
// with everything.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vectors must have the same length: %d != %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// rankBySimilarity scores every embedded, non-completed course that clears
// the quality floor and returns them best first.
func rankBySimilarity(cat *course.Catalog, p Profile, cfg Config) ([]Candidate, error) {
	completed := make(map[string]struct{}, len(p.Matched))
	for _, code := range p.Matched {
		completed[code] = struct{}{}
	}

	out := make([]Candidate, 0, len(cat.EmbeddedCodes()))
	for _, code := range cat.EmbeddedCodes() {
		if _, done := completed[code]; done {
			continue
		}
		rec, _ := cat.Get(code)
		if !passesFloor(rec, cfg.MinLiked) {
			continue
		}
		sim, err := CosineSimilarity(p.Vector, rec.Embedding)
		if err != nil {
			return nil, fmt.Errorf("score %s: %w", code, err)
		}
		quality := cfg.Weights.Score(rec)
		score := blend(cfg.Alpha, sim, quality)
		if math.IsNaN(score) || math.IsInf(score, 0) {
			return nil, fmt.Errorf("score %s: non-finite score", code)
		}
		out = append(out, Candidate{
			Code:       code,
			Score:      score,
			Similarity: sim,
			Quality:    quality,
			Course:     rec,
		})
	}
	sortCandidates(out)
	return out, nil
}
