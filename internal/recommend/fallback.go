package recommend

import (
	"github.com/wichananm65/course-recommender/internal/course"
)

// rankByQuality is the ranking used when no profile can be built: every
// catalog course, with or without an embedding, scored on quality alone.
// Completed courses known to the catalog are still excluded.
func rankByQuality(cat *course.Catalog, completed map[string]struct{}, cfg Config) []Candidate {
	out := make([]Candidate, 0, cat.Len())
	for _, code := range cat.Codes() {
		if _, done := completed[code]; done {
			continue
		}
		rec, _ := cat.Get(code)
		if !passesFloor(rec, cfg.MinLiked) {
			continue
		}
		q := cfg.Weights.Score(rec)
		out = append(out, Candidate{Code: code, Score: q, Quality: q, Course: rec})
	}
	sortCandidates(out)

	if cfg.DiversifyFallback {
		return Diversify(out, cfg.TopN, cfg.DepartmentPrefixLen)
	}
	if len(out) > cfg.TopN {
		out = out[:cfg.TopN]
	}
	return out
}
