package recommend

import (
	"sort"

	"github.com/wichananm65/course-recommender/internal/course"
)

// Profile is the aggregated interest vector of one student.
type Profile struct {
	// Vector is the mean embedding of the matched completed courses.
	Vector []float64

	// Matched lists, in ascending order, the completed courses that carry
	// an embedding. These are excluded from the candidates.
	Matched []string
}

// canonicalSet upper-cases and de-duplicates the completed list. Blank
// entries are dropped.
func canonicalSet(completed []string) map[string]struct{} {
	set := make(map[string]struct{}, len(completed))
	for _, raw := range completed {
		code := course.Canonical(raw)
		if code == "" {
			continue
		}
		set[code] = struct{}{}
	}
	return set
}

// BuildProfile averages the embeddings of the completed courses found in the
// catalog. ok is false when none of them has an embedding.
func BuildProfile(cat *course.Catalog, completed []string) (p Profile, ok bool) {
	for code := range canonicalSet(completed) {
		if _, has := cat.Embedding(code); has {
			p.Matched = append(p.Matched, code)
		}
	}
	if len(p.Matched) == 0 {
		return Profile{}, false
	}
	// fixed summation order keeps the vector bit-identical for any input order
	sort.Strings(p.Matched)

	p.Vector = make([]float64, cat.Dimension())
	for _, code := range p.Matched {
		emb, _ := cat.Embedding(code)
		for i, v := range emb {
			p.Vector[i] += v
		}
	}
	n := float64(len(p.Matched))
	for i := range p.Vector {
		p.Vector[i] /= n
	}
	return p, true
}
