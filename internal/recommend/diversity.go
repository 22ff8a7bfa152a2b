package recommend

import (
	"github.com/wichananm65/course-recommender/internal/course"
)

// Diversify picks up to n candidates from a best-first list. The first pass
// takes at most one course per department; if that yields fewer than n, a
// second pass fills the gaps with the best remaining candidates regardless
// of department. Selected candidates keep their score order.
func Diversify(cs []Candidate, n, prefixLen int) []Candidate {
	if n <= 0 || len(cs) == 0 {
		return []Candidate{}
	}

	picked := make([]bool, len(cs))
	count := 0
	seen := make(map[string]struct{})
	for i, c := range cs {
		if count == n {
			break
		}
		dept := course.Department(c.Code, prefixLen)
		if _, dup := seen[dept]; dup {
			continue
		}
		seen[dept] = struct{}{}
		picked[i] = true
		count++
	}

	for i := range cs {
		if count == n {
			break
		}
		if !picked[i] {
			picked[i] = true
			count++
		}
	}

	out := make([]Candidate, 0, count)
	for i, c := range cs {
		if picked[i] {
			out = append(out, c)
		}
	}
	return out
}
