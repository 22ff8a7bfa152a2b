package recommend

import (
	"github.com/wichananm65/course-recommender/internal/course"
)

// Score returns the weighted quality of a course in [0,1], substituting the
// Unknown* defaults for missing percentages.
func (w QualityWeights) Score(c course.Course) float64 {
	liked := c.Liked.Or(UnknownLiked)
	easy := c.Easy.Or(UnknownEasy)
	useful := c.Useful.Or(UnknownUseful)
	return (w.Liked*liked + w.Easy*easy + w.Useful*useful) / 100
}

// passesFloor reports whether a course clears the liked threshold. There is
// no gate on ease.
func passesFloor(c course.Course, minLiked float64) bool {
	return c.Liked.Or(UnknownLiked) >= minLiked
}

func blend(alpha, similarity, quality float64) float64 {
	return alpha*similarity + (1-alpha)*quality
}
