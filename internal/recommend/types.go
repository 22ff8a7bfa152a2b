package recommend

import (
	"cmp"
	"slices"

	"github.com/wichananm65/course-recommender/internal/course"
)

// Path names the branch of the pipeline that produced a result.
type Path string

const (
	PathSimilarity Path = "similarity"
	PathFallback   Path = "fallback"
	PathError      Path = "error"
)

// Candidate is a scored course in the middle of the pipeline.
type Candidate struct {
	Code       string
	Score      float64
	Similarity float64
	Quality    float64
	Course     course.Course
}

// sortCandidates orders by score descending, then code ascending so that
// equal scores always come out the same way.
func sortCandidates(cs []Candidate) {
	slices.SortFunc(cs, func(a, b Candidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
}

// Request is the JSON body accepted by the engine and the HTTP callers.
type Request struct {
	CompletedCourses []string `json:"completed_courses" validate:"max=500,dive,max=64"`
}

// CourseInfo is the metadata snapshot attached to a recommendation.
type CourseInfo struct {
	URL         string            `json:"url"`
	Useful      course.Percentage `json:"useful_percentage"`
	Easy        course.Percentage `json:"easy_percentage"`
	Liked       course.Percentage `json:"liked_percentage"`
	Description string            `json:"course_description"`
	Reviews     []string          `json:"reviews"`
}

// Recommendation is one entry of a result.
type Recommendation struct {
	CourseCode string     `json:"course_code"`
	Score      float64    `json:"score"`
	CourseInfo CourseInfo `json:"course_info"`
}

// Result is what every recommendation call returns. Error is set only for
// structural failures; an empty list with no error is a valid outcome.
type Result struct {
	Recommendations []Recommendation `json:"recommendations"`
	Error           string           `json:"error,omitempty"`
	Path            Path             `json:"-"`
}

func errorResult(msg string) Result {
	return Result{Recommendations: []Recommendation{}, Error: msg, Path: PathError}
}

// Codes returns the recommended course codes in rank order.
func (r Result) Codes() []string {
	out := make([]string, 0, len(r.Recommendations))
	for _, rec := range r.Recommendations {
		out = append(out, rec.CourseCode)
	}
	return out
}

func toRecommendations(cs []Candidate) []Recommendation {
	out := make([]Recommendation, 0, len(cs))
	for _, c := range cs {
		out = append(out, Recommendation{
			CourseCode: c.Code,
			Score:      c.Score,
			CourseInfo: CourseInfo{
				URL:         c.Course.URL,
				Useful:      c.Course.Useful,
				Easy:        c.Course.Easy,
				Liked:       c.Course.Liked,
				Description: c.Course.Description,
				Reviews:     slices.Clone(c.Course.Reviews),
			},
		})
	}
	return out
}
