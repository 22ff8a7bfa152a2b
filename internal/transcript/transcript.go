// Package transcript pulls course identifiers out of transcript text.
package transcript

import (
	"regexp"
	"strings"
)

var (
	coursePattern = regexp.MustCompile(`\b([A-Z]{2,4})\s*(\d{3}[A-Z]?)\b`)
	gradePattern  = regexp.MustCompile(`\b([A-Z]{2,4}\s*\d{3}[A-Z]?)\s+([A-F][+-]?|\d{1,3})(?:[^\w+-]|$)`)
	spaces        = regexp.MustCompile(`\s+`)
)

// Courses holds the extracted subject codes and numbers as parallel lists,
// in order of first appearance with duplicates removed.
type Courses struct {
	Codes   []string
	Numbers []string
}

// Full returns the joined identifiers, e.g. "CS240".
func (c Courses) Full() []string {
	out := make([]string, 0, len(c.Codes))
	for i := range c.Codes {
		if i < len(c.Numbers) {
			out = append(out, c.Codes[i]+c.Numbers[i])
		}
	}
	return out
}

// Extract finds subject+number pairs such as "CS 240" or "math135".
func Extract(text string) Courses {
	out := Courses{Codes: []string{}, Numbers: []string{}}
	seen := map[string]struct{}{}
	for _, m := range coursePattern.FindAllStringSubmatch(strings.ToUpper(text), -1) {
		full := m[1] + m[2]
		if _, dup := seen[full]; dup {
			continue
		}
		seen[full] = struct{}{}
		out.Codes = append(out.Codes, m[1])
		out.Numbers = append(out.Numbers, m[2])
	}
	return out
}

// Grade is a course paired with the grade that follows it in the text.
type Grade struct {
	Course string `json:"course"`
	Grade  string `json:"grade"`
}

// ExtractGrades finds "<course> <grade>" pairs where the grade is a letter
// (A-F with optional +/-) or a number of up to three digits.
func ExtractGrades(text string) []Grade {
	out := []Grade{}
	for _, m := range gradePattern.FindAllStringSubmatch(strings.ToUpper(text), -1) {
		out = append(out, Grade{Course: spaces.ReplaceAllString(m[1], ""), Grade: m[2]})
	}
	return out
}
