package course

import (
	"bytes"
	"strconv"
	"strings"
)

// Course is a single catalog entry. JSON tags follow the field names used by
// the embedding batch job that produces the catalog file.
type Course struct {
	Code        string     `json:"course_code"`
	URL         string     `json:"url"`
	Useful      Percentage `json:"useful_percentage"`
	Easy        Percentage `json:"easy_percentage"`
	Liked       Percentage `json:"liked_percentage"`
	Description string     `json:"course_description"`
	Reviews     []string   `json:"reviews"`
	Embedding   []float64  `json:"embedding,omitempty"`
}

// HasEmbedding reports whether the course can take part in similarity ranking.
func (c Course) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// Percentage is a crowd-sourced quality percentage that may be unknown.
// The zero value is unknown and marshals to JSON null.
type Percentage struct {
	Value float64
	Valid bool
}

// Percent returns a known percentage.
func Percent(v float64) Percentage {
	return Percentage{Value: v, Valid: true}
}

// Or returns the value when known, def otherwise.
func (p Percentage) Or(def float64) float64 {
	if !p.Valid {
		return def
	}
	return p.Value
}

func (p Percentage) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, p.Value, 'f', -1, 64), nil
}

func (p *Percentage) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = Percentage{}
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*p = Percent(v)
	return nil
}

// Canonical returns the catalog key for a user-supplied identifier.
func Canonical(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
