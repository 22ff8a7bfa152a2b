package course

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-json"
)

// Repository is a source of catalog records.
type Repository interface {
	Load(ctx context.Context) ([]Course, error)
}

// InMemoryRepository serves a fixed list of records; useful for tests and
// for callers that already hold the data.
type InMemoryRepository struct {
	records []Course
}

func NewInMemoryRepository(seed []Course) *InMemoryRepository {
	out := make([]Course, len(seed))
	copy(out, seed)
	return &InMemoryRepository{records: out}
}

func (r *InMemoryRepository) Load(ctx context.Context) ([]Course, error) {
	out := make([]Course, len(r.records))
	copy(out, r.records)
	return out, nil
}

// JSONRepository reads the catalog file written by the embedding batch job:
// a JSON object keyed by course code.
type JSONRepository struct {
	path string
}

func NewJSONRepository(path string) *JSONRepository {
	return &JSONRepository{path: path}
}

func (r *JSONRepository) Load(ctx context.Context) ([]Course, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", r.path, err)
	}
	return ParseJSON(data)
}

// jsonRecord is one value of the catalog file. Missing string and list
// fields decode to their zero values; missing percentages stay unknown.
type jsonRecord struct {
	URL         string     `json:"url"`
	Useful      Percentage `json:"useful_percentage"`
	Easy        Percentage `json:"easy_percentage"`
	Liked       Percentage `json:"liked_percentage"`
	Description string     `json:"course_description"`
	Reviews     []string   `json:"reviews"`
	Embedding   []float64  `json:"embedding"`
}

// ParseJSON decodes a catalog document. Records are returned ordered by key
// so that loading is deterministic.
func ParseJSON(data []byte) ([]Course, error) {
	var raw map[string]jsonRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCatalog, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: catalog document is not an object", ErrMalformedCatalog)
	}

	codes := make([]string, 0, len(raw))
	for code := range raw {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]Course, 0, len(raw))
	for _, code := range codes {
		rec := raw[code]
		out = append(out, Course{
			Code:        code,
			URL:         rec.URL,
			Useful:      rec.Useful,
			Easy:        rec.Easy,
			Liked:       rec.Liked,
			Description: rec.Description,
			Reviews:     rec.Reviews,
			Embedding:   rec.Embedding,
		})
	}
	return out, nil
}
