package course

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync/atomic"
	"unicode"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("course not found")
	ErrMalformedCatalog  = errors.New("malformed catalog")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Catalog is an immutable, validated view of every known course.
// A Catalog must not be modified after NewCatalog returns, which is what
// makes it safe to share between concurrent requests without locking.
type Catalog struct {
	courses  map[string]Course
	codes    []string
	embedded []string
	dim      int
	version  string
}

// NewCatalog validates records and builds a catalog keyed by the canonical
// (upper-cased) course code.
func NewCatalog(records []Course) (*Catalog, error) {
	c := &Catalog{
		courses: make(map[string]Course, len(records)),
		version: uuid.NewString(),
	}

	for _, rec := range records {
		code := Canonical(rec.Code)
		if code == "" {
			return nil, fmt.Errorf("%w: empty course code", ErrMalformedCatalog)
		}
		if _, dup := c.courses[code]; dup {
			return nil, fmt.Errorf("%w: duplicate course code %q", ErrMalformedCatalog, code)
		}
		if err := validatePercentages(code, rec); err != nil {
			return nil, err
		}
		if rec.HasEmbedding() {
			if c.dim == 0 {
				c.dim = len(rec.Embedding)
			} else if len(rec.Embedding) != c.dim {
				return nil, fmt.Errorf("%w: %s has %d dimensions, want %d", ErrDimensionMismatch, code, len(rec.Embedding), c.dim)
			}
			for _, v := range rec.Embedding {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, fmt.Errorf("%w: %s embedding contains a non-finite value", ErrMalformedCatalog, code)
				}
			}
			c.embedded = append(c.embedded, code)
		} else {
			rec.Embedding = nil
		}
		if rec.Reviews == nil {
			rec.Reviews = []string{}
		}
		rec.Code = code
		c.courses[code] = rec
		c.codes = append(c.codes, code)
	}

	sort.Strings(c.codes)
	sort.Strings(c.embedded)
	return c, nil
}

func validatePercentages(code string, rec Course) error {
	for name, p := range map[string]Percentage{"useful": rec.Useful, "easy": rec.Easy, "liked": rec.Liked} {
		if !p.Valid {
			continue
		}
		if math.IsNaN(p.Value) || p.Value < 0 || p.Value > 100 {
			return fmt.Errorf("%w: %s %s percentage %v out of range", ErrMalformedCatalog, code, name, p.Value)
		}
	}
	return nil
}

// Get returns the course metadata for a code in any case.
func (c *Catalog) Get(code string) (Course, bool) {
	rec, ok := c.courses[Canonical(code)]
	return rec, ok
}

// Embedding returns the stored vector for a code. The slice is shared and
// must not be modified.
func (c *Catalog) Embedding(code string) ([]float64, bool) {
	rec, ok := c.courses[Canonical(code)]
	if !ok || !rec.HasEmbedding() {
		return nil, false
	}
	return rec.Embedding, true
}

// Codes returns every known code in ascending order.
func (c *Catalog) Codes() []string {
	return c.codes
}

// EmbeddedCodes returns, in ascending order, the codes that carry an embedding.
func (c *Catalog) EmbeddedCodes() []string {
	return c.embedded
}

// Dimension is the shared embedding dimension, or 0 when no course has one.
func (c *Catalog) Dimension() int {
	return c.dim
}

func (c *Catalog) Len() int {
	return len(c.courses)
}

// Version identifies this particular load of the catalog.
func (c *Catalog) Version() string {
	return c.version
}

// DepartmentCount is the number of catalog courses under a department prefix.
type DepartmentCount struct {
	Department string `json:"department"`
	Courses    int    `json:"courses"`
}

// Departments groups the catalog by Department(code, prefixLen).
func (c *Catalog) Departments(prefixLen int) []DepartmentCount {
	counts := map[string]int{}
	for _, code := range c.codes {
		counts[Department(code, prefixLen)]++
	}
	out := make([]DepartmentCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, DepartmentCount{Department: d, Courses: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}

// Department derives the subject department of a course code. With a
// positive prefixLen it is the first prefixLen characters of the canonical
// code; with prefixLen <= 0 it is the leading run of letters.
func Department(code string, prefixLen int) string {
	code = Canonical(code)
	if prefixLen > 0 {
		if len(code) <= prefixLen {
			return code
		}
		return code[:prefixLen]
	}
	end := strings.IndexFunc(code, func(r rune) bool { return !unicode.IsLetter(r) })
	if end < 0 {
		return code
	}
	return code[:end]
}

// Store holds the current catalog snapshot. Readers always see a complete
// catalog; Swap replaces it atomically for hot reloads.
type Store struct {
	current atomic.Pointer[Catalog]
}

func NewStore(c *Catalog) *Store {
	s := &Store{}
	s.current.Store(c)
	return s
}

// Catalog returns the snapshot in effect at the time of the call.
func (s *Store) Catalog() *Catalog {
	return s.current.Load()
}

// Swap installs a new snapshot and returns the previous one.
func (s *Store) Swap(c *Catalog) *Catalog {
	return s.current.Swap(c)
}
