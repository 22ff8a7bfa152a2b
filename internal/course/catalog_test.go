package course

import (
	"errors"
	"math"
	"testing"
)

func sampleCourses() []Course {
	return []Course{
		{Code: "cs240", Liked: Percent(80), Embedding: []float64{1, 0}},
		{Code: "MATH135", Liked: Percent(60), Useful: Percent(70), Embedding: []float64{0, 1}},
		{Code: "ENGL109", Reviews: []string{"long readings"}},
	}
}

func TestNewCatalog_CanonicalizesAndSorts(t *testing.T) {
	cat, err := NewCatalog(sampleCourses())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Len() != 3 {
		t.Fatalf("expected 3 courses, got %d", cat.Len())
	}
	want := []string{"CS240", "ENGL109", "MATH135"}
	for i, code := range cat.Codes() {
		if code != want[i] {
			t.Fatalf("codes[%d] = %s, want %s", i, code, want[i])
		}
	}
	if got := cat.EmbeddedCodes(); len(got) != 2 || got[0] != "CS240" || got[1] != "MATH135" {
		t.Fatalf("unexpected embedded codes %v", got)
	}
	if cat.Dimension() != 2 {
		t.Fatalf("expected dimension 2, got %d", cat.Dimension())
	}
	if cat.Version() == "" {
		t.Fatalf("expected a catalog version")
	}

	rec, ok := cat.Get(" cs240 ")
	if !ok || rec.Code != "CS240" {
		t.Fatalf("lookup by lower-case code failed: %+v %v", rec, ok)
	}
	if rec.Reviews == nil {
		t.Fatalf("expected empty reviews to be normalized to a non-nil list")
	}
	if _, ok := cat.Embedding("ENGL109"); ok {
		t.Fatalf("ENGL109 has no embedding")
	}
	if _, ok := cat.Get("NOPE100"); ok {
		t.Fatalf("unknown code should not be found")
	}
}

func TestNewCatalog_EmptyCatalog(t *testing.T) {
	cat, err := NewCatalog(nil)
	if err != nil {
		t.Fatalf("empty catalog should be valid: %v", err)
	}
	if cat.Len() != 0 || cat.Dimension() != 0 || len(cat.Codes()) != 0 {
		t.Fatalf("expected an empty catalog")
	}
}

func TestNewCatalog_Rejects(t *testing.T) {
	cases := []struct {
		name    string
		records []Course
		want    error
	}{
		{"empty code", []Course{{Code: "  "}}, ErrMalformedCatalog},
		{"duplicate after canonicalization", []Course{{Code: "CS240"}, {Code: "cs240"}}, ErrMalformedCatalog},
		{"liked above 100", []Course{{Code: "CS240", Liked: Percent(101)}}, ErrMalformedCatalog},
		{"negative easy", []Course{{Code: "CS240", Easy: Percent(-1)}}, ErrMalformedCatalog},
		{"nan embedding", []Course{{Code: "CS240", Embedding: []float64{math.NaN()}}}, ErrMalformedCatalog},
		{"dimension mismatch", []Course{
			{Code: "CS240", Embedding: []float64{1, 0}},
			{Code: "CS241", Embedding: []float64{1, 0, 0}},
		}, ErrDimensionMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCatalog(tc.records)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestNewCatalog_EmptyEmbeddingIsAbsent(t *testing.T) {
	cat, err := NewCatalog([]Course{{Code: "CS240", Embedding: []float64{}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cat.EmbeddedCodes()) != 0 {
		t.Fatalf("an empty embedding must not count as present")
	}
}

func TestDepartment(t *testing.T) {
	cases := []struct {
		code      string
		prefixLen int
		want      string
	}{
		{"CS240", 2, "CS"},
		{"math135", 2, "MA"},
		{"X", 2, "X"},
		{"MATH135", 0, "MATH"},
		{"CS240", 0, "CS"},
		{"ECON", 0, "ECON"},
	}
	for _, tc := range cases {
		if got := Department(tc.code, tc.prefixLen); got != tc.want {
			t.Fatalf("Department(%q, %d) = %q, want %q", tc.code, tc.prefixLen, got, tc.want)
		}
	}
}

func TestDepartments(t *testing.T) {
	cat, err := NewCatalog([]Course{{Code: "CS240"}, {Code: "CS241"}, {Code: "MATH135"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := cat.Departments(2)
	if len(got) != 2 || got[0] != (DepartmentCount{"CS", 2}) || got[1] != (DepartmentCount{"MA", 1}) {
		t.Fatalf("unexpected departments %+v", got)
	}
}

func TestStore_Swap(t *testing.T) {
	first, _ := NewCatalog([]Course{{Code: "CS240"}})
	second, _ := NewCatalog([]Course{{Code: "CS241"}})
	s := NewStore(first)
	if s.Catalog() != first {
		t.Fatalf("expected first snapshot")
	}
	if prev := s.Swap(second); prev != first {
		t.Fatalf("swap should return the previous snapshot")
	}
	if _, ok := s.Catalog().Get("CS241"); !ok {
		t.Fatalf("expected the new snapshot to be live")
	}
}
