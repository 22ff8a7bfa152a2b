package course

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wichananm65/course-recommender/internal/metrics"
)

// Service loads catalogs from a Repository and owns the live Store.
type Service struct {
	repo      Repository
	store     *Store
	prefixLen int
	logger    zerolog.Logger

	// serializes reloads; readers never take it
	reloadMu sync.Mutex
}

// NewService performs the initial load. A catalog that fails validation is
// returned as an error so the process can refuse to start.
func NewService(ctx context.Context, repo Repository, prefixLen int, logger zerolog.Logger) (*Service, error) {
	s := &Service{
		repo:      repo,
		prefixLen: prefixLen,
		logger:    logger.With().Str("component", "catalog").Logger(),
	}
	cat, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.store = NewStore(cat)
	return s, nil
}

func (s *Service) load(ctx context.Context) (*Catalog, error) {
	records, err := s.repo.Load(ctx)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	cat, err := NewCatalog(records)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	metrics.CatalogReloads.WithLabelValues("ok").Inc()
	metrics.SetCatalogSize(cat.Len(), len(cat.EmbeddedCodes()))
	s.logger.Info().
		Int("courses", cat.Len()).
		Int("embedded", len(cat.EmbeddedCodes())).
		Int("dimension", cat.Dimension()).
		Str("version", cat.Version()).
		Msg("catalog loaded")
	return cat, nil
}

// Reload re-reads the source and swaps the snapshot. On failure the current
// snapshot stays in place.
func (s *Service) Reload(ctx context.Context) (*Catalog, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	cat, err := s.load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("catalog reload failed, keeping previous snapshot")
		return nil, err
	}
	s.store.Swap(cat)
	return cat, nil
}

// Store exposes the live snapshot holder to the recommendation engine.
func (s *Service) Store() *Store {
	return s.store
}

func (s *Service) GetByCode(code string) (Course, error) {
	c, ok := s.store.Catalog().Get(code)
	if !ok {
		return Course{}, ErrNotFound
	}
	return c, nil
}

// List returns up to limit courses in code order, starting at offset.
func (s *Service) List(limit, offset int) []Course {
	cat := s.store.Catalog()
	codes := cat.Codes()
	if offset >= len(codes) {
		return []Course{}
	}
	end := min(offset+limit, len(codes))
	out := make([]Course, 0, end-offset)
	for _, code := range codes[offset:end] {
		c, _ := cat.Get(code)
		out = append(out, c)
	}
	return out
}

func (s *Service) Departments() []DepartmentCount {
	return s.store.Catalog().Departments(s.prefixLen)
}
