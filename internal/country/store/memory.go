package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"countries/internal/country/models"
	"countries/pkg/platform/sentinel"
)

// InMemory keeps countries in a map guarded by an RWMutex. IDs are assigned
// sequentially starting at 1 and never reused.
type InMemory struct {
	mu        sync.RWMutex
	countries map[int64]*models.Country
	nextID    int64
}

// NewInMemory returns an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{
		countries: make(map[int64]*models.Country),
		nextID:    1,
	}
}

func (s *InMemory) List(_ context.Context) ([]*models.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.collect(func(*models.Country) bool { return true })
	sortByContinentThenName(out)
	return out, nil
}

func (s *InMemory) FindByID(_ context.Context, id int64) (*models.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.countries[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(c), nil
}

func (s *InMemory) FindByName(_ context.Context, name string) (*models.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.countries {
		if c.Name == name {
			return clone(c), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListByContinent(_ context.Context, continent models.Continent) ([]*models.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.collect(func(c *models.Country) bool {
		return strings.EqualFold(string(c.Continent), string(continent))
	})
	sortByName(out)
	return out, nil
}

func (s *InMemory) SearchByName(_ context.Context, query string) ([]*models.Country, error) {
	q := strings.ToLower(query)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.collect(func(c *models.Country) bool {
		return strings.Contains(strings.ToLower(c.Name), q)
	})
	sortByName(out)
	return out, nil
}

func (s *InMemory) SearchByContinent(_ context.Context, query string) ([]*models.Country, error) {
	q := strings.ToLower(query)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.collect(func(c *models.Country) bool {
		return strings.Contains(strings.ToLower(string(c.Continent)), q)
	})
	sortByName(out)
	return out, nil
}

func (s *InMemory) PopulationGreaterThan(_ context.Context, population int64) ([]*models.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.collect(func(c *models.Country) bool {
		return c.Population != nil && *c.Population > population
	})
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].Population > *out[j].Population
	})
	return out, nil
}

// Create assigns the next ID to c and stores a copy.
func (s *InMemory) Create(_ context.Context, c *models.Country) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameTaken(c.Name, 0) {
		return sentinel.ErrConflict
	}
	c.ID = s.nextID
	s.nextID++
	s.countries[c.ID] = clone(c)
	return nil
}

func (s *InMemory) Update(_ context.Context, c *models.Country) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.countries[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if s.nameTaken(c.Name, c.ID) {
		return sentinel.ErrConflict
	}
	s.countries[c.ID] = clone(c)
	return nil
}

func (s *InMemory) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.countries[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.countries, id)
	return nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.countries), nil
}

func (s *InMemory) Continents(_ context.Context) ([]models.Continent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[models.Continent]struct{})
	for _, c := range s.countries {
		seen[c.Continent] = struct{}{}
	}
	out := make([]models.Continent, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *InMemory) CountByContinent(_ context.Context) ([]models.ContinentCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[models.Continent]int)
	for _, c := range s.countries {
		counts[c.Continent]++
	}
	out := make([]models.ContinentCount, 0, len(counts))
	for continent, n := range counts {
		out = append(out, models.ContinentCount{Continent: continent, Count: n})
	}
	sortCounts(out)
	return out, nil
}

func (s *InMemory) Ping(context.Context) error {
	return nil
}

// collect must be called with s.mu held.
func (s *InMemory) collect(keep func(*models.Country) bool) []*models.Country {
	out := make([]*models.Country, 0, len(s.countries))
	for _, c := range s.countries {
		if keep(c) {
			out = append(out, clone(c))
		}
	}
	return out
}

// nameTaken must be called with s.mu held.
func (s *InMemory) nameTaken(name string, exceptID int64) bool {
	for id, c := range s.countries {
		if id != exceptID && c.Name == name {
			return true
		}
	}
	return false
}

// clone copies c including its optional fields so callers never alias stored values.
func clone(c *models.Country) *models.Country {
	cp := *c
	cp.Capital = copyPtr(c.Capital)
	cp.Population = copyPtr(c.Population)
	cp.Area = copyPtr(c.Area)
	cp.Currency = copyPtr(c.Currency)
	cp.Language = copyPtr(c.Language)
	return &cp
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sortByName(cs []*models.Country) {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Name < cs[j].Name })
}

func sortByContinentThenName(cs []*models.Country) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Continent != cs[j].Continent {
			return cs[i].Continent < cs[j].Continent
		}
		return cs[i].Name < cs[j].Name
	})
}

// sortCounts orders by count descending, ties broken by continent name.
func sortCounts(cc []models.ContinentCount) {
	sort.SliceStable(cc, func(i, j int) bool {
		if cc[i].Count != cc[j].Count {
			return cc[i].Count > cc[j].Count
		}
		return cc[i].Continent < cc[j].Continent
	})
}
