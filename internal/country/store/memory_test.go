package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"countries/internal/country/models"
)

type InMemoryStoreSuite struct {
	storeContract
	mem *InMemory
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.mem = NewInMemory()
	s.store = s.mem
}

// TestReturnsCopies verifies callers cannot mutate stored records through
// returned pointers.
func (s *InMemoryStoreSuite) TestReturnsCopies() {
	c := &models.Country{Name: "Oman", Continent: models.ContinentAsia, Population: models.Ptr(int64(10))}
	s.Require().NoError(s.mem.Create(s.ctx, c))

	found, err := s.mem.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	found.Name = "Changed"
	*found.Population = 99

	again, err := s.mem.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal("Oman", again.Name)
	s.Equal(int64(10), *again.Population)
}

func (s *InMemoryStoreSuite) TestIDsAreNotReused() {
	a := &models.Country{Name: "Laos", Continent: models.ContinentAsia}
	s.Require().NoError(s.mem.Create(s.ctx, a))
	s.Require().NoError(s.mem.Delete(s.ctx, a.ID))

	b := &models.Country{Name: "Nepal", Continent: models.ContinentAsia}
	s.Require().NoError(s.mem.Create(s.ctx, b))
	s.Greater(b.ID, a.ID)
}
