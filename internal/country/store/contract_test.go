package store

import (
	"context"

	"github.com/stretchr/testify/suite"

	"countries/internal/country/models"
	"countries/pkg/platform/sentinel"
)

// countryStore is the behaviour every backend must share.
type countryStore interface {
	List(ctx context.Context) ([]*models.Country, error)
	FindByID(ctx context.Context, id int64) (*models.Country, error)
	FindByName(ctx context.Context, name string) (*models.Country, error)
	ListByContinent(ctx context.Context, continent models.Continent) ([]*models.Country, error)
	SearchByName(ctx context.Context, query string) ([]*models.Country, error)
	SearchByContinent(ctx context.Context, query string) ([]*models.Country, error)
	PopulationGreaterThan(ctx context.Context, population int64) ([]*models.Country, error)
	Create(ctx context.Context, c *models.Country) error
	Update(ctx context.Context, c *models.Country) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	Continents(ctx context.Context) ([]models.Continent, error)
	CountByContinent(ctx context.Context) ([]models.ContinentCount, error)
	Ping(ctx context.Context) error
}

// storeContract runs the same assertions against any backend. Embedders set
// newStore in SetupTest.
type storeContract struct {
	suite.Suite
	ctx   context.Context
	store countryStore
}

func (s *storeContract) create(name string, continent models.Continent, population *int64) *models.Country {
	c := &models.Country{Name: name, Continent: continent, Population: population}
	s.Require().NoError(s.store.Create(s.ctx, c))
	s.Require().NotZero(c.ID)
	return c
}

func names(cs []*models.Country) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func (s *storeContract) TestCreateAndFind() {
	s.Run("round trip keeps nulls", func() {
		c := &models.Country{Name: "Chad", Continent: models.ContinentAfrica}
		s.Require().NoError(s.store.Create(s.ctx, c))

		found, err := s.store.FindByID(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal(c, found)
		s.Nil(found.Capital)
		s.Nil(found.Population)
		s.Nil(found.Area)
	})

	s.Run("round trip keeps optionals", func() {
		c := &models.Country{
			Name:       "Singapore",
			Continent:  models.ContinentAsia,
			Capital:    models.Ptr("Singapore"),
			Population: models.Ptr(int64(5850342)),
			Area:       models.Ptr(728.6),
			Currency:   models.Ptr("SGD"),
			Language:   models.Ptr("English"),
		}
		s.Require().NoError(s.store.Create(s.ctx, c))

		found, err := s.store.FindByName(s.ctx, "Singapore")
		s.Require().NoError(err)
		s.Equal(c, found)
	})

	s.Run("unknown id is not found", func() {
		_, err := s.store.FindByID(s.ctx, 9999)
		s.ErrorIs(err, sentinel.ErrNotFound)

		_, err = s.store.FindByName(s.ctx, "Atlantis")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("duplicate name conflicts", func() {
		s.create("Kenya", models.ContinentAfrica, nil)
		err := s.store.Create(s.ctx, &models.Country{Name: "Kenya", Continent: models.ContinentAfrica})
		s.ErrorIs(err, sentinel.ErrConflict)
	})
}

func (s *storeContract) TestQueries() {
	s.create("India", models.ContinentAsia, models.Ptr(int64(1380004385)))
	s.create("China", models.ContinentAsia, models.Ptr(int64(1439323776)))
	s.create("Finland", models.ContinentEurope, models.Ptr(int64(5540720)))
	s.create("Argentina", models.ContinentSouthAmerica, models.Ptr(int64(45195774)))
	s.create("Fiji", models.ContinentAustralia, nil)

	s.Run("list orders by continent then name", func() {
		all, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Equal([]string{"China", "India", "Fiji", "Finland", "Argentina"}, names(all))
	})

	s.Run("continent match ignores case and orders by name", func() {
		asia, err := s.store.ListByContinent(s.ctx, "asia")
		s.Require().NoError(err)
		s.Equal([]string{"China", "India"}, names(asia))
	})

	s.Run("name search is a case-insensitive substring", func() {
		got, err := s.store.SearchByName(s.ctx, "IN")
		s.Require().NoError(err)
		s.Equal([]string{"Argentina", "China", "Finland", "India"}, names(got))
	})

	s.Run("name search escapes wildcards", func() {
		got, err := s.store.SearchByName(s.ctx, "%")
		s.Require().NoError(err)
		s.Empty(got)
	})

	s.Run("continent search is a substring", func() {
		got, err := s.store.SearchByContinent(s.ctx, "america")
		s.Require().NoError(err)
		s.Equal([]string{"Argentina"}, names(got))
	})

	s.Run("population filter orders descending and skips nulls", func() {
		got, err := s.store.PopulationGreaterThan(s.ctx, 10_000_000)
		s.Require().NoError(err)
		s.Equal([]string{"China", "India", "Argentina"}, names(got))
	})

	s.Run("aggregates", func() {
		n, err := s.store.Count(s.ctx)
		s.Require().NoError(err)
		s.Equal(5, n)

		continents, err := s.store.Continents(s.ctx)
		s.Require().NoError(err)
		s.Equal([]models.Continent{
			models.ContinentAsia, models.ContinentAustralia, models.ContinentEurope, models.ContinentSouthAmerica,
		}, continents)

		counts, err := s.store.CountByContinent(s.ctx)
		s.Require().NoError(err)
		s.Equal([]models.ContinentCount{
			{Continent: models.ContinentAsia, Count: 2},
			{Continent: models.ContinentAustralia, Count: 1},
			{Continent: models.ContinentEurope, Count: 1},
			{Continent: models.ContinentSouthAmerica, Count: 1},
		}, counts)
	})
}

func (s *storeContract) TestUpdateAndDelete() {
	peru := s.create("Peru", models.ContinentSouthAmerica, nil)
	s.create("Chile", models.ContinentSouthAmerica, nil)

	s.Run("update replaces fields", func() {
		peru.Capital = models.Ptr("Lima")
		s.Require().NoError(s.store.Update(s.ctx, peru))

		found, err := s.store.FindByID(s.ctx, peru.ID)
		s.Require().NoError(err)
		s.Equal("Lima", *found.Capital)
	})

	s.Run("update to an existing name conflicts", func() {
		renamed := *peru
		renamed.Name = "Chile"
		s.ErrorIs(s.store.Update(s.ctx, &renamed), sentinel.ErrConflict)
	})

	s.Run("update missing id is not found", func() {
		s.ErrorIs(s.store.Update(s.ctx, &models.Country{ID: 4242, Name: "Nowhere", Continent: models.ContinentAsia}), sentinel.ErrNotFound)
	})

	s.Run("delete removes from list", func() {
		s.Require().NoError(s.store.Delete(s.ctx, peru.ID))
		all, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Equal([]string{"Chile"}, names(all))

		s.ErrorIs(s.store.Delete(s.ctx, peru.ID), sentinel.ErrNotFound)
	})
}

func (s *storeContract) TestPing() {
	s.NoError(s.store.Ping(s.ctx))
}
