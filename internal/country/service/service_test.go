package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,AuditPublisher

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"countries/internal/audit"
	"countries/internal/country/metrics"
	"countries/internal/country/models"
	"countries/internal/country/service/mocks"
	"countries/internal/country/store"
	dErrors "countries/pkg/domain-errors"
	"countries/pkg/platform/sentinel"
	"countries/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctx       context.Context
	store     *store.InMemory
	publisher *mocks.MockAuditPublisher
	metrics   *metrics.Metrics
	service   *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.ctx = requestcontext.WithRequestID(context.Background(), "req-1")
	s.store = store.NewInMemory()
	s.publisher = mocks.NewMockAuditPublisher(ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())

	svc, err := New(s.store,
		WithAuditPublisher(s.publisher),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
	s.service = svc
}

func (s *ServiceSuite) create(name, continent string) *models.Country {
	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
	c, err := s.service.Create(s.ctx, models.CountryInput{Name: name, Continent: continent})
	s.Require().NoError(err)
	return c
}

func (s *ServiceSuite) TestNewRequiresStore() {
	_, err := New(nil)
	s.Require().Error(err)
}

func (s *ServiceSuite) TestCreate() {
	s.Run("keeps absent optional fields nil", func() {
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e audit.Event) error {
				s.Equal(audit.ActionCountryCreated, e.Action)
				s.Equal("Iceland", e.CountryName)
				s.Equal("req-1", e.RequestID)
				return nil
			})

		c, err := s.service.Create(s.ctx, models.CountryInput{Name: "  Iceland ", Continent: "europe"})
		s.Require().NoError(err)
		s.NotZero(c.ID)
		s.Equal("Iceland", c.Name)
		s.Equal(models.ContinentEurope, c.Continent)
		s.Nil(c.Capital)
		s.Nil(c.Population)
		s.Nil(c.Area)

		fetched, err := s.service.Get(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal(c, fetched)
		s.Nil(fetched.Population)
		s.InDelta(1, promtestutil.ToFloat64(s.metrics.CountriesCreated), 0)
	})

	s.Run("rejects a duplicate name", func() {
		_, err := s.service.Create(s.ctx, models.CountryInput{Name: "Iceland", Continent: "Europe"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal("Country with name 'Iceland' already exists", err.Error())
	})

	s.Run("rejects invalid input before touching the store", func() {
		_, err := s.service.Create(s.ctx, models.CountryInput{Name: "X", Continent: "Europe"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		n, err := s.store.Count(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, n)
	})
}

func (s *ServiceSuite) TestGet() {
	s.Run("missing id", func() {
		_, err := s.service.Get(s.ctx, 42)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Equal("Country with ID 42 not found", err.Error())
	})

	s.Run("by name", func() {
		created := s.create("Japan", "Asia")
		c, err := s.service.GetByName(s.ctx, "Japan")
		s.Require().NoError(err)
		s.Equal(created.ID, c.ID)

		_, err = s.service.GetByName(s.ctx, "japan")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestUpdate() {
	c := s.create("Peru", "South America")
	s.create("Chile", "South America")

	s.Run("replaces all writable fields", func() {
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
		updated, err := s.service.Update(s.ctx, c.ID, models.CountryInput{
			Name:       "Peru",
			Continent:  "South America",
			Capital:    models.Ptr("Lima"),
			Population: models.Ptr(int64(33000000)),
		})
		s.Require().NoError(err)
		s.Equal("Lima", *updated.Capital)
		s.Equal(int64(33000000), *updated.Population)
	})

	s.Run("name taken by another country", func() {
		_, err := s.service.Update(s.ctx, c.ID, models.CountryInput{Name: "Chile", Continent: "South America"})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("missing id", func() {
		_, err := s.service.Update(s.ctx, 999, models.CountryInput{Name: "Nowhere", Continent: "Asia"})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Equal("Country with ID 999 not found", err.Error())
	})
}

func (s *ServiceSuite) TestDelete() {
	c := s.create("Kenya", "Africa")

	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e audit.Event) error {
			s.Equal(audit.ActionCountryDeleted, e.Action)
			s.Equal(c.ID, e.CountryID)
			return nil
		})
	s.Require().NoError(s.service.Delete(s.ctx, c.ID))

	all, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)

	err = s.service.Delete(s.ctx, c.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestAuditFailureDoesNotFailWrite() {
	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("queue full"))
	c, err := s.service.Create(s.ctx, models.CountryInput{Name: "Nepal", Continent: "Asia"})
	s.Require().NoError(err)
	s.NotZero(c.ID)
}

func (s *ServiceSuite) TestBulkCreate() {
	s.create("Egypt", "Africa")

	s.Run("skips existing names and in-batch duplicates", func() {
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).Times(2)
		created, err := s.service.BulkCreate(s.ctx, []models.CountryInput{
			{Name: "Egypt", Continent: "Africa"},
			{Name: "Ghana", Continent: "Africa"},
			{Name: "Ghana", Continent: "Africa"},
			{Name: "Mali", Continent: "Africa"},
		})
		s.Require().NoError(err)
		s.Require().Len(created, 2)
		s.Equal("Ghana", created[0].Name)
		s.Equal("Mali", created[1].Name)
	})

	s.Run("invalid entry creates nothing", func() {
		created, err := s.service.BulkCreate(s.ctx, []models.CountryInput{
			{Name: "Togo", Continent: "Africa"},
			{Name: "Benin", Continent: "Atlantis"},
		})
		s.Require().Error(err)
		s.Nil(created)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = s.service.GetByName(s.ctx, "Togo")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestStatistics() {
	for _, in := range []models.CountryInput{
		{Name: "China", Continent: "Asia"},
		{Name: "India", Continent: "Asia"},
		{Name: "Japan", Continent: "Asia"},
		{Name: "France", Continent: "Europe"},
		{Name: "Spain", Continent: "Europe"},
	} {
		s.create(in.Name, in.Continent)
	}

	stats, err := s.service.Statistics(s.ctx)
	s.Require().NoError(err)
	s.Equal(5, stats.TotalCountries)
	s.Equal([]models.Continent{models.ContinentAsia, models.ContinentEurope}, stats.Continents)
	s.Equal([]models.ContinentCount{
		{Continent: models.ContinentAsia, Count: 3},
		{Continent: models.ContinentEurope, Count: 2},
	}, stats.CountriesByContinent)
	s.InDelta(5, promtestutil.ToFloat64(s.metrics.CatalogSize), 0)
}

func (s *ServiceSuite) TestSearch() {
	s.create("India", "Asia")
	s.create("Indonesia", "Asia")
	s.create("Finland", "Europe")

	byName, err := s.service.SearchByName(s.ctx, "IND")
	s.Require().NoError(err)
	s.Len(byName, 2)

	byContinent, err := s.service.SearchByContinent(s.ctx, "eur")
	s.Require().NoError(err)
	s.Require().Len(byContinent, 1)
	s.Equal("Finland", byContinent[0].Name)

	exact, err := s.service.ListByContinent(s.ctx, "asia")
	s.Require().NoError(err)
	s.Len(exact, 2)

	_, err = s.service.PopulationGreaterThan(s.ctx, -1)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestSeedIfEmpty() {
	samples := []models.CountryInput{
		{Name: "Brazil", Continent: "South America"},
		{Name: "Canada", Continent: "North America"},
	}
	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	n, err := s.service.SeedIfEmpty(s.ctx, samples)
	s.Require().NoError(err)
	s.Equal(2, n)

	n, err = s.service.SeedIfEmpty(s.ctx, samples)
	s.Require().NoError(err)
	s.Zero(n)
}

func TestServiceStoreFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	svc, err := New(st)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	boom := errors.New("connection reset")

	t.Run("list failure is internal", func(t *testing.T) {
		st.EXPECT().List(gomock.Any()).Return(nil, boom)
		_, err := svc.List(ctx)
		if !dErrors.HasCode(err, dErrors.CodeInternal) || !errors.Is(err, boom) {
			t.Fatalf("expected wrapped internal error, got %v", err)
		}
	})

	t.Run("store conflict on insert maps to conflict", func(t *testing.T) {
		st.EXPECT().FindByName(gomock.Any(), "Chad").Return(nil, sentinel.ErrNotFound)
		st.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)
		_, err := svc.Create(ctx, models.CountryInput{Name: "Chad", Continent: "Africa"})
		if !dErrors.HasCode(err, dErrors.CodeConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("statistics fails when any query fails", func(t *testing.T) {
		st.EXPECT().Count(gomock.Any()).Return(3, nil)
		st.EXPECT().Continents(gomock.Any()).Return(nil, boom)
		st.EXPECT().CountByContinent(gomock.Any()).Return(nil, nil).AnyTimes()
		_, err := svc.Statistics(ctx)
		if !errors.Is(err, boom) {
			t.Fatalf("expected %v, got %v", boom, err)
		}
	})

	t.Run("ping failure is unavailable", func(t *testing.T) {
		st.EXPECT().Ping(gomock.Any()).Return(boom)
		if err := svc.Ping(ctx); !dErrors.HasCode(err, dErrors.CodeUnavailable) {
			t.Fatalf("expected unavailable, got %v", err)
		}
	})
}
