package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"countries/internal/audit"
	"countries/internal/country/metrics"
	"countries/internal/country/models"
	"countries/internal/platform/logger"
	dErrors "countries/pkg/domain-errors"
	"countries/pkg/platform/sentinel"
	"countries/pkg/requestcontext"
)

// Store is the persistence port for countries.
type Store interface {
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

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service implements the catalog use cases on top of a Store.
type Service struct {
	store          Store
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New constructs a Service. store must be non-nil.
func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("country store is required")
	}
	s := &Service{
		store:  store,
		logger: logger.Discard(),
		tracer: otel.Tracer("countries/country/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// List returns every country ordered by continent then name.
func (s *Service) List(ctx context.Context) ([]*models.Country, error) {
	ctx, end := s.begin(ctx, "List")
	countries, err := s.store.List(ctx)
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to list countries")
	}
	end(err)
	return countries, err
}

// Get returns a country by ID.
func (s *Service) Get(ctx context.Context, id int64) (*models.Country, error) {
	ctx, end := s.begin(ctx, "Get", attribute.Int64("country.id", id))
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		err = s.translateNotFound(err, id)
	}
	end(err)
	return c, err
}

// GetByName returns a country by exact name.
func (s *Service) GetByName(ctx context.Context, name string) (*models.Country, error) {
	ctx, end := s.begin(ctx, "GetByName")
	c, err := s.store.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			err = dErrors.Newf(dErrors.CodeNotFound, "Country with name '%s' not found", name)
		} else {
			err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to load country")
		}
	}
	end(err)
	return c, err
}

// ListByContinent matches the continent exactly, ignoring case, ordered by name.
func (s *Service) ListByContinent(ctx context.Context, continent string) ([]*models.Country, error) {
	ctx, end := s.begin(ctx, "ListByContinent")
	countries, err := s.store.ListByContinent(ctx, models.Continent(strings.TrimSpace(continent)))
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to list countries by continent")
	}
	end(err)
	return countries, err
}

// SearchByName returns countries whose name contains query, ignoring case.
func (s *Service) SearchByName(ctx context.Context, query string) ([]*models.Country, error) {
	ctx, end := s.begin(ctx, "SearchByName")
	countries, err := s.store.SearchByName(ctx, strings.TrimSpace(query))
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to search countries")
	}
	end(err)
	return countries, err
}

// SearchByContinent returns countries whose continent contains query, ignoring case.
func (s *Service) SearchByContinent(ctx context.Context, query string) ([]*models.Country, error) {
	ctx, end := s.begin(ctx, "SearchByContinent")
	countries, err := s.store.SearchByContinent(ctx, strings.TrimSpace(query))
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to search countries")
	}
	end(err)
	return countries, err
}

func (s *Service) Continents(ctx context.Context) ([]models.Continent, error) {
	ctx, end := s.begin(ctx, "Continents")
	continents, err := s.store.Continents(ctx)
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to list continents")
	}
	end(err)
	return continents, err
}

// PopulationGreaterThan returns countries above population, largest first.
func (s *Service) PopulationGreaterThan(ctx context.Context, population int64) ([]*models.Country, error) {
	if population < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "Population must be non-negative")
	}
	ctx, end := s.begin(ctx, "PopulationGreaterThan")
	countries, err := s.store.PopulationGreaterThan(ctx, population)
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to list countries by population")
	}
	end(err)
	return countries, err
}

// Create validates in and stores a new country. Names are unique.
func (s *Service) Create(ctx context.Context, in models.CountryInput) (*models.Country, error) {
	start := time.Now()
	ctx, end := s.begin(ctx, "Create")
	c, err := s.create(ctx, in)
	end(err)
	if err != nil {
		return nil, err
	}

	s.observe("create", start)
	if s.metrics != nil {
		s.metrics.IncrementCreated(1)
	}
	s.logger.InfoContext(ctx, "country created",
		"request_id", requestcontext.RequestID(ctx),
		"country_id", c.ID,
		"name", c.Name,
	)
	s.emit(ctx, audit.ActionCountryCreated, c)
	return c, nil
}

func (s *Service) create(ctx context.Context, in models.CountryInput) (*models.Country, error) {
	c, err := models.NewCountry(0, in)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.FindByName(ctx, c.Name); err == nil {
		return nil, conflict(c.Name)
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check country name")
	}
	if err := s.store.Create(ctx, c); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, conflict(c.Name)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create country")
	}
	return c, nil
}

// Update replaces every writable field of country id.
func (s *Service) Update(ctx context.Context, id int64, in models.CountryInput) (*models.Country, error) {
	start := time.Now()
	ctx, end := s.begin(ctx, "Update", attribute.Int64("country.id", id))
	c, err := s.update(ctx, id, in)
	end(err)
	if err != nil {
		return nil, err
	}

	s.observe("update", start)
	if s.metrics != nil {
		s.metrics.IncrementUpdated()
	}
	s.logger.InfoContext(ctx, "country updated",
		"request_id", requestcontext.RequestID(ctx),
		"country_id", c.ID,
	)
	s.emit(ctx, audit.ActionCountryUpdated, c)
	return c, nil
}

func (s *Service) update(ctx context.Context, id int64, in models.CountryInput) (*models.Country, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateNotFound(err, id)
	}
	if err := c.Update(in); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, c); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrConflict):
			return nil, conflict(c.Name)
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, notFound(id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update country")
	}
	return c, nil
}

// Delete removes country id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	ctx, end := s.begin(ctx, "Delete", attribute.Int64("country.id", id))
	c, err := s.store.FindByID(ctx, id)
	if err == nil {
		err = s.store.Delete(ctx, id)
	}
	if err != nil {
		err = s.translateNotFound(err, id)
	}
	end(err)
	if err != nil {
		return err
	}

	s.observe("delete", start)
	if s.metrics != nil {
		s.metrics.IncrementDeleted()
	}
	s.logger.InfoContext(ctx, "country deleted",
		"request_id", requestcontext.RequestID(ctx),
		"country_id", id,
	)
	s.emit(ctx, audit.ActionCountryDeleted, c)
	return nil
}

// BulkCreate validates every input, then creates those whose name is not
// already taken. Duplicates inside the batch keep the first occurrence.
func (s *Service) BulkCreate(ctx context.Context, inputs []models.CountryInput) ([]*models.Country, error) {
	start := time.Now()
	ctx, end := s.begin(ctx, "BulkCreate", attribute.Int("batch.size", len(inputs)))

	pending := make([]*models.Country, 0, len(inputs))
	for i, in := range inputs {
		c, err := models.NewCountry(0, in)
		if err != nil {
			err = dErrors.Wrap(err, dErrors.CodeValidation, fmt.Sprintf("country %d: %s", i, validationMessage(err)))
			end(err)
			return nil, err
		}
		pending = append(pending, c)
	}

	created := make([]*models.Country, 0, len(pending))
	seen := make(map[string]struct{}, len(pending))
	for _, c := range pending {
		if _, dup := seen[c.Name]; dup {
			continue
		}
		seen[c.Name] = struct{}{}

		if err := s.store.Create(ctx, c); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				continue
			}
			err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to create countries")
			end(err)
			return nil, err
		}
		created = append(created, c)
		s.emit(ctx, audit.ActionCountryCreated, c)
	}
	end(nil)

	s.observe("bulk_create", start)
	if s.metrics != nil {
		s.metrics.IncrementCreated(len(created))
	}
	s.logger.InfoContext(ctx, "countries bulk created",
		"request_id", requestcontext.RequestID(ctx),
		"requested", len(inputs),
		"created", len(created),
	)
	return created, nil
}

// Statistics gathers the total, the distinct continents and the per-continent
// counts concurrently.
func (s *Service) Statistics(ctx context.Context) (*models.Statistics, error) {
	start := time.Now()
	ctx, end := s.begin(ctx, "Statistics")

	stats := &models.Statistics{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.store.Count(gctx)
		stats.TotalCountries = n
		return err
	})
	g.Go(func() error {
		continents, err := s.store.Continents(gctx)
		stats.Continents = continents
		return err
	})
	g.Go(func() error {
		counts, err := s.store.CountByContinent(gctx)
		stats.CountriesByContinent = counts
		return err
	})
	if err := g.Wait(); err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to load statistics")
		end(err)
		return nil, err
	}
	end(nil)

	if stats.Continents == nil {
		stats.Continents = []models.Continent{}
	}
	if stats.CountriesByContinent == nil {
		stats.CountriesByContinent = []models.ContinentCount{}
	}
	s.observe("statistics", start)
	if s.metrics != nil {
		s.metrics.SetCatalogSize(stats.TotalCountries)
	}
	return stats, nil
}

// SeedIfEmpty bulk-creates samples when the store holds no countries and
// returns how many were inserted.
func (s *Service) SeedIfEmpty(ctx context.Context, samples []models.CountryInput) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count countries")
	}
	if n > 0 {
		return 0, nil
	}
	created, err := s.BulkCreate(ctx, samples)
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "seeded sample countries", "count", len(created))
	return len(created), nil
}

// Ping reports whether the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "country store unavailable")
	}
	return nil
}

// begin starts a span and returns a func that ends it, recording err.
func (s *Service) begin(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "country."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil && !dErrors.HasCode(err, dErrors.CodeNotFound) && !dErrors.HasCode(err, dErrors.CodeValidation) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

func (s *Service) observe(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(op, start)
	}
}

func (s *Service) emit(ctx context.Context, action audit.Action, c *models.Country) {
	if s.auditPublisher == nil || c == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:      action,
		CountryID:   c.ID,
		CountryName: c.Name,
		Continent:   string(c.Continent),
		RequestID:   requestcontext.RequestID(ctx),
		ClientIP:    requestcontext.ClientIP(ctx),
		Timestamp:   requestcontext.Now(ctx),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", string(action),
			"country_id", c.ID,
			"error", err,
		)
	}
}

func (s *Service) translateNotFound(err error, id int64) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return notFound(id)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load country")
}

func notFound(id int64) error {
	return dErrors.Newf(dErrors.CodeNotFound, "Country with ID %d not found", id)
}

func conflict(name string) error {
	return dErrors.Newf(dErrors.CodeConflict, "Country with name '%s' already exists", name)
}

func validationMessage(err error) string {
	if de, ok := dErrors.As(err); ok {
		return de.Message
	}
	return err.Error()
}
