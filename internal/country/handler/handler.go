package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"countries/internal/country/models"
	dErrors "countries/pkg/domain-errors"
	"countries/pkg/platform/httputil"
	"countries/pkg/requestcontext"
)

// Service defines the catalog operations exposed over REST.
type Service interface {
	List(ctx context.Context) ([]*models.Country, error)
	Get(ctx context.Context, id int64) (*models.Country, error)
	GetByName(ctx context.Context, name string) (*models.Country, error)
	ListByContinent(ctx context.Context, continent string) ([]*models.Country, error)
	SearchByName(ctx context.Context, query string) ([]*models.Country, error)
	SearchByContinent(ctx context.Context, query string) ([]*models.Country, error)
	Continents(ctx context.Context) ([]models.Continent, error)
	PopulationGreaterThan(ctx context.Context, population int64) ([]*models.Country, error)
	Statistics(ctx context.Context) (*models.Statistics, error)
	Create(ctx context.Context, in models.CountryInput) (*models.Country, error)
	Update(ctx context.Context, id int64, in models.CountryInput) (*models.Country, error)
	Delete(ctx context.Context, id int64) error
	BulkCreate(ctx context.Context, inputs []models.CountryInput) ([]*models.Country, error)
}

// Handler serves /api/countries.
type Handler struct {
	logger    *slog.Logger
	countries Service
}

func New(countries Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		countries: countries,
	}
}

// Register mounts the country routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/countries", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Post("/bulk", h.handleBulkCreate)
		r.Get("/continents", h.handleContinents)
		r.Get("/statistics", h.handleStatistics)
		r.Get("/name/{name}", h.handleGetByName)
		r.Get("/continent/{continent}", h.handleListByContinent)
		r.Get("/search/name", h.handleSearchByName)
		r.Get("/search/continent", h.handleSearchByContinent)
		r.Get("/population/greater-than/{population}", h.handlePopulationGreaterThan)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	countries, err := h.countries.List(r.Context())
	h.respondList(w, r, countries, err, "list countries")
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	country, err := h.countries.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, "get country")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, country)
}

func (h *Handler) handleGetByName(w http.ResponseWriter, r *http.Request) {
	country, err := h.countries.GetByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, r, err, "get country by name")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, country)
}

func (h *Handler) handleListByContinent(w http.ResponseWriter, r *http.Request) {
	countries, err := h.countries.ListByContinent(r.Context(), chi.URLParam(r, "continent"))
	h.respondList(w, r, countries, err, "list countries by continent")
}

func (h *Handler) handleSearchByName(w http.ResponseWriter, r *http.Request) {
	q, ok := requiredQuery(w, r, "name")
	if !ok {
		return
	}
	countries, err := h.countries.SearchByName(r.Context(), q)
	h.respondList(w, r, countries, err, "search countries by name")
}

func (h *Handler) handleSearchByContinent(w http.ResponseWriter, r *http.Request) {
	q, ok := requiredQuery(w, r, "continent")
	if !ok {
		return
	}
	countries, err := h.countries.SearchByContinent(r.Context(), q)
	h.respondList(w, r, countries, err, "search countries by continent")
}

func (h *Handler) handleContinents(w http.ResponseWriter, r *http.Request) {
	continents, err := h.countries.Continents(r.Context())
	if err != nil {
		h.writeError(w, r, err, "list continents")
		return
	}
	if continents == nil {
		continents = []models.Continent{}
	}
	httputil.WriteJSON(w, http.StatusOK, continents)
}

func (h *Handler) handlePopulationGreaterThan(w http.ResponseWriter, r *http.Request) {
	population, err := strconv.ParseInt(chi.URLParam(r, "population"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Population must be a whole number"))
		return
	}
	countries, err := h.countries.PopulationGreaterThan(r.Context(), population)
	h.respondList(w, r, countries, err, "list countries by population")
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.countries.Statistics(r.Context())
	if err != nil {
		h.writeError(w, r, err, "load statistics")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	in, ok := httputil.DecodeAndPrepare[models.CountryInput](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	country, err := h.countries.Create(ctx, *in)
	if err != nil {
		h.writeError(w, r, err, "create country")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, country)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	in, ok := httputil.DecodeAndPrepare[models.CountryInput](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	country, err := h.countries.Update(ctx, id, *in)
	if err != nil {
		h.writeError(w, r, err, "update country")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, country)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.countries.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err, "delete country")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Country deleted successfully"})
}

func (h *Handler) handleBulkCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[BulkCreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	created, err := h.countries.BulkCreate(ctx, *req)
	if err != nil {
		h.writeError(w, r, err, "bulk create countries")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, BulkCreateResponse{
		Message:   fmt.Sprintf("Created %d countries", len(created)),
		Countries: nonNil(created),
	})
}

func (h *Handler) respondList(w http.ResponseWriter, r *http.Request, countries []*models.Country, err error, op string) {
	if err != nil {
		h.writeError(w, r, err, op)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, nonNil(countries))
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.logger.InfoContext(r.Context(), "invalid country id",
			"request_id", requestcontext.RequestID(r.Context()),
			"id", raw,
		)
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "Invalid country ID: %s", raw))
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, op string) {
	ctx := r.Context()
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "failed to "+op,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	} else {
		h.logger.InfoContext(ctx, op+" rejected",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

func requiredQuery(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	values := r.URL.Query()
	if !values.Has(key) {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "Query parameter '%s' is required", key))
		return "", false
	}
	return values.Get(key), true
}

func nonNil(countries []*models.Country) []*models.Country {
	if countries == nil {
		return []*models.Country{}
	}
	return countries
}
