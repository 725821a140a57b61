// Package web serves the server-rendered pages: home, the country table,
// the add-country form and the statistics dashboard.
package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"countries/internal/catalog"
	"countries/internal/country/models"
	"countries/internal/draft"
	"countries/internal/notify"
	"countries/internal/stats"
	"countries/internal/view"
	dErrors "countries/pkg/domain-errors"
	"countries/pkg/requestcontext"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageHome       = "home"
	pageCountries  = "countries"
	pageAddCountry = "add-country"
	pageStatistics = "statistics"
)

// Service is what the pages read from and write to.
type Service interface {
	List(ctx context.Context) ([]*models.Country, error)
	Statistics(ctx context.Context) (*models.Statistics, error)
	Create(ctx context.Context, in models.CountryInput) (*models.Country, error)
}

// Pages renders the HTML routes.
type Pages struct {
	logger    *slog.Logger
	countries Service
	templates map[string]*template.Template
}

// New parses the embedded templates. It fails only on a broken template.
func New(countries Service, logger *slog.Logger) (*Pages, error) {
	templates := make(map[string]*template.Template)
	for _, page := range []string{pageHome, pageCountries, pageAddCountry, pageStatistics} {
		t, err := template.New("layout.html").ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		templates[page] = t
	}
	return &Pages{
		logger:    logger,
		countries: countries,
		templates: templates,
	}, nil
}

// Register mounts the page routes on r.
func (p *Pages) Register(r chi.Router) {
	r.Get("/", p.handleHome)
	r.Get("/countries", p.handleCountries)
	r.Get("/add-country", p.handleAddForm)
	r.Post("/add-country", p.handleAddSubmit)
	r.Get("/statistics", p.handleStatistics)
}

type page struct {
	Title        string
	Notification template.HTML
}

type continentCard struct {
	Continent  models.Continent
	Count      int
	Percent    string
	BadgeClass string
}

func cardsFor(s *models.Statistics) []continentCard {
	cards := make([]continentCard, 0, len(s.CountriesByContinent))
	for _, cc := range s.CountriesByContinent {
		cards = append(cards, continentCard{
			Continent:  cc.Continent,
			Count:      cc.Count,
			Percent:    view.Percent(cc.Count, s.TotalCountries),
			BadgeClass: view.BadgeClass(cc.Continent),
		})
	}
	return cards
}

type homePage struct {
	page
	Total int
	Cards []continentCard
}

func (p *Pages) handleHome(w http.ResponseWriter, r *http.Request) {
	s, err := p.countries.Statistics(r.Context())
	if err != nil {
		p.fail(w, r, err, "load home statistics")
		return
	}
	p.render(w, r, http.StatusOK, pageHome, homePage{
		page:  page{Title: "Home"},
		Total: s.TotalCountries,
		Cards: cardsFor(s),
	})
}

type countriesPage struct {
	page
	Filter     catalog.Filter
	Continents []models.Continent
	Table      template.HTML
	Shown      int
	Total      int
}

func (p *Pages) handleCountries(w http.ResponseWriter, r *http.Request) {
	all, err := p.countries.List(r.Context())
	if err != nil {
		p.fail(w, r, err, "list countries")
		return
	}
	filter := catalog.Filter{
		Name:      r.URL.Query().Get("name"),
		Continent: r.URL.Query().Get("continent"),
	}
	visible := filter.Apply(all)
	table, err := view.Table(view.TableModel{Rows: view.Rows(visible)})
	if err != nil {
		p.fail(w, r, err, "render country table")
		return
	}
	p.render(w, r, http.StatusOK, pageCountries, countriesPage{
		page:       page{Title: "Countries"},
		Filter:     filter,
		Continents: models.Continents(),
		Table:      table,
		Shown:      len(visible),
		Total:      len(all),
	})
}

type addCountryPage struct {
	page
	Continents []models.Continent
	Values     draft.Record
}

func (p *Pages) handleAddForm(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, http.StatusOK, pageAddCountry, addCountryPage{
		page:       page{Title: "Add Country"},
		Continents: models.Continents(),
		Values:     draft.Record{},
	})
}

func (p *Pages) handleAddSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		p.rejectForm(w, r, draft.Record{}, dErrors.New(dErrors.CodeBadRequest, "Invalid form submission"))
		return
	}
	values := make(draft.Record, len(draft.Fields))
	for _, field := range draft.Fields {
		values[field] = r.PostForm.Get(field)
	}

	in, err := values.Input()
	if err != nil {
		p.rejectForm(w, r, values, err)
		return
	}
	created, err := p.countries.Create(ctx, in)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			p.fail(w, r, err, "create country from form")
			return
		}
		p.rejectForm(w, r, values, err)
		return
	}

	p.logger.InfoContext(ctx, "country created from form",
		"request_id", requestcontext.RequestID(ctx),
		"country_id", created.ID,
	)
	http.Redirect(w, r, "/countries?"+url.Values{"name": {created.Name}}.Encode(), http.StatusSeeOther)
}

// rejectForm re-renders the form with the submitted values and an error banner.
func (p *Pages) rejectForm(w http.ResponseWriter, r *http.Request, values draft.Record, cause error) {
	message := cause.Error()
	if de, ok := dErrors.As(cause); ok {
		message = de.Message
	}
	center := notify.New(notify.WithLogger(p.logger))
	defer center.Close()
	center.Show("Failed to create country: "+message, notify.Error)
	banner, err := center.HTML()
	if err != nil {
		p.fail(w, r, err, "render form notification")
		return
	}
	p.logger.InfoContext(r.Context(), "add-country form rejected",
		"request_id", requestcontext.RequestID(r.Context()),
		"reason", message,
	)
	p.render(w, r, http.StatusBadRequest, pageAddCountry, addCountryPage{
		page:       page{Title: "Add Country", Notification: banner},
		Continents: models.Continents(),
		Values:     values,
	})
}

type statisticsPage struct {
	page
	Counters stats.Counters
	Cards    []continentCard
	Injected stats.Injected
	Chart    stats.Chart
}

func (p *Pages) handleStatistics(w http.ResponseWriter, r *http.Request) {
	s, err := p.countries.Statistics(r.Context())
	if err != nil {
		p.fail(w, r, err, "load statistics")
		return
	}
	injected := stats.InjectedFrom(s)
	dashboard := stats.NewDashboard(nil, injected)
	p.render(w, r, http.StatusOK, pageStatistics, statisticsPage{
		page:     page{Title: "Statistics"},
		Counters: dashboard.Counters(),
		Cards:    cardsFor(s),
		Injected: injected,
		Chart:    dashboard.Chart(),
	})
}

// render executes into a buffer first so a template failure never leaves a
// half-written 200 behind.
func (p *Pages) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := p.templates[name].ExecuteTemplate(&buf, "layout.html", data); err != nil {
		p.fail(w, r, err, "execute "+name+" template")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (p *Pages) fail(w http.ResponseWriter, r *http.Request, err error, op string) {
	p.logger.ErrorContext(r.Context(), op+" failed",
		"request_id", requestcontext.RequestID(r.Context()),
		"error", err,
	)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
