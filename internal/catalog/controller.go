// Package catalog drives the countries list page: it holds the fetched set,
// applies the name/continent filter locally and re-renders the whole table
// on every change.
package catalog

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"strings"
	"sync"

	"countries/internal/country/models"
	"countries/internal/platform/logger"
	"countries/internal/view"
)

// ErrStale is returned when a response arrives after a newer request was
// issued. The response is discarded.
var ErrStale = errors.New("catalog: response superseded by a newer request")

// API is the subset of the countries client the controller needs.
type API interface {
	ListCountries(ctx context.Context) ([]*models.Country, error)
	SearchByName(ctx context.Context, query string) ([]*models.Country, error)
	SearchByContinent(ctx context.Context, query string) ([]*models.Country, error)
}

// Renderer receives the full table body after every change. It is called
// with the controller lock held and must not call back into the controller.
type Renderer func(table template.HTML)

// Filter narrows the loaded set. Name is a case-insensitive substring;
// Continent is an exact, case-insensitive match. Empty fields match all.
type Filter struct {
	Name      string
	Continent string
}

func (f Filter) Match(c *models.Country) bool {
	if name := strings.TrimSpace(f.Name); name != "" &&
		!strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
		return false
	}
	if continent := strings.TrimSpace(f.Continent); continent != "" &&
		!strings.EqualFold(string(c.Continent), continent) {
		return false
	}
	return true
}

// Apply returns the matching countries in their original order.
func (f Filter) Apply(countries []*models.Country) []*models.Country {
	out := make([]*models.Country, 0, len(countries))
	for _, c := range countries {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

type Controller struct {
	mu      sync.Mutex
	api     API
	render  Renderer
	logger  *slog.Logger
	all     []*models.Country
	visible []*models.Country
	filter  Filter
	// issued counts every change to what the view should show: network
	// requests and local filters. fetched counts network requests only.
	issued  uint64
	fetched uint64
}

type Option func(*Controller)

func WithRenderer(r Renderer) Option {
	return func(c *Controller) {
		c.render = r
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

func New(api API, opts ...Option) *Controller {
	c := &Controller{
		api:    api,
		render: func(template.HTML) {},
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches every country and re-applies the current filter. A local
// filter applied while the list is in flight does not supersede it.
func (c *Controller) Load(ctx context.Context) error {
	seq := c.issue()
	countries, err := c.api.ListCountries(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.fetched {
		c.logger.DebugContext(ctx, "dropping stale list response", "seq", seq, "latest", c.issued)
		return ErrStale
	}
	if err != nil {
		return err
	}
	c.all = countries
	c.visible = c.filter.Apply(countries)
	return c.renderLocked()
}

// Apply sets the filter and recomputes the view from the loaded set. It
// never touches the network, and any search still in flight is dropped.
func (c *Controller) Apply(f Filter) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	c.filter = f
	c.visible = f.Apply(c.all)
	return c.renderLocked()
}

// Search asks the server for matches by name or by continent and shows the
// result as is.
func (c *Controller) Search(ctx context.Context, query string, byContinent bool) error {
	seq := c.issue()
	var (
		results []*models.Country
		err     error
	)
	if byContinent {
		results, err = c.api.SearchByContinent(ctx, query)
	} else {
		results, err = c.api.SearchByName(ctx, query)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.issued {
		c.logger.DebugContext(ctx, "dropping stale search response", "query", query, "seq", seq, "latest", c.issued)
		return ErrStale
	}
	if err != nil {
		return err
	}
	c.visible = results
	return c.renderLocked()
}

// Visible returns the countries currently shown.
func (c *Controller) Visible() []*models.Country {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*models.Country(nil), c.visible...)
}

func (c *Controller) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

func (c *Controller) issue() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	c.fetched = c.issued
	return c.issued
}

func (c *Controller) renderLocked() error {
	html, err := view.Table(view.TableModel{Rows: view.Rows(c.visible)})
	if err != nil {
		return err
	}
	c.render(html)
	return nil
}
