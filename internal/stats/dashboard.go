// Package stats drives the statistics page: the doughnut chart, the live
// counters and the CSV export.
package stats

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"countries/internal/country/models"
	"countries/internal/notify"
	"countries/internal/platform/logger"
)

// DataPointsPerCountry is how many fields each country contributes to the
// "data points" counter.
const DataPointsPerCountry = 7

// API is the subset of the countries client the dashboard needs.
type API interface {
	Statistics(ctx context.Context) (*models.Statistics, error)
}

// Injected is what the server embeds in the statistics page.
type Injected struct {
	ContinentData  []models.ContinentCount `json:"continentData"`
	TotalCountries int                     `json:"totalCountries"`
	Continents     []models.Continent      `json:"continents"`
}

// InjectedFrom copies server statistics into page globals.
func InjectedFrom(s *models.Statistics) Injected {
	return Injected{
		ContinentData:  s.CountriesByContinent,
		TotalCountries: s.TotalCountries,
		Continents:     s.Continents,
	}
}

type Counters struct {
	TotalCountries int
	Continents     int
	DataPoints     int
}

func countersFor(total, continents int) Counters {
	return Counters{
		TotalCountries: total,
		Continents:     continents,
		DataPoints:     total * DataPointsPerCountry,
	}
}

// Dashboard keeps the injected breakdown for the chart and export, and
// refreshes the counters from the API.
type Dashboard struct {
	mu       sync.Mutex
	api      API
	injected Injected
	counters Counters
	notifier notify.Notifier
	logger   *slog.Logger
	onUpdate func(Counters)
}

type Option func(*Dashboard)

func WithNotifier(n notify.Notifier) Option {
	return func(d *Dashboard) {
		d.notifier = n
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Dashboard) {
		d.logger = l
	}
}

// WithOnUpdate registers a callback run after every successful refresh.
func WithOnUpdate(fn func(Counters)) Option {
	return func(d *Dashboard) {
		d.onUpdate = fn
	}
}

func NewDashboard(api API, injected Injected, opts ...Option) *Dashboard {
	d := &Dashboard{
		api:      api,
		injected: injected,
		counters: countersFor(injected.TotalCountries, len(injected.Continents)),
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Chart is built from the injected breakdown.
func (d *Dashboard) Chart() Chart {
	d.mu.Lock()
	defer d.mu.Unlock()
	return NewChart(d.injected.ContinentData, d.injected.TotalCountries)
}

func (d *Dashboard) Counters() Counters {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counters
}

// Refresh re-reads the statistics and updates the counters. On failure the
// previous counters stay.
func (d *Dashboard) Refresh(ctx context.Context) error {
	stats, err := d.api.Statistics(ctx)
	if err != nil {
		d.logger.WarnContext(ctx, "failed to refresh statistics", "error", err)
		return err
	}

	c := countersFor(stats.TotalCountries, len(stats.Continents))
	d.mu.Lock()
	d.counters = c
	onUpdate := d.onUpdate
	d.mu.Unlock()

	if onUpdate != nil {
		onUpdate(c)
	}
	return nil
}

// CSV renders the injected breakdown without a server round trip.
func (d *Dashboard) CSV() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return CSV(d.injected.ContinentData, d.injected.TotalCountries)
}

// Export writes the CSV to w and announces success.
func (d *Dashboard) Export(w io.Writer) error {
	if _, err := io.WriteString(w, d.CSV()); err != nil {
		return err
	}
	if d.notifier != nil {
		d.notifier.Show("Statistics exported successfully!", notify.Success)
	}
	return nil
}
