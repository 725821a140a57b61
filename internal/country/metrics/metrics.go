package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the country catalog.
type Metrics struct {
	CountriesCreated prometheus.Counter
	CountriesUpdated prometheus.Counter
	CountriesDeleted prometheus.Counter
	CatalogSize      prometheus.Gauge
	OpDuration       *prometheus.HistogramVec
}

// New registers the catalog metrics with reg, or the default registry when nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		CountriesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "countries_created_total",
			Help: "Total number of countries created",
		}),
		CountriesUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "countries_updated_total",
			Help: "Total number of countries updated",
		}),
		CountriesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "countries_deleted_total",
			Help: "Total number of countries deleted",
		}),
		CatalogSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "countries_catalog_size",
			Help: "Number of countries in the catalog at the last statistics read",
		}),
		OpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "countries_operation_duration_seconds",
			Help:    "Duration of catalog service operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementCreated(n int) {
	m.CountriesCreated.Add(float64(n))
}

func (m *Metrics) IncrementUpdated() {
	m.CountriesUpdated.Inc()
}

func (m *Metrics) IncrementDeleted() {
	m.CountriesDeleted.Inc()
}

// SetCatalogSize records the total reported by the last statistics read.
func (m *Metrics) SetCatalogSize(n int) {
	m.CatalogSize.Set(float64(n))
}

// ObserveOperation records the duration of a service operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(op string, start time.Time) {
	m.OpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
