package domlocate

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	outcomeOK    = "ok"
	outcomeWeak  = "weak"
	outcomeError = "error"
)

// Metrics holds the service collectors on their own registry.
type Metrics struct {
	registry  *prometheus.Registry
	locates   *prometheus.CounterVec
	fragments prometheus.Histogram
}

// NewMetrics creates and registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		locates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "domtrail_locate_total",
			Help: "Locate calls by outcome (ok, weak, error).",
		}, []string{"outcome"}),
		fragments: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "domtrail_fragments",
			Help:    "Fragments per computed locator.",
			Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 16},
		}),
	}
	m.registry.MustRegister(m.locates, m.fragments)
	m.registry.MustRegister(collectors.NewGoCollector())
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observe(outcome string, fragments int) {
	if m == nil {
		return
	}
	m.locates.WithLabelValues(outcome).Inc()
	if outcome != outcomeError {
		m.fragments.Observe(float64(fragments))
	}
}
