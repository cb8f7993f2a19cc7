package web

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics instruments dashboard recomputation.
type Metrics struct {
	registry *prometheus.Registry

	// recomputes counts pipeline runs by trigger and outcome
	recomputes *prometheus.CounterVec
	// recomputeDuration tracks pipeline latency by trigger
	recomputeDuration *prometheus.HistogramVec
	// filteredRows is the row count after the most recent filter
	filteredRows prometheus.Gauge
	// datasetRows is the size of the loaded relation
	datasetRows prometheus.Gauge
}

// NewMetrics registers the dashboard collectors on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		recomputes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bugdash_recomputes_total",
			Help: "Total dashboard recomputations by trigger and result",
		}, []string{"trigger", "result"}),
		recomputeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bugdash_recompute_duration_seconds",
			Help:    "Dashboard recomputation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
		}, []string{"trigger"}),
		filteredRows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bugdash_filtered_rows",
			Help: "Rows remaining after the most recent filter",
		}),
		datasetRows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bugdash_dataset_rows",
			Help: "Rows in the loaded dataset",
		}),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
