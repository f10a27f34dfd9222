// Package metrics exposes calculation counters for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "concreteflow"

type Metrics struct {
	reg        *prometheus.Registry
	Runs       *prometheus.CounterVec
	Selections *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	Imported   prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verifications_total",
			Help:      "Element verifications by design code and verdict.",
		}, []string{"code", "status"}),
		Selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "joist_selections_total",
			Help:      "Joist selections by policy and outcome.",
		}, []string{"policy", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Time spent in a calculation run.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"outcome"}),
		Imported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_entries_imported_total",
			Help:      "Catalog rows accepted by the spreadsheet importer.",
		}),
	}
	m.reg.MustRegister(m.Runs, m.Selections, m.Duration, m.Imported,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

// ObserveRun records the duration of a run ending with outcome ("ok" or an error kind).
func (m *Metrics) ObserveRun(outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.Duration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
}

func (m *Metrics) Verified(code, status string) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(code, status).Inc()
}

func (m *Metrics) Selected(policy, status string) {
	if m == nil {
		return
	}
	m.Selections.WithLabelValues(policy, status).Inc()
}

func (m *Metrics) AddImported(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.Imported.Add(float64(n))
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
