// Package metrics exposes Prometheus instruments for allotment and refund runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics owns a private registry so tests can create independent instances.
type Metrics struct {
	registry       *prometheus.Registry
	allotmentRuns  *prometheus.CounterVec
	refundRuns     *prometheus.CounterVec
	runDuration    *prometheus.HistogramVec
	sharesAllotted prometheus.Gauge
	lastCompany    prometheus.Gauge
}

// New creates and registers every instrument.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		allotmentRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ipo_allotment_runs_total",
			Help: "Allotment runs by outcome.",
		}, []string{"outcome"}),
		refundRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ipo_refund_runs_total",
			Help: "Refund runs by outcome.",
		}, []string{"outcome"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ipo_run_duration_seconds",
			Help:    "Duration of allotment and refund runs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		sharesAllotted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ipo_shares_allotted",
			Help: "Shares allotted by the latest successful allotment run.",
		}),
		lastCompany: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ipo_last_allotment_company_id",
			Help: "Company id of the latest successful allotment run.",
		}),
	}
	reg.MustRegister(
		m.allotmentRuns,
		m.refundRuns,
		m.runDuration,
		m.sharesAllotted,
		m.lastCompany,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}

// ObserveAllotment records one allotment run. The gauges hold only the
// latest successful run.
func (m *Metrics) ObserveAllotment(companyID uint, allotted int64, took time.Duration, err error) {
	m.allotmentRuns.WithLabelValues(outcome(err)).Inc()
	m.runDuration.WithLabelValues("allotment").Observe(took.Seconds())
	if err == nil {
		m.sharesAllotted.Set(float64(allotted))
		m.lastCompany.Set(float64(companyID))
	}
}

// ObserveRefunds records one refund run.
func (m *Metrics) ObserveRefunds(took time.Duration, err error) {
	m.refundRuns.WithLabelValues(outcome(err)).Inc()
	m.runDuration.WithLabelValues("refunds").Observe(took.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
