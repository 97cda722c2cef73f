// Package metrics exposes game server counters in the Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Attempt outcomes used as the "outcome" label.
const (
	OutcomeCorrect = "correct"
	OutcomeWrong   = "wrong"
	OutcomeUnknown = "unknown"
	OutcomeInvalid = "invalid"
)

// Metrics holds the game server collectors.
type Metrics struct {
	// Starts counts GET /start requests.
	Starts prometheus.Counter

	// Attempts counts evaluated guesses.
	// Labels: outcome (correct, wrong, unknown, invalid)
	Attempts *prometheus.CounterVec

	// SolvedAfter is the number of prior attempts reported with a correct guess.
	SolvedAfter prometheus.Histogram

	// Requests measures handler latency.
	// Labels: route, code
	Requests *prometheus.HistogramVec

	// CatalogSize is the number of eligible functions loaded.
	CatalogSize prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWith(reg, reg)
}

// NewWith registers the collectors on reg and serves them from g.
func NewWith(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Starts: f.NewCounter(prometheus.CounterOpts{
			Namespace: "nixdle",
			Name:      "starts_total",
			Help:      "Total game starts served",
		}),
		Attempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nixdle",
			Name:      "attempts_total",
			Help:      "Total guesses by outcome",
		}, []string{"outcome"}),
		SolvedAfter: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nixdle",
			Name:      "solved_after_attempts",
			Help:      "Prior attempts reported with a correct guess",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 15, 20, 30, 50},
		}),
		Requests: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nixdle",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "code"}),
		CatalogSize: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "nixdle",
			Name:      "catalog_functions",
			Help:      "Eligible functions in the loaded catalog",
		}),
		gatherer: g,
	}
}

// RecordStart records a served start message.
func (m *Metrics) RecordStart() {
	m.Starts.Inc()
}

// RecordAttempt records one guess. attempts is the prior count the client sent.
func (m *Metrics) RecordAttempt(outcome string, attempts int) {
	m.Attempts.WithLabelValues(outcome).Inc()
	if outcome == OutcomeCorrect {
		m.SolvedAfter.Observe(float64(attempts))
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
