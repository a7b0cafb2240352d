package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nao1215/newsverdict/internal/model"
)

const namespace = "newsverdict"

// Fetch attempt outcomes used as the "outcome" label value.
const (
	OutcomeSuccess   = "success"
	OutcomeDenied    = "tool_denied"
	OutcomeNotFound  = "model_not_found"
	OutcomeNoSummary = "no_summary"
	OutcomeTransport = "transport_error"
	OutcomeHTTPError = "http_error"
)

// Metrics holds the Prometheus instruments.
type Metrics struct {
	fetchAttempts   *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	classifications *prometheus.CounterVec
	analyses        *prometheus.CounterVec
}

// New creates the instruments and registers them on reg.
// It panics if an instrument is already registered on reg, as
// prometheus.MustRegister does.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_attempts_total",
			Help:      "Requests sent to the generative endpoint, by model, grounding and outcome.",
		}, []string{"model", "grounded", "outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Latency of single requests to the generative endpoint.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"model", "grounded"}),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Texts classified, by resulting label.",
		}, []string{"label"}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Finished analysis requests, by terminal status.",
		}, []string{"status"}),
	}

	reg.MustRegister(m.fetchAttempts, m.fetchDuration, m.classifications, m.analyses)
	return m
}

// ObserveFetchAttempt records one request to the generative endpoint.
func (m *Metrics) ObserveFetchAttempt(modelID string, grounded bool, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	g := strconv.FormatBool(grounded)
	m.fetchAttempts.WithLabelValues(modelID, g, outcome).Inc()
	m.fetchDuration.WithLabelValues(modelID, g).Observe(elapsed.Seconds())
}

// ObserveClassification records a produced label.
func (m *Metrics) ObserveClassification(label model.Label) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(label.String()).Inc()
}

// ObserveAnalysis records the terminal status of a request.
func (m *Metrics) ObserveAnalysis(status model.Status) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(status.String()).Inc()
}
