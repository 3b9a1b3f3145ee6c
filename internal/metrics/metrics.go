// Package metrics provides Prometheus metrics for the storyteller service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"repo-storyteller/internal/model"
)

// Metrics holds all Prometheus metrics of the service.
type Metrics struct {
	HTTPRequestsTotal *prometheus.CounterVec
	LLMCallsTotal     *prometheus.CounterVec
	LLMCallDuration   *prometheus.HistogramVec
	BatchItemsTotal   *prometheus.CounterVec
	SyncRunsTotal     *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storyteller_http_requests_total",
				Help: "HTTP requests by route pattern and status code.",
			},
			[]string{"route", "code"},
		),
		LLMCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storyteller_llm_calls_total",
				Help: "Inference calls by provider and status.",
			},
			[]string{"provider", "status"},
		),
		LLMCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storyteller_llm_call_duration_seconds",
				Help:    "Inference call latency by provider.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
			},
			[]string{"provider"},
		),
		BatchItemsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storyteller_batch_items_total",
				Help: "Batch items processed by engine and outcome.",
			},
			[]string{"engine", "outcome"},
		),
		SyncRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storyteller_sync_runs_total",
				Help: "User synchronisations by status.",
			},
			[]string{"status"},
		),
		registry: reg,
	}

	reg.MustRegister(m.HTTPRequestsTotal)
	reg.MustRegister(m.LLMCallsTotal)
	reg.MustRegister(m.LLMCallDuration)
	reg.MustRegister(m.BatchItemsTotal)
	reg.MustRegister(m.SyncRunsTotal)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordRequest(route, code string) {
	m.HTTPRequestsTotal.WithLabelValues(route, code).Inc()
}

// ObserveLLMCall records one inference call.
func (m *Metrics) ObserveLLMCall(provider string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.LLMCallsTotal.WithLabelValues(provider, status).Inc()
	m.LLMCallDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// RecordBatch adds the per-item outcomes of a finished batch.
func (m *Metrics) RecordBatch(engine string, report *model.BatchReport) {
	for _, it := range report.Items {
		m.BatchItemsTotal.WithLabelValues(engine, string(it.Outcome)).Inc()
	}
}

func (m *Metrics) RecordSync(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.SyncRunsTotal.WithLabelValues(status).Inc()
}
