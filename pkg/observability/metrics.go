package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/voyage/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values for generation metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

// Metrics holds the planner's Prometheus collectors.
type Metrics struct {
	registry    *prometheus.Registry
	stateEnters *prometheus.CounterVec
	generations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics creates collectors registered on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stateEnters: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voyage_state_enter_total",
				Help: "Total number of conversation state entries",
			},
			[]string{"state"},
		),
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voyage_generations_total",
				Help: "Generator calls by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "voyage_generation_duration_seconds",
				Help:    "Duration of generator calls",
				Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
			},
			[]string{"kind"},
		),
	}
	m.registry.MustRegister(m.stateEnters, m.generations, m.duration)
	return m
}

// Registry exposes the registry, for tests and custom gatherers.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(_ context.Context, e *domain.StateEvent) {
			m.stateEnters.WithLabelValues(string(e.State)).Inc()
		},
		OnGenerate: func(_ context.Context, e *domain.GenerationEvent) {
			m.generations.WithLabelValues(string(e.Kind), outcome(e)).Inc()
			m.duration.WithLabelValues(string(e.Kind)).Observe(e.Duration.Seconds())
		},
	}
}

func outcome(e *domain.GenerationEvent) string {
	switch {
	case e.Fallback:
		return OutcomeFallback
	case e.Err != nil:
		return OutcomeError
	default:
		return OutcomeSuccess
	}
}
