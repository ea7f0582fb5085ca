package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/TilepMony-Project/flowcore/pkg/domain"
)

// Metrics holds the prometheus collectors for the engine surface.
type Metrics struct {
	SimulationsTotal *prometheus.CounterVec
	ExecutionsTotal  *prometheus.CounterVec
	StepsTotal       *prometheus.CounterVec
}

// New registers the collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SimulationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowcore",
			Name:      "simulations_total",
			Help:      "Simulation outcomes by result.",
		}, []string{"result"}),
		ExecutionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowcore",
			Name:      "executions_total",
			Help:      "Execution status transitions by target status.",
		}, []string{"status"}),
		StepsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowcore",
			Name:      "execution_steps_total",
			Help:      "Step log appends by step status.",
		}, []string{"status"}),
	}
}

// ObserveSimulation records one simulation outcome.
func (m *Metrics) ObserveSimulation(success bool) {
	result := "revert"
	if success {
		result = "success"
	}
	m.SimulationsTotal.WithLabelValues(result).Inc()
}

// Hooks adapts the collectors to execution lifecycle hooks.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStatusChange: func(_ context.Context, e *domain.StatusEvent) {
			m.ExecutionsTotal.WithLabelValues(string(e.To)).Inc()
		},
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			m.StepsTotal.WithLabelValues(string(e.Status)).Inc()
		},
	}
}
