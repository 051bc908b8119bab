package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/novamart/checkout-system/shared/events"
)

// Prometheus metric families for the checkout event flow and both saga paths.
var (
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "events_published_total",
		Help: "Number of events appended to the log",
	}, []string{"stream", "kind"})

	EventsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "events_consumed_total",
		Help: "Number of events delivered to a consumer group",
	}, []string{"stream", "kind", "group"})

	EventLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "event_latency_seconds",
		Help:    "Latency from emission to consumption",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"stream", "kind"})

	SagaStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "saga_started_total",
		Help: "Number of checkout sagas started",
	}, []string{"mode"})

	SagaCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "saga_completed_total",
		Help: "Number of checkout sagas completed successfully",
	}, []string{"mode"})

	SagaFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "saga_failed_total",
		Help: "Number of checkout sagas that ended cancelled",
	}, []string{"mode", "reason"})

	CompensationLeaks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "saga_compensation_leaks_total",
		Help: "Compensations that failed and require manual intervention",
	})

	CollaboratorCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collaborator_calls_total",
		Help: "Outbound collaborator calls by service, operation and outcome",
	}, []string{"service", "operation", "outcome"})
)

// Saga mode labels
const (
	ModeOrchestrated  = "orchestrated"
	ModeChoreographed = "choreographed"
)

// ObserveEventLatency records emission-to-consumption latency for an event
func ObserveEventLatency(stream string, event *events.Event) {
	if event.EmittedAt.IsZero() {
		return
	}
	latency := time.Since(event.EmittedAt).Seconds()
	if latency < 0 {
		latency = 0
	}
	EventLatency.WithLabelValues(stream, event.Kind.String()).Observe(latency)
}
