package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"slotzi.backend/pkg/reconcile"
	"slotzi.backend/pkg/saga"
)

const namespace = "slotzi"

var (
	SagaRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "saga_runs_total",
		Help:      "Saga executions by outcome.",
	}, []string{"saga", "outcome"})

	CompensationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "saga_compensation_failures_total",
		Help:      "Compensating actions that returned an error.",
	}, []string{"saga", "step"})

	ReconcileOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconcile_operations_total",
		Help:      "Floor plan reconciliation operations by entity and kind.",
	}, []string{"entity", "op"})

	RealtimeEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "realtime_events_total",
		Help:      "Events fanned out to business rooms.",
	}, []string{"event"})

	RealtimeDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "realtime_dropped_clients_total",
		Help:      "Clients disconnected because their send buffer was full.",
	})

	RealtimeClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "realtime_clients",
		Help:      "Connected realtime clients.",
	})

	ReservationConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservation_conflicts_total",
		Help:      "Reservation writes rejected for overlapping an existing booking.",
	})

	ReservationsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservations_expired_total",
		Help:      "Active reservations cancelled by the expiry job.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// SagaObserver counts failed compensations.
func SagaObserver() saga.Option {
	return saga.WithObserver(func(name, step string, _ error) {
		CompensationFailures.WithLabelValues(name, step).Inc()
	})
}

// ObserveSaga records the outcome of a finished saga.
func ObserveSaga(name string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "compensated"
		if se, ok := err.(*saga.Error); ok && !se.RolledBack() {
			outcome = "compensation_failed"
		}
	}
	SagaRuns.WithLabelValues(name, outcome).Inc()
}

// ObserveReconcile records one reconciliation pass over entity.
func ObserveReconcile(entity string, res reconcile.Result) {
	ReconcileOps.WithLabelValues(entity, "inserted").Add(float64(res.Inserted))
	ReconcileOps.WithLabelValues(entity, "updated").Add(float64(res.Updated))
	ReconcileOps.WithLabelValues(entity, "unchanged").Add(float64(res.Unchanged))
	ReconcileOps.WithLabelValues(entity, "removed").Add(float64(res.Missing))
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
