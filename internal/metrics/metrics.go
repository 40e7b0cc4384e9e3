package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	appointmentMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "organicare",
			Name:      "appointment_mutations_total",
			Help:      "Count of appointment mutations by kind (created, moved, resized, completed, deleted).",
		},
		[]string{"kind"},
	)

	collisionShifts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "organicare",
			Name:      "reflow_collision_shifts_total",
			Help:      "Count of 15-minute start-time shifts applied to resolve drop collisions.",
		},
	)

	durationClamps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "organicare",
			Name:      "reflow_duration_clamps_total",
			Help:      "Count of moves whose duration was clamped to fit the destination day.",
		},
	)

	rejectedMoves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "organicare",
			Name:      "reflow_rejected_total",
			Help:      "Count of rejected moves by reason.",
		},
		[]string{"reason"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "organicare",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by handler.",
		},
		[]string{"handler"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(appointmentMutations, collisionShifts, durationClamps, rejectedMoves, httpRequests)
	})
}

func IncMutation(kind string) {
	appointmentMutations.WithLabelValues(kind).Inc()
}

func AddCollisionShifts(n int) {
	collisionShifts.Add(float64(n))
}

func IncDurationClamp() {
	durationClamps.Inc()
}

func IncRejectedMove(reason string) {
	rejectedMoves.WithLabelValues(reason).Inc()
}

func IncHTTP(handler string) {
	httpRequests.WithLabelValues(handler).Inc()
}
