// Package metrics exposes prometheus instrumentation for the reservation
// engine and the lifecycle sweeper.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sambatan"

var (
	reservationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservations_total",
		Help:      "Slot reservation attempts by outcome.",
	}, []string{"outcome"})

	sweepTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_transitions_total",
		Help:      "Terminal campaign transitions applied by the lifecycle sweeper.",
	}, []string{"to_status"})

	sweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sweep_duration_seconds",
		Help:      "Duration of a full lifecycle sweep.",
		Buckets:   prometheus.DefBuckets,
	})

	sweepErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_campaign_errors_total",
		Help:      "Campaigns skipped during a sweep because processing failed.",
	})
)

const (
	ReservationAccepted     = "accepted"
	ReservationInsufficient = "insufficient_slots"
	ReservationClosed       = "campaign_closed"
	ReservationReleased     = "released"
)

func IncReservation(outcome string) {
	reservationsTotal.WithLabelValues(outcome).Inc()
}

func IncSweepTransition(toStatus string) {
	sweepTransitionsTotal.WithLabelValues(toStatus).Inc()
}

func ObserveSweepDuration(d time.Duration) {
	sweepDuration.Observe(d.Seconds())
}

func IncSweepCampaignError() {
	sweepErrorsTotal.Inc()
}
