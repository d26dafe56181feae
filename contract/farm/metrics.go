package farm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farms_transitions_total",
			Help: "Total number of ledger transitions by operation and result",
		},
		[]string{"op", "result"},
	)

	TransitionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "farms_transition_duration_seconds",
			Help:    "Duration of ledger transitions including the store flush",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~0.8s
		},
		[]string{"op"},
	)

	RewardShortfallTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "farms_reward_shortfall_total",
			Help: "Total number of reward payouts clamped by an underfunded reward treasury",
		},
	)
)

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsIdentityError(err):
		return "identity_error"
	case IsValidationError(err):
		return "validation_error"
	case IsFatal(err):
		return "fatal"
	default:
		return "error"
	}
}
