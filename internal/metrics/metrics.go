// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CompletionsTotal counts job completion attempts by outcome.
	CompletionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gigboard",
		Name:      "job_completions_total",
		Help:      "Job completion attempts by result.",
	}, []string{"result"})

	// TransferPollAttempts observes how many status polls each transfer
	// needed before a finalized transaction id appeared (or the budget ran
	// out).
	TransferPollAttempts = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gigboard",
		Name:      "transfer_poll_attempts",
		Help:      "Confirmation poll attempts per transfer.",
		Buckets:   prometheus.LinearBuckets(0, 3, 11),
	})

	// BalanceDegrades counts balance reads that fell back to a zero value
	// because the gateway call failed.
	BalanceDegrades = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gigboard",
		Name:      "wallet_balance_degrades_total",
		Help:      "Balance lookups degraded to zero after a gateway failure.",
	})
)
