// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Copland Phrase Contributors

package verifier

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for measurement contract verification, in the style of
// internal/access/policy/metrics.go's promauto-registered instruments.
var (
	contractsVerified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "copland_contracts_verified_total",
		Help: "Total number of measurement contracts verified, by result.",
	}, []string{"result"})

	verifyDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "copland_verify_duration_seconds",
		Help:    "Duration of a single measurement contract verification call.",
		Buckets: prometheus.DefBuckets,
	})
)

// observeVerification records the outcome and duration of one Verify call.
func observeVerification(v Verdict, d time.Duration) {
	contractsVerified.WithLabelValues(v.String()).Inc()
	verifyDuration.Observe(d.Seconds())
}
