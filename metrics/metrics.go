// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rejection reasons used as the "reason" label
const (
	ReasonDuplicate     = "duplicate"
	ReasonInvalidChoice = "invalid_choice"
	ReasonInvalidOrigin = "invalid_origin"
	ReasonError         = "error"
)

type VoteMetrics struct {
	VotesRecorded   *prometheus.CounterVec
	VotesRejected   *prometheus.CounterVec
	ResultsServed   prometheus.Counter
	RequestDuration *prometheus.HistogramVec
}

// NewVoteMetrics registers all collectors on reg. Each registry can hold
// only one set, so tests pass a fresh prometheus.NewRegistry().
func NewVoteMetrics(reg prometheus.Registerer, namespace string) *VoteMetrics {
	factory := promauto.With(reg)
	return &VoteMetrics{
		VotesRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "votes_recorded_total",
				Help:      "Total number of accepted votes",
			},
			[]string{"choice"},
		),
		VotesRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "votes_rejected_total",
				Help:      "Total number of rejected vote requests",
			},
			[]string{"reason"},
		),
		ResultsServed: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "results_served_total",
				Help:      "Total number of results lookups",
			},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Histogram of HTTP request durations",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

// statusRecorder remembers the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Instrument times a handler under a fixed route label
func (m *VoteMetrics) Instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		m.RequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	}
}
