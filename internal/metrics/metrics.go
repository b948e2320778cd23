// Package metrics exposes the CLI's Prometheus counters, grounded in the
// NewCounterVec/NewHistVec helper pattern used for GCP-metric export
// counters. Library callers never touch this package: metrics are an
// outer-surface, CLI-only concern.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var buckets = []float64{0.00005, 0.0001, 0.0002, 0.0005, 0.001, 0.002, 0.005, 0.01, 0.05}

var mappingRequests = newCounterVec(
	"unitalgebra", "mapper", "requests_total",
	"How many unit_mapper calls the CLI has served",
	"kind", "ok",
)

var mappingLatency = newHistVec(
	"unitalgebra", "mapper", "latency_seconds",
	"How long unit_mapper calls took to resolve",
	buckets,
)

func init() {
	prometheus.MustRegister(mappingRequests)
	prometheus.MustRegister(mappingLatency)
}

func newCounterVec(system, subsys, name, help string, labelKeys ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: system, Subsystem: subsys, Name: name, Help: help},
		labelKeys,
	)
}

func newHistVec(system, subsys, name, help string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: system, Subsystem: subsys, Name: name, Help: help, Buckets: buckets},
		nil,
	)
}

// ObserveMapping records one unit_mapper call: its outcome kind
// ("identity"/"scalar"/"general"/"incompatible"/"error") and duration.
func ObserveMapping(kind string, ok bool, d time.Duration) {
	okStr := "true"
	if !ok {
		okStr = "false"
	}
	mappingRequests.WithLabelValues(kind, okStr).Inc()
	mappingLatency.WithLabelValues().Observe(d.Seconds())
}
