package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	editsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xwedit_edits_total",
		Help: "Puzzle and game edits by kind",
	}, []string{"kind"})

	navigationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xwedit_navigations_total",
		Help: "Cursor navigation requests by action",
	}, []string{"action"})

	rejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xwedit_rate_limited_total",
		Help: "Requests rejected by the per-IP rate limiter",
	}, []string{"limiter"})

	importDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "xwedit_import_duration_seconds",
		Help:    "Photo import duration",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40},
	})

	sseClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "xwedit_sse_clients",
		Help: "Connected SSE clients",
	})
)
