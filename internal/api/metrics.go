package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	analysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matchd",
			Name:      "analyses_total",
			Help:      "Total match analyses by outcome",
		},
		[]string{"status"},
	)
	analysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "matchd",
			Name:      "analysis_duration_seconds",
			Help:      "Full pipeline duration including the model round-trip",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)
)

func observeAnalysis(d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	analysesTotal.WithLabelValues(status).Inc()
	analysisDuration.Observe(d.Seconds())
}
