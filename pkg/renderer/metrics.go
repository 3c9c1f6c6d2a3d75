package renderer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chartFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "helm2yaml_chart_fetch_duration_seconds",
			Help:    "Duration of chart fetches in seconds",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120},
		},
	)

	chartFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helm2yaml_chart_fetch_total",
			Help: "Total number of chart fetch attempts",
		},
		[]string{"status"}, // success or error
	)

	renderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "helm2yaml_render_duration_seconds",
			Help:    "Duration of template render invocations in seconds",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120},
		},
	)

	renderTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helm2yaml_render_total",
			Help: "Total number of template render attempts",
		},
		[]string{"status"}, // success or error
	)
)
