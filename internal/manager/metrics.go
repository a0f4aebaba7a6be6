package manager

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	engineLoadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "inferd",
			Subsystem: "engine",
			Name:      "loads_total",
			Help:      "Total number of successful model loads",
		},
	)

	engineLoadFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "inferd",
			Subsystem: "engine",
			Name:      "load_failures_total",
			Help:      "Total number of failed model loads",
		},
	)

	engineUnloadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "inferd",
			Subsystem: "engine",
			Name:      "unloads_total",
			Help:      "Total number of model unloads",
		},
	)

	engineLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "inferd",
			Subsystem: "engine",
			Name:      "load_duration_seconds",
			Help:      "Duration of model loads in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	genTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inferd",
			Subsystem: "generation",
			Name:      "requests_total",
			Help:      "Total number of completed generations",
		},
		[]string{"finish_reason"},
	)

	genTokensTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "inferd",
			Subsystem: "generation",
			Name:      "tokens_total",
			Help:      "Total number of generated tokens",
		},
	)

	genPromptTokensTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "inferd",
			Subsystem: "generation",
			Name:      "prompt_tokens_total",
			Help:      "Total number of prompt tokens processed",
		},
	)

	genDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "inferd",
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "Duration of generations in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	genFirstTokenSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "inferd",
			Subsystem: "generation",
			Name:      "first_token_seconds",
			Help:      "Time to first token in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	genCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "inferd",
			Subsystem: "generation",
			Name:      "cache_hits_total",
			Help:      "Total number of generations served from the response cache",
		},
	)
)

func init() {
	prometheus.MustRegister(
		engineLoadsTotal,
		engineLoadFailuresTotal,
		engineUnloadsTotal,
		engineLoadDuration,
		genTotal,
		genTokensTotal,
		genPromptTokensTotal,
		genDuration,
		genFirstTokenSeconds,
		genCacheHitsTotal,
	)
}
