// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QuestionsTotal counts resolved questions by the step that answered them
	// (exact, fuzzy, remote, fallback, error).
	QuestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_questions_total",
			Help: "Total number of questions resolved, by resolution method",
		},
		[]string{"method"},
	)

	AnswersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_answers_total",
			Help: "Total number of answers returned, by answer type",
		},
		[]string{"type"},
	)

	RemoteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_remote_requests_total",
			Help: "Total number of remote completion calls, by outcome",
		},
		[]string{"outcome"},
	)

	ResolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_resolve_duration_seconds",
			Help:    "Duration of question resolution in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	IntentsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assistant_intents_loaded",
			Help: "Number of intents in the loaded intent table",
		},
	)
)
