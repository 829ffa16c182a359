// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AgentInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_invocations_total",
			Help: "Total number of agent invocations by outcome and error category",
		},
		[]string{"agent", "outcome", "category"},
	)

	AgentAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_attempts_total",
			Help: "Total number of provider attempts made by agents, including retries",
		},
		[]string{"agent"},
	)

	AgentInvocationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agent_invocation_duration_seconds",
			Help:    "Duration of agent invocations in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"agent"},
	)

	DemoCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "demo_cache_requests_total",
			Help: "Demo cache lookups by result",
		},
		[]string{"result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"route"},
	)

	NewsArticlesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_articles_fetched_total",
			Help: "News articles returned by the search provider per relevance tier",
		},
		[]string{"tier"},
	)

	ProgressConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "progress_connections_active",
			Help: "Number of open progress websocket connections",
		},
	)
)
