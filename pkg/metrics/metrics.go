package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ask outcomes recorded by AskRequests.
const (
	ResultSuccess         = "success"
	ResultInvalidRequest  = "invalid_request"
	ResultCompletionError = "completion_error"
	ResultStoreError      = "store_error"
)

var (
	// AskRequests counts /ask calls by outcome.
	AskRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askai_ask_requests_total",
			Help: "Total number of ask requests by outcome",
		},
		[]string{"result"},
	)

	// CompletionLatency measures round trips to the completion provider.
	CompletionLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "askai_completion_latency_seconds",
			Help:    "Completion provider round-trip latency",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"provider", "result"},
	)

	// QueryLogRecords reports the number of persisted question/answer pairs.
	QueryLogRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "askai_query_log_records",
			Help: "Number of records in the query log",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "askai_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
