package metrics

import "github.com/prometheus/client_golang/prometheus"

// Document service outbound metrics.
var (
	DocServiceRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "docservice_requests_total",
			Help:      "Total number of document service calls",
		},
		[]string{"operation", "outcome"}, // outcome: ok, rejected, unexpected, transport
	)

	DocServiceRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "docservice_request_duration_seconds",
			Help:      "Document service call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	FanOutWidth = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_fanout_collections",
			Help:      "Number of collections a single chat query was fanned out to",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		},
	)

	FanOutFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_fanout_collection_failures_total",
			Help:      "Per-collection failures recorded during query fan-out",
		},
	)
)

var docServiceMetricsRegistered bool

// RegisterDocServiceMetrics registers document service and fan-out metrics. Must be called once from main.
func RegisterDocServiceMetrics() {
	if docServiceMetricsRegistered {
		return
	}
	prometheus.MustRegister(DocServiceRequestsTotal)
	prometheus.MustRegister(DocServiceRequestDuration)
	prometheus.MustRegister(FanOutWidth)
	prometheus.MustRegister(FanOutFailuresTotal)
	docServiceMetricsRegistered = true
}
