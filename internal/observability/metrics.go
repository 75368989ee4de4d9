package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// InSight API call rate by outcome. Watch for: rate_limited spikes on DEMO_KEY.
	InsightCallsTotal *prometheus.CounterVec

	// InSight API latency per request.
	InsightDuration *prometheus.HistogramVec

	// Assistant (generateContent) call rate by outcome.
	AssistantCallsTotal *prometheus.CounterVec

	// Assistant latency per request. Model answers are slow; buckets go to 60s.
	AssistantDuration *prometheus.HistogramVec

	// Rolled-back or failed store writes, by operation.
	StoreWriteErrorsTotal *prometheus.CounterVec

	// Ingest runs by result (success, fetch_failed, store_failed).
	IngestRunsTotal *prometheus.CounterVec

	// Sols written by the last successful ingest run.
	IngestedSols prometheus.Gauge
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	InsightCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insightApiCallsTotal",
			Help: "Total number of InSight weather API calls",
		},
		[]string{"status"},
	)
	InsightDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "insightApiDurationSeconds",
			Help:    "InSight weather API latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)
	AssistantCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistantCallsTotal",
			Help: "Total number of assistant generateContent calls",
		},
		[]string{"status"},
	)
	AssistantDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistantDurationSeconds",
			Help:    "Assistant latency in seconds (per request)",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"status"},
	)
	StoreWriteErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storeWriteErrorsTotal",
			Help: "Store writes that failed and were rolled back",
		},
		[]string{"operation"},
	)
	IngestRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingestRunsTotal",
			Help: "Ingest runs by result",
		},
		[]string{"result"},
	)
	IngestedSols = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ingestedSols",
			Help: "Sols written by the last successful ingest run",
		},
	)

	registry.MustRegister(
		InsightCallsTotal, InsightDuration,
		AssistantCallsTotal, AssistantDuration,
		StoreWriteErrorsTotal,
		IngestRunsTotal, IngestedSols,
	)
}

// StatusLabel maps an HTTP status code to a low-cardinality metric label.
func StatusLabel(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "success"
	case statusCode == http.StatusTooManyRequests:
		return "rate_limited"
	case statusCode >= 400 && statusCode < 500:
		return "client_error"
	case statusCode >= 500:
		return "server_error"
	}
	return "error"
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
