package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// metrics lives in its own registry so several servers (and tests) can
// coexist in one process.
type metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	chunks          prometheus.Histogram
	documentBytes   prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prism",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "prism",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		chunks: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "prism",
			Name:      "chunks_per_document",
			Help:      "Number of chunks produced per processed document.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		documentBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "prism",
			Name:      "document_bytes",
			Help:      "Size of processed documents in bytes.",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
		}),
	}
	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.chunks,
		m.documentBytes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}
