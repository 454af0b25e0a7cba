// Package metrics declares the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contentgenius",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "contentgenius",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	GenerationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contentgenius",
		Name:      "generations_created_total",
		Help:      "Generation requests accepted and charged.",
	}, []string{"type"})

	InsufficientCredits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contentgenius",
		Name:      "insufficient_credits_total",
		Help:      "Generation requests rejected for lack of credits.",
	}, []string{"type"})

	GenerationsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contentgenius",
		Name:      "generations_finished_total",
		Help:      "Generation records that reached a terminal status.",
	}, []string{"type", "status"})

	ProviderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "contentgenius",
		Name:      "provider_request_duration_seconds",
		Help:      "Latency of generation provider calls.",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 90},
	}, []string{"type", "outcome"})

	JobRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contentgenius",
		Name:      "job_retries_total",
		Help:      "Generation jobs scheduled for redelivery.",
	}, []string{"type"})
)
