package api

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ytdash_upstream_requests_total",
		Help: "YouTube Data API requests by endpoint and status.",
	}, []string{"endpoint", "status"})

	upstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ytdash_upstream_request_duration_seconds",
		Help:    "YouTube Data API request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ytdash_http_requests_total",
		Help: "HTTP requests served by route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ytdash_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	competitorFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ytdash_competitor_failures_total",
		Help: "Competitor lookups that ended in a null row.",
	})
)

// MustRegister registers the package collectors with reg. The collectors
// are shared, so registering them with the same registry again (a second
// server on one registry) is a no-op. Any other registration error panics.
func MustRegister(reg prometheus.Registerer) {
	for _, c := range []prometheus.Collector{
		upstreamRequests,
		upstreamDuration,
		httpRequests,
		httpDuration,
		competitorFailures,
	} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			panic(err)
		}
	}
}
