// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bvchub"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// AuthEvents counts signup, verification and login outcomes.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Authentication flow events by step and outcome.",
	}, []string{"step", "outcome"})

	MailFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_failures_total",
		Help:      "Mail deliveries that failed, by message kind.",
	}, []string{"kind"})
)

// Auth records one auth flow outcome.
func Auth(step, outcome string) {
	AuthEvents.WithLabelValues(step, outcome).Inc()
}

// MailFailed records one failed delivery of kind.
func MailFailed(kind string) {
	MailFailures.WithLabelValues(kind).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
