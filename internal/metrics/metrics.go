package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_http_requests_total",
		Help: "Number of HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yatube_http_request_duration_seconds",
		Help:    "Histogram of HTTP request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	}, []string{"method", "route"})

	PageCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_page_cache_total",
		Help: "Page cache lookups by result.",
	}, []string{"result"})

	OutboxDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_outbox_delivered_total",
		Help: "Outbox events handled by the relayer, by event type and result.",
	}, []string{"event", "result"})
)

func CacheHit()  { PageCache.WithLabelValues("hit").Inc() }
func CacheMiss() { PageCache.WithLabelValues("miss").Inc() }
