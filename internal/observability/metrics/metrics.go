// Package metrics exposes the service's Prometheus instruments.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds application-level instruments.
type Metrics struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
	providerCalls   *prometheus.CounterVec
	quotaRejections *prometheus.CounterVec
	rateLimit       *prometheus.CounterVec
	usageRecords    prometheus.Counter
}

// New registers the instruments against the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simplegeoapi_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "simplegeoapi_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simplegeoapi_geocode_cache_lookups_total",
			Help: "Geocode cache lookups by operation and outcome.",
		}, []string{"operation", "outcome"}),
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simplegeoapi_provider_calls_total",
			Help: "Upstream geocoding provider calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		quotaRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simplegeoapi_quota_rejections_total",
			Help: "Requests rejected by the quota gate, by window.",
		}, []string{"window"}),
		rateLimit: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simplegeoapi_rate_limit_decisions_total",
			Help: "Burst limiter decisions.",
		}, []string{"decision"}),
		usageRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "simplegeoapi_usage_records_total",
			Help: "Usage ledger records written.",
		}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.cacheLookups,
		m.providerCalls,
		m.quotaRejections,
		m.rateLimit,
		m.usageRecords,
	)

	return m
}

// GinMiddleware records request counts and latency per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := strings.TrimSpace(c.FullPath())
		if route == "" {
			route = "unknown"
		}
		method := c.Request.Method
		m.httpRequests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// RecordCacheLookup counts a geocode cache hit or miss.
func (m *Metrics) RecordCacheLookup(operation string, hit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.cacheLookups.WithLabelValues(operation, outcome).Inc()
}

// RecordProviderCall counts an upstream call outcome.
func (m *Metrics) RecordProviderCall(operation, outcome string) {
	if m == nil {
		return
	}
	m.providerCalls.WithLabelValues(operation, outcome).Inc()
}

// RecordQuotaRejection counts a quota gate rejection.
func (m *Metrics) RecordQuotaRejection(window string) {
	if m == nil {
		return
	}
	m.quotaRejections.WithLabelValues(window).Inc()
}

// RecordRateLimitDecision counts a burst limiter allow or deny.
func (m *Metrics) RecordRateLimitDecision(allowed bool) {
	if m == nil {
		return
	}
	decision := "denied"
	if allowed {
		decision = "allowed"
	}
	m.rateLimit.WithLabelValues(decision).Inc()
}

// RecordUsageWritten counts ledger records written.
func (m *Metrics) RecordUsageWritten(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.usageRecords.Add(float64(n))
}
