// ShopifyQ | 2026
// metrics.go

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the collection surface used by services and middleware.
type Recorder interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
	RecordWebhookEvent(eventType, outcome string)
	RecordUpstreamCall(provider, operation string, err bool, duration time.Duration)
}

type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	webhookEvents   *prometheus.CounterVec
	upstreamCalls   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopifyq_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shopifyq_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopifyq_webhook_events_total",
			Help: "Billing webhook events by type and outcome.",
		}, []string{"type", "outcome"}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopifyq_upstream_calls_total",
			Help: "Outbound provider calls by provider, operation and result.",
		}, []string{"provider", "operation", "result"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shopifyq_upstream_call_duration_seconds",
			Help:    "Outbound provider call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider", "operation"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.webhookEvents,
		c.upstreamCalls,
		c.upstreamLatency,
	)

	return c
}

// NewRegistry returns a registry preloaded with the process and Go
// runtime collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func (c *Collector) RecordHTTPRequest(
	method, route string,
	status int,
	duration time.Duration,
) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordWebhookEvent(eventType, outcome string) {
	c.webhookEvents.WithLabelValues(eventType, outcome).Inc()
}

func (c *Collector) RecordUpstreamCall(
	provider, operation string,
	errored bool,
	duration time.Duration,
) {
	result := "ok"
	if errored {
		result = "error"
	}
	c.upstreamCalls.WithLabelValues(provider, operation, result).Inc()
	c.upstreamLatency.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// Instrument records per-request counters and latency. Must run inside
// the chi router so the route pattern is resolvable.
func Instrument(rec Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			pattern := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil &&
				rctx.RoutePattern() != "" {
				pattern = rctx.RoutePattern()
			}

			rec.RecordHTTPRequest(r.Method, pattern, ww.Status(), time.Since(start))
		})
	}
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
