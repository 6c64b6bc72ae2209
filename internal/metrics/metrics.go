// Package metrics exposes the gateway's Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the gateway collectors. A nil *Metrics is a no-op so
// components can be tested without a registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	httpInFlight  prometheus.Gauge
	priceTicks    prometheus.Counter
	priceUpdates  prometheus.Counter
	priceDropped  prometheus.Counter
	subscriptions prometheus.Gauge
}

// New creates a metrics bundle with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_http_requests_in_flight",
			Help: "HTTP requests currently being served.",
		}),
		priceTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_price_ticks_total",
			Help: "Price feed ticks applied.",
		}),
		priceUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_price_updates_delivered_total",
			Help: "Price updates delivered to subscribers.",
		}),
		priceDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_price_updates_dropped_total",
			Help: "Price updates dropped because a subscriber channel was full.",
		}),
		subscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_price_subscriptions_active",
			Help: "Live price feed subscriptions.",
		}),
	}
	m.registry.MustRegister(
		m.httpRequests, m.httpDuration, m.httpInFlight,
		m.priceTicks, m.priceUpdates, m.priceDropped, m.subscriptions,
	)
	return m
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// IncrementInFlight marks a request as started.
func (m *Metrics) IncrementInFlight() {
	if m == nil {
		return
	}
	m.httpInFlight.Inc()
}

// DecrementInFlight marks a request as finished.
func (m *Metrics) DecrementInFlight() {
	if m == nil {
		return
	}
	m.httpInFlight.Dec()
}

// RecordPriceTick records one feed tick, the updates it delivered and the
// updates dropped on full subscriber channels.
func (m *Metrics) RecordPriceTick(delivered, dropped int) {
	if m == nil {
		return
	}
	m.priceTicks.Inc()
	m.priceUpdates.Add(float64(delivered))
	m.priceDropped.Add(float64(dropped))
}

// SetActiveSubscriptions tracks the live subscription count.
func (m *Metrics) SetActiveSubscriptions(n int) {
	if m == nil {
		return
	}
	m.subscriptions.Set(float64(n))
}
