// Package metrics collects Prometheus metrics for the HTTP API and the auth core.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements auth.HashObserver and auth.ResolveObserver and records
// per-route HTTP traffic.
type Collector struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	resolutions  *prometheus.CounterVec
	passwordHash *prometheus.HistogramVec
	uploadBytes  prometheus.Counter
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "venus_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "venus_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "venus_auth_resolutions_total",
			Help: "Identity resolutions by outcome.",
		}, []string{"outcome"}),
		passwordHash: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "venus_password_hash_seconds",
			Help:    "Time spent in bcrypt hash and verify.",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"op"}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "venus_image_upload_bytes_total",
			Help: "Bytes of image data accepted.",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.resolutions,
		c.passwordHash,
		c.uploadBytes,
	)

	return c
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) ObserveResolution(outcome string) {
	c.resolutions.WithLabelValues(outcome).Inc()
}

func (c *Collector) ObservePasswordHash(op string, d time.Duration) {
	c.passwordHash.WithLabelValues(op).Observe(d.Seconds())
}

func (c *Collector) RecordUpload(size int64) {
	c.uploadBytes.Add(float64(size))
}

// Handler serves gatherer in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
