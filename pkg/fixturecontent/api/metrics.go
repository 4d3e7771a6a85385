package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tendant/fixture-content/pkg/fixturecontent"
)

// Metrics holds Prometheus metrics for the fixture api
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	responseBytes   *prometheus.CounterVec
}

// NewMetrics registers the api metrics with reg. The item gauge reads the
// provider under its lock at scrape time.
func NewMetrics(reg prometheus.Registerer, provider *fixturecontent.Provider) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fixture",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of api requests",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fixture",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Api request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		responseBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fixture",
			Subsystem: "api",
			Name:      "response_bytes_total",
			Help:      "Total bytes written in api responses",
		}, []string{"method", "route"}),
	}

	items := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "fixture",
		Subsystem: "store",
		Name:      "items",
		Help:      "Number of items in the fixture store",
	}, func() float64 {
		var n int
		provider.Do(func(p *fixturecontent.Provider) {
			n = p.Len()
		})
		return float64(n)
	})

	reg.MustRegister(m.requestsTotal, m.requestDuration, m.responseBytes, items)
	return m
}

// RecordRequest implements MetricsCollector
func (m *Metrics) RecordRequest(method, route string, statusCode int, duration time.Duration, size int64) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	m.responseBytes.WithLabelValues(method, route).Add(float64(size))
}
