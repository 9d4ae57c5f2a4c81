// Package metrics exposes Prometheus metrics for the auth server: outcomes of
// auth operations, expiry sweeps and HTTP request latency.
//
// All methods are safe on a nil *Registry, which records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taskkeeper"

// Registry holds all server metrics and the Prometheus registry they live in.
type Registry struct {
	registry *prometheus.Registry

	AuthOps         *prometheus.CounterVec
	SessionsSwept   prometheus.Counter
	SweepRuns       *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewRegistry creates a registry with the auth metrics plus the Go runtime
// and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		AuthOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "operations_total",
			Help:      "Auth operations by operation and result.",
		}, []string{"op", "result"}),
		SessionsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "swept_total",
			Help:      "Expired session records removed by the sweeper.",
		}),
		SweepRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "sweep_runs_total",
			Help:      "Sweeper runs by result.",
		}, []string{"result"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	r.registry.MustRegister(
		r.AuthOps,
		r.SessionsSwept,
		r.SweepRuns,
		r.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveAuth counts one auth operation. result is "ok" or an error category.
func (r *Registry) ObserveAuth(op, result string) {
	if r == nil {
		return
	}
	r.AuthOps.WithLabelValues(op, result).Inc()
}

// ObserveSweep records one sweeper run.
func (r *Registry) ObserveSweep(removed int64, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.SweepRuns.WithLabelValues("error").Inc()
		return
	}
	r.SweepRuns.WithLabelValues("ok").Inc()
	r.SessionsSwept.Add(float64(removed))
}

// ObserveHTTP records the latency of one HTTP request.
func (r *Registry) ObserveHTTP(method, route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
