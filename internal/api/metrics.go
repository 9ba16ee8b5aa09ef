package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/flatgraph/pkg/observability"
	"github.com/matzehuels/flatgraph/pkg/pipeline"
)

// metrics holds the prometheus instruments for one server. Each server
// owns its registry so repeated construction (tests, embedded use) never
// trips duplicate registration.
type metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	flattenTotal    *prometheus.CounterVec
	flattenNodes    prometheus.Histogram
	storeOps        *prometheus.CounterVec
	cacheOps        *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flatgraph_http_requests_total",
				Help: "HTTP requests processed, by method, route and status code.",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flatgraph_http_request_duration_seconds",
				Help:    "HTTP request latency, by method and route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		flattenTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flatgraph_flatten_total",
				Help: "Flatten executions, by outcome (ok, cached, error).",
			},
			[]string{"outcome"},
		),
		flattenNodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "flatgraph_flatten_nodes",
				Help:    "Node count per flattened graph.",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		storeOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flatgraph_store_ops_total",
				Help: "Document store operations, by op and outcome (ok, missing, error).",
			},
			[]string{"op", "outcome"},
		),
		cacheOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flatgraph_cache_ops_total",
				Help: "Result cache operations, by entry kind and outcome (hit, miss, set).",
			},
			[]string{"kind", "outcome"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.requestsTotal,
		m.requestDuration,
		m.flattenTotal,
		m.flattenNodes,
		m.storeOps,
		m.cacheOps,
	)
	return m
}

// handler serves the registry in the prometheus text format.
func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) observeRequest(method, route string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// observeFlatten records one pipeline execution. result may be nil when
// the run failed before producing anything.
func (m *metrics) observeFlatten(result *pipeline.Result, err error) {
	switch {
	case err != nil:
		m.flattenTotal.WithLabelValues("error").Inc()
	case result.CacheInfo.FlattenHit:
		m.flattenTotal.WithLabelValues("cached").Inc()
		m.flattenNodes.Observe(float64(result.Stats.NodeCount))
	default:
		m.flattenTotal.WithLabelValues("ok").Inc()
		m.flattenNodes.Observe(float64(result.Stats.NodeCount))
	}
}

// metricHooks adapts the server's instruments to the observability hook
// interfaces. Pipeline events stay unobserved here: flatten outcomes are
// recorded in the handlers, where the cache outcome is known.
type metricHooks struct {
	m *metrics
}

func (h metricHooks) OnCacheHit(_ context.Context, kind string) {
	h.m.cacheOps.WithLabelValues(kind, "hit").Inc()
}

func (h metricHooks) OnCacheMiss(_ context.Context, kind string) {
	h.m.cacheOps.WithLabelValues(kind, "miss").Inc()
}

func (h metricHooks) OnCacheSet(_ context.Context, kind string, _ int) {
	h.m.cacheOps.WithLabelValues(kind, "set").Inc()
}

func (h metricHooks) OnStoreGet(_ context.Context, _ string, found bool, _ time.Duration) {
	outcome := "ok"
	if !found {
		outcome = "missing"
	}
	h.m.storeOps.WithLabelValues("get", outcome).Inc()
}

func (h metricHooks) OnStorePut(_ context.Context, _ string, _ int, _ time.Duration) {
	h.m.storeOps.WithLabelValues("put", "ok").Inc()
}

func (h metricHooks) OnStoreDelete(_ context.Context, _ string, _ time.Duration) {
	h.m.storeOps.WithLabelValues("delete", "ok").Inc()
}

func (h metricHooks) OnStoreError(_ context.Context, op, _ string, _ error) {
	h.m.storeOps.WithLabelValues(op, "error").Inc()
}

var (
	_ observability.CacheHooks = metricHooks{}
	_ observability.StoreHooks = metricHooks{}
)

// RegisterHooks installs cache and store hooks backed by this server's
// registry. Hooks are process-global; call once at startup, after the
// server that should own the metrics is built.
func (s *Server) RegisterHooks() {
	h := metricHooks{m: s.metrics}
	observability.SetCacheHooks(h)
	observability.SetStoreHooks(h)
}
