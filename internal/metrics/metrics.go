package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the dashboard. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	FetchTotal     *prometheus.CounterVec // labels: source, kind, result
	FetchDur       *prometheus.HistogramVec
	CacheTotal     *prometheus.CounterVec // labels: kind, result
	DashboardTotal *prometheus.CounterVec // labels: result
	DashboardDur   prometheus.Histogram
	NewsTotal      *prometheus.CounterVec // labels: result
	HTTPTotal      *prometheus.CounterVec // labels: route, code
}

// NewMetrics registers and returns all metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "twstockdesk_fetch_total",
			Help: "Market data fetches by source, kind and result",
		}, []string{"source", "kind", "result"}),
		FetchDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "twstockdesk_fetch_duration_seconds",
			Help:    "Market data fetch latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"source", "kind"}),
		CacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "twstockdesk_cache_total",
			Help: "Fetch cache lookups by kind and result (hit/miss)",
		}, []string{"kind", "result"}),
		DashboardTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "twstockdesk_dashboard_builds_total",
			Help: "Dashboard builds by result",
		}, []string{"result"}),
		DashboardDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "twstockdesk_dashboard_build_duration_seconds",
			Help:    "Dashboard build latency including fetches",
			Buckets: prometheus.DefBuckets,
		}),
		NewsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "twstockdesk_news_fetch_total",
			Help: "News feed fetches by result",
		}, []string{"result"}),
		HTTPTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "twstockdesk_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "code"}),
	}
	m.registry.MustRegister(
		m.FetchTotal, m.FetchDur, m.CacheTotal,
		m.DashboardTotal, m.DashboardDur, m.NewsTotal, m.HTTPTotal,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveFetch records one upstream fetch.
func (m *Metrics) ObserveFetch(source, kind string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.FetchTotal.WithLabelValues(source, kind, result(err)).Inc()
	m.FetchDur.WithLabelValues(source, kind).Observe(time.Since(start).Seconds())
}

// ObserveCache records a cache lookup.
func (m *Metrics) ObserveCache(kind string, hit bool) {
	if m == nil {
		return
	}
	r := "miss"
	if hit {
		r = "hit"
	}
	m.CacheTotal.WithLabelValues(kind, r).Inc()
}

// ObserveDashboard records one dashboard build.
func (m *Metrics) ObserveDashboard(start time.Time, err error) {
	if m == nil {
		return
	}
	m.DashboardTotal.WithLabelValues(result(err)).Inc()
	m.DashboardDur.Observe(time.Since(start).Seconds())
}

// ObserveNews records one news feed fetch.
func (m *Metrics) ObserveNews(err error) {
	if m == nil {
		return
	}
	m.NewsTotal.WithLabelValues(result(err)).Inc()
}

// ObserveHTTP records a served request.
func (m *Metrics) ObserveHTTP(route string, code int) {
	if m == nil {
		return
	}
	m.HTTPTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
