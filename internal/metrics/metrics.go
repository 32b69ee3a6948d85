package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	RequestsInFlight    prometheus.Gauge

	ScrapeRequestsTotal   *prometheus.CounterVec
	ScrapeRequestDuration *prometheus.HistogramVec

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	RateLimitHitsTotal prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_engine_http_requests_total",
				Help: "Total number of API requests served",
			},
			[]string{"endpoint", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "search_engine_http_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"endpoint"},
		),
		RequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "search_engine_requests_in_flight",
				Help: "Number of API requests currently being processed",
			},
		),

		ScrapeRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_engine_scrape_requests_total",
				Help: "Total number of engine scrape requests",
			},
			[]string{"engine", "status"},
		),
		ScrapeRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "search_engine_scrape_request_duration_seconds",
				Help:    "Engine scrape duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"engine"},
		),

		CacheHitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "search_engine_cache_hits_total",
				Help: "Total number of search cache hits",
			},
		),
		CacheMissesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "search_engine_cache_misses_total",
				Help: "Total number of search cache misses",
			},
		),

		RateLimitHitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "search_engine_rate_limit_hits_total",
				Help: "Total number of rate limited requests",
			},
		),
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) RecordHTTPRequest(endpoint, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *Metrics) RecordScrape(engine, status string, duration time.Duration) {
	m.ScrapeRequestsTotal.WithLabelValues(engine, status).Inc()
	m.ScrapeRequestDuration.WithLabelValues(engine).Observe(duration.Seconds())
}

func (m *Metrics) RecordCacheHit()  { m.CacheHitsTotal.Inc() }
func (m *Metrics) RecordCacheMiss() { m.CacheMissesTotal.Inc() }

func (m *Metrics) RecordRateLimited() { m.RateLimitHitsTotal.Inc() }

func (m *Metrics) IncRequestsInFlight() { m.RequestsInFlight.Inc() }
func (m *Metrics) DecRequestsInFlight() { m.RequestsInFlight.Dec() }
