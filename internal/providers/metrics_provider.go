package providers

import (
	"time"
	"waifud/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncDraws()
	IncNtrAttempts(result string)
	IncGalleryBuilds(kind string)
	ObserveGalleryBuildDuration(kind string, duration time.Duration)
	AddCleanupDeleted(count int)
	IncCacheHits()
	IncCacheMisses()
}

// CatalogSource and GroupSource feed the gauge funcs; satisfied by the catalog
// reader and the unlock ledger.
type CatalogSource interface {
	List() ([]string, error)
}

type GroupSource interface {
	Groups() []string
}

type MetricsProvider struct {
	requestsTotal        *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
	drawsTotal           prometheus.Counter
	ntrAttemptsTotal     *prometheus.CounterVec
	galleryBuildsTotal   *prometheus.CounterVec
	galleryBuildDuration *prometheus.HistogramVec
	cleanupDeletedTotal  prometheus.Counter
	cacheHits            prometheus.Counter
	cacheMisses          prometheus.Counter
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncDraws() {
	m.drawsTotal.Inc()
}

func (m *MetricsProvider) IncNtrAttempts(result string) {
	m.ntrAttemptsTotal.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) IncGalleryBuilds(kind string) {
	m.galleryBuildsTotal.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) ObserveGalleryBuildDuration(kind string, duration time.Duration) {
	m.galleryBuildDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func (m *MetricsProvider) AddCleanupDeleted(count int) {
	m.cleanupDeletedTotal.Add(float64(count))
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, catalog CatalogSource, groups GroupSource) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "waifud_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "waifud_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		drawsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "waifud_draws_total",
			Help: "Total number of daily draws performed",
		}),

		ntrAttemptsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "waifud_ntr_attempts_total",
			Help: "Total number of steal attempts by result",
		}, []string{"result"}),

		galleryBuildsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "waifud_gallery_builds_total",
			Help: "Total number of gallery compositions by kind",
		}, []string{"kind"}),

		galleryBuildDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "waifud_gallery_build_duration_seconds",
			Help:    "Gallery composition duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),

		cleanupDeletedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "waifud_cleanup_deleted_total",
			Help: "Total number of gallery outputs removed by the TTL sweep",
		}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "waifud_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "waifud_cache_misses_total",
			Help: "Total number of cache misses",
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "waifud_catalog_items",
		Help: "Current number of items in the local store",
	}, func() float64 {
		items, _ := catalog.List()
		return float64(len(items))
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "waifud_groups_total",
		Help: "Number of groups with a persisted config",
	}, func() float64 {
		return float64(len(groups.Groups()))
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                          {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)          {}
func (n *noopMetrics) IncDraws()                                                 {}
func (n *noopMetrics) IncNtrAttempts(_ string)                                   {}
func (n *noopMetrics) IncGalleryBuilds(_ string)                                 {}
func (n *noopMetrics) ObserveGalleryBuildDuration(_ string, _ time.Duration)     {}
func (n *noopMetrics) AddCleanupDeleted(_ int)                                   {}
func (n *noopMetrics) IncCacheHits()                                             {}
func (n *noopMetrics) IncCacheMisses()                                           {}
