package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "heatmap_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	transformTotal   *prometheus.CounterVec
	transformLatency *prometheus.HistogramVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	uploadBytes   prometheus.Histogram
	uploadsActive prometheus.Gauge
)

// Init registers the metrics with the default registry. Observers are
// no-ops until Init runs.
func Init() {
	registerOnce.Do(func() {
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		)

		transformTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "transform_total",
				Help: "Total workbook transforms by result (success or failure kind)",
			},
			[]string{"result"},
		)
		transformLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "transform_latency_seconds",
				Help:    "Workbook transform latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total heatmap exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Heatmap export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		uploadBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    metricPrefix + "upload_bytes",
			Help:    "Size of accepted workbook uploads",
			Buckets: prometheus.ExponentialBuckets(16<<10, 4, 8),
		})
		uploadsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "uploads_active",
			Help: "Uploads currently held in the cache",
		})

		prometheus.MustRegister(
			httpRequests,
			httpLatency,
			transformTotal,
			transformLatency,
			exportTotal,
			exportLatency,
			uploadBytes,
			uploadsActive,
		)
	})
}

// ObserveHTTP records one served request. route is the gin route template,
// not the raw path, to keep label cardinality bounded.
func ObserveHTTP(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	if httpRequests != nil {
		httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	}
	if httpLatency != nil {
		httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
	}
}

// ObserveTransform records a transform. result is ResultSuccess or the
// failure kind.
func ObserveTransform(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if transformTotal != nil {
		transformTotal.WithLabelValues(result).Inc()
	}
	if transformLatency != nil {
		transformLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// ObserveUpload records an accepted upload and the cache size after it.
func ObserveUpload(size int, active int) {
	if uploadBytes != nil {
		uploadBytes.Observe(float64(size))
	}
	SetUploadsActive(active)
}

func SetUploadsActive(n int) {
	if uploadsActive != nil {
		uploadsActive.Set(float64(n))
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
