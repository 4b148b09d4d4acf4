package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPServerMetrics covers the HTTP surface plus the generation pipeline.
// Generation outcomes, gateway latency and empty extractions are tracked per
// endpoint.
type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	generationTotal      *prometheus.CounterVec
	gatewayDuration      *prometheus.HistogramVec
	emptyExtractionTotal *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tutor",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tutor",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tutor",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	generationTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tutor",
			Subsystem: "generation",
			Name:      "requests_total",
			Help:      "Total generation requests by endpoint and outcome.",
		},
		[]string{"service", "endpoint", "status"},
	)
	gatewayDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tutor",
			Subsystem: "generation",
			Name:      "gateway_duration_seconds",
			Help:      "Completion gateway round-trip duration in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"service", "endpoint"},
	)
	emptyExtractionTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tutor",
			Subsystem: "extraction",
			Name:      "empty_total",
			Help:      "Total requests whose source documents yielded no text.",
		},
		[]string{"service", "endpoint"},
	)
	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		generationTotal,
		gatewayDuration,
		emptyExtractionTotal,
	)

	return &HTTPServerMetrics{
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		generationTotal:      generationTotal,
		gatewayDuration:      gatewayDuration,
		emptyExtractionTotal: emptyExtractionTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "/api/documents/") && strings.HasSuffix(path, "/download") {
		return "/api/documents/{document_id}/download"
	}
	return path
}

func (m *HTTPServerMetrics) RecordGeneration(service, endpoint, status string, gatewayElapsed time.Duration) {
	if status == "" {
		status = "unknown"
	}
	m.generationTotal.WithLabelValues(service, endpoint, status).Inc()
	if gatewayElapsed > 0 {
		m.gatewayDuration.WithLabelValues(service, endpoint).Observe(gatewayElapsed.Seconds())
	}
}

func (m *HTTPServerMetrics) RecordEmptyExtraction(service, endpoint string) {
	m.emptyExtractionTotal.WithLabelValues(service, endpoint).Inc()
}

// statusRecorder captures the response status for labeling. The API serves
// plain JSON and buffered downloads only, so no streaming passthroughs are
// needed.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
