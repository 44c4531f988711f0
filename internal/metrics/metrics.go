package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	layoutsComposed  *prometheus.CounterVec
	refreshTotal     *prometheus.CounterVec
	refreshDuration  prometheus.Histogram
	backendRequests  *prometheus.CounterVec
	streamClients    prometheus.Gauge
	archiveWrites    *prometheus.CounterVec
	trainingProgress prometheus.Gauge
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Business metrics
	r.layoutsComposed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricedash_layouts_total",
			Help: "Total number of chart layouts composed",
		},
		[]string{"chart", "kind"},
	)
	r.refreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricedash_refresh_total",
			Help: "Total number of dashboard refreshes",
		},
		[]string{"status"},
	)
	r.refreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricedash_refresh_duration_seconds",
			Help:    "Dashboard refresh duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	r.backendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricedash_backend_requests_total",
			Help: "Total number of requests to the pricing backend",
		},
		[]string{"endpoint", "status"},
	)
	r.streamClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pricedash_stream_clients",
			Help: "Number of connected snapshot stream clients",
		},
	)
	r.archiveWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricedash_archive_writes_total",
			Help: "Total number of snapshot archive writes",
		},
		[]string{"status"},
	)
	r.trainingProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pricedash_training_progress_percent",
			Help: "Training progress reported by the backend",
		},
	)

	reg.MustRegister(r.layoutsComposed)
	reg.MustRegister(r.refreshTotal)
	reg.MustRegister(r.refreshDuration)
	reg.MustRegister(r.backendRequests)
	reg.MustRegister(r.streamClients)
	reg.MustRegister(r.archiveWrites)
	reg.MustRegister(r.trainingProgress)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordLayout records a composed layout of the given kind.
func (r *Registry) RecordLayout(chart, kind string) {
	r.layoutsComposed.WithLabelValues(chart, kind).Inc()
}

// RecordRefresh records a dashboard refresh.
func (r *Registry) RecordRefresh(status string, duration float64) {
	r.refreshTotal.WithLabelValues(status).Inc()
	r.refreshDuration.Observe(duration)
}

// RecordBackendRequest records a request to the pricing backend.
func (r *Registry) RecordBackendRequest(endpoint string, status int) {
	label := "error"
	if status > 0 {
		label = statusToString(status)
	}
	r.backendRequests.WithLabelValues(endpoint, label).Inc()
}

// SetStreamClients sets the number of connected stream clients.
func (r *Registry) SetStreamClients(count int) {
	r.streamClients.Set(float64(count))
}

// RecordArchiveWrite records a snapshot archive write.
func (r *Registry) RecordArchiveWrite(status string) {
	r.archiveWrites.WithLabelValues(status).Inc()
}

// SetTrainingProgress sets the training progress percentage.
func (r *Registry) SetTrainingProgress(pct float64) {
	r.trainingProgress.Set(pct)
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
