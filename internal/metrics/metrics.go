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

	// Archive metrics
	archiveLoads       *prometheus.CounterVec
	namespaceEntries   prometheus.Gauge
	articlesEnumerated prometheus.Counter
	enumerationPasses  prometheus.Counter
	contentLookups     *prometheus.CounterVec
	redirectHops       prometheus.Histogram
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

	// Archive metrics
	r.archiveLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zeno_archive_loads_total",
			Help: "Total number of archive load attempts",
		},
		[]string{"status"},
	)
	r.namespaceEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "zeno_namespace_entries",
			Help: "Number of entries in the enumerated namespace of the loaded archive",
		},
	)
	r.articlesEnumerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "zeno_articles_enumerated_total",
			Help: "Total number of articles returned by enumeration",
		},
	)
	r.enumerationPasses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "zeno_enumeration_passes_total",
			Help: "Total number of completed enumeration passes",
		},
	)
	r.contentLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zeno_content_lookups_total",
			Help: "Total number of content lookups by path",
		},
		[]string{"status"},
	)
	r.redirectHops = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "zeno_redirect_hops",
			Help:    "Redirects followed per content lookup",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)

	reg.MustRegister(r.archiveLoads)
	reg.MustRegister(r.namespaceEntries)
	reg.MustRegister(r.articlesEnumerated)
	reg.MustRegister(r.enumerationPasses)
	reg.MustRegister(r.contentLookups)
	reg.MustRegister(r.redirectHops)

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

// RecordArchiveLoad records an archive load attempt.
func (r *Registry) RecordArchiveLoad(status string) {
	r.archiveLoads.WithLabelValues(status).Inc()
}

// SetNamespaceEntries sets the size of the enumerated namespace.
func (r *Registry) SetNamespaceEntries(n int) {
	r.namespaceEntries.Set(float64(n))
}

// RecordArticleEnumerated records one article returned by enumeration.
func (r *Registry) RecordArticleEnumerated() {
	r.articlesEnumerated.Inc()
}

// RecordEnumerationPass records a completed enumeration pass.
func (r *Registry) RecordEnumerationPass() {
	r.enumerationPasses.Inc()
}

// RecordLookup records a content lookup and the redirects it followed.
func (r *Registry) RecordLookup(status string, hops int) {
	r.contentLookups.WithLabelValues(status).Inc()
	if status == "ok" {
		r.redirectHops.Observe(float64(hops))
	}
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
