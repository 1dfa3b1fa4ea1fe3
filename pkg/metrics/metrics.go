// Package metrics exposes Prometheus instrumentation for the document
// store and the config compiler.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all collectors for the application.
type Registry struct {
	registry *prometheus.Registry

	// Store metrics
	MutationsTotal   *prometheus.CounterVec
	MutationDuration *prometheus.HistogramVec
	DocumentNodes    prometheus.Gauge
	DocumentEdges    prometheus.Gauge
	HistoryDepth     prometheus.Gauge

	// Validation metrics
	RejectionsTotal *prometheus.CounterVec

	// Compiler metrics
	GenerateDuration prometheus.Histogram
	ParseDuration    prometheus.Histogram
	ParseWarnings    prometheus.Counter

	// HTTP metrics
	HTTPRequestsTotal *prometheus.CounterVec
}

// New creates a Registry with all collectors registered on a fresh
// Prometheus registry.
func New() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initStore()
	r.initCompiler()
	r.initHTTP()
	return r
}

// Prometheus returns the underlying registry for the /metrics handler.
func (r *Registry) Prometheus() *prometheus.Registry { return r.registry }

func (r *Registry) initStore() {
	r.MutationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowforge_store_mutations_total",
			Help: "Total number of store mutations",
		},
		[]string{"operation", "status"},
	)
	r.MutationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flowforge_store_mutation_duration_seconds",
			Help:    "Store mutation duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
		[]string{"operation"},
	)
	r.DocumentNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flowforge_document_nodes",
			Help: "Number of nodes in the current document",
		},
	)
	r.DocumentEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flowforge_document_edges",
			Help: "Number of edges in the current document",
		},
	)
	r.HistoryDepth = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flowforge_history_depth",
			Help: "Number of snapshots held for undo",
		},
	)
	r.RejectionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowforge_validation_rejections_total",
			Help: "Mutations rejected by a validator",
		},
		[]string{"rule"},
	)
}

func (r *Registry) initCompiler() {
	r.GenerateDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flowforge_generate_duration_seconds",
			Help:    "Config generation duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1},
		},
	)
	r.ParseDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flowforge_parse_duration_seconds",
			Help:    "Config parsing duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1},
		},
	)
	r.ParseWarnings = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "flowforge_parse_warnings_total",
			Help: "Port references dropped during parsing",
		},
	)
}

func (r *Registry) initHTTP() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowforge_http_requests_total",
			Help: "Total HTTP requests by path, method and status",
		},
		[]string{"path", "method", "status"},
	)
}

// ObserveMutation records one committed or rejected store mutation.
func (r *Registry) ObserveMutation(op string, err error, elapsed time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.MutationsTotal.WithLabelValues(op, status).Inc()
	r.MutationDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// SetDocumentSize updates the node/edge gauges after a commit.
func (r *Registry) SetDocumentSize(nodes, edges int) {
	r.DocumentNodes.Set(float64(nodes))
	r.DocumentEdges.Set(float64(edges))
}
