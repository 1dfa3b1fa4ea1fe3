// Package api exposes the document store to the UI layer over HTTP. Every
// endpoint maps onto one core operation; the handlers do no graph logic of
// their own.
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mhaugen/flowforge/pkg/logging"
	"github.com/mhaugen/flowforge/pkg/metrics"
	"github.com/mhaugen/flowforge/pkg/store"
	"github.com/mhaugen/flowforge/pkg/validation"
)

// Config holds the HTTP server settings.
type Config struct {
	Port    int
	Version string
}

// Validate checks the config before the server starts.
func (c Config) Validate() error {
	return validation.NewConfigValidator("api.Config").
		RangeInt("Port", c.Port, 1, 65535).
		Required("Version", c.Version).
		Err()
}

// Server is the HTTP API server.
type Server struct {
	store     *store.Store
	logger    logging.Logger
	metrics   *metrics.Registry
	config    Config
	startTime time.Time
}

// NewServer creates an API server around a store.
func NewServer(st *store.Store, reg *metrics.Registry, logger logging.Logger, cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Server{
		store:     st,
		logger:    logger.With(logging.Component("api")),
		metrics:   reg,
		config:    cfg,
		startTime: time.Now(),
	}, nil
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.Prometheus(), promhttp.HandlerOpts{}))

	mux.HandleFunc("/nodes", s.handleNodes)
	mux.HandleFunc("/nodes/", s.handleNode) // /nodes/{id}
	mux.HandleFunc("/edges", s.handleEdges)
	mux.HandleFunc("/edges/", s.handleEdge) // /edges/{id}

	mux.HandleFunc("/document", s.handleDocument)
	mux.HandleFunc("/export", s.handleExport)
	mux.HandleFunc("/import", s.handleImport)

	mux.HandleFunc("/validate/connection", s.handleValidateConnection)
	mux.HandleFunc("/validate/fields", s.handleValidateFields)

	mux.HandleFunc("/undo", s.handleUndo)
	mux.HandleFunc("/redo", s.handleRedo)

	return s.countRequests(mux)
}

// Start runs the HTTP server. It blocks until the listener fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.logger.Info("api server starting", logging.String("addr", addr))
	return http.ListenAndServe(addr, s.Handler())
}

// countRequests is the one piece of middleware: request counting by path,
// method and status.
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if s.metrics != nil {
			s.metrics.HTTPRequestsTotal.
				WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(rec.status)).
				Inc()
		}
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
