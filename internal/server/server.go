// Package server hosts the FullStock HTTP API: core health and module
// listing endpoints, module route mounting, Prometheus metrics and
// RFC 7807 error responses.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/HerbHall/fullstock/internal/plugin"
	"github.com/HerbHall/fullstock/internal/version"
)

// Server is the main FullStock server.
type Server struct {
	httpServer *http.Server
	registry   *plugin.Registry
	logger     *zap.Logger
	mux        *http.ServeMux
	metrics    *Metrics
}

// Option customizes a Server.
type Option func(*options)

type options struct {
	handlers []mountedHandler
	promReg  *prometheus.Registry
}

type mountedHandler struct {
	pattern string
	handler http.Handler
}

// WithHandler mounts an additional handler, such as the dashboard, on the
// server mux.
func WithHandler(pattern string, h http.Handler) Option {
	return func(o *options) {
		o.handlers = append(o.handlers, mountedHandler{pattern: pattern, handler: h})
	}
}

// WithPrometheusRegistry sets the registry that backs /metrics. Modules
// that export their own collectors should register on the same registry.
func WithPrometheusRegistry(reg *prometheus.Registry) Option {
	return func(o *options) { o.promReg = reg }
}

// New creates a new Server instance.
func New(addr string, reg *plugin.Registry, logger *zap.Logger, opts ...Option) *Server {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.promReg == nil {
		o.promReg = prometheus.NewRegistry()
	}

	mux := http.NewServeMux()
	s := &Server{
		registry: reg,
		logger:   logger,
		mux:      mux,
		metrics:  NewMetrics(o.promReg),
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.metrics.Middleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.registerCoreRoutes()
	s.mountModuleRoutes()
	for _, h := range o.handlers {
		s.mux.Handle(h.pattern, h.handler)
		s.logger.Debug("mounted handler", zap.String("pattern", h.pattern))
	}

	return s
}

// Handler returns the instrumented root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// registerCoreRoutes sets up routes that are always available.
func (s *Server) registerCoreRoutes() {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/modules", s.handleModules)
	s.mux.Handle("GET /metrics", s.metrics.Handler())
}

// mountModuleRoutes registers all module routes under /api/v1/{module}/.
func (s *Server) mountModuleRoutes() {
	for name, routes := range s.registry.AllRoutes() {
		for _, route := range routes {
			pattern := fmt.Sprintf("%s /api/v1/%s%s", route.Method, name, route.Path)
			s.mux.HandleFunc(pattern, route.Handler)
			s.logger.Debug("mounted route",
				zap.String("module", name),
				zap.String("pattern", pattern),
			)
		}
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// handleHealth returns the server health status. The service reports
// degraded when any module does.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	modules := s.registry.Health(r.Context())
	status := plugin.HealthOK
	for _, h := range modules {
		if h.Status != plugin.HealthOK {
			status = plugin.HealthDegraded
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-FullStock-Version", version.Short())
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  status,
		"service": "fullstock",
		"version": version.Map(),
		"modules": modules,
	})
}

// handleModules returns the modules that are enabled.
func (s *Server) handleModules(w http.ResponseWriter, _ *http.Request) {
	modules := s.registry.Enabled()
	info := make([]plugin.Info, 0, len(modules))
	for _, m := range modules {
		info = append(info, m.Info())
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-FullStock-Version", version.Short())
	_ = json.NewEncoder(w).Encode(info)
}
