// Package web serves a petrol book as an HTML table and a small JSON API.
package web

import (
	"context"
	_ "embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gigurra/petrol-book/internal"
)

//go:embed templates/index.html
var indexHTML string

const metricsNamespace = "petrol_book"

// Options configures a Server
type Options struct {
	ReferenceDistance int
	Config            *internal.Config
	// Registry receives the server metrics; a new registry is created when nil
	Registry *prometheus.Registry
}

// Server serves one petrol book. Requests are handled strictly one at a time,
// so every request sees the file as the previous request left it.
type Server struct {
	mu       sync.Mutex
	store    *internal.LogStore
	cfg      *internal.Config
	ref      int
	metrics  *Collector
	registry *prometheus.Registry
	router   *mux.Router
	index    *template.Template
}

// NewServer creates a server for store and registers its routes
func NewServer(store *internal.LogStore, opts Options) *Server {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	ref := opts.ReferenceDistance
	if ref <= 0 {
		ref = opts.Config.ReferenceDistance()
	}

	s := &Server{
		store:    store,
		cfg:      opts.Config,
		ref:      ref,
		metrics:  NewCollector(metricsNamespace, reg),
		registry: reg,
		router:   mux.NewRouter(),
		index:    template.Must(template.New("index").Parse(indexHTML)),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Use(s.instrument, s.serialize)

	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/records", s.handleFormSubmit).Methods(http.MethodPost)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/table", s.handleTable).Methods(http.MethodGet)
	api.HandleFunc("/records", s.handleAddRecord).Methods(http.MethodPost)
	api.HandleFunc("/stations", s.handleStations).Methods(http.MethodGet)

	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server metrics
func (s *Server) Metrics() *Collector {
	return s.metrics
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "address", addr, "file", s.store.Path())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// serialize runs one handler at a time
func (s *Server) serialize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		duration := time.Since(start)
		s.metrics.RecordRequest(route, r.Method, rec.status, duration)
		slog.Debug("HTTP request", "method", r.Method, "route", route, "status", rec.status, "duration_ms", duration.Milliseconds())
	})
}
