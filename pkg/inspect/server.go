// Package inspect serves a live view of a reactive graph over HTTP: the
// dependency store as JSON, summary stats, Prometheus metrics, and a
// WebSocket stream of engine events. It is a development tool; run it on a
// loopback address.
package inspect

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/VFiee/vue-next/pkg/reactive"
)

// ServerOptions configures the inspector server.
type ServerOptions struct {
	// Addr is the listen address (default: "localhost:9390").
	Addr string

	// Graph is the graph to inspect (default: the package default graph).
	Graph *reactive.Graph

	// Verbose enables request logging.
	Verbose bool
}

// Server is the inspector HTTP server.
type Server struct {
	options    ServerOptions
	graph      *reactive.Graph
	hub        *Hub
	httpServer *http.Server
	mu         sync.Mutex
	running    bool
}

// NewServer creates an inspector server. Install the returned server's
// Observer on the graph to light up the event stream:
//
//	srv := inspect.NewServer(inspect.ServerOptions{Graph: g})
//	g.SetObserver(srv.Observer())
//	go srv.Start(ctx)
func NewServer(options ServerOptions) *Server {
	if options.Addr == "" {
		options.Addr = "localhost:9390"
	}
	if options.Graph == nil {
		options.Graph = reactive.Default()
	}
	return &Server{
		options: options,
		graph:   options.Graph,
		hub:     NewHub(),
	}
}

// Observer returns the observer that feeds the WebSocket event stream.
// Combine it with other observers via reactive.CombineObservers.
func (s *Server) Observer() reactive.Observer {
	return s.hub
}

// Handler returns the inspector's HTTP handler, for mounting into an
// existing router instead of running a standalone server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	if s.options.Verbose {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/api/graph", s.handleGraph)
	r.Get("/api/stats", s.handleStats)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/events", s.hub.HandleWebSocket)

	return r
}

func (s *Server) handleGraph(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.graph.Snapshot())
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.graph.Stats())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Start runs the server until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.httpServer = &http.Server{
		Addr:    s.options.Addr,
		Handler: s.Handler(),
	}
	s.mu.Unlock()

	s.log("Inspector running at http://%s", s.options.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		s.Stop()
		return err
	}
}

// Stop shuts the server down, disconnecting all stream clients.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false

	s.hub.Close()
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}
}

func (s *Server) log(format string, args ...any) {
	if s.options.Verbose {
		log.Printf(format, args...)
	}
}
