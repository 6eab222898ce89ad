// Package stats provides the HTTP observability endpoint for EmberDB:
// Prometheus metrics, a JSON stats snapshot, and a health check.
package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/emberdb/emberdb/internal/engine"
	"github.com/emberdb/emberdb/internal/metrics"
	"github.com/emberdb/emberdb/internal/version"
)

// Response is the payload served on /stats.
type Response struct {
	Version string `json:"version"`
	engine.Stats
}

// Server serves /metrics, /stats and /healthz.
type Server struct {
	addr string
	eng  *engine.Engine
	m    *metrics.Metrics
	log  *zap.Logger
	srv  *http.Server
}

// New creates a stats server bound to addr.
func New(addr string, eng *engine.Engine, m *metrics.Metrics, log *zap.Logger) *Server {
	s := &Server{addr: addr, eng: eng, m: m, log: log}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Start serves HTTP until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("stats server listening", zap.String("addr", s.addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	resp := Response{
		Version: version.Version,
		Stats:   s.eng.Stats(),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Warn("failed to encode stats", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
