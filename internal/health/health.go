package health

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/selivandex/stockspan/pkg/logger"
	"github.com/selivandex/stockspan/pkg/models"
)

// SnapshotSource exposes the currently loaded analysis
type SnapshotSource interface {
	Snapshot() *models.AnalysisResult
}

// Server provides health check and metrics HTTP endpoints
type Server struct {
	server    *http.Server
	snapshots SnapshotSource
	ready     bool
	readyMu   sync.RWMutex
	startTime time.Time
}

// HealthStatus represents system health
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
}

// ReadinessStatus represents system readiness
type ReadinessStatus struct {
	Ready     bool              `json:"ready"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
	Snapshot  *SnapshotStatus   `json:"snapshot,omitempty"`
}

// SnapshotStatus describes the loaded analysis
type SnapshotStatus struct {
	RunID       string `json:"run_id"`
	Symbol      string `json:"symbol"`
	Points      int    `json:"points"`
	LastDate    string `json:"last_date"`
	GeneratedAt string `json:"generated_at"`
}

// NewServer creates new health check server. gatherer backs /metrics.
func NewServer(port int, snapshots SnapshotSource, gatherer prometheus.Gatherer) *Server {
	mux := http.NewServeMux()

	s := &Server{
		server: &http.Server{
			Addr:         ":" + strconv.Itoa(port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		snapshots: snapshots,
		startTime: time.Now(),
	}

	mux.HandleFunc("/health", s.handleHealth)    // Liveness probe
	mux.HandleFunc("/ready", s.handleReadiness)  // Readiness probe
	mux.HandleFunc("/healthz", s.handleHealth)   // Alias
	mux.HandleFunc("/readyz", s.handleReadiness) // Alias
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return s
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the health check server
func (s *Server) Start() error {
	logger.Info("health check server starting",
		zap.String("addr", s.server.Addr),
	)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	logger.Info("stopping health check server...")
	return s.server.Shutdown(ctx)
}

// SetReady marks startup as complete
func (s *Server) SetReady(ready bool) {
	s.readyMu.Lock()
	defer s.readyMu.Unlock()
	s.ready = ready

	if ready {
		logger.Info("✅ service marked as READY")
	} else {
		logger.Warn("⚠️ service marked as NOT READY")
	}
}

// handleHealth handles liveness probe - /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
	}

	writeJSON(w, http.StatusOK, status)
}

// handleReadiness handles readiness probe - /ready
// Returns 200 only once startup is complete and a snapshot is loaded
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	s.readyMu.RLock()
	ready := s.ready
	s.readyMu.RUnlock()

	checks := map[string]string{"startup": "complete"}
	if !ready {
		checks["startup"] = "pending"
	}

	status := ReadinessStatus{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	snap := s.snapshots.Snapshot()
	if snap.Empty() {
		checks["snapshot"] = "not loaded"
	} else {
		checks["snapshot"] = "loaded"
		latest, _ := snap.Latest()
		status.Snapshot = &SnapshotStatus{
			RunID:       snap.RunID.String(),
			Symbol:      snap.Symbol,
			Points:      len(snap.Series),
			LastDate:    latest.Date.Format(models.DateLayout),
			GeneratedAt: snap.GeneratedAt.UTC().Format(time.RFC3339),
		}
	}

	status.Ready = ready && status.Snapshot != nil

	code := http.StatusOK
	if !status.Ready {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to encode health response", zap.Error(err))
	}
}
