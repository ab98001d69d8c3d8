// Package api provides the status HTTP server: health check, run status,
// and a Prometheus scrape endpoint for an in-progress search run. Grounded
// on internal/api/server.go's chi router construction (middleware stack,
// route mounting, writeJSON convention) — trimmed to this spec's surface,
// dropping the OpenAI/Ollama-compatible model-serving routes and the
// website/install-script static file serving, neither of which has a
// counterpart here.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evosynth/evosynth/internal/results"
)

// RunStatus is a snapshot of one in-progress or completed run, reported by
// the StatusProvider the Server is constructed with.
type RunStatus struct {
	RunID      string  `json:"run_id"`
	Task       string  `json:"task"`
	Engine     string  `json:"engine"`
	Generation int     `json:"generation"`
	NPE        int     `json:"npe"`
	BestReward float64 `json:"best_reward"`
	Solved     bool    `json:"solved"`
}

// StatusProvider supplies the current status for a running search.
type StatusProvider interface {
	Status() RunStatus
}

// Server is the evosynth status HTTP server.
type Server struct {
	status     StatusProvider
	resultsDir string
}

// NewServer creates a Server reporting status from provider and aggregating
// results shards from resultsDir.
func NewServer(provider StatusProvider, resultsDir string) *Server {
	return &Server{status: provider, resultsDir: resultsDir}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/status", func(w http.ResponseWriter, req *http.Request) {
		if s.status == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no run attached"})
			return
		}
		writeJSON(w, http.StatusOK, s.status.Status())
	})

	r.Get("/results", func(w http.ResponseWriter, req *http.Request) {
		numShards := 0
		if v := req.URL.Query().Get("num_shards"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				numShards = n
			}
		}
		records, shardStatuses, err := results.Aggregate(s.resultsDir, numShards)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"records": records,
			"shards":  shardStatuses,
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
