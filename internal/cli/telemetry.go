package cli

import (
	"log"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/evosynth/evosynth/internal/api"
	"github.com/evosynth/evosynth/internal/store"
)

// telemetry bundles the optional sqlite store and status HTTP server that
// --serve attaches to a ga/random run, per SPEC_FULL.md §4.11/§4.12. Only
// the shard-0 invocation of a sharded run starts the HTTP listener
// ("num_workers triggers a singleton worker's server"); every shard still
// writes to its own telemetry.db so --logdir aggregates across shards the
// same way internal/results already does for result records.
type telemetry struct {
	db     *store.DB
	status *liveStatus
}

// liveStatus is an api.StatusProvider backed by the most recently reported
// values for the run currently in flight. Guarded by a mutex since the
// HTTP server reads it from a goroutine other than the one updating it.
type liveStatus struct {
	mu     sync.Mutex
	status api.RunStatus
}

func (s *liveStatus) Status() api.RunStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *liveStatus) set(status api.RunStatus) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// openTelemetry opens logdir/telemetry.db and, when serve is true
// and this is shard 0, starts the status/metrics HTTP server on addr in the
// background. Returns (nil, nil) when serve is false.
func openTelemetry(logdir string, serve bool, shard int, addr string) (*telemetry, error) {
	if !serve {
		return nil, nil
	}
	dbPath := filepath.Join(logdir, "telemetry.db")
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	t := &telemetry{db: db, status: &liveStatus{}}
	if shard == 0 {
		srv := api.NewServer(t.status, logdir)
		go func() {
			if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
				log.Printf("[evosynth] status server on %s stopped: %v", addr, err)
			}
		}()
		infof("status server listening on %s (shard=0)", addr)
	}
	return t, nil
}

func (t *telemetry) close() {
	if t == nil {
		return
	}
	t.db.Close()
}
