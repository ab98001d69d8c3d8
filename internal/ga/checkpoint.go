package ga

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/evosynth/evosynth/internal/domain"
	"github.com/evosynth/evosynth/internal/dsa"
)

// Checkpoint is the (generation, population, hall_of_fame) triple spec.md
// §4.7/§6 requires, written atomically every CheckpointEvery generations.
type Checkpoint struct {
	Generation int
	Population Population
	HallOfFame []dsa.Item
}

func init() {
	gob.Register(Individual{})
}

// SaveCheckpoint writes cp to path via write-to-temp-then-rename, so a crash
// mid-write never corrupts the previous checkpoint. The temp file name is
// suffixed with a fresh UUID to avoid colliding with a concurrent writer on
// the same path (not expected in this engine's single-writer-per-shard
// model, but cheap insurance).
func SaveCheckpoint(path string, cp Checkpoint) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(cp); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.tmp", uuid.NewString()))
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadCheckpoint reads a checkpoint previously written by SaveCheckpoint.
// Returns domain.ErrNoCheckpoint if path does not exist. A corrupt file
// (decode failure) is reported as-is; callers should treat any error here
// as "start fresh," per spec.md §4.7's resumption contract.
func LoadCheckpoint(path string) (Checkpoint, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Checkpoint{}, domain.ErrNoCheckpoint
	}
	if err != nil {
		return Checkpoint{}, err
	}
	var cp Checkpoint
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&cp); err != nil {
		return Checkpoint{}, err
	}
	return cp, nil
}

// RestoreHallOfFame rebuilds a MaxUniquePriorityQueue from a checkpoint's
// flat item list, capped at capacity.
func RestoreHallOfFame(items []dsa.Item, capacity int) *dsa.MaxUniquePriorityQueue {
	q := dsa.NewMaxUniquePriorityQueue(capacity)
	for _, item := range items {
		q.Push(item.Score, item.Key, item.Value)
	}
	return q
}
