package store

import (
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "telemetry.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStartAndFinishRun(t *testing.T) {
	db := newTestDB(t)

	if err := db.StartRun("run-1", "echo", "ga", 42); err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if err := db.FinishRun("run-1", true, 1.0, "++.--.", 1500); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	summary, err := db.GetRunSummary("run-1")
	if err != nil {
		t.Fatalf("GetRunSummary: %v", err)
	}
	if !summary.Solved {
		t.Error("Solved = false, want true")
	}
	if summary.BestReward != 1.0 {
		t.Errorf("BestReward = %f, want 1.0", summary.BestReward)
	}
	if summary.NPE != 1500 {
		t.Errorf("NPE = %d, want 1500", summary.NPE)
	}
}

func TestRecordAndListGenerationSnapshots(t *testing.T) {
	db := newTestDB(t)
	if err := db.StartRun("run-2", "reverse", "ga", 7); err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	for gen := 0; gen < 3; gen++ {
		if err := db.RecordGenerationSnapshot("run-2", gen, float64(gen)*0.1, float64(gen)*0.05); err != nil {
			t.Fatalf("RecordGenerationSnapshot(%d): %v", gen, err)
		}
	}

	snapshots, err := db.ListGenerationSnapshots("run-2")
	if err != nil {
		t.Fatalf("ListGenerationSnapshots: %v", err)
	}
	if len(snapshots) != 3 {
		t.Fatalf("len(snapshots) = %d, want 3", len(snapshots))
	}
	for i, s := range snapshots {
		if s.Generation != i {
			t.Errorf("snapshots[%d].Generation = %d, want %d", i, s.Generation, i)
		}
	}
}
