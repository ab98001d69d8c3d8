package ga

import (
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/evosynth/evosynth/internal/domain"
	"github.com/evosynth/evosynth/internal/scoring"
	"github.com/evosynth/evosynth/internal/tasks"
)

func testManager() *scoring.Manager {
	task := tasks.NewAddModBaseTask(5, 20, 11)
	cfg := scoring.DefaultConfig(12)
	return scoring.New(task, cfg)
}

func TestRunGenerationPreservesBatchSize(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	cfg := Config{BatchSize: 20, ProgramLength: 8, Cxpb: 0.5, Mutpb: 0.1, HallOfFameSize: 2}
	e := NewEngine(testManager(), cfg, rng)
	pop := InitPopulation(rng, cfg.BatchSize, cfg.ProgramLength)

	for i := 0; i < 5; i++ {
		next, err := e.RunGeneration(pop)
		if err != nil {
			t.Fatalf("RunGeneration: %v", err)
		}
		if len(next) != cfg.BatchSize {
			t.Fatalf("population len = %d, want %d", len(next), cfg.BatchSize)
		}
		pop = next
	}
	if e.Generation != 5 {
		t.Errorf("Generation = %d, want 5", e.Generation)
	}
}

func TestRewardCacheReusesScore(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	cfg := Config{BatchSize: 4, ProgramLength: 6, HallOfFameSize: 1}
	e := NewEngine(testManager(), cfg, rng)

	pop := Population{{Program: "++.+.+."}, {Program: "++.+.+."}}
	e.evaluate(pop)
	if len(e.rewardCache) != 1 {
		t.Fatalf("cache size = %d, want 1 (identical programs)", len(e.rewardCache))
	}
	if *pop[0].Fitness != *pop[1].Fitness {
		t.Errorf("identical programs scored differently: %f vs %f", *pop[0].Fitness, *pop[1].Fitness)
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ckpt.gob")

	rng := rand.New(rand.NewSource(3))
	pop := InitPopulation(rng, 4, 6)
	f := 0.5
	pop[0].Fitness = &f

	cp := Checkpoint{Generation: 7, Population: pop}
	if err := SaveCheckpoint(path, cp); err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}
	loaded, err := LoadCheckpoint(path)
	if err != nil {
		t.Fatalf("LoadCheckpoint: %v", err)
	}
	if loaded.Generation != 7 {
		t.Errorf("Generation = %d, want 7", loaded.Generation)
	}
	if len(loaded.Population) != 4 {
		t.Errorf("population len = %d, want 4", len(loaded.Population))
	}
	if loaded.Population[0].Fitness == nil || *loaded.Population[0].Fitness != 0.5 {
		t.Errorf("fitness not preserved across checkpoint round trip")
	}
}

func TestLoadCheckpointMissingFileReturnsErrNoCheckpoint(t *testing.T) {
	_, err := LoadCheckpoint(filepath.Join(t.TempDir(), "absent.gob"))
	if err == nil {
		t.Fatal("expected error for missing checkpoint file")
	}
	if !errors.Is(err, domain.ErrNoCheckpoint) {
		t.Errorf("err = %v, want domain.ErrNoCheckpoint", err)
	}
}

func TestRunTerminatesWithinNgen(t *testing.T) {
	task := tasks.NewBooleanTruthTableTask()
	cfg := scoring.DefaultConfig(8)
	manager := scoring.New(task, cfg)

	gaCfg := Config{BatchSize: 40, ProgramLength: 1, Cxpb: 0.5, Mutpb: 0.2, HallOfFameSize: 2, Ngen: 200}
	result, err := Run(manager, gaCfg, 42)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Not asserting Solved=true (GA is stochastic and bool-logic needs
	// conditional branching a length-1 program cannot express), only that
	// Run terminates cleanly and reports a generation count within budget.
	if result.Generation > gaCfg.Ngen {
		t.Errorf("Generation = %d exceeds Ngen = %d", result.Generation, gaCfg.Ngen)
	}
}
