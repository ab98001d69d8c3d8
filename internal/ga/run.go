package ga

import (
	"errors"
	"math/rand"

	"github.com/evosynth/evosynth/internal/domain"
	"github.com/evosynth/evosynth/internal/observability"
	"github.com/evosynth/evosynth/internal/scoring"
)

// RunResult is what Run returns once the loop stops.
type RunResult struct {
	Generation int
	Best       Individual
	Solved     bool
}

// Run drives the generational loop to completion: resuming from
// cfg.CheckpointPath if a valid checkpoint exists (re-evaluating any
// individual whose fitness did not survive the checkpoint, per spec.md
// §4.7's resumption contract), then stepping generations until either the
// current best individual is correct or cfg.Ngen generations have elapsed
// (0 means unlimited).
func Run(manager *scoring.Manager, cfg Config, seed int64) (RunResult, error) {
	rng := rand.New(rand.NewSource(seed))
	e := NewEngine(manager, cfg, rng)

	pop := InitPopulation(rng, cfg.BatchSize, cfg.ProgramLength)
	startGen := 0

	if cfg.CheckpointPath != "" {
		cp, err := LoadCheckpoint(cfg.CheckpointPath)
		switch {
		case err == nil:
			pop = cp.Population
			e.hallOfFame = RestoreHallOfFame(cp.HallOfFame, cfg.HallOfFameSize)
			startGen = cp.Generation + 1
		case errors.Is(err, domain.ErrNoCheckpoint):
			// Start fresh.
		default:
			// Corrupt checkpoint: start fresh, per spec.md §4.7.
		}
	}
	e.Generation = startGen

	e.evaluate(pop)
	if cfg.OnGeneration != nil {
		cfg.OnGeneration(startGen, pop.Best().FitnessValue(), pop.MeanFitness())
	}
	if Terminated(pop) {
		observability.SolutionsFound.WithLabelValues(manager.TaskName(), "ga").Inc()
		return RunResult{Generation: startGen, Best: pop.Best(), Solved: true}, nil
	}

	for gen := startGen; cfg.Ngen == 0 || gen < cfg.Ngen; gen++ {
		next, err := e.RunGeneration(pop)
		if err != nil {
			return RunResult{}, err
		}
		pop = next

		if cfg.OnGeneration != nil {
			cfg.OnGeneration(e.Generation, pop.Best().FitnessValue(), pop.MeanFitness())
		}

		if cfg.CheckpointEvery > 0 && e.Generation%cfg.CheckpointEvery == 0 && cfg.CheckpointPath != "" {
			if err := SaveCheckpoint(cfg.CheckpointPath, Checkpoint{
				Generation: e.Generation,
				Population: pop,
				HallOfFame: e.hallOfFame.IterInOrder(),
			}); err != nil {
				return RunResult{}, err
			}
			observability.CheckpointWrites.WithLabelValues("ga").Inc()
		}

		if Terminated(pop) {
			observability.SolutionsFound.WithLabelValues(manager.TaskName(), "ga").Inc()
			return RunResult{Generation: e.Generation, Best: pop.Best(), Solved: true}, nil
		}
	}

	return RunResult{Generation: e.Generation, Best: pop.Best(), Solved: false}, nil
}
