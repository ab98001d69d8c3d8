package cli

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/evosynth/evosynth/internal/api"
	"github.com/evosynth/evosynth/internal/config"
	"github.com/evosynth/evosynth/internal/ga"
	"github.com/evosynth/evosynth/internal/literal"
	"github.com/evosynth/evosynth/internal/observability"
	"github.com/evosynth/evosynth/internal/results"
	"github.com/evosynth/evosynth/internal/scoring"
	"github.com/evosynth/evosynth/internal/tasks"
)

var gaFlags struct {
	logdir         string
	configStr      string
	maxNPE         int
	numRepetitions int
	taskID         string
	numWorkers     int
	shard          int
	serve          bool
	serveAddr      string
}

var gaCmd = &cobra.Command{
	Use:   "ga",
	Short: "Run genetic-algorithm program synthesis against one task",
	Args:  cobra.NoArgs,
	RunE:  runGA,
}

func init() {
	gaCmd.Flags().StringVar(&gaFlags.logdir, "logdir", "", "absolute path for checkpoints and results shards (required)")
	gaCmd.Flags().StringVar(&gaFlags.configStr, "config", "", "GA config overrides, e.g. \"batch_size=128,ngen=500\"")
	gaCmd.Flags().IntVar(&gaFlags.maxNPE, "max_npe", 0, "maximum programs evaluated across all repetitions; 0 means unlimited")
	gaCmd.Flags().IntVar(&gaFlags.numRepetitions, "num_repetitions", 1, "number of independent GA repetitions to run")
	gaCmd.Flags().StringVar(&gaFlags.taskID, "task_id", "", "task name from the default registry (required)")
	gaCmd.Flags().IntVar(&gaFlags.numWorkers, "num_workers", 1, "declared worker count; accepted but not used by this command")
	gaCmd.Flags().IntVar(&gaFlags.shard, "shard", 0, "results-store shard id this invocation writes to")
	gaCmd.Flags().BoolVar(&gaFlags.serve, "serve", false, "attach the sqlite telemetry store and, on shard 0, start the status/metrics HTTP server")
	gaCmd.Flags().StringVar(&gaFlags.serveAddr, "serve_addr", ":8080", "listen address for the status/metrics HTTP server (shard 0 only)")
	gaCmd.MarkFlagRequired("logdir")
	gaCmd.MarkFlagRequired("task_id")
}

func runGA(cmd *cobra.Command, args []string) error {
	if !filepath.IsAbs(gaFlags.logdir) {
		return fmt.Errorf("--logdir must be an absolute path, got %q", gaFlags.logdir)
	}
	task, err := tasks.DefaultRegistry().Get(gaFlags.taskID)
	if err != nil {
		return err
	}

	cfg := ga.DefaultConfig()
	if err := applyGAConfigOverrides(&cfg, gaFlags.configStr); err != nil {
		return fmt.Errorf("--config: %w", err)
	}

	manager := scoring.New(task, scoring.DefaultConfig(cfg.ProgramLength))
	writer := results.NewWriter(gaFlags.logdir, gaFlags.shard)

	tel, err := openTelemetry(gaFlags.logdir, gaFlags.serve, gaFlags.shard, gaFlags.serveAddr)
	if err != nil {
		return fmt.Errorf("opening telemetry store: %w", err)
	}
	defer tel.close()

	npeUsed := 0
	for rep := 0; rep < gaFlags.numRepetitions; rep++ {
		if gaFlags.maxNPE > 0 && npeUsed >= gaFlags.maxNPE {
			infof("max_npe budget (%d) exhausted after %d repetitions", gaFlags.maxNPE, rep)
			break
		}
		cfg.CheckpointPath = filepath.Join(gaFlags.logdir, fmt.Sprintf("ga_checkpoint_%d_%s.gob", gaFlags.shard, uuid.NewString()))

		runID := uuid.NewString()
		if tel != nil {
			if err := tel.db.StartRun(runID, gaFlags.taskID, "ga", int64(rep)); err != nil {
				errorf("telemetry StartRun failed: %v", err)
			}
			cfg.OnGeneration = func(generation int, bestReward, meanFitness float64) {
				if err := tel.db.RecordGenerationSnapshot(runID, generation, bestReward, meanFitness); err != nil {
					errorf("telemetry RecordGenerationSnapshot failed: %v", err)
				}
				tel.status.set(api.RunStatus{
					RunID:      runID,
					Task:       gaFlags.taskID,
					Engine:     "ga",
					Generation: generation,
					NPE:        npeUsed + generation*cfg.BatchSize,
					BestReward: bestReward,
				})
			}
		} else {
			cfg.OnGeneration = nil
		}

		infof("task=%s repetition=%d/%d starting", gaFlags.taskID, rep+1, gaFlags.numRepetitions)
		result, err := ga.Run(manager, cfg, int64(rep))
		if err != nil {
			errorf("task=%s repetition=%d failed: %v", gaFlags.taskID, rep, err)
			return err
		}
		npeUsed += result.Generation * cfg.BatchSize
		observability.BestRewardGauge.WithLabelValues(runID).Set(result.Best.FitnessValue())

		if tel != nil {
			if err := tel.db.FinishRun(runID, result.Solved, result.Best.FitnessValue(), codeOrEmpty(result.Solved, result.Best.Program), npeUsed); err != nil {
				errorf("telemetry FinishRun failed: %v", err)
			}
			tel.status.set(api.RunStatus{
				RunID:      runID,
				Task:       gaFlags.taskID,
				Engine:     "ga",
				Generation: result.Generation,
				NPE:        npeUsed,
				BestReward: result.Best.FitnessValue(),
				Solved:     result.Solved,
			})
		}

		record := results.Record{
			MaxNPE:               gaFlags.maxNPE,
			MaxGlobalRepetitions: gaFlags.numRepetitions,
			MaxLocalRepetitions:  gaFlags.numRepetitions,
			NPE:                  npeUsed,
			BatchSize:            cfg.BatchSize,
			NumBatches:           result.Generation,
			FoundSolution:        result.Solved,
			BestReward:           result.Best.FitnessValue(),
			CodeSolution:         codeOrEmpty(result.Solved, result.Best.Program),
			Task:                 gaFlags.taskID,
			GlobalRep:            rep,
		}
		if err := writer.Append(record); err != nil {
			return fmt.Errorf("writing results shard: %w", err)
		}

		if result.Solved {
			infof("task=%s repetition=%d solved at generation=%d reward=%.3f", gaFlags.taskID, rep, result.Generation, result.Best.FitnessValue())
		} else {
			infof("task=%s repetition=%d exhausted ngen=%d without solving", gaFlags.taskID, rep, cfg.Ngen)
		}
	}
	return nil
}

func codeOrEmpty(solved bool, code string) string {
	if !solved {
		return ""
	}
	return code
}

// applyGAConfigOverrides parses configStr with internal/config (so a syntax
// error comes back as *config.ParseError, carrying a byte offset per
// SPEC_FULL.md §7) and copies any recognized key onto cfg.
func applyGAConfigOverrides(cfg *ga.Config, configStr string) error {
	if configStr == "" {
		return nil
	}
	parsed, err := config.ParseString(configStr)
	if err != nil {
		return err
	}
	intOverride := func(key string, dst *int) error {
		v, ok := parsed.Get(key)
		if !ok {
			return nil
		}
		lit, ok := v.(literal.Value)
		if !ok || lit.Int == nil {
			return fmt.Errorf("key %q must be an integer", key)
		}
		*dst = int(*lit.Int)
		return nil
	}
	floatOverride := func(key string, dst *float64) error {
		v, ok := parsed.Get(key)
		if !ok {
			return nil
		}
		lit, ok := v.(literal.Value)
		switch {
		case ok && lit.Float != nil:
			*dst = *lit.Float
		case ok && lit.Int != nil:
			*dst = float64(*lit.Int)
		default:
			return fmt.Errorf("key %q must be numeric", key)
		}
		return nil
	}
	for _, f := range []struct {
		key string
		fn  func() error
	}{
		{"batch_size", func() error { return intOverride("batch_size", &cfg.BatchSize) }},
		{"program_length", func() error { return intOverride("program_length", &cfg.ProgramLength) }},
		{"hall_of_fame_size", func() error { return intOverride("hall_of_fame_size", &cfg.HallOfFameSize) }},
		{"ngen", func() error { return intOverride("ngen", &cfg.Ngen) }},
		{"checkpoint_every", func() error { return intOverride("checkpoint_every", &cfg.CheckpointEvery) }},
		{"cxpb", func() error { return floatOverride("cxpb", &cfg.Cxpb) }},
		{"mutpb", func() error { return floatOverride("mutpb", &cfg.Mutpb) }},
	} {
		if err := f.fn(); err != nil {
			return fmt.Errorf("%s: %w", f.key, err)
		}
	}
	return nil
}
