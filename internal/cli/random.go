package cli

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/evosynth/evosynth/internal/api"
	"github.com/evosynth/evosynth/internal/randomsearch"
	"github.com/evosynth/evosynth/internal/results"
	"github.com/evosynth/evosynth/internal/scoring"
	"github.com/evosynth/evosynth/internal/tasks"
)

var randomFlags struct {
	logdir         string
	maxNPE         int
	numRepetitions int
	taskID         string
	programLength  int
	shard          int
	serve          bool
	serveAddr      string
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Run the uniform-random program-synthesis baseline against one task",
	Args:  cobra.NoArgs,
	RunE:  runRandom,
}

func init() {
	randomCmd.Flags().StringVar(&randomFlags.logdir, "logdir", "", "absolute path for the status file and results shards (required)")
	randomCmd.Flags().IntVar(&randomFlags.maxNPE, "max_npe", 0, "maximum programs sampled per repetition; 0 means unlimited")
	randomCmd.Flags().IntVar(&randomFlags.numRepetitions, "num_repetitions", 1, "number of independent random-search repetitions to run")
	randomCmd.Flags().StringVar(&randomFlags.taskID, "task_id", "", "task name from the default registry (required)")
	randomCmd.Flags().IntVar(&randomFlags.programLength, "program_length", 32, "length of sampled programs")
	randomCmd.Flags().IntVar(&randomFlags.shard, "shard", 0, "results-store shard id this invocation writes to")
	randomCmd.Flags().BoolVar(&randomFlags.serve, "serve", false, "attach the sqlite telemetry store and, on shard 0, start the status/metrics HTTP server")
	randomCmd.Flags().StringVar(&randomFlags.serveAddr, "serve_addr", ":8080", "listen address for the status/metrics HTTP server (shard 0 only)")
	randomCmd.MarkFlagRequired("logdir")
	randomCmd.MarkFlagRequired("task_id")
}

func runRandom(cmd *cobra.Command, args []string) error {
	if !filepath.IsAbs(randomFlags.logdir) {
		return fmt.Errorf("--logdir must be an absolute path, got %q", randomFlags.logdir)
	}
	task, err := tasks.DefaultRegistry().Get(randomFlags.taskID)
	if err != nil {
		return err
	}

	manager := scoring.New(task, scoring.DefaultConfig(randomFlags.programLength))
	writer := results.NewWriter(randomFlags.logdir, randomFlags.shard)

	tel, err := openTelemetry(randomFlags.logdir, randomFlags.serve, randomFlags.shard, randomFlags.serveAddr)
	if err != nil {
		return fmt.Errorf("opening telemetry store: %w", err)
	}
	defer tel.close()

	for rep := 0; rep < randomFlags.numRepetitions; rep++ {
		cfg := randomsearch.DefaultConfig(randomFlags.programLength)
		cfg.MaxNumPrograms = randomFlags.maxNPE
		cfg.StatusPath = filepath.Join(randomFlags.logdir, fmt.Sprintf("random_status_%d_%d.txt", randomFlags.shard, rep))

		runID := uuid.NewString()
		if tel != nil {
			if err := tel.db.StartRun(runID, randomFlags.taskID, "randomsearch", int64(rep)); err != nil {
				errorf("telemetry StartRun failed: %v", err)
			}
			cfg.OnFlush = func(status randomsearch.Status) {
				// random search has no population, so mean_fitness has no
				// distinct value here; reuse best_reward for both columns.
				if err := tel.db.RecordGenerationSnapshot(runID, status.NumProgramsSeen, status.BestReward, status.BestReward); err != nil {
					errorf("telemetry RecordGenerationSnapshot failed: %v", err)
				}
				tel.status.set(api.RunStatus{
					RunID:      runID,
					Task:       randomFlags.taskID,
					Engine:     "randomsearch",
					Generation: status.NumProgramsSeen,
					NPE:        status.NumProgramsSeen,
					BestReward: status.BestReward,
					Solved:     status.FoundSolution,
				})
			}
		}

		infof("task=%s repetition=%d/%d starting", randomFlags.taskID, rep+1, randomFlags.numRepetitions)
		result, err := randomsearch.Run(manager, cfg, int64(rep))
		if err != nil {
			errorf("task=%s repetition=%d failed: %v", randomFlags.taskID, rep, err)
			return err
		}

		if tel != nil {
			if err := tel.db.FinishRun(runID, result.Status.FoundSolution, result.Status.BestReward, result.Status.BestCode, result.Status.NumProgramsSeen); err != nil {
				errorf("telemetry FinishRun failed: %v", err)
			}
		}

		record := results.Record{
			MaxNPE:               randomFlags.maxNPE,
			MaxGlobalRepetitions: randomFlags.numRepetitions,
			MaxLocalRepetitions:  randomFlags.numRepetitions,
			NPE:                  result.Status.NumProgramsSeen,
			BatchSize:            1,
			NumBatches:           result.Status.NumProgramsSeen,
			FoundSolution:        result.Status.FoundSolution,
			BestReward:           result.Status.BestReward,
			CodeSolution:         result.Status.BestCode,
			Task:                 randomFlags.taskID,
			GlobalRep:            rep,
		}
		if err := writer.Append(record); err != nil {
			return fmt.Errorf("writing results shard: %w", err)
		}

		if result.Status.FoundSolution {
			infof("task=%s repetition=%d solved after %d programs", randomFlags.taskID, rep, result.Status.NumProgramsSeen)
		} else {
			infof("task=%s repetition=%d exhausted budget after %d programs", randomFlags.taskID, rep, result.Status.NumProgramsSeen)
		}
	}
	return nil
}
