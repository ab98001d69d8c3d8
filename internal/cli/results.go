package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/evosynth/evosynth/internal/results"
)

var resultsFlags struct {
	logdir    string
	numShards int
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Aggregate and summarize sharded experiment results from a log directory",
	Args:  cobra.NoArgs,
	RunE:  runResults,
}

func init() {
	resultsCmd.Flags().StringVar(&resultsFlags.logdir, "logdir", "", "absolute path holding experiment_results_N.txt shards (required)")
	resultsCmd.Flags().IntVar(&resultsFlags.numShards, "num_shards", 0, "number of shards expected; 0 discovers whatever is present")
	resultsCmd.MarkFlagRequired("logdir")
}

func runResults(cmd *cobra.Command, args []string) error {
	if !filepath.IsAbs(resultsFlags.logdir) {
		return fmt.Errorf("--logdir must be an absolute path, got %q", resultsFlags.logdir)
	}

	records, shardStatuses, err := results.Aggregate(resultsFlags.logdir, resultsFlags.numShards)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	numSolved := 0
	for _, r := range records {
		if r.FoundSolution {
			numSolved++
		}
	}
	fmt.Fprintf(out, "records=%d solved=%d\n", len(records), numSolved)

	for _, s := range shardStatuses {
		fmt.Fprintf(out, "shard=%d completed=%d max_local_repetitions=%d finished=%t\n",
			s.Shard, s.Completed, s.MaxLocalRepetitions, s.Finished)
	}
	return nil
}
