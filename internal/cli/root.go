// Package cli implements the evosynth command-line surface: cobra command
// tree, flag registration, and run wiring across internal/ga,
// internal/randomsearch, internal/interp, and internal/results. Grounded on
// internal/cli/agent.go's cobra conventions (Use/Short/Long, Args, RunE,
// flags via cmd.Flags(), init()-based AddCommand wiring) — that file's own
// command bodies (a Python-agent-runtime bridge) are not reused, only its
// registration idiom.
package cli

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/evosynth/evosynth/internal/config"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "evosynth",
	Short: "Search for tape-machine programs that solve small I/O tasks",
	Long: `evosynth runs genetic-algorithm or random-search program synthesis
over a bounded, deterministic tape-machine interpreter, scoring candidate
programs against a catalog of input/output tasks.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log_level", "info", "log verbosity: debug, info, warn, error")
	rootCmd.AddCommand(gaCmd)
	rootCmd.AddCommand(randomCmd)
	rootCmd.AddCommand(interpretCmd)
	rootCmd.AddCommand(resultsCmd)
}

// Execute runs the evosynth command tree, returning the process exit code:
// 0 on normal completion, nonzero on a configuration or run error, per
// spec.md §6. A *config.ParseError's Error() already embeds its byte
// offset (SPEC_FULL.md §7), so it needs no special-casing here beyond
// confirming errors.As can still reach it through any %w wrapping.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var perr *config.ParseError
		_ = errors.As(err, &perr)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func debugf(format string, args ...any) {
	if logLevel == "debug" {
		log.Printf("[evosynth] "+format, args...)
	}
}

func infof(format string, args ...any) {
	if logLevel == "debug" || logLevel == "info" {
		log.Printf("[evosynth] "+format, args...)
	}
}

func errorf(format string, args ...any) {
	log.Printf("[evosynth] ERROR: "+format, args...)
}
