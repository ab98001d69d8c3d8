package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/evosynth/evosynth/internal/interp"
)

var interpretFlags struct {
	code     string
	input    string
	base     int
	maxSteps int
	timeout  time.Duration
}

var interpretCmd = &cobra.Command{
	Use:   "interpret",
	Short: "Run one tape-machine program against an input buffer and print its status, output and tape",
	Args:  cobra.NoArgs,
	RunE:  runInterpret,
}

func init() {
	interpretCmd.Flags().StringVar(&interpretFlags.code, "code", "", "program source (required)")
	interpretCmd.Flags().StringVar(&interpretFlags.input, "input", "", "comma-separated input buffer, e.g. \"1,2,3\"")
	interpretCmd.Flags().IntVar(&interpretFlags.base, "base", 256, "tape value modulus")
	interpretCmd.Flags().IntVar(&interpretFlags.maxSteps, "max_steps", 0, "step bound; 0 disables it")
	interpretCmd.Flags().DurationVar(&interpretFlags.timeout, "timeout", time.Second, "wall-clock bound; 0 disables it")
	interpretCmd.MarkFlagRequired("code")
}

func runInterpret(cmd *cobra.Command, args []string) error {
	input, err := parseIntList(interpretFlags.input)
	if err != nil {
		return fmt.Errorf("--input: %w", err)
	}

	opts := interp.DefaultOptions()
	opts.InputBuffer = input
	opts.Base = interpretFlags.base
	opts.MaxSteps = interpretFlags.maxSteps
	opts.Timeout = interpretFlags.timeout
	opts.CaptureMemory = true

	result := interp.Evaluate(interpretFlags.code, opts)
	fmt.Fprintf(cmd.OutOrStdout(), "status=%s steps=%d time=%s\n", result.Status, result.Steps, result.Time)
	fmt.Fprintf(cmd.OutOrStdout(), "output=%v\n", result.Output)
	if result.Tape != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "tape=%v\n", result.Tape)
	}
	if !result.Success() {
		return fmt.Errorf("execution did not succeed: %s", result.Status)
	}
	return nil
}

func parseIntList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}
