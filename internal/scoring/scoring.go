// Package scoring implements MultiIOTaskManager: the wrapper that turns a
// Task plus a candidate program into a normalized, reasoned reward. Grounded
// on original_source/all.py's MultiIOTaskManager and clipped_linear
// (lines ~4159-4258); see SPEC_FULL.md §4.4.
package scoring

import (
	"time"

	"github.com/evosynth/evosynth/internal/domain"
	"github.com/evosynth/evosynth/internal/interp"
	"github.com/evosynth/evosynth/internal/observability"
	"github.com/evosynth/evosynth/internal/reward"
	"github.com/evosynth/evosynth/internal/tasks"
)

// Config configures one MultiIOTaskManager. Zero value is not valid for
// MaxCodeLength; use DefaultConfig and override.
type Config struct {
	MaxCodeLength        int
	MinCodeLength        int // equals MaxCodeLength when length-bonus shaping is disabled
	MaxExecutionSteps    int
	CorrectBonus         float64
	CodeLengthBonus      float64
	FailureReward        float64
	RewardFn             reward.RewardFunc
	RequireCorrectSyntax bool
}

// DefaultConfig matches spec.md §4.4's stated defaults.
func DefaultConfig(maxCodeLength int) Config {
	return Config{
		MaxCodeLength:     maxCodeLength,
		MinCodeLength:     maxCodeLength,
		MaxExecutionSteps: 5000,
		CorrectBonus:      2.0,
		CodeLengthBonus:   1.0,
		FailureReward:     -2.0,
		RewardFn:          reward.Default,
	}
}

// Record is what scoring one candidate program produces. Grounded on
// misc.RewardInfo in the original.
type Record struct {
	EpisodeRewards []float64
	InputCases     [][]int
	ExpectedOutput [][]int
	ActualOutput   [][]int
	InputType      domain.IOType
	OutputType     domain.IOType
	Reason         string
}

// Manager scores candidate programs against one fixed task.
type Manager struct {
	task        tasks.Task
	cfg         Config
	timePenalty float64
	BestReward  float64
	GoodReward  float64
}

// TaskName returns the name of the task this Manager scores against.
func (m *Manager) TaskName() string {
	return m.task.Name()
}

// New constructs a Manager, computing BestReward/GoodReward once up front —
// both are fixed for the lifetime of the task instance since make_io_set is
// required to be value-stable.
func New(task tasks.Task, cfg Config) *Manager {
	if cfg.RewardFn == nil {
		cfg.RewardFn = reward.Default
	}
	timePenalty := 0.0
	if cfg.MaxCodeLength > cfg.MinCodeLength {
		timePenalty = 1.0 / float64(cfg.MaxCodeLength-cfg.MinCodeLength)
	}
	m := &Manager{task: task, cfg: cfg, timePenalty: timePenalty}
	m.computeBestReward()
	return m
}

func (m *Manager) computeBestReward() {
	cases := m.task.MakeIOSet()
	total := 0.0
	for _, c := range cases {
		total += m.cfg.RewardFn(c.Output, c.Output, m.task.Base())
		total += m.cfg.CorrectBonus
		total += m.cfg.CodeLengthBonus
	}
	m.BestReward = total
	m.GoodReward = 0.75 * total
}

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// clippedLinear mirrors original_source/all.py's clipped_linear: a line
// through (x0, y0) with the given slope, clamped to yRange.
func clippedLinear(x, x0, y0, slope, yLo, yHi float64) float64 {
	return clip(slope*(x-x0)+y0, yLo, yHi)
}

// Score runs the interpreter over every one of the task's test cases, in
// the task's own deterministic order, accumulating reward per spec.md
// §4.4. Stops at the first failing test case.
func (m *Manager) Score(code string) Record {
	cases := m.task.MakeIOSet()
	terminal := 0.0
	reason := "correct"
	var outputs [][]int

	for _, c := range cases {
		res := interp.Evaluate(code, interp.Options{
			Base:                 m.task.Base(),
			Timeout:              interpTimeout,
			MaxSteps:             m.cfg.MaxExecutionSteps,
			RequireCorrectSyntax: m.cfg.RequireCorrectSyntax,
			InputBuffer:          c.Input,
		})
		observability.InterpreterOutcomes.WithLabelValues(string(res.Status)).Inc()
		if !res.Success() {
			terminal = m.cfg.FailureReward
			outputs = nil
			reason = string(res.Status)
			break
		}

		terminal += m.cfg.RewardFn(res.Output, c.Output, m.task.Base())
		if intsEqual(res.Output, c.Output) {
			terminal += m.cfg.CorrectBonus
			if m.cfg.MinCodeLength == m.cfg.MaxCodeLength {
				terminal += m.cfg.CodeLengthBonus
			} else {
				terminal += m.cfg.CodeLengthBonus * clippedLinear(
					float64(len(code)), float64(m.cfg.MinCodeLength), 1.0,
					-m.timePenalty, 0.0, 1.0)
			}
		} else if reason == "correct" {
			reason = "wrong"
		}
		outputs = append(outputs, res.Output)
	}

	normalized := 0.0
	if m.BestReward != 0 {
		normalized = terminal / m.BestReward
	}

	episodeRewards := make([]float64, len(code))
	if len(episodeRewards) > 0 {
		episodeRewards[len(episodeRewards)-1] = normalized
	} else {
		episodeRewards = []float64{normalized}
	}

	inputs := make([][]int, len(cases))
	expected := make([][]int, len(cases))
	for i, c := range cases {
		inputs[i] = c.Input
		expected[i] = c.Output
	}

	return Record{
		EpisodeRewards: episodeRewards,
		InputCases:     inputs,
		ExpectedOutput: expected,
		ActualOutput:   outputs,
		InputType:      m.task.InputType(),
		OutputType:     m.task.OutputType(),
		Reason:         reason,
	}
}

// interpTimeout is the fixed per-test-case wall-clock bound used by scoring,
// matching original_source/all.py's bf.evaluate(..., timeout=0.1).
const interpTimeout = 100 * time.Millisecond

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
