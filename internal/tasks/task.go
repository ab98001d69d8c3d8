// Package tasks is the task catalog: each task publishes a fixed or
// deterministically generated set of (input, expected output) cases plus a
// numeric base. Grounded on original_source/all.py's BaseTask/make_task and
// the 40-plus concrete task classes it references by name; the registry
// shape is adapted from the reference pack's internal/agents
// registry/manifest pattern (Register/Get/List/DefaultRegistry), substituting
// BurntSushi/toml for yaml.v3 to match this module's own config-file format.
package tasks

import "github.com/evosynth/evosynth/internal/domain"

// IOCase is one test case: an input token sequence and its expected output.
type IOCase struct {
	Input  []int
	Output []int
}

// Task is a coding task: a numeric base and a fixed or deterministically
// generated set of test cases. MakeIOSet must return value-equal content on
// every call during a run (callers are free to mutate the returned slices).
type Task interface {
	Name() string
	Base() int
	MakeIOSet() []IOCase
	InputType() domain.IOType
	OutputType() domain.IOType
}

// baseTask holds the fields every concrete task embeds, mirroring
// BaseTask.__init__(base) in the original.
type baseTask struct {
	name       string
	base       int
	inputType  domain.IOType
	outputType domain.IOType
}

func (t baseTask) Name() string             { return t.name }
func (t baseTask) Base() int                { return t.base }
func (t baseTask) InputType() domain.IOType { return t.inputType }
func (t baseTask) OutputType() domain.IOType {
	if t.outputType == "" {
		return domain.IOTypeInteger
	}
	return t.outputType
}

func newBaseTask(name string, base int) baseTask {
	return baseTask{name: name, base: base, inputType: domain.IOTypeInteger, outputType: domain.IOTypeInteger}
}

func cloneCases(cases []IOCase) []IOCase {
	out := make([]IOCase, len(cases))
	for i, c := range cases {
		out[i] = IOCase{
			Input:  append([]int(nil), c.Input...),
			Output: append([]int(nil), c.Output...),
		}
	}
	return out
}
