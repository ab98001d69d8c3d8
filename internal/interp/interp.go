// Package interp implements the bounded, deterministic tape-machine
// interpreter that executes candidate programs against a single input
// buffer. It is the hottest loop in the system — scoring invokes it once per
// test case, per candidate, millions of times over an experiment.
//
// Semantics are pinned to original_source/all.py's evaluate()/buildbracemap();
// see SPEC_FULL.md §4.1.
package interp

import (
	"time"

	"github.com/evosynth/evosynth/internal/domain"
)

// BracketMap maps a '[' or ']' code position to its matching brace position.
// Unmatched braces map to themselves.
type BracketMap struct {
	jump          []int
	CorrectSyntax bool
}

// BuildBracketMap performs a single left-to-right scan with a stack of open
// positions. Unmatched ']' (empty stack) and any '[' left on the stack at the
// end self-map and flip CorrectSyntax to false.
func BuildBracketMap(code []byte) *BracketMap {
	jump := make([]int, len(code))
	for i := range jump {
		jump[i] = i
	}
	correct := true
	var stack []int
	for pos, c := range code {
		switch c {
		case '[':
			stack = append(stack, pos)
		case ']':
			if len(stack) == 0 {
				correct = false
				continue
			}
			start := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			jump[start] = pos
			jump[pos] = start
		}
	}
	if len(stack) > 0 {
		correct = false
	}
	return &BracketMap{jump: jump, CorrectSyntax: correct}
}

// Match returns the matching brace position for pos (itself if unmatched).
func (b *BracketMap) Match(pos int) int {
	return b.jump[pos]
}

// ExecutionSnapshot is one recorded step of a traced execution, taken BEFORE
// the token at CodeIndex executes (the final snapshot, taken after the loop
// exits, carries the empty code char).
type ExecutionSnapshot struct {
	CodeIndex    int
	CodeChar     byte
	MemIndex     int
	MemValue     int
	Tape         []int
	NextInput    int
	OutputBuffer []int
}

// ExecutionResult is what evaluate() returns to the scoring wrapper.
type ExecutionResult struct {
	Output []int
	Status domain.Status
	Steps  int
	Time   time.Duration
	Tape   []int               // nil unless CaptureMemory was requested
	Trace  []ExecutionSnapshot // nil unless CaptureTrace was requested
}

// Success reports whether execution completed with StatusSuccess.
func (r ExecutionResult) Success() bool {
	return r.Status == domain.StatusSuccess
}

// Options configures one evaluate() call. Zero value is NOT valid — use
// DefaultOptions() and override fields, matching the spec's explicit
// defaults (base 256, timeout 1s, require_correct_syntax true).
type Options struct {
	InputBuffer         []int
	InitMemory          []int
	Base                int
	Timeout             time.Duration // 0 disables the wall-clock bound
	MaxSteps            int           // 0 disables the step bound
	RequireCorrectSyntax bool
	CaptureMemory       bool
	CaptureTrace        bool
}

// DefaultOptions matches spec.md §4.1's stated defaults.
func DefaultOptions() Options {
	return Options{
		Base:                 256,
		Timeout:              time.Second,
		RequireCorrectSyntax: true,
	}
}

// clock is overridable in tests so the TIMEOUT path is exercisable without a
// real sleep.
var clock = time.Now

// Evaluate executes code against opts, returning a bounded, deterministic
// (save for wall-clock timing) result. Never panics on malformed input:
// characters outside domain.Alphabet are skipped, though each still consumes
// a step.
func Evaluate(code string, opts Options) ExecutionResult {
	raw := []byte(code)
	bmap := BuildBracketMap(raw)
	if opts.RequireCorrectSyntax && !bmap.CorrectSyntax {
		return ExecutionResult{
			Output: []int{},
			Status: domain.StatusSyntaxError,
			Steps:  0,
		}
	}

	input := opts.InputBuffer
	inputPos := 0
	peekInput := func() int {
		if inputPos < len(input) {
			return input[inputPos]
		}
		return 0
	}
	readInput := func() int {
		v := peekInput()
		if inputPos < len(input) {
			inputPos++
		}
		return v
	}

	base := opts.Base
	if base <= 0 {
		base = 256
	}

	var cells []int
	if len(opts.InitMemory) > 0 {
		cells = append(cells, opts.InitMemory...)
	} else {
		cells = []int{0}
	}

	output := []int{}
	var trace []ExecutionSnapshot
	codePtr, cellPtr := 0, 0
	status := domain.StatusSuccess
	steps := 0
	start := clock()

	snapshot := func() ExecutionSnapshot {
		var ch byte
		if codePtr < len(raw) {
			ch = raw[codePtr]
		}
		return ExecutionSnapshot{
			CodeIndex:    codePtr,
			CodeChar:     ch,
			MemIndex:     cellPtr,
			MemValue:     cells[cellPtr],
			Tape:         append([]int(nil), cells...),
			NextInput:    peekInput(),
			OutputBuffer: append([]int(nil), output...),
		}
	}

	for codePtr < len(raw) {
		if opts.CaptureTrace {
			trace = append(trace, snapshot())
		}

		switch raw[codePtr] {
		case '>':
			cellPtr++
			if cellPtr == len(cells) {
				cells = append(cells, 0)
			}
		case '<':
			if cellPtr > 0 {
				cellPtr--
			}
		case '+':
			if cells[cellPtr] < base-1 {
				cells[cellPtr]++
			} else {
				cells[cellPtr] = 0
			}
		case '-':
			if cells[cellPtr] > 0 {
				cells[cellPtr]--
			} else {
				cells[cellPtr] = base - 1
			}
		case '[':
			if cells[cellPtr] == 0 {
				codePtr = bmap.Match(codePtr)
			}
		case ']':
			if cells[cellPtr] != 0 {
				codePtr = bmap.Match(codePtr)
			}
		case '.':
			output = append(output, cells[cellPtr])
		case ',':
			cells[cellPtr] = readInput()
		}

		codePtr++
		steps++

		if opts.Timeout > 0 && clock().Sub(start) > opts.Timeout {
			status = domain.StatusTimeout
			break
		}
		if opts.MaxSteps > 0 && steps >= opts.MaxSteps {
			status = domain.StatusStepLimit
			break
		}
	}

	if opts.CaptureTrace {
		trace = append(trace, snapshot())
	}

	result := ExecutionResult{
		Output: output,
		Status: status,
		Steps:  steps,
		Time:   clock().Sub(start),
	}
	if opts.CaptureMemory {
		result.Tape = append([]int(nil), cells...)
	}
	if opts.CaptureTrace {
		result.Trace = trace
	}
	return result
}
