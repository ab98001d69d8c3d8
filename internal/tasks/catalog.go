package tasks

import (
	"math/rand"

	"github.com/evosynth/evosynth/internal/domain"
	"github.com/evosynth/evosynth/internal/interp"
)

// ─── Hard-coded tasks ───────────────────────────────────────────────────────

// printTask always expects the same fixed string regardless of (empty)
// input, e.g. "print-hello": base 27, output = [8,5,12,12,15] ('hello').
type printTask struct {
	baseTask
	fixedString []int
}

// NewPrintTask builds a task whose single test case is (no input,
// fixedString). Grounded on make_task's 'print-hello'/'print' entries.
func NewPrintTask(name string, base int, fixedString []int) Task {
	return &printTask{baseTask: newBaseTask(name, base), fixedString: fixedString}
}

func (t *printTask) MakeIOSet() []IOCase {
	return []IOCase{{Input: nil, Output: append([]int(nil), t.fixedString...)}}
}

// booleanTruthTableTask enumerates all combinations of three boolean inputs
// and expects their majority vote, base 2. Grounded on make_task's
// 'bool-logic' entry.
type booleanTruthTableTask struct {
	baseTask
}

// NewBooleanTruthTableTask builds the 3-input majority-vote task.
func NewBooleanTruthTableTask() Task {
	t := &booleanTruthTableTask{baseTask: newBaseTask("bool-logic", 2)}
	t.inputType = domain.IOTypeBoolean
	t.outputType = domain.IOTypeBoolean
	return t
}

func (t *booleanTruthTableTask) MakeIOSet() []IOCase {
	cases := make([]IOCase, 0, 8)
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			for c := 0; c < 2; c++ {
				majority := 0
				if a+b+c >= 2 {
					majority = 1
				}
				cases = append(cases, IOCase{Input: []int{a, b, c}, Output: []int{majority}})
			}
		}
	}
	return cases
}

// fibonacciPairsTask expects fib(n) mod base for n in [0, count). Grounded on
// make_task's 'fib' entry.
type fibonacciPairsTask struct {
	baseTask
	count int
}

// NewFibonacciPairsTask builds a task over n = 0..count-1.
func NewFibonacciPairsTask(base, count int) Task {
	return &fibonacciPairsTask{baseTask: newBaseTask("fib", base), count: count}
}

func (t *fibonacciPairsTask) MakeIOSet() []IOCase {
	cases := make([]IOCase, t.count)
	a, b := 0, 1
	for n := 0; n < t.count; n++ {
		cases[n] = IOCase{Input: []int{n}, Output: []int{a % t.base}}
		a, b = b, (a+b)%t.base
	}
	return cases
}

// bottlesOfBeerTask expects the countdown sequence n, n-1, ..., 0 for a set
// of fixed starting counts. Grounded on make_task's 'count-down' entry.
type bottlesOfBeerTask struct {
	baseTask
	starts []int
}

// NewBottlesOfBeerTask builds the countdown task over the given starting
// counts.
func NewBottlesOfBeerTask(base int, starts []int) Task {
	return &bottlesOfBeerTask{baseTask: newBaseTask("count-down", base), starts: starts}
}

func (t *bottlesOfBeerTask) MakeIOSet() []IOCase {
	cases := make([]IOCase, len(t.starts))
	for i, n := range t.starts {
		out := make([]int, n+1)
		for k := 0; k <= n; k++ {
			out[k] = n - k
		}
		cases[i] = IOCase{Input: []int{n}, Output: out}
	}
	return cases
}

// ─── Seeded-generator tasks ─────────────────────────────────────────────────

// seededTask composes a baseTask with a fixed seed and an io-set built once
// at construction and value-cloned on every MakeIOSet call, matching the
// "same content every call" contract.
type seededTask struct {
	baseTask
	cases []IOCase
}

func (t *seededTask) MakeIOSet() []IOCase { return cloneCases(t.cases) }

func buildSeeded(name string, base int, seed int64, n int, build func(rng *genRand) IOCase) Task {
	rng := &genRand{r: seededRNG(seed)}
	cases := make([]IOCase, n)
	for i := 0; i < n; i++ {
		cases[i] = build(rng)
	}
	return &seededTask{baseTask: newBaseTask(name, base), cases: cases}
}

// genRand is a tiny adapter so task builders don't need to import math/rand
// directly; it delegates to randomLength/randomSeq so there is exactly one
// implementation of each.
type genRand struct{ r *rand.Rand }

func (g *genRand) length(minLen, maxLen int) int {
	return randomLength(g.r, minLen, maxLen)
}

func (g *genRand) value(base int) int { return g.r.Intn(base) }

func (g *genRand) seq(length, base int) []int {
	return randomSeq(g.r, length, base)
}

// NewEchoTask: output equals input. Grounded on make_task's 'echo' entry.
func NewEchoTask(base, minLen, maxLen, n int, seed int64) Task {
	return buildSeeded("echo", base, seed, n, func(rng *genRand) IOCase {
		seq := rng.seq(rng.length(minLen, maxLen), base)
		return IOCase{Input: seq, Output: append([]int(nil), seq...)}
	})
}

// NewReverseTask: output is input reversed. Grounded on make_task's
// 'reverse' entry.
func NewReverseTask(base, minLen, maxLen, n int, seed int64) Task {
	return buildSeeded("reverse", base, seed, n, func(rng *genRand) IOCase {
		seq := rng.seq(rng.length(minLen, maxLen), base)
		return IOCase{Input: seq, Output: reversed(seq)}
	})
}

// NewRemoveCharTask: output is input with every occurrence of value 0
// removed. Grounded on make_task's 'remove-char' entry.
func NewRemoveCharTask(base, minLen, maxLen, n int, seed int64) Task {
	const target = 0
	return buildSeeded("remove-char", base, seed, n, func(rng *genRand) IOCase {
		seq := rng.seq(rng.length(minLen, maxLen), base)
		return IOCase{Input: seq, Output: removeValue(seq, target)}
	})
}

// NewCountOccurrencesTask: output is [count of value 0 occurrences].
// Grounded on make_task's 'count-char' entry.
func NewCountOccurrencesTask(base, minLen, maxLen, n int, seed int64) Task {
	const target = 0
	return buildSeeded("count-char", base, seed, n, func(rng *genRand) IOCase {
		seq := rng.seq(rng.length(minLen, maxLen), base)
		return IOCase{Input: seq, Output: []int{countValue(seq, target)}}
	})
}

// NewAddModBaseTask: input [a, b], output [(a+b) mod base]. Grounded on
// make_task's 'add' entry.
func NewAddModBaseTask(base, n int, seed int64) Task {
	return buildSeeded("add", base, seed, n, func(rng *genRand) IOCase {
		a, b := rng.value(base), rng.value(base)
		return IOCase{Input: []int{a, b}, Output: []int{(a + b) % base}}
	})
}

// NewShiftLeftTask: output is input rotated left by one. Grounded on
// make_task's 'shift-left' entry.
func NewShiftLeftTask(base, minLen, maxLen, n int, seed int64) Task {
	return buildSeeded("shift-left", base, seed, n, func(rng *genRand) IOCase {
		seq := rng.seq(rng.length(minLen, maxLen), base)
		return IOCase{Input: seq, Output: rotateLeft(seq)}
	})
}

// NewShiftRightTask: output is input rotated right by one. Grounded on
// make_task's 'shift-right' entry.
func NewShiftRightTask(base, minLen, maxLen, n int, seed int64) Task {
	return buildSeeded("shift-right", base, seed, n, func(rng *genRand) IOCase {
		seq := rng.seq(rng.length(minLen, maxLen), base)
		return IOCase{Input: seq, Output: rotateRight(seq)}
	})
}

// NewMultiplyTask: input [a, b], output [(a*b) mod base]. Grounded on
// make_task's 'multiply' entry (paper uses base 512 for this task).
func NewMultiplyTask(base, n int, seed int64) Task {
	return buildSeeded("multiply", base, seed, n, func(rng *genRand) IOCase {
		a, b := rng.value(base), rng.value(base)
		return IOCase{Input: []int{a, b}, Output: []int{(a * b) % base}}
	})
}

// NewDivModTask: input [a, b] with b > 0, output [a/b, a%b]. Grounded on
// make_task's 'divmod' entry.
func NewDivModTask(base, n int, seed int64) Task {
	return buildSeeded("divmod", base, seed, n, func(rng *genRand) IOCase {
		a := rng.value(base)
		b := 1 + rng.value(base-1)
		return IOCase{Input: []int{a, b}, Output: []int{a / b, a % b}}
	})
}

// NewDivideByTwoTask: input [a], output [a/2]. Grounded on make_task's
// 'divide-2' entry.
func NewDivideByTwoTask(base, n int, seed int64) Task {
	return buildSeeded("divide-2", base, seed, n, func(rng *genRand) IOCase {
		a := rng.value(base)
		return IOCase{Input: []int{a}, Output: []int{a / 2}}
	})
}

// NewDedupTask: output is input with adjacent duplicates collapsed.
// Grounded on make_task's 'dedup' entry. Sampled over a small alphabet so
// repeats are likely to occur.
func NewDedupTask(base, minLen, maxLen, n int, seed int64) Task {
	const smallAlphabet = 4
	return buildSeeded("dedup", base, seed, n, func(rng *genRand) IOCase {
		length := rng.length(minLen, maxLen)
		limit := smallAlphabet
		if limit > base {
			limit = base
		}
		seq := rng.seq(length, limit)
		return IOCase{Input: seq, Output: dedupAdjacent(seq)}
	})
}

// NewRiffleTask: input is two equal-length halves concatenated, output
// interleaves them starting with the first half. Grounded on make_task's
// 'riffle' entry.
func NewRiffleTask(base, halfLen, n int, seed int64) Task {
	return buildSeeded("riffle", base, seed, n, func(rng *genRand) IOCase {
		a := rng.seq(halfLen, base)
		b := rng.seq(halfLen, base)
		input := append(append([]int(nil), a...), b...)
		return IOCase{Input: input, Output: riffle(a, b)}
	})
}

// NewUnriffleTask: inverse of riffle — input is an interleaved sequence,
// output is the two halves concatenated (even-indexed first). Grounded on
// make_task's 'unriffle' entry.
func NewUnriffleTask(base, halfLen, n int, seed int64) Task {
	return buildSeeded("unriffle", base, seed, n, func(rng *genRand) IOCase {
		interleaved := rng.seq(2*halfLen, base)
		a, b := unriffle(interleaved)
		return IOCase{Input: interleaved, Output: append(a, b...)}
	})
}

// NewSubstringTask: input is [pos, length, ...seq], output is
// seq[pos:pos+length]. Grounded on make_task's 'find'/substring-style
// entries.
func NewSubstringTask(base, seqLen, n int, seed int64) Task {
	return buildSeeded("substring", base, seed, n, func(rng *genRand) IOCase {
		seq := rng.seq(seqLen, base)
		pos := rng.length(0, seqLen-1)
		length := rng.length(1, seqLen-pos)
		input := append([]int{pos, length}, seq...)
		return IOCase{Input: input, Output: append([]int(nil), seq[pos:pos+length]...)}
	})
}

// Move token values used by JudgeRouteCircleTask, encoded in [0,4) so they
// fit comfortably under any base >= 4.
const (
	moveUp = iota
	moveDown
	moveLeft
	moveRight
)

// NewJudgeRouteCircleTask: input is a sequence of move tokens (up/down/left/
// right); output is [1] if the walk returns to the origin, else [0].
// Grounded on make_task's 'circle-route' entry.
func NewJudgeRouteCircleTask(n, maxLen int, seed int64) Task {
	t := &seededTask{baseTask: newBaseTask("circle-route", 4)}
	t.outputType = domain.IOTypeBoolean
	rng := &genRand{r: seededRNG(seed)}
	cases := make([]IOCase, n)
	for i := 0; i < n; i++ {
		length := rng.length(1, maxLen)
		seq := rng.seq(length, 4)
		x, y := 0, 0
		for _, m := range seq {
			switch m {
			case moveUp:
				y++
			case moveDown:
				y--
			case moveLeft:
				x--
			case moveRight:
				x++
			}
		}
		result := 0
		if x == 0 && y == 0 {
			result = 1
		}
		cases[i] = IOCase{Input: seq, Output: []int{result}}
	}
	t.cases = cases
	return t
}

// ─── Known-solution-derived tasks ───────────────────────────────────────────

// lengthReferenceProgram reads non-sentinel (nonzero) values into a counter
// until it reads a 0, then outputs the counter. Used to derive LengthTask's
// expected outputs by direct execution rather than restating the semantics
// in Go, per spec.md §4.3's "known-solution-derived" construction pattern.
const lengthReferenceProgram = ",[>+<,]>."

// NewLengthTask: input is a sequence of nonzero values terminated by a 0
// sentinel; output is [count of nonzero values]. Expected outputs are
// derived by running lengthReferenceProgram through the interpreter against
// each generated input, guaranteeing the task is solvable within a generous
// step budget. Grounded on make_task's 'length' entry and on spec.md §4.3's
// third construction pattern.
func NewLengthTask(base, minLen, maxLen, n int, seed int64) Task {
	rng := &genRand{r: seededRNG(seed)}
	cases := make([]IOCase, n)
	for i := 0; i < n; i++ {
		length := rng.length(minLen, maxLen)
		body := make([]int, length)
		for j := range body {
			body[j] = 1 + rng.value(base-1) // nonzero, avoids colliding with sentinel
		}
		input := append(append([]int(nil), body...), 0)
		res := interp.Evaluate(lengthReferenceProgram, interp.Options{
			Base:                 base,
			Timeout:              0,
			MaxSteps:             5000,
			RequireCorrectSyntax: true,
			InputBuffer:          input,
		})
		cases[i] = IOCase{Input: input, Output: res.Output}
	}
	return &seededTask{baseTask: newBaseTask("length", base), cases: cases}
}
