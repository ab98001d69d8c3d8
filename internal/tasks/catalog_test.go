package tasks

import "testing"

func TestMakeIOSetIsValueStableAcrossCalls(t *testing.T) {
	task := NewReverseTask(256, 1, 6, 8, 7)
	first := task.MakeIOSet()
	second := task.MakeIOSet()
	if len(first) != len(second) {
		t.Fatalf("len mismatch: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !intsEqual(first[i].Input, second[i].Input) || !intsEqual(first[i].Output, second[i].Output) {
			t.Fatalf("case %d differs between calls: %+v vs %+v", i, first[i], second[i])
		}
	}
	// Mutating a returned slice must not affect subsequent calls.
	if len(first) > 0 && len(first[0].Input) > 0 {
		first[0].Input[0] = 99999
	}
	third := task.MakeIOSet()
	if !intsEqual(second[0].Input, third[0].Input) {
		t.Fatalf("mutation of returned slice leaked into task state")
	}
}

func TestReverseTaskCorrect(t *testing.T) {
	task := NewReverseTask(256, 3, 3, 1, 1)
	cases := task.MakeIOSet()
	c := cases[0]
	for i := range c.Input {
		if c.Output[len(c.Output)-1-i] != c.Input[i] {
			t.Fatalf("reverse mismatch: input=%v output=%v", c.Input, c.Output)
		}
	}
}

func TestBooleanTruthTableMajority(t *testing.T) {
	task := NewBooleanTruthTableTask()
	cases := task.MakeIOSet()
	if len(cases) != 8 {
		t.Fatalf("len = %d, want 8", len(cases))
	}
	for _, c := range cases {
		sum := c.Input[0] + c.Input[1] + c.Input[2]
		want := 0
		if sum >= 2 {
			want = 1
		}
		if c.Output[0] != want {
			t.Errorf("majority(%v) = %d, want %d", c.Input, c.Output[0], want)
		}
	}
}

func TestAddModBaseWraps(t *testing.T) {
	task := NewAddModBaseTask(5, 50, 3)
	for _, c := range task.MakeIOSet() {
		want := (c.Input[0] + c.Input[1]) % 5
		if c.Output[0] != want {
			t.Errorf("add(%v) = %d, want %d", c.Input, c.Output[0], want)
		}
	}
}

func TestRiffleUnriffleRoundTrip(t *testing.T) {
	riffleTask := NewRiffleTask(256, 4, 5, 11)
	for _, c := range riffleTask.MakeIOSet() {
		a, b := unriffle(c.Output)
		recombined := append(append([]int(nil), a...), b...)
		if !intsEqual(recombined, c.Input) {
			t.Errorf("riffle/unriffle roundtrip mismatch: input=%v output=%v", c.Input, c.Output)
		}
	}
}

func TestJudgeRouteCircleDetectsOrigin(t *testing.T) {
	task := NewJudgeRouteCircleTask(50, 16, 22)
	for _, c := range task.MakeIOSet() {
		x, y := 0, 0
		for _, m := range c.Input {
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
		want := 0
		if x == 0 && y == 0 {
			want = 1
		}
		if c.Output[0] != want {
			t.Errorf("circle-route(%v) = %d, want %d", c.Input, c.Output[0], want)
		}
	}
}

func TestLengthTaskDerivedFromReferenceProgram(t *testing.T) {
	task := NewLengthTask(256, 1, 8, 12, 99)
	for _, c := range task.MakeIOSet() {
		wantLen := len(c.Input) - 1 // minus the 0 sentinel
		if len(c.Output) != 1 || c.Output[0] != wantLen {
			t.Errorf("length(%v) = %v, want [%d]", c.Input, c.Output, wantLen)
		}
	}
}

func TestDefaultRegistryCoversRepresentativeTasks(t *testing.T) {
	r := DefaultRegistry()
	want := []string{
		"print-hello", "echo", "reverse", "remove-char", "count-char", "add",
		"bool-logic", "shift-left", "shift-right", "length", "multiply",
		"divmod", "divide-2", "dedup", "fib", "count-down", "riffle",
		"unriffle", "substring", "circle-route",
	}
	for _, name := range want {
		if _, err := r.Get(name); err != nil {
			t.Errorf("DefaultRegistry missing task %q: %v", name, err)
		}
	}
	if r.Count() != len(want) {
		t.Errorf("Count() = %d, want %d", r.Count(), len(want))
	}
}

func TestBestRewardInvariantEveryTaskHasPositiveFiniteBest(t *testing.T) {
	r := DefaultRegistry()
	for _, name := range r.List() {
		task, _ := r.Get(name)
		if task.Base() < 2 {
			t.Errorf("%s: base = %d, want >= 2", name, task.Base())
		}
		cases := task.MakeIOSet()
		if len(cases) == 0 {
			t.Errorf("%s: empty io set", name)
		}
		for _, c := range cases {
			for _, v := range c.Output {
				if v < 0 || v >= task.Base() {
					t.Errorf("%s: output value %d out of [0,%d)", name, v, task.Base())
				}
			}
		}
	}
}

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
