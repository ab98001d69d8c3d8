package reward

import "testing"

func TestModAbsDiffShortestPath(t *testing.T) {
	if got := ModAbsDiff(1, 99, 100); got != 2 {
		t.Errorf("ModAbsDiff(1, 99, 100) = %d, want 2", got)
	}
}

func TestAbsoluteDistanceZeroWhenEqual(t *testing.T) {
	seq := []int{1, 2, 3, 4}
	if d := AbsoluteDistance(seq, seq, 5, AbsDiff); d != 0 {
		t.Errorf("distance = %d, want 0", d)
	}
}

func TestAbsoluteDistanceRewardIdentity(t *testing.T) {
	// reward_fn(x, x, base) = 1.0 for every nonempty sequence, per spec.md §8
	// invariant 4.
	cases := [][]int{{1}, {1, 2, 3}, {0, 0, 0, 5}}
	for _, x := range cases {
		if r := AbsoluteDistanceReward(x, x, 256, AbsDiff); r != 1.0 {
			t.Errorf("AbsoluteDistanceReward(%v, %v, 256) = %f, want 1.0", x, x, r)
		}
	}
}

func TestAbsoluteDistanceRewardEmptyBoth(t *testing.T) {
	// reward_fn([], [], base) = 1.0 for empty x as well.
	if r := AbsoluteDistanceReward(nil, nil, 256, AbsDiff); r != 1.0 {
		t.Errorf("reward = %f, want 1.0", r)
	}
}

func TestAbsoluteDistanceRewardEmptyPrediction(t *testing.T) {
	target := []int{1, 2, 3}
	if r := AbsoluteDistanceReward(nil, target, 256, AbsDiff); r != 0.0 {
		t.Errorf("reward = %f, want 0.0", r)
	}
}

func TestAbsoluteLogDistanceRewardIdentity(t *testing.T) {
	x := []int{1, 2, 3}
	if r := AbsoluteLogDistanceReward(x, x, 256); r != 1.0 {
		t.Errorf("reward = %f, want 1.0", r)
	}
}

// TestFloorManagerScenario pins S6 from spec.md §8: target [1,2,3,4], base 5.
func TestFloorManagerScenario(t *testing.T) {
	m := NewFloorManager([]int{1, 2, 3, 4}, 5, nil)

	steps := []struct {
		seq  []int
		want float64
	}{
		{[]int{1}, 1.0},
		{[]int{1}, 0.0},
		{[]int{1, 3}, 4.0 / 5.0},
		{[]int{1}, 0.0},
		{[]int{1, 2, 3, 4}, 2.2},
		{[]int{1, 2, 3, 4}, 0.0},
	}
	for i, step := range steps {
		got := m.Call(step.seq)
		if diffFloat(got, step.want) > 1e-9 {
			t.Errorf("step %d: Call(%v) = %f, want %f", i, step.seq, got, step.want)
		}
	}
}

func TestDeltaManagerSumsToZeroOnMonotoneImprovement(t *testing.T) {
	m := NewDeltaManager([]int{1, 2, 3}, 5, nil)
	total := 0.0
	total += m.Call([]int{0, 0, 0})
	total += m.Call([]int{1, 2, 0})
	total += m.Call([]int{1, 2, 3})
	if diffFloat(total, 0.0) > 1e-9 {
		t.Errorf("total reward = %f, want 0.0 (diff at start was 0, final diff is 0)", total)
	}
}

func diffFloat(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
