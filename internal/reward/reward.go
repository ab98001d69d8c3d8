// Package reward implements the scalar and sequence distance functions, and
// the stateful reward managers, used to score candidate program output
// against a task's expected output. All functions are pure; see
// SPEC_FULL.md §4.2. Semantics are pinned to original_source/all.py's
// reward.py section.
package reward

import "math"

// AbsDiff is the absolute difference between two scalars. Symmetric in a, b.
// base is accepted only so this matches the signature of ScalarDiffFunc.
func AbsDiff(a, b, base int) int {
	d := a - b
	if d < 0 {
		return -d
	}
	return d
}

// ModAbsDiff is the shortest distance between a and b in the modular
// integers base `base`. Symmetric in a, b.
func ModAbsDiff(a, b, base int) int {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	if diff >= base {
		diff %= base
	}
	other := base - diff
	if other < diff {
		return other
	}
	return diff
}

// ScalarDiffFunc computes an element-wise distance between two token values.
type ScalarDiffFunc func(a, b, base int) int

// AbsoluteDistance is an asymmetric list distance: the sum of element-wise
// distances along the shorter of pred/target, where each missing or extra
// position contributes base (the maximum possible element-wise distance).
func AbsoluteDistance(pred, target []int, base int, diffFn ScalarDiffFunc) int {
	if diffFn == nil {
		diffFn = AbsDiff
	}
	d := 0
	for i, t := range target {
		if i >= len(pred) {
			d += base
		} else {
			d += diffFn(pred[i], t, base)
		}
	}
	if len(pred) > len(target) {
		d += (len(pred) - len(target)) * base
	}
	return d
}

// LogAbsoluteDistance is AbsoluteDistance's log-scaled, length-normalized
// cousin. Distance between [] and [] is 0.0. Otherwise normalized by
// max(1, len(target)) so the result lies in [0, 1] when len(pred) <=
// len(target), growing unboundedly as pred overruns target.
func LogAbsoluteDistance(pred, target []int, base int) float64 {
	if len(target) == 0 {
		if len(pred) == 0 {
			return 0.0
		}
	}
	lengthNormalizer := float64(len(target))
	if lengthNormalizer == 0 {
		lengthNormalizer = 1.0
	}
	maxDist := base/2 + 1
	factor := math.Log(float64(maxDist) + 1)

	d := 0.0
	for i, t := range target {
		if i >= len(pred) {
			d += 1.0
		} else {
			d += math.Log(float64(ModAbsDiff(pred[i], t, base)+1)) / factor
		}
	}
	if len(pred) > len(target) {
		d += float64(len(pred) - len(target))
	}
	return d / lengthNormalizer
}

// AbsoluteDistanceReward gives 1.0 when pred equals target, 0.0 when pred is
// empty (and target is not), and grows negative as pred overruns target.
func AbsoluteDistanceReward(pred, target []int, base int, diffFn ScalarDiffFunc) float64 {
	unitDist := float64(base * len(target))
	if unitDist == 0 {
		unitDist = float64(base)
	}
	dist := float64(AbsoluteDistance(pred, target, base, diffFn))
	return (unitDist - dist) / unitDist
}

// AbsoluteModDistanceReward is AbsoluteDistanceReward using ModAbsDiff as the
// element-wise distance.
func AbsoluteModDistanceReward(pred, target []int, base int) float64 {
	return AbsoluteDistanceReward(pred, target, base, ModAbsDiff)
}

// AbsoluteLogDistanceReward gives 1.0 when pred equals target, scaling
// reward increments more steeply the closer each position gets to target.
func AbsoluteLogDistanceReward(pred, target []int, base int) float64 {
	return 1.0 - LogAbsoluteDistance(pred, target, base)
}

// RewardFunc is the shape shared by every terminal reward function used by
// the scoring wrapper: (predicted output, target output, base) -> reward.
type RewardFunc func(pred, target []int, base int) float64

// Default is the reward function used when a task or scoring config does not
// override it.
func Default(pred, target []int, base int) float64 {
	return AbsoluteDistanceReward(pred, target, base, AbsDiff)
}
