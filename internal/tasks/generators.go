package tasks

import "math/rand"

// seededRNG returns a private random source, never touching the package- or
// process-global rand state, so two tasks constructed with the same seed
// always produce identical case sets regardless of call order elsewhere in
// the program.
func seededRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func randomSeq(rng *rand.Rand, length, base int) []int {
	seq := make([]int, length)
	for i := range seq {
		seq[i] = rng.Intn(base)
	}
	return seq
}

func randomLength(rng *rand.Rand, minLen, maxLen int) int {
	if maxLen <= minLen {
		return minLen
	}
	return minLen + rng.Intn(maxLen-minLen+1)
}

func reversed(seq []int) []int {
	out := make([]int, len(seq))
	for i, v := range seq {
		out[len(seq)-1-i] = v
	}
	return out
}

func dedupAdjacent(seq []int) []int {
	out := make([]int, 0, len(seq))
	for i, v := range seq {
		if i == 0 || seq[i-1] != v {
			out = append(out, v)
		}
	}
	return out
}

func removeValue(seq []int, target int) []int {
	out := make([]int, 0, len(seq))
	for _, v := range seq {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}

func countValue(seq []int, target int) int {
	n := 0
	for _, v := range seq {
		if v == target {
			n++
		}
	}
	return n
}

func rotateLeft(seq []int) []int {
	if len(seq) == 0 {
		return append([]int(nil), seq...)
	}
	out := make([]int, len(seq))
	copy(out, seq[1:])
	out[len(seq)-1] = seq[0]
	return out
}

func rotateRight(seq []int) []int {
	if len(seq) == 0 {
		return append([]int(nil), seq...)
	}
	out := make([]int, len(seq))
	out[0] = seq[len(seq)-1]
	copy(out[1:], seq[:len(seq)-1])
	return out
}

func riffle(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	for i := 0; i < len(a) || i < len(b); i++ {
		if i < len(a) {
			out = append(out, a[i])
		}
		if i < len(b) {
			out = append(out, b[i])
		}
	}
	return out
}

func unriffle(seq []int) ([]int, []int) {
	var a, b []int
	for i, v := range seq {
		if i%2 == 0 {
			a = append(a, v)
		} else {
			b = append(b, v)
		}
	}
	return a, b
}
