package reward

// DistanceFunc computes a raw (unscaled, non-reward) distance between a
// candidate sequence and the target, e.g. AbsoluteDistance.
type DistanceFunc func(pred, target []int, base int) int

func defaultDistanceFunc(pred, target []int, base int) int {
	return AbsoluteDistance(pred, target, base, AbsDiff)
}

// Manager administers reward across an "editor" episode, where the agent
// edits and re-runs its code many times and reward is a stateful function of
// the history of attempts, not just the current one. This prevents an agent
// from farming reward by retrying the same or a worse sequence.
type Manager interface {
	// Call computes the reward for one proposed sequence, updating internal
	// state used by subsequent calls.
	Call(seq []int) float64
}

// base holds the fields shared by every Manager implementation.
type base struct {
	target     []int
	modBase    int
	distanceFn DistanceFunc
}

func newBase(target []int, modBase int, distanceFn DistanceFunc) base {
	if distanceFn == nil {
		distanceFn = defaultDistanceFunc
	}
	return base{target: append([]int(nil), target...), modBase: modBase, distanceFn: distanceFn}
}

func (b *base) diff(seq []int) int {
	return b.distanceFn(seq, b.target, b.modBase)
}

// DeltaManager gives reward for the net change in distance to the target
// between consecutive calls. The maximum total episode reward attainable
// is 0 (reached only if distance never worsens and ends at 0).
type DeltaManager struct {
	base
	lastDiff int
}

// NewDeltaManager constructs a DeltaManager for the given target sequence.
// distanceFn defaults to AbsoluteDistance when nil.
func NewDeltaManager(target []int, modBase int, distanceFn DistanceFunc) *DeltaManager {
	return &DeltaManager{base: newBase(target, modBase, distanceFn)}
}

func (m *DeltaManager) Call(seq []int) float64 {
	diff := m.diff(seq)
	reward := float64(m.lastDiff-diff) / float64(m.modBase)
	m.lastDiff = diff
	return reward
}

// FloorManager gives positive reward only when a new episode-minimum
// distance is reached; regressions earn 0. A too-long prediction earns a one
// time -1.0 penalty, refunded as soon as a prediction returns to at-most
// target length. Maximum total episode reward attainable is len(target).
type FloorManager struct {
	base
	minDiff           int
	tooLongPenaltyPaid bool
}

// NewFloorManager constructs a FloorManager for the given target sequence.
func NewFloorManager(target []int, modBase int, distanceFn DistanceFunc) *FloorManager {
	b := newBase(target, modBase, distanceFn)
	return &FloorManager{base: b, minDiff: b.distanceFn(nil, b.target, b.modBase)}
}

func (m *FloorManager) delta(seq []int) float64 {
	diff := m.diff(seq)
	if diff < m.minDiff {
		reward := float64(m.minDiff-diff) / float64(m.modBase)
		m.minDiff = diff
		return reward
	}
	return 0.0
}

func (m *FloorManager) Call(seq []int) float64 {
	if len(seq) > len(m.target) {
		if !m.tooLongPenaltyPaid {
			m.tooLongPenaltyPaid = true
			return -1.0
		}
		return 0.0
	}

	r := m.delta(seq)
	if m.tooLongPenaltyPaid {
		r += 1.0
		m.tooLongPenaltyPaid = false
	}
	return r
}
