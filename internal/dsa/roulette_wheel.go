package dsa

import (
	"bufio"
	"encoding/gob"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/evosynth/evosynth/internal/domain"
)

// walRecord is the on-disk unit appended by IncrementalSave and replayed by
// Load. Key is empty when the wheel is not in unique mode.
type walRecord struct {
	Object any
	Weight float64
	Key    string
}

// RouletteWheel samples stored objects with probability proportional to
// their weight. In unique mode, objects are added under a hashable key and
// duplicate keys are ignored, so replayed experience cannot be overweighted
// by being added twice. Grounded on original_source/all.py's RouletteWheel;
// the pickle-based save file becomes an encoding/gob append log here.
type RouletteWheel struct {
	uniqueMode bool
	objects    []any
	weights    []float64
	partials   []float64
	keys       map[string]float64

	savePath string
	pending  []walRecord
	rng      *rand.Rand
}

// Option configures a RouletteWheel at construction time.
type Option func(*RouletteWheel)

// WithUniqueMode puts the wheel in unique mode: Add requires a non-empty key
// and rejects duplicates.
func WithUniqueMode() Option {
	return func(w *RouletteWheel) { w.uniqueMode = true }
}

// WithSource seeds the wheel's random source, overriding the default
// source, which New seeds with the constant 1. Useful for deterministic tests.
func WithSource(src rand.Source) Option {
	return func(w *RouletteWheel) { w.rng = rand.New(src) }
}

// New constructs an empty RouletteWheel.
func New(opts ...Option) *RouletteWheel {
	w := &RouletteWheel{rng: rand.New(rand.NewSource(1))}
	for _, o := range opts {
		o(w)
	}
	if w.uniqueMode {
		w.keys = make(map[string]float64)
	}
	return w
}

// Open constructs a RouletteWheel and, if savePath already holds records,
// replays them before returning — this is how a wheel resumes after a
// preempted run. savePath is remembered for subsequent IncrementalSave calls.
func Open(savePath string, opts ...Option) (*RouletteWheel, error) {
	w := New(opts...)
	w.savePath = savePath

	f, err := os.Open(savePath)
	if os.IsNotExist(err) {
		return w, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	for {
		// IncrementalSave writes each record as its own gob stream, so each
		// record is read with a fresh decoder.
		dec := gob.NewDecoder(br)
		var rec walRecord
		if err := dec.Decode(&rec); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			// A truncated trailing record (e.g. from a crash mid-write) is
			// tolerated; anything already decoded is kept.
			break
		}
		if w.uniqueMode {
			w.add(rec.Object, rec.Weight, rec.Key)
		} else {
			w.add(rec.Object, rec.Weight, "")
		}
	}
	w.pending = nil
	return w, nil
}

// Len returns the number of objects held.
func (w *RouletteWheel) Len() int { return len(w.objects) }

// IsEmpty reports whether the wheel holds anything.
func (w *RouletteWheel) IsEmpty() bool { return len(w.partials) == 0 }

// TotalWeight is the cumulative weight across all objects.
func (w *RouletteWheel) TotalWeight() float64 {
	if len(w.partials) == 0 {
		return 0
	}
	return w.partials[len(w.partials)-1]
}

// HasKey reports whether key has already been added. Only valid in unique
// mode.
func (w *RouletteWheel) HasKey(key string) bool {
	_, ok := w.keys[key]
	return ok
}

// GetWeight returns the weight stored under key. Only valid in unique mode;
// returns domain.ErrNotUniqueMode otherwise and domain.ErrUnknownKey if key
// was never added.
func (w *RouletteWheel) GetWeight(key string) (float64, error) {
	if !w.uniqueMode {
		return 0, domain.ErrNotUniqueMode
	}
	weight, ok := w.keys[key]
	if !ok {
		return 0, domain.ErrUnknownKey
	}
	return weight, nil
}

// Weighted pairs a stored object with its weight, mirroring the (obj,
// weight) tuples original_source/all.py's RouletteWheel iterates and
// returns from sample_many.
type Weighted struct {
	Obj    any
	Weight float64
}

// Pairs returns every (obj, weight) stored, in insertion order.
func (w *RouletteWheel) Pairs() []Weighted {
	out := make([]Weighted, len(w.objects))
	for i, obj := range w.objects {
		out[i] = Weighted{Obj: obj, Weight: w.weights[i]}
	}
	return out
}

// Add stores obj with the given weight, returning false if it was rejected
// as a duplicate (unique mode only). Outside unique mode key must be empty;
// a non-empty key returns domain.ErrKeyNotAllowed.
func (w *RouletteWheel) Add(obj any, weight float64, key string) (bool, error) {
	if weight < 0 {
		return false, domain.ErrNegativeWeight
	}
	if w.uniqueMode && key == "" {
		return false, domain.ErrKeyRequired
	}
	if !w.uniqueMode && key != "" {
		return false, domain.ErrKeyNotAllowed
	}
	added := w.add(obj, weight, key)
	if added {
		w.pending = append(w.pending, walRecord{Object: obj, Weight: weight, Key: key})
	}
	return added, nil
}

func (w *RouletteWheel) add(obj any, weight float64, key string) bool {
	if w.uniqueMode {
		if _, exists := w.keys[key]; exists {
			return false
		}
		w.keys[key] = weight
	}
	w.objects = append(w.objects, obj)
	w.weights = append(w.weights, weight)
	w.partials = append(w.partials, w.TotalWeight()+weight)
	return true
}

// AddMany adds every (obj, weight) pair, returning the number actually
// added. keys must be the same length as objs in unique mode, and nil
// otherwise.
func (w *RouletteWheel) AddMany(objs []any, weights []float64, keys []string) (int, error) {
	if len(objs) != len(weights) {
		return 0, domain.ErrLengthMismatch
	}
	if w.uniqueMode && len(keys) != len(objs) {
		return 0, domain.ErrLengthMismatch
	}
	added := 0
	for i, obj := range objs {
		key := ""
		if w.uniqueMode {
			key = keys[i]
		}
		ok, err := w.Add(obj, weights[i], key)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	return added, nil
}

// Sample spins the wheel once, returning a randomly chosen object weighted
// by its stored weight. Uses a prefix-sum binary search over partial sums.
func (w *RouletteWheel) Sample() (obj any, weight float64, err error) {
	if w.IsEmpty() {
		return nil, 0, domain.ErrEmptyRouletteWheel
	}
	spin := w.rng.Float64() * w.TotalWeight()
	i := sort.Search(len(w.partials), func(i int) bool { return w.partials[i] > spin })
	if i == len(w.partials) {
		i--
	}
	return w.objects[i], w.weights[i], nil
}

// SampleMany spins the wheel count times, returning each draw's (obj,
// weight) pair, matching original_source/all.py's sample_many.
func (w *RouletteWheel) SampleMany(count int) ([]Weighted, error) {
	if w.IsEmpty() && count > 0 {
		return nil, domain.ErrEmptyRouletteWheel
	}
	out := make([]Weighted, count)
	for i := range out {
		obj, weight, err := w.Sample()
		if err != nil {
			return nil, err
		}
		out[i] = Weighted{Obj: obj, Weight: weight}
	}
	return out, nil
}

// IncrementalSave appends every object added since the last call (or since
// construction/Open) to savePath, creating it if needed. No-op if savePath
// was never set (via Open) or nothing is pending.
func (w *RouletteWheel) IncrementalSave() error {
	if w.savePath == "" || len(w.pending) == 0 {
		return nil
	}
	f, err := os.OpenFile(w.savePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	for _, rec := range w.pending {
		// One encoder per record makes every record a self-contained gob
		// stream, so records appended by separate calls decode alike.
		enc := gob.NewEncoder(bw)
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	w.pending = nil
	return nil
}
