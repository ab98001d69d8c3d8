package dsa

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/evosynth/evosynth/internal/domain"
)

func TestRouletteWheelSampleProportional(t *testing.T) {
	w := New(WithSource(rand.NewSource(42)))
	mustAdd(t, w, "a", 1.0, "")
	mustAdd(t, w, "b", 9.0, "")

	counts := map[string]int{}
	const trials = 2000
	for i := 0; i < trials; i++ {
		obj, _, err := w.Sample()
		if err != nil {
			t.Fatalf("Sample: %v", err)
		}
		counts[obj.(string)]++
	}
	// b has 9x the weight of a; expect roughly 90% of draws.
	frac := float64(counts["b"]) / float64(trials)
	if frac < 0.8 || frac > 0.98 {
		t.Errorf("b sampled %.3f of the time, want ~0.9 (counts=%v)", frac, counts)
	}
}

func TestRouletteWheelEmptySampleErrors(t *testing.T) {
	w := New()
	if _, _, err := w.Sample(); err != domain.ErrEmptyRouletteWheel {
		t.Errorf("err = %v, want ErrEmptyRouletteWheel", err)
	}
}

func TestRouletteWheelNegativeWeightRejected(t *testing.T) {
	w := New()
	if _, err := w.Add("x", -1.0, ""); err != domain.ErrNegativeWeight {
		t.Errorf("err = %v, want ErrNegativeWeight", err)
	}
}

func TestRouletteWheelUniqueModeRejectsDuplicateKey(t *testing.T) {
	w := New(WithUniqueMode())
	added, err := w.Add("x", 1.0, "k1")
	if err != nil || !added {
		t.Fatalf("first add: added=%v err=%v", added, err)
	}
	added, err = w.Add("y", 2.0, "k1")
	if err != nil || added {
		t.Fatalf("duplicate-key add: added=%v err=%v, want added=false", added, err)
	}
	if w.Len() != 1 {
		t.Errorf("len = %d, want 1", w.Len())
	}
}

func TestRouletteWheelUniqueModeRequiresKey(t *testing.T) {
	w := New(WithUniqueMode())
	if _, err := w.Add("x", 1.0, ""); err != domain.ErrKeyRequired {
		t.Errorf("err = %v, want ErrKeyRequired", err)
	}
}

func TestRouletteWheelNonUniqueModeRejectsKey(t *testing.T) {
	w := New()
	if _, err := w.Add("x", 1.0, "k"); err != domain.ErrKeyNotAllowed {
		t.Errorf("err = %v, want ErrKeyNotAllowed", err)
	}
}

func TestRouletteWheelIncrementalSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wheel.gob")

	w, err := Open(path, WithUniqueMode())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	mustAdd(t, w, "prog-a", 2.0, "prog-a")
	mustAdd(t, w, "prog-b", 3.0, "prog-b")
	if err := w.IncrementalSave(); err != nil {
		t.Fatalf("IncrementalSave: %v", err)
	}
	mustAdd(t, w, "prog-c", 1.0, "prog-c")
	if err := w.IncrementalSave(); err != nil {
		t.Fatalf("second IncrementalSave: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("save file missing: %v", err)
	}

	reloaded, err := Open(path, WithUniqueMode())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reloaded.Len() != 3 {
		t.Fatalf("reloaded len = %d, want 3", reloaded.Len())
	}
	if !reloaded.HasKey("prog-b") {
		t.Errorf("reloaded wheel missing prog-b")
	}
	if reloaded.TotalWeight() != 6.0 {
		t.Errorf("reloaded total weight = %f, want 6.0", reloaded.TotalWeight())
	}
}

func TestRouletteWheelGetWeight(t *testing.T) {
	w := New(WithUniqueMode())
	mustAdd(t, w, "a", 1.0, "a")
	mustAdd(t, w, "b", 0.5, "b")

	if got, err := w.GetWeight("a"); err != nil || got != 1.0 {
		t.Errorf("GetWeight(a) = %v, %v, want 1.0, nil", got, err)
	}
	if got, err := w.GetWeight("b"); err != nil || got != 0.5 {
		t.Errorf("GetWeight(b) = %v, %v, want 0.5, nil", got, err)
	}
	if _, err := w.GetWeight("missing"); err != domain.ErrUnknownKey {
		t.Errorf("err = %v, want ErrUnknownKey", err)
	}
}

func TestRouletteWheelGetWeightRequiresUniqueMode(t *testing.T) {
	w := New()
	mustAdd(t, w, "a", 1.0, "")
	if _, err := w.GetWeight("a"); err != domain.ErrNotUniqueMode {
		t.Errorf("err = %v, want ErrNotUniqueMode", err)
	}
}

func TestRouletteWheelPairsPreservesInsertionOrder(t *testing.T) {
	w := New()
	mustAdd(t, w, []int{1, 2, 3}, 1.0, "")
	mustAdd(t, w, []int{4, 5}, 0.5, "")
	mustAdd(t, w, []int{1, 2, 3}, 1.5, "")

	pairs := w.Pairs()
	if len(pairs) != 3 {
		t.Fatalf("len(pairs) = %d, want 3", len(pairs))
	}
	wantWeights := []float64{1.0, 0.5, 1.5}
	for i, p := range pairs {
		if p.Weight != wantWeights[i] {
			t.Errorf("pairs[%d].Weight = %v, want %v", i, p.Weight, wantWeights[i])
		}
	}
	if w.TotalWeight() != 3.0 {
		t.Errorf("TotalWeight = %v, want 3.0", w.TotalWeight())
	}
}

func TestRouletteWheelSampleManyReturnsWeightedPairs(t *testing.T) {
	w := New(WithSource(rand.NewSource(7)))
	mustAdd(t, w, "a", 1.0, "")
	mustAdd(t, w, "b", 9.0, "")

	drawn, err := w.SampleMany(20)
	if err != nil {
		t.Fatalf("SampleMany: %v", err)
	}
	if len(drawn) != 20 {
		t.Fatalf("len(drawn) = %d, want 20", len(drawn))
	}
	for _, d := range drawn {
		switch d.Obj.(string) {
		case "a":
			if d.Weight != 1.0 {
				t.Errorf("weight for a = %v, want 1.0", d.Weight)
			}
		case "b":
			if d.Weight != 9.0 {
				t.Errorf("weight for b = %v, want 9.0", d.Weight)
			}
		default:
			t.Errorf("unexpected object %v", d.Obj)
		}
	}
}

func TestRouletteWheelSampleManyEmptyErrors(t *testing.T) {
	w := New()
	if _, err := w.SampleMany(3); err != domain.ErrEmptyRouletteWheel {
		t.Errorf("err = %v, want ErrEmptyRouletteWheel", err)
	}
}

func mustAdd(t *testing.T, w *RouletteWheel, obj any, weight float64, key string) {
	t.Helper()
	added, err := w.Add(obj, weight, key)
	if err != nil {
		t.Fatalf("Add(%v): %v", obj, err)
	}
	if !added {
		t.Fatalf("Add(%v) not added", obj)
	}
}
