package ga

import (
	"math/rand"
	"testing"
)

func TestOnePointCrossoverPreservesContent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := "++++++++"
	b := "><"
	for i := 0; i < 50; i++ {
		c1, c2 := onePointCrossover(rng, a, b)
		if len(c1)+len(c2) != len(a)+len(b) {
			t.Fatalf("crossover changed total length: %d+%d != %d+%d", len(c1), len(c2), len(a), len(b))
		}
	}
}

func TestOnePointCrossoverEqualLengthSplitsBothHalves(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	a := "AAAA"
	b := "BBBB"
	c1, c2 := onePointCrossover(rng, a, b)
	if len(c1) != 4 || len(c2) != 4 {
		t.Fatalf("expected length-preserving children, got %q %q", c1, c2)
	}
}

func TestMutatePreservesLength(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	program := "+-><[].,+-><"
	for trial := 0; trial < 20; trial++ {
		mutated := mutate(rng, program, 0.3)
		if len(mutated) != len(program) {
			t.Fatalf("mutate changed length: %d -> %d", len(program), len(mutated))
		}
	}
}

func TestMutateZeroProbabilityIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	program := "+-><[].,"
	if got := mutate(rng, program, 0.0); got != program {
		t.Errorf("mutate with mutpb=0 changed program: %q -> %q", program, got)
	}
}

func TestInitPopulationSizeAndLength(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	pop := InitPopulation(rng, 10, 16)
	if len(pop) != 10 {
		t.Fatalf("len = %d, want 10", len(pop))
	}
	for _, ind := range pop {
		if len(ind.Program) != 16 {
			t.Errorf("program length = %d, want 16", len(ind.Program))
		}
		if ind.HasFitness() {
			t.Error("freshly initialized individual should have unset fitness")
		}
	}
}

func TestPopulationBest(t *testing.T) {
	low, mid, high := 0.1, 0.5, 0.9
	pop := Population{
		{Program: "a", Fitness: &low},
		{Program: "b", Fitness: &high},
		{Program: "c", Fitness: &mid},
	}
	if best := pop.Best(); best.Program != "b" {
		t.Errorf("Best() = %q, want b", best.Program)
	}
}
