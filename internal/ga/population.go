// Package ga implements the generational genetic-algorithm search engine:
// selection, crossover, mutation, hall-of-fame elitism, reward caching, and
// checkpointing. Grounded on spec.md §4.7/§4.7.1 (no Python reference
// implementation survives in original_source/all.py — ga_lib.py was
// filtered from the retrieved source, only GaTest references remain — so
// spec.md is the sole source of truth for this package's algorithmic
// detail). Structural idioms (Config/DefaultConfig pair, injected *rand.Rand,
// atomic checkpoint replace) are grounded on
// internal/infra/mlscheduler/mlscheduler.go.
package ga

import (
	"math/rand"

	"github.com/evosynth/evosynth/internal/domain"
)

// Individual is a candidate program with a possibly-unset fitness.
type Individual struct {
	Program string
	Fitness *float64
	Reason  string
}

// HasFitness reports whether this individual has been scored.
func (ind Individual) HasFitness() bool { return ind.Fitness != nil }

// FitnessValue returns the fitness, or 0 if unset.
func (ind Individual) FitnessValue() float64 {
	if ind.Fitness == nil {
		return 0
	}
	return *ind.Fitness
}

func setFitness(ind *Individual, v float64, reason string) {
	f := v
	ind.Fitness = &f
	ind.Reason = reason
}

// Population is a fixed-size ordered collection of Individuals.
type Population []Individual

// randomProgram draws a uniform-random token string of the given length from
// domain.Alphabet.
func randomProgram(rng *rand.Rand, length int) string {
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = domain.Alphabet[rng.Intn(len(domain.Alphabet))]
	}
	return string(buf)
}

// InitPopulation builds size individuals with unset fitness, each a uniform
// random program of the given length.
func InitPopulation(rng *rand.Rand, size, programLength int) Population {
	pop := make(Population, size)
	for i := range pop {
		pop[i] = Individual{Program: randomProgram(rng, programLength)}
	}
	return pop
}

// Best returns the individual with the highest fitness. Panics on an empty
// population, which a correctly configured engine never produces.
func (p Population) Best() Individual {
	best := p[0]
	for _, ind := range p[1:] {
		if ind.FitnessValue() > best.FitnessValue() {
			best = ind
		}
	}
	return best
}

// MeanFitness averages FitnessValue() across the population; 0 for an empty
// population.
func (p Population) MeanFitness() float64 {
	if len(p) == 0 {
		return 0
	}
	var sum float64
	for _, ind := range p {
		sum += ind.FitnessValue()
	}
	return sum / float64(len(p))
}

// onePointCrossover implements spec.md §4.7.1: a (longer) and b (shorter),
// split point p in [0, len(a)).
func onePointCrossover(rng *rand.Rand, a, b string) (string, string) {
	longer, shorter := a, b
	swapped := false
	if len(shorter) > len(longer) {
		longer, shorter = shorter, longer
		swapped = true
	}
	p := 0
	if len(longer) > 0 {
		p = rng.Intn(len(longer))
	}
	var child1, child2 string
	if p >= len(shorter) {
		child1 = longer[:p]
		child2 = shorter + longer[p:]
	} else {
		child1 = longer[:p] + shorter[p:]
		child2 = shorter[:p] + longer[p:]
	}
	if swapped {
		return child2, child1
	}
	return child1, child2
}

type mutationKind int

const (
	mutateInsertionShift mutationKind = iota
	mutateDeletionShift
	mutateRotate
	mutateReplace
	numMutationKinds
)

// mutate applies spec.md §4.7's per-token mutation pass: each position is
// independently mutated with probability mutpb; the mutation category and
// shift direction are each chosen uniformly; length is always preserved.
func mutate(rng *rand.Rand, program string, mutpb float64) string {
	if len(program) == 0 {
		return program
	}
	buf := []byte(program)
	for i := range buf {
		if rng.Float64() >= mutpb {
			continue
		}
		kind := mutationKind(rng.Intn(int(numMutationKinds)))
		shiftRight := rng.Intn(2) == 0
		newToken := domain.Alphabet[rng.Intn(len(domain.Alphabet))]
		switch kind {
		case mutateReplace:
			buf[i] = newToken
		case mutateRotate:
			if shiftRight {
				rotateRightInPlace(buf, i)
			} else {
				rotateLeftInPlace(buf, i)
			}
			buf[i] = newToken
		case mutateInsertionShift:
			// Shift the slice from i to one end by one, dropping the
			// boundary token, then write newToken at i. Length preserved.
			if shiftRight {
				copy(buf[i+1:], buf[i:len(buf)-1])
			} else {
				copy(buf[0:i], buf[1:i+1])
			}
			buf[i] = newToken
		case mutateDeletionShift:
			// Shift the opposite direction from insertion-shift, then
			// write newToken at the vacated boundary position.
			if shiftRight {
				copy(buf[0:i], buf[1:i+1])
				buf[i] = newToken
			} else {
				copy(buf[i+1:], buf[i:len(buf)-1])
				buf[i] = newToken
			}
		}
	}
	return string(buf)
}

func rotateRightInPlace(buf []byte, upTo int) {
	if upTo == 0 {
		return
	}
	last := buf[upTo]
	copy(buf[1:upTo+1], buf[0:upTo])
	buf[0] = last
}

func rotateLeftInPlace(buf []byte, from int) {
	if from >= len(buf)-1 {
		return
	}
	first := buf[from]
	copy(buf[from:len(buf)-1], buf[from+1:])
	buf[len(buf)-1] = first
}
