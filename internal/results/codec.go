package results

import (
	"fmt"

	"github.com/evosynth/evosynth/internal/literal"
)

// Encode renders r using the same "k=v,..." grammar internal/literal and
// the configuration surface share, per spec.md §6.
func Encode(r Record) string {
	p := literal.NewPairs()
	p.Set("max_npe", literal.Int(int64(r.MaxNPE)))
	p.Set("max_global_repetitions", literal.Int(int64(r.MaxGlobalRepetitions)))
	p.Set("max_local_repetitions", literal.Int(int64(r.MaxLocalRepetitions)))
	p.Set("npe", literal.Int(int64(r.NPE)))
	p.Set("batch_size", literal.Int(int64(r.BatchSize)))
	p.Set("num_batches", literal.Int(int64(r.NumBatches)))
	p.Set("found_solution", literal.Bool(r.FoundSolution))
	p.Set("best_reward", literal.Float(r.BestReward))
	p.Set("code_solution", literal.String(r.CodeSolution))
	p.Set("task", literal.String(r.Task))
	p.Set("global_rep", literal.Int(int64(r.GlobalRep)))
	return literal.Encode(p)
}

// Decode parses a line written by Encode back into a Record.
func Decode(line string) (Record, error) {
	p, err := literal.Parse(line)
	if err != nil {
		return Record{}, err
	}

	var r Record
	intField := func(key string, dst *int) error {
		v, ok := p.Get(key)
		if !ok || v.Int == nil {
			return fmt.Errorf("results: missing or non-int field %q", key)
		}
		*dst = int(*v.Int)
		return nil
	}
	for _, f := range []struct {
		key string
		dst *int
	}{
		{"max_npe", &r.MaxNPE},
		{"max_global_repetitions", &r.MaxGlobalRepetitions},
		{"max_local_repetitions", &r.MaxLocalRepetitions},
		{"npe", &r.NPE},
		{"batch_size", &r.BatchSize},
		{"num_batches", &r.NumBatches},
		{"global_rep", &r.GlobalRep},
	} {
		if err := intField(f.key, f.dst); err != nil {
			return Record{}, err
		}
	}

	found, ok := p.Get("found_solution")
	if !ok || found.Bool == nil {
		return Record{}, fmt.Errorf("results: missing or non-bool field %q", "found_solution")
	}
	r.FoundSolution = *found.Bool

	reward, ok := p.Get("best_reward")
	if !ok || reward.Float == nil {
		if ok && reward.Int != nil {
			r.BestReward = float64(*reward.Int)
		} else {
			return Record{}, fmt.Errorf("results: missing or non-numeric field %q", "best_reward")
		}
	} else {
		r.BestReward = *reward.Float
	}

	for _, f := range []struct {
		key string
		dst *string
	}{
		{"code_solution", &r.CodeSolution},
		{"task", &r.Task},
	} {
		v, ok := p.Get(f.key)
		if !ok || v.Str == nil {
			return Record{}, fmt.Errorf("results: missing or non-string field %q", f.key)
		}
		*f.dst = *v.Str
	}

	return r, nil
}
