package ga

import (
	"fmt"
	"math/rand"

	"github.com/evosynth/evosynth/internal/dsa"
	"github.com/evosynth/evosynth/internal/observability"
	"github.com/evosynth/evosynth/internal/scoring"
)

// shiftedWeight converts a fitness value into a roulette-wheel weight per
// spec.md §4.7: "positive-shifted" so that negative or zero fitness
// individuals can still be drawn, just rarely.
func shiftedWeight(fitness float64) float64 {
	w := fitness
	if w < 0 {
		w = 0
	}
	return w + 0.05
}

// Config configures one Engine.
type Config struct {
	BatchSize        int
	ProgramLength    int
	Cxpb             float64 // crossover probability
	Mutpb            float64 // per-token mutation probability
	HallOfFameSize   int
	Ngen             int // 0 = unlimited
	CheckpointEvery  int // generations between checkpoint writes; 0 disables
	CheckpointPath   string
	// OnGeneration, if set, is called after every generation (including
	// generation 0's initial evaluation) with the generation number and the
	// population's best/mean fitness, so a caller can mirror progress into
	// internal/store without Run needing to know that store exists.
	OnGeneration func(generation int, bestReward, meanFitness float64)
}

// DefaultConfig matches the "paper config" defaults referenced throughout
// original_source/all.py's training entry points.
func DefaultConfig() Config {
	return Config{
		BatchSize:       64,
		ProgramLength:   32,
		Cxpb:            0.5,
		Mutpb:           0.05,
		HallOfFameSize:  2,
		Ngen:            0,
		CheckpointEvery: 100,
	}
}

// Engine runs the generational GA loop against one scoring.Manager.
type Engine struct {
	cfg         Config
	manager     *scoring.Manager
	rng         *rand.Rand
	rewardCache map[string]cachedScore
	hallOfFame  *dsa.MaxUniquePriorityQueue
	Generation  int
	// RunID labels this engine's Prometheus series; defaults to "default"
	// when unset so single-run callers don't need to pick one.
	RunID string
}

type cachedScore struct {
	fitness float64
	reason  string
}

// NewEngine constructs an Engine with an empty reward cache and hall of fame.
func NewEngine(manager *scoring.Manager, cfg Config, rng *rand.Rand) *Engine {
	return &Engine{
		cfg:         cfg,
		manager:     manager,
		rng:         rng,
		rewardCache: make(map[string]cachedScore),
		hallOfFame:  dsa.NewMaxUniquePriorityQueue(cfg.HallOfFameSize),
		RunID:       "default",
	}
}

// evaluate fills in fitness/reason for every individual in pop whose fitness
// is unset, consulting and populating the reward cache keyed by program
// string (spec.md §4.7's "Reward cache: string -> float", extended here to
// also remember the reason string so generation-level termination checks
// don't need to rescore a cached individual).
func (e *Engine) evaluate(pop Population) {
	for i := range pop {
		if pop[i].HasFitness() {
			continue
		}
		if cached, ok := e.rewardCache[pop[i].Program]; ok {
			setFitness(&pop[i], cached.fitness, cached.reason)
			continue
		}
		record := e.manager.Score(pop[i].Program)
		observability.ProgramsEvaluated.WithLabelValues("ga").Inc()
		fitness := record.EpisodeRewards[len(record.EpisodeRewards)-1]
		setFitness(&pop[i], fitness, record.Reason)
		e.rewardCache[pop[i].Program] = cachedScore{fitness: fitness, reason: record.Reason}
	}
}

// selectPool draws poolSize parents with replacement, proportional to
// shifted fitness weights, via a fresh internal/dsa.RouletteWheel built from
// the current population every generation.
func (e *Engine) selectPool(pop Population, poolSize int) (Population, error) {
	wheel := dsa.New(dsa.WithSource(e.rng))
	for i, ind := range pop {
		w := shiftedWeight(ind.FitnessValue())
		if w <= 0 {
			return nil, fmt.Errorf("ga: non-positive shifted weight for individual %d", i)
		}
		if _, err := wheel.Add(ind, w, ""); err != nil {
			return nil, err
		}
	}
	drawn, err := wheel.SampleMany(poolSize)
	if err != nil {
		return nil, err
	}
	pool := make(Population, poolSize)
	for i, v := range drawn {
		pool[i] = v.Obj.(Individual)
	}
	return pool, nil
}

// RunGeneration advances pop by exactly one generation: selection, crossover
// + mutation, evaluation, and hall-of-fame elitism. Returns the new
// population (length BatchSize, since the hall of fame is appended back on
// top of the selection pool).
func (e *Engine) RunGeneration(pop Population) (Population, error) {
	e.evaluate(pop)

	// Reserve room for the hall of fame's full capacity, not just its
	// current occupancy, so the population returned below never exceeds
	// BatchSize even in early generations before the hall of fame fills up.
	poolSize := e.cfg.BatchSize - e.cfg.HallOfFameSize
	if poolSize < 0 {
		poolSize = 0
	}

	pool, err := e.selectPool(pop, poolSize)
	if err != nil {
		return nil, err
	}

	children := make(Population, 0, poolSize)
	for i := 0; i+1 < len(pool); i += 2 {
		a, b := pool[i].Program, pool[i+1].Program
		if e.rng.Float64() < e.cfg.Cxpb {
			a, b = onePointCrossover(e.rng, a, b)
		}
		children = append(children,
			Individual{Program: mutate(e.rng, a, e.cfg.Mutpb)},
			Individual{Program: mutate(e.rng, b, e.cfg.Mutpb)},
		)
	}
	if len(pool)%2 == 1 {
		last := pool[len(pool)-1]
		children = append(children, Individual{Program: mutate(e.rng, last.Program, e.cfg.Mutpb)})
	}

	e.evaluate(children)

	for _, child := range children {
		e.hallOfFame.Push(child.FitnessValue(), child.Program, child)
	}

	next := make(Population, 0, e.cfg.BatchSize)
	next = append(next, children...)
	for _, item := range e.hallOfFame.IterInOrder() {
		next = append(next, item.Value.(Individual))
	}

	e.Generation++
	if best := next.Best(); best.HasFitness() {
		observability.BestRewardGauge.WithLabelValues(e.RunID).Set(best.FitnessValue())
	}
	return next, nil
}

// Terminated reports whether pop contains an individual scored "correct".
func Terminated(pop Population) bool {
	for _, ind := range pop {
		if ind.Reason == "correct" {
			return true
		}
	}
	return false
}
