package tasks

import (
	"fmt"
	"sync"
)

// Registry maintains the set of tasks available to an experiment, keyed by
// name. Grounded on the reference pack's internal/agents Registry
// (Register/Get/List/Count/DefaultRegistry shape), adapted from an
// HTTP-handler registry to a task-constructor registry.
type Registry struct {
	mu    sync.RWMutex
	tasks map[string]Task
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]Task)}
}

// Register adds a task, keyed by its own Name(). A later Register call with
// the same name overwrites the earlier one.
func (r *Registry) Register(t Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.Name()] = t
}

// Get retrieves a task by name.
func (r *Registry) Get(name string) (Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[name]
	if !ok {
		return nil, fmt.Errorf("task not found: %s", name)
	}
	return t, nil
}

// List returns the names of every registered task, unordered.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		names = append(names, name)
	}
	return names
}

// Count returns the number of registered tasks.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}

// defaultSeed is used for every built-in seeded-generator task so a fresh
// DefaultRegistry() always reproduces the same case sets, matching
// original_source/all.py's paper-config task settings (n=16 cases unless
// noted otherwise).
const defaultSeed = 0x5be11ac0de

const defaultN = 16

// DefaultRegistry builds a registry with the representative task set named
// in SPEC_FULL.md §4.3, mirroring original_source/all.py's make_task mapping
// at the "paper config" defaults (n=16 test cases, base 256 unless the
// original's table specifies otherwise).
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewPrintTask("print-hello", 27, []int{8, 5, 12, 12, 15}))
	r.Register(NewEchoTask(27, 1, 6, defaultN, defaultSeed))
	r.Register(NewReverseTask(256, 1, 6, defaultN, defaultSeed+1))
	r.Register(NewRemoveCharTask(256, 1, 6, defaultN, defaultSeed+2))
	r.Register(NewCountOccurrencesTask(256, 1, 6, defaultN, defaultSeed+3))
	r.Register(NewAddModBaseTask(256, 9, defaultSeed+4))
	r.Register(NewBooleanTruthTableTask())
	r.Register(NewShiftLeftTask(256, 2, 6, defaultN, defaultSeed+5))
	r.Register(NewShiftRightTask(256, 2, 6, defaultN, defaultSeed+6))
	r.Register(NewLengthTask(256, 1, 6, defaultN, defaultSeed+7))
	r.Register(NewMultiplyTask(512, 100, defaultSeed+8))
	r.Register(NewDivModTask(512, 100, defaultSeed+9))
	r.Register(NewDivideByTwoTask(256, defaultN, defaultSeed+10))
	r.Register(NewDedupTask(256, 2, 8, defaultN, defaultSeed+11))
	r.Register(NewFibonacciPairsTask(256, 16))
	r.Register(NewBottlesOfBeerTask(256, []int{10}))
	r.Register(NewRiffleTask(256, 4, defaultN, defaultSeed+12))
	r.Register(NewUnriffleTask(256, 4, defaultN, defaultSeed+13))
	r.Register(NewSubstringTask(256, 8, defaultN, defaultSeed+14))
	r.Register(NewJudgeRouteCircleTask(100, 32, defaultSeed+15))
	return r
}
