// Package observability exposes Prometheus metrics for the search engines
// and interpreter. Grounded on
// internal/infra/observability/observability.go's promauto-based metric
// declarations (Namespace/Subsystem/Name/Help convention, CounterVec by a
// label dimension, Histogram for latency); the teacher's in-memory
// ring-buffer span Tracer is dropped since no component here makes a
// distributed call worth tracing — evaluation is a single in-process loop,
// not a request fanned out across services.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ProgramsEvaluated counts total scoring.Manager.Score invocations, labeled
// by the search engine that issued them ("ga" or "randomsearch").
var ProgramsEvaluated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "evosynth",
	Subsystem: "search",
	Name:      "programs_evaluated_total",
	Help:      "Total programs scored, by search engine.",
}, []string{"engine"})

// InterpreterOutcomes counts interpreter runs by terminal status
// ("success", "timeout", "step-limit", "syntax-error").
var InterpreterOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "evosynth",
	Subsystem: "interp",
	Name:      "outcomes_total",
	Help:      "Total interpreter invocations, by terminal status.",
}, []string{"status"})

// SolutionsFound counts runs that reached reason=="correct", labeled by
// task name and engine.
var SolutionsFound = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "evosynth",
	Subsystem: "search",
	Name:      "solutions_found_total",
	Help:      "Total runs that found a correct solution, by task and engine.",
}, []string{"task", "engine"})

// BestRewardGauge tracks the best reward seen so far in the current
// process, labeled by run id.
var BestRewardGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "evosynth",
	Subsystem: "search",
	Name:      "best_reward",
	Help:      "Best reward observed so far, by run id.",
}, []string{"run_id"})

// GenerationDuration observes wall-clock time spent per GA generation.
var GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "evosynth",
	Subsystem: "ga",
	Name:      "generation_duration_seconds",
	Help:      "Wall-clock time per GA generation.",
	Buckets:   prometheus.DefBuckets,
})

// CheckpointWrites counts checkpoint/status-file writes, by kind ("ga" or
// "randomsearch").
var CheckpointWrites = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "evosynth",
	Subsystem: "persistence",
	Name:      "checkpoint_writes_total",
	Help:      "Total checkpoint or status-file writes, by kind.",
}, []string{"kind"})
