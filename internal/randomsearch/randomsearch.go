// Package randomsearch implements the uniform-random baseline search
// engine: it samples token strings uniformly at random from the execution
// alphabet until either a correct solution is found or a program budget is
// exhausted. Grounded on spec.md §4.8; status-file persistence follows the
// same atomic-rename discipline as internal/ga's checkpoint.
package randomsearch

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/evosynth/evosynth/internal/domain"
	"github.com/evosynth/evosynth/internal/observability"
	"github.com/evosynth/evosynth/internal/scoring"
)

// Status is the small counter file spec.md §4.8/§6 describes:
// num_programs_seen, found_solution_flag, best_code, best_reward.
type Status struct {
	NumProgramsSeen int
	FoundSolution   bool
	BestCode        string
	BestReward      float64
}

// Config configures one random-search run.
type Config struct {
	ProgramLength  int
	MaxNumPrograms int // 0 = unlimited
	FlushEvery     int // iterations between status-file flushes
	StatusPath     string
	// OnFlush, if set, is called every time the status is flushed
	// (including the terminal flush), so a caller can mirror progress into
	// internal/store without Run needing to know that store exists.
	OnFlush func(status Status)
}

// DefaultConfig matches spec.md §4.8's "every 1000 iterations" flush cadence.
func DefaultConfig(programLength int) Config {
	return Config{ProgramLength: programLength, FlushEvery: 1000}
}

func randomProgram(rng *rand.Rand, length int) string {
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = domain.Alphabet[rng.Intn(len(domain.Alphabet))]
	}
	return string(buf)
}

// Result is what Run returns once it stops.
type Result struct {
	Status Status
}

// Run samples programs until a correct solution is found or
// cfg.MaxNumPrograms is reached (0 meaning unlimited), per spec.md §4.8.
// If cfg.StatusPath names an existing, valid status file, the run resumes
// its NumProgramsSeen/BestReward/BestCode counters from it.
func Run(manager *scoring.Manager, cfg Config, seed int64) (Result, error) {
	rng := rand.New(rand.NewSource(seed))
	var status Status
	if cfg.StatusPath != "" {
		if loaded, err := LoadStatus(cfg.StatusPath); err == nil {
			status = loaded
		}
	}

	for cfg.MaxNumPrograms == 0 || status.NumProgramsSeen < cfg.MaxNumPrograms {
		code := randomProgram(rng, cfg.ProgramLength)
		record := manager.Score(code)
		observability.ProgramsEvaluated.WithLabelValues("randomsearch").Inc()
		status.NumProgramsSeen++
		reward := record.EpisodeRewards[len(record.EpisodeRewards)-1]

		if status.NumProgramsSeen == 1 || reward > status.BestReward {
			status.BestReward = reward
			status.BestCode = code
		}

		if record.Reason == "correct" {
			status.FoundSolution = true
			status.BestCode = code
			status.BestReward = reward
			observability.SolutionsFound.WithLabelValues(manager.TaskName(), "randomsearch").Inc()
			if cfg.StatusPath != "" {
				if err := SaveStatus(cfg.StatusPath, status); err != nil {
					return Result{}, err
				}
				observability.CheckpointWrites.WithLabelValues("randomsearch").Inc()
			}
			if cfg.OnFlush != nil {
				cfg.OnFlush(status)
			}
			return Result{Status: status}, nil
		}

		if cfg.StatusPath != "" && cfg.FlushEvery > 0 && status.NumProgramsSeen%cfg.FlushEvery == 0 {
			if err := SaveStatus(cfg.StatusPath, status); err != nil {
				return Result{}, err
			}
			observability.CheckpointWrites.WithLabelValues("randomsearch").Inc()
			if cfg.OnFlush != nil {
				cfg.OnFlush(status)
			}
		}
	}

	if cfg.StatusPath != "" {
		if err := SaveStatus(cfg.StatusPath, status); err != nil {
			return Result{}, err
		}
	}
	if cfg.OnFlush != nil {
		cfg.OnFlush(status)
	}
	return Result{Status: status}, nil
}

// SaveStatus writes status as 2-4 text lines per spec.md §6:
// "num_programs_seen\nfound_flag\n[best_code]\n[best_reward]", atomically.
func SaveStatus(path string, status Status) error {
	var buf []byte
	buf = append(buf, strconv.Itoa(status.NumProgramsSeen)...)
	buf = append(buf, '\n')
	buf = append(buf, strconv.FormatBool(status.FoundSolution)...)
	buf = append(buf, '\n')
	if status.BestCode != "" || status.BestReward != 0 {
		buf = append(buf, status.BestCode...)
		buf = append(buf, '\n')
		buf = append(buf, strconv.FormatFloat(status.BestReward, 'g', -1, 64)...)
		buf = append(buf, '\n')
	}

	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.tmp", uuid.NewString()))
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadStatus parses a status file written by SaveStatus. A missing file or
// malformed line count is reported as an error; callers should treat any
// error here as "start fresh."
func LoadStatus(path string) (Status, error) {
	f, err := os.Open(path)
	if err != nil {
		return Status{}, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return Status{}, err
	}
	if len(lines) < 2 {
		return Status{}, fmt.Errorf("randomsearch: status file %s has %d lines, want at least 2", path, len(lines))
	}

	seen, err := strconv.Atoi(lines[0])
	if err != nil {
		return Status{}, fmt.Errorf("randomsearch: parsing num_programs_seen: %w", err)
	}
	found, err := strconv.ParseBool(lines[1])
	if err != nil {
		return Status{}, fmt.Errorf("randomsearch: parsing found_flag: %w", err)
	}
	status := Status{NumProgramsSeen: seen, FoundSolution: found}
	if len(lines) >= 4 {
		status.BestCode = lines[2]
		reward, err := strconv.ParseFloat(lines[3], 64)
		if err != nil {
			return Status{}, fmt.Errorf("randomsearch: parsing best_reward: %w", err)
		}
		status.BestReward = reward
	}
	return status, nil
}
