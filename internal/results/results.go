// Package results implements the sharded append-only results log spec.md
// §4.9 describes: each worker owns a shard id and appends one record per
// line to experiment_results_{S}.txt, using append+flush so readers never
// observe a partial record. Grounded on spec.md §4.9/§6/§8 directly (no
// surviving Python source for this module); record encoding reuses
// internal/literal, the same "k=v,..." grammar spec.md §6 assigns to the
// configuration surface.
package results

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// Record is one completed run's final status, per spec.md §6's required
// field list for a results-shard entry.
type Record struct {
	MaxNPE               int
	MaxGlobalRepetitions int
	MaxLocalRepetitions  int
	NPE                  int
	BatchSize            int
	NumBatches           int
	FoundSolution        bool
	BestReward           float64
	CodeSolution         string
	Task                 string
	GlobalRep            int
}

var shardNameRe = regexp.MustCompile(`^experiment_results_([0-9]+)\.txt$`)

// shardPath returns the on-disk path for shard id within dir.
func shardPath(dir string, shard int) string {
	return filepath.Join(dir, fmt.Sprintf("experiment_results_%d.txt", shard))
}

// Writer appends records to a single shard's log file, fsyncing after every
// write so a crash never leaves a reader looking at a partial line.
type Writer struct {
	shard int
	path  string
}

// NewWriter returns a Writer bound to shard id within dir. The file is not
// opened until the first Append call.
func NewWriter(dir string, shard int) *Writer {
	return &Writer{shard: shard, path: shardPath(dir, shard)}
}

// Append serializes r as one literal-grammar line and appends it to the
// shard file, flushing to disk before returning.
func (w *Writer) Append(r Record) error {
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	line := Encode(r) + "\n"
	if _, err := f.WriteString(line); err != nil {
		return err
	}
	return f.Sync()
}

// DiscoverShards lists dir and returns every shard id whose file matches
// the ^experiment_results_([0-9]+)\.txt$ naming convention, ascending.
func DiscoverShards(dir string) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var shards []int
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := shardNameRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		shards = append(shards, id)
	}
	sort.Ints(shards)
	return shards, nil
}

// ReadShard reads every well-formed record in a shard's file, dropping a
// truncated trailing line (a partial write from a crash mid-append) rather
// than failing the whole read.
func ReadShard(dir string, shard int) ([]Record, error) {
	f, err := os.Open(shardPath(dir, shard))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		rec, err := Decode(line)
		if err != nil {
			// A truncated final record is tolerated per spec.md §8; a
			// malformed interior record indicates real corruption and is
			// still skipped rather than aborting the whole shard read.
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ShardStatus reports one shard's completion state.
type ShardStatus struct {
	Shard             int
	Completed         int
	MaxLocalRepetitions int
	Finished          bool
}

// Aggregate implements spec.md §4.9/§8 invariant 7's read_all(num_shards=N):
// it reads every discovered shard (capped to the first numShards ids when
// numShards > 0), reports per-shard completion, and returns the full
// set-equal union of all records.
func Aggregate(dir string, numShards int) ([]Record, []ShardStatus, error) {
	shardIDs, err := DiscoverShards(dir)
	if err != nil {
		return nil, nil, err
	}
	if numShards > 0 && len(shardIDs) > numShards {
		shardIDs = shardIDs[:numShards]
	}

	var all []Record
	statuses := make([]ShardStatus, 0, len(shardIDs))
	for _, id := range shardIDs {
		recs, err := ReadShard(dir, id)
		if err != nil {
			return nil, nil, err
		}
		all = append(all, recs...)

		maxLocal := 0
		if len(recs) > 0 {
			maxLocal = recs[0].MaxLocalRepetitions
		}
		statuses = append(statuses, ShardStatus{
			Shard:               id,
			Completed:           len(recs),
			MaxLocalRepetitions: maxLocal,
			Finished:            maxLocal > 0 && len(recs) >= maxLocal,
		})
	}
	return all, statuses, nil
}
