// Package store provides an optional sqlite-backed telemetry sink for
// search runs: per-generation snapshots and per-run summaries, queryable
// after the fact. It observes a run but never participates in its control
// flow — the GA/random-search engines succeed or fail identically whether
// or not a Store is attached. Grounded on
// internal/infra/sqlite/phase3.go's schema/query style
// (`CREATE TABLE IF NOT EXISTS` migrations, Upsert/Get method pairs,
// `datetime('now')` defaults); the retrieved pack never included the
// connection-opening scaffolding itself (no `DB`/`New`/`Open` survived
// filtering, only the schema and query methods), so that part is written
// fresh against the standard `database/sql` + `modernc.org/sqlite` driver
// registration idiom.
package store

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a sqlite connection holding this run's telemetry.
type DB struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// applies migrations.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1) // modernc.org/sqlite is not safe for concurrent writers
	db := &DB{db: sqlDB}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.db.Close()
}

// Migrations returns the schema migration statements, one statement each.
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS generation_snapshots (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       TEXT NOT NULL,
			generation   INTEGER NOT NULL,
			best_reward  REAL NOT NULL,
			mean_fitness REAL NOT NULL,
			recorded_at  TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_generation_snapshots_run ON generation_snapshots(run_id, generation)`,

		`CREATE TABLE IF NOT EXISTS run_summaries (
			run_id       TEXT PRIMARY KEY,
			task         TEXT NOT NULL,
			engine       TEXT NOT NULL,
			seed         INTEGER NOT NULL,
			solved       INTEGER NOT NULL DEFAULT 0,
			best_reward  REAL NOT NULL DEFAULT 0,
			code_solution TEXT,
			npe          INTEGER NOT NULL DEFAULT 0,
			started_at   TEXT NOT NULL DEFAULT (datetime('now')),
			finished_at  TEXT
		)`,
	}
}

func (db *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordGenerationSnapshot inserts one generation's progress row.
func (db *DB) RecordGenerationSnapshot(runID string, generation int, bestReward, meanFitness float64) error {
	_, err := db.db.Exec(`
		INSERT INTO generation_snapshots (run_id, generation, best_reward, mean_fitness)
		VALUES (?, ?, ?, ?)
	`, runID, generation, bestReward, meanFitness)
	return err
}

// GenerationSnapshot is one row from generation_snapshots.
type GenerationSnapshot struct {
	Generation  int
	BestReward  float64
	MeanFitness float64
	RecordedAt  time.Time
}

// ListGenerationSnapshots returns every recorded generation for runID, in
// generation order.
func (db *DB) ListGenerationSnapshots(runID string) ([]GenerationSnapshot, error) {
	rows, err := db.db.Query(`
		SELECT generation, best_reward, mean_fitness, recorded_at
		FROM generation_snapshots WHERE run_id = ? ORDER BY generation
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GenerationSnapshot
	for rows.Next() {
		var s GenerationSnapshot
		if err := rows.Scan(&s.Generation, &s.BestReward, &s.MeanFitness, &s.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// StartRun inserts a new run_summaries row at run start.
func (db *DB) StartRun(runID, task, engine string, seed int64) error {
	_, err := db.db.Exec(`
		INSERT INTO run_summaries (run_id, task, engine, seed)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET task = excluded.task, engine = excluded.engine, seed = excluded.seed
	`, runID, task, engine, seed)
	return err
}

// FinishRun records a run's terminal outcome.
func (db *DB) FinishRun(runID string, solved bool, bestReward float64, codeSolution string, npe int) error {
	solvedInt := 0
	if solved {
		solvedInt = 1
	}
	_, err := db.db.Exec(`
		UPDATE run_summaries
		SET solved = ?, best_reward = ?, code_solution = ?, npe = ?, finished_at = datetime('now')
		WHERE run_id = ?
	`, solvedInt, bestReward, codeSolution, npe, runID)
	return err
}

// RunSummary is one row from run_summaries.
type RunSummary struct {
	RunID        string
	Task         string
	Engine       string
	Seed         int64
	Solved       bool
	BestReward   float64
	CodeSolution sql.NullString
	NPE          int
}

// GetRunSummary fetches a single run's summary row.
func (db *DB) GetRunSummary(runID string) (RunSummary, error) {
	var s RunSummary
	var solvedInt int
	err := db.db.QueryRow(`
		SELECT run_id, task, engine, seed, solved, best_reward, code_solution, npe
		FROM run_summaries WHERE run_id = ?
	`, runID).Scan(&s.RunID, &s.Task, &s.Engine, &s.Seed, &solvedInt, &s.BestReward, &s.CodeSolution, &s.NPE)
	s.Solved = solvedInt == 1
	return s, err
}
