// Package simulator provides a Runner that stamps simulation runs and a
// sqlite-backed trace store so `upgrade-check` can diff violation traces
// between two simulation runs of old vs. new program models. The
// reference Simulator implementation is pkg/registry.RefSimulator.
package simulator

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/Emmyhack/invar/internal/model"
)

// Store persists SimulationReport traces keyed by RunID to a local
// sqlite file.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if necessary) a sqlite trace store at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening trace store: %w", err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS simulation_runs (
	run_id     TEXT PRIMARY KEY,
	program    TEXT NOT NULL,
	chain      TEXT NOT NULL,
	seed       INTEGER NOT NULL,
	violations INTEGER NOT NULL,
	coverage   REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS simulation_traces (
	run_id TEXT NOT NULL,
	idx    INTEGER NOT NULL,
	trace  TEXT NOT NULL,
	PRIMARY KEY (run_id, idx)
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating trace store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// SaveReport persists one simulation run, identified by runID, against
// a named program.
func (s *Store) SaveReport(runID, program, chain string, report model.SimulationReport) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT OR REPLACE INTO simulation_runs (run_id, program, chain, seed, violations, coverage) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, program, chain, report.Seed, report.Violations, report.Coverage,
	)
	if err != nil {
		return fmt.Errorf("inserting run row: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM simulation_traces WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("clearing prior traces: %w", err)
	}
	for i, trace := range report.Traces {
		if _, err := tx.Exec(`INSERT INTO simulation_traces (run_id, idx, trace) VALUES (?, ?, ?)`, runID, i, trace); err != nil {
			return fmt.Errorf("inserting trace row: %w", err)
		}
	}

	return tx.Commit()
}

// LoadTraces returns the stored trace lines for runID, in insertion order.
func (s *Store) LoadTraces(runID string) ([]string, error) {
	rows, err := s.db.Query(`SELECT trace FROM simulation_traces WHERE run_id = ? ORDER BY idx ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying traces: %w", err)
	}
	defer rows.Close()

	var traces []string
	for rows.Next() {
		var trace string
		if err := rows.Scan(&trace); err != nil {
			return nil, fmt.Errorf("scanning trace row: %w", err)
		}
		traces = append(traces, trace)
	}
	return traces, rows.Err()
}

// DiffTraces reports traces present in newRunID but absent from
// oldRunID, for `upgrade-check`'s old-vs-new comparison.
func (s *Store) DiffTraces(oldRunID, newRunID string) ([]string, error) {
	oldTraces, err := s.LoadTraces(oldRunID)
	if err != nil {
		return nil, err
	}
	newTraces, err := s.LoadTraces(newRunID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(oldTraces))
	for _, t := range oldTraces {
		seen[t] = true
	}

	var added []string
	for _, t := range newTraces {
		if !seen[t] {
			added = append(added, t)
		}
	}
	return added, nil
}
