// Package storage keeps finished runs in a SQLite database: one row per
// run plus its samples.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/san-kum/dynpoly/internal/assembly"
	"github.com/san-kum/dynpoly/internal/sim"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at TEXT NOT NULL,
	seed       INTEGER NOT NULL,
	dt         REAL NOT NULL,
	steps      INTEGER NOT NULL,
	integrator TEXT NOT NULL,
	species    BLOB NOT NULL,
	metrics    BLOB NOT NULL,
	config     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS samples (
	run_id         TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	step           INTEGER NOT NULL,
	time           REAL NOT NULL,
	monomers       INTEGER NOT NULL,
	free           INTEGER NOT NULL,
	polymerized    INTEGER NOT NULL,
	chains         INTEGER NOT NULL,
	mean_chain     REAL NOT NULL,
	max_chain      INTEGER NOT NULL,
	atp            INTEGER NOT NULL,
	adp_pi         INTEGER NOT NULL,
	adp            INTEGER NOT NULL,
	bond_energy    REAL NOT NULL,
	kinetic_energy REAL NOT NULL,
	bound          INTEGER NOT NULL,
	unbound        INTEGER NOT NULL,
	dissolved      INTEGER NOT NULL,
	transitions    INTEGER NOT NULL,
	PRIMARY KEY (run_id, step)
);`

const sampleColumns = `step, time, monomers, free, polymerized, chains, mean_chain, max_chain,
	atp, adp_pi, adp, bond_energy, kinetic_energy, bound, unbound, dissolved, transitions`

type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	Integrator string             `json:"integrator"`
	Species    []string           `json:"species"`
	Metrics    map[string]float64 `json:"metrics"`
	// Config is the YAML the run was built from.
	Config string `json:"config,omitempty"`
}

// Open creates the database file and its directory if needed.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps pragmas in effect and serializes writers.
	db.SetMaxOpenConns(1)
	s := &Store{db: db, path: path, logger: logger}
	if err := s.Init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Init creates the schema; it is safe to call more than once.
func (s *Store) Init() error {
	if _, err := s.db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }
func (s *Store) Path() string { return s.path }

// Save stores meta and every sample of result in one transaction. An
// empty meta.ID gets a fresh UUID and a zero Timestamp becomes now.
func (s *Store) Save(ctx context.Context, meta RunMetadata, result *sim.Result) (id string, retErr error) {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now().UTC()
	}
	if meta.Metrics == nil {
		meta.Metrics = result.Metrics
	}
	species, err := json.Marshal(meta.Species)
	if err != nil {
		return "", fmt.Errorf("encode species: %w", err)
	}
	metrics, err := json.Marshal(meta.Metrics)
	if err != nil {
		return "", fmt.Errorf("encode metrics: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs(id, name, created_at, seed, dt, steps, integrator, species, metrics, config)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.Name, meta.Timestamp.Format(time.RFC3339Nano), meta.Seed, meta.Dt, meta.Steps,
		meta.Integrator, species, metrics, meta.Config,
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO samples(run_id, `+sampleColumns+`) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare samples: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, sm := range result.Samples {
		if _, err := stmt.ExecContext(ctx, meta.ID,
			sm.Step, sm.Time, sm.Monomers, sm.Free, sm.Polymerized, sm.Chains, sm.MeanChain, sm.MaxChain,
			sm.ATP, sm.ADPPi, sm.ADP, sm.BondEnergy, sm.KineticEnergy,
			sm.Totals.Bound, sm.Totals.Unbound, sm.Totals.Dissolved, sm.Totals.Transitions,
		); err != nil {
			return "", fmt.Errorf("insert sample %d: %w", sm.Step, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	s.logger.Debug("run saved", zap.String("id", meta.ID), zap.Int("samples", len(result.Samples)))
	return meta.ID, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunMetadata, error) {
	var (
		meta             RunMetadata
		created          string
		species, metrics []byte
	)
	if err := row.Scan(&meta.ID, &meta.Name, &created, &meta.Seed, &meta.Dt, &meta.Steps,
		&meta.Integrator, &species, &metrics, &meta.Config); err != nil {
		return meta, err
	}
	ts, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return meta, fmt.Errorf("parse timestamp: %w", err)
	}
	meta.Timestamp = ts
	if err := json.Unmarshal(species, &meta.Species); err != nil {
		return meta, fmt.Errorf("decode species: %w", err)
	}
	if err := json.Unmarshal(metrics, &meta.Metrics); err != nil {
		return meta, fmt.Errorf("decode metrics: %w", err)
	}
	return meta, nil
}

const runColumns = `id, name, created_at, seed, dt, steps, integrator, species, metrics, config`

// List returns every run, newest first.
func (s *Store) List(ctx context.Context) ([]RunMetadata, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	runs := make([]RunMetadata, 0)
	for rows.Next() {
		meta, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

func (s *Store) Load(ctx context.Context, id string) (*RunMetadata, error) {
	meta, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}
	return &meta, nil
}

// LoadSamples returns the samples of run id in step order.
func (s *Store) LoadSamples(ctx context.Context, id string) ([]sim.Sample, error) {
	if _, err := s.Load(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+sampleColumns+` FROM samples WHERE run_id = ? ORDER BY step`, id)
	if err != nil {
		return nil, fmt.Errorf("select samples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	samples := make([]sim.Sample, 0)
	for rows.Next() {
		var (
			sm sim.Sample
			t  assembly.PassStats
		)
		if err := rows.Scan(&sm.Step, &sm.Time, &sm.Monomers, &sm.Free, &sm.Polymerized, &sm.Chains,
			&sm.MeanChain, &sm.MaxChain, &sm.ATP, &sm.ADPPi, &sm.ADP, &sm.BondEnergy, &sm.KineticEnergy,
			&t.Bound, &t.Unbound, &t.Dissolved, &t.Transitions); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		sm.Totals = t
		samples = append(samples, sm)
	}
	return samples, rows.Err()
}

// Delete removes a run and its samples.
func (s *Store) Delete(ctx context.Context, id string) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM samples WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("delete samples %s: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return tx.Commit()
}
