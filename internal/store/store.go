package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"regen/internal/retry"
)

// Common errors
var (
	ErrConnectionFailed = errors.New("database connection failed")
	ErrQueryTimeout     = errors.New("query timeout")
	ErrPoolExhausted    = errors.New("connection pool exhausted")
	ErrNotFound         = errors.New("not found")
)

// Run records one invocation of the solver against a transcript: the
// LCG it searched under and the label the caller attached to the
// transcript (a request ID, a log line, whatever identifies where the
// observations came from).
type Run struct {
	ID         int64     `json:"id"`
	Label      string    `json:"label"`
	Multiplier string    `json:"multiplier"`
	Increment  string    `json:"increment"`
	Modulus    string    `json:"modulus"`
	CallCount  int       `json:"call_count"`
	Candidates int       `json:"candidates"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// Seed is one recovered candidate belonging to a Run. Value is the
// raw register state immediately after the original seeding call,
// stored as decimal text since a 48-bit (or wider) register can
// exceed an int64 for some LCG families.
type Seed struct {
	RunID int64  `json:"run_id"`
	Value string `json:"value"`
}

// Stats summarizes accumulated solver activity.
type Stats struct {
	TotalRuns    int  `json:"total_runs"`
	TotalSeeds   int  `json:"total_seeds"`
	UnsolvedRuns int  `json:"unsolved_runs"`
	Healthy      bool `json:"healthy"`
}

// HealthStatus represents database health.
type HealthStatus struct {
	Connected       bool   `json:"connected"`
	LatencyMs       int64  `json:"latency_ms"`
	OpenConnections int    `json:"open_connections"`
	Error           string `json:"error,omitempty"`
}

// Store wraps the persistence layer for solve runs and their
// recovered seeds.
type Store struct {
	conn *sql.DB
}

// New opens a connection pool against databaseURL and runs migrations.
func New(databaseURL string) (*Store, error) {
	conn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)
	conn.SetConnMaxIdleTime(1 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pingErr := retry.Do(ctx, retry.DefaultConfig(), func() error {
		return conn.PingContext(ctx)
	})
	if pingErr != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, pingErr)
	}

	s := &Store{conn: conn}
	if err := s.migrate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS solve_runs (
			id BIGSERIAL PRIMARY KEY,
			label TEXT NOT NULL DEFAULT '',
			multiplier TEXT NOT NULL,
			increment TEXT NOT NULL,
			modulus TEXT NOT NULL,
			call_count INT NOT NULL,
			candidates INT NOT NULL DEFAULT 0,
			duration_ms BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_solve_runs_created_at ON solve_runs(created_at);

		CREATE TABLE IF NOT EXISTS recovered_seeds (
			run_id BIGINT NOT NULL REFERENCES solve_runs(id) ON DELETE CASCADE,
			value TEXT NOT NULL,
			PRIMARY KEY (run_id, value)
		);
	`)
	return err
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Health checks database connectivity.
func (s *Store) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{}
	start := time.Now()
	err := s.conn.PingContext(ctx)
	status.LatencyMs = time.Since(start).Milliseconds()

	if err != nil {
		status.Error = err.Error()
		return status
	}

	status.Connected = true
	status.OpenConnections = s.conn.Stats().OpenConnections
	return status
}

func (s *Store) wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "53300":
			return fmt.Errorf("%w: %v", ErrPoolExhausted, err)
		case "57014":
			return fmt.Errorf("%w: %v", ErrQueryTimeout, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrQueryTimeout, err)
	}
	return err
}

// SaveRun records a completed solve and its recovered seeds in one
// transaction, returning the run's assigned ID.
func (s *Store) SaveRun(ctx context.Context, run *Run, seeds []string) (int64, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, s.wrapError(err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO solve_runs (label, multiplier, increment, modulus, call_count, candidates, duration_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		run.Label, run.Multiplier, run.Increment, run.Modulus, run.CallCount, len(seeds), run.DurationMs,
	).Scan(&id)
	if err != nil {
		return 0, s.wrapError(err)
	}

	for _, seed := range seeds {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recovered_seeds (run_id, value) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			id, seed,
		); err != nil {
			return 0, s.wrapError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, s.wrapError(err)
	}
	return id, nil
}

// GetRun returns a run by ID along with its recovered seeds.
func (s *Store) GetRun(ctx context.Context, id int64) (*Run, []string, error) {
	run := &Run{ID: id}
	err := s.conn.QueryRowContext(ctx,
		`SELECT label, multiplier, increment, modulus, call_count, candidates, duration_ms, created_at
		 FROM solve_runs WHERE id = $1`, id,
	).Scan(&run.Label, &run.Multiplier, &run.Increment, &run.Modulus,
		&run.CallCount, &run.Candidates, &run.DurationMs, &run.CreatedAt)
	if err != nil {
		return nil, nil, s.wrapError(err)
	}

	rows, err := s.conn.QueryContext(ctx, `SELECT value FROM recovered_seeds WHERE run_id = $1 ORDER BY value`, id)
	if err != nil {
		return run, nil, s.wrapError(err)
	}
	defer rows.Close()

	var seeds []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			continue
		}
		seeds = append(seeds, v)
	}
	return run, seeds, nil
}

// ListRuns returns the most recently created runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, label, multiplier, increment, modulus, call_count, candidates, duration_ms, created_at
		 FROM solve_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, s.wrapError(err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Label, &r.Multiplier, &r.Increment, &r.Modulus,
			&r.CallCount, &r.Candidates, &r.DurationMs, &r.CreatedAt); err != nil {
			continue
		}
		runs = append(runs, r)
	}
	return runs, nil
}

// GetStats returns aggregate statistics across every run.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{Healthy: true}

	health := s.Health(ctx)
	if !health.Connected {
		stats.Healthy = false
		return stats, nil
	}

	s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM solve_runs").Scan(&stats.TotalRuns)
	s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM recovered_seeds").Scan(&stats.TotalSeeds)
	s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM solve_runs WHERE candidates = 0").Scan(&stats.UnsolvedRuns)

	return stats, nil
}
