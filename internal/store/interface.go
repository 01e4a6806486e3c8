package store

import "context"

// Database defines the interface for solve-run persistence, allowing
// the service layer to run against either a real Postgres-backed
// Store or a MockStore in tests.
type Database interface {
	Close() error
	Health(ctx context.Context) HealthStatus
	SaveRun(ctx context.Context, run *Run, seeds []string) (int64, error)
	GetRun(ctx context.Context, id int64) (*Run, []string, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	GetStats(ctx context.Context) (*Stats, error)
}

var _ Database = (*Store)(nil)
var _ Database = (*MockStore)(nil)
