package store

import (
	"context"
	"sync"
	"time"
)

// MockStore is an in-memory Database for demos and tests.
type MockStore struct {
	mu      sync.RWMutex
	runs    []Run
	seeds   map[int64][]string
	nextID  int64
}

// NewMock creates a new, empty MockStore.
func NewMock() *MockStore {
	return &MockStore{seeds: make(map[int64][]string)}
}

// NewMockWithSampleData creates a MockStore pre-populated with a
// couple of representative runs, for demo purposes.
func NewMockWithSampleData() *MockStore {
	m := NewMock()
	m.runs = []Run{
		{
			ID: 1, Label: "login-form-token", Multiplier: "25214903917", Increment: "11", Modulus: "281474976710656",
			CallCount: 3, Candidates: 1, DurationMs: 840, CreatedAt: time.Now().Add(-2 * time.Hour),
		},
		{
			ID: 2, Label: "shuffle-deal-observation", Multiplier: "25214903917", Increment: "11", Modulus: "281474976710656",
			CallCount: 6, Candidates: 0, DurationMs: 2150, CreatedAt: time.Now().Add(-30 * time.Minute),
		},
	}
	m.nextID = 3
	m.seeds[1] = []string{"140737488355328"}
	return m
}

func (m *MockStore) Close() error { return nil }

func (m *MockStore) Health(ctx context.Context) HealthStatus {
	return HealthStatus{Connected: true, LatencyMs: 1}
}

func (m *MockStore) SaveRun(ctx context.Context, run *Run, seeds []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	saved := *run
	saved.ID = id
	saved.Candidates = len(seeds)
	saved.CreatedAt = time.Now()
	m.runs = append(m.runs, saved)
	m.seeds[id] = append([]string(nil), seeds...)
	return id, nil
}

func (m *MockStore) GetRun(ctx context.Context, id int64) (*Run, []string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.runs {
		if r.ID == id {
			run := r
			return &run, m.seeds[id], nil
		}
	}
	return nil, nil, ErrNotFound
}

func (m *MockStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	runs := append([]Run(nil), m.runs...)
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (m *MockStore) GetStats(ctx context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &Stats{Healthy: true, TotalRuns: len(m.runs)}
	for _, r := range m.runs {
		stats.TotalSeeds += r.Candidates
		if r.Candidates == 0 {
			stats.UnsolvedRuns++
		}
	}
	return stats, nil
}
