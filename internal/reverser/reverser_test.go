package reverser

import (
	"context"
	"math/big"
	"testing"

	"regen/internal/calls"
	"regen/internal/lcg"
)

// contains reports whether want appears among seeds.
func contains(seeds []int64, want int64) bool {
	for _, s := range seeds {
		if s == want {
			return true
		}
	}
	return false
}

func TestSolveWithOnlyFiltersReturnsError(t *testing.T) {
	rv := New()
	rv.AddFilter(calls.IntegerCall{Min: 0, Max: 0})

	_, err := rv.Solve(context.Background(), lcg.Java, 1)
	if err != ErrNoSeedCalls {
		t.Fatalf("Solve() error = %v, want ErrNoSeedCalls", err)
	}
}

func TestReverserRecoversSeedFromSingleLongCall(t *testing.T) {
	lc := lcg.Java
	rawSeed := big.NewInt(123456789)

	cursor := lcg.NewRandom(lc)
	cursor.SetRawSeed(rawSeed)
	v := lcg.NextLong(cursor)

	rv := New()
	rv.AddCall(calls.LongCall{Min: v, Max: v})

	seeds, err := rv.Solve(context.Background(), lc, 4)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !contains(seeds, rawSeed.Int64()) {
		t.Fatalf("expected raw seed %d among recovered candidates %v", rawSeed, seeds)
	}
}

// skippedFilterScenario mirrors a transcript with an unobserved step
// sandwiched between two int observations, where the first
// observation's own lattice participation is toggled by firstIsFilter
// — a filter-marked call is still cross-checked by validate, but
// never binds the lattice search.
func skippedFilterScenario(t *testing.T, firstIsFilter bool) {
	t.Helper()
	lc := lcg.Java
	rawSeed := big.NewInt(987654321)

	cursor := lcg.NewRandom(lc)
	cursor.SetRawSeed(rawSeed)
	v0 := lcg.NextInt(cursor)
	cursor.Skip()
	v1 := lcg.NextInt(cursor)

	rv := New()
	if firstIsFilter {
		rv.AddFilter(calls.IntegerCall{Min: v0, Max: v0})
	} else {
		rv.AddCall(calls.IntegerCall{Min: v0, Max: v0})
	}
	rv.SkipOne()
	rv.AddCall(calls.IntegerCall{Min: v1, Max: v1})

	seeds, err := rv.Solve(context.Background(), lc, 4)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !contains(seeds, rawSeed.Int64()) {
		t.Fatalf("expected raw seed %d among recovered candidates %v", rawSeed, seeds)
	}
}

func TestReverserRecoversSeedWithLeadingFilterBeforeSkip(t *testing.T) {
	skippedFilterScenario(t, true)
}

func TestReverserRecoversSeedWithLeadingObservedCallBeforeSkip(t *testing.T) {
	skippedFilterScenario(t, false)
}

// TestReverserRecoversSeedFromFloatAndLongCombo pairs a Float
// observation (which alone only constrains 24 of the register's 48
// bits) with a Long observation so the combined lattice is fully
// determined and enumeration stays small.
func TestReverserRecoversSeedFromFloatAndLongCombo(t *testing.T) {
	lc := lcg.Java
	rawSeed := big.NewInt(555666777)

	cursor := lcg.NewRandom(lc)
	cursor.SetRawSeed(rawSeed)
	f := lcg.NextFloat(cursor)
	l := lcg.NextLong(cursor)

	rv := New()
	rv.AddCall(calls.FloatCall{Min: f, Max: f})
	rv.AddCall(calls.LongCall{Min: l, Max: l})

	seeds, err := rv.Solve(context.Background(), lc, 4)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !contains(seeds, rawSeed.Int64()) {
		t.Fatalf("expected raw seed %d among recovered candidates %v", rawSeed, seeds)
	}
}

// TestReverserEveryCandidateReplaysFullTranscript checks that every
// value Solve returns, not just the planted one, is a genuine
// solution: replaying the whole recorded transcript against it must
// reproduce every call's observation exactly.
func TestReverserEveryCandidateReplaysFullTranscript(t *testing.T) {
	lc := lcg.Java
	rawSeed := big.NewInt(42)

	cursor := lcg.NewRandom(lc)
	cursor.SetRawSeed(rawSeed)
	v := lcg.NextLong(cursor)

	rv := New()
	rv.AddCall(calls.LongCall{Min: v, Max: v})

	seeds, err := rv.Solve(context.Background(), lc, 4)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(seeds) == 0 {
		t.Fatalf("expected at least one candidate")
	}

	for _, s := range seeds {
		replay := lcg.NewRandom(lc)
		replay.SetRawSeed(big.NewInt(s))
		got := lcg.NextLong(replay)
		if got != v {
			t.Fatalf("candidate %d replayed to %d, want %d", s, got, v)
		}
	}
}
