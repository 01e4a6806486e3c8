package simplex

import (
	"testing"

	"regen/internal/linalg"
	"regen/internal/rational"
)

func r(n int64) rational.Value { return rational.FromInt64(n) }

func TestSingleVariableBounds(t *testing.T) {
	b := NewBuilder(1)
	b.AddBounds(0, r(2), r(5))
	p := b.Build()

	dir := linalg.BasisUnit(1, 0)
	max, err := p.Maximize(dir)
	if err != nil {
		t.Fatalf("Maximize: %v", err)
	}
	if !max.Get(0).Equal(r(5)) {
		t.Errorf("max x = %s, want 5", max.Get(0))
	}
	min, err := p.Minimize(dir)
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	if !min.Get(0).Equal(r(2)) {
		t.Errorf("min x = %s, want 2", min.Get(0))
	}
}

func TestNegativeBounds(t *testing.T) {
	b := NewBuilder(1)
	b.AddBounds(0, r(-7), r(-3))
	p := b.Build()
	dir := linalg.BasisUnit(1, 0)
	max, err := p.Maximize(dir)
	if err != nil {
		t.Fatalf("Maximize: %v", err)
	}
	if !max.Get(0).Equal(r(-3)) {
		t.Errorf("max x = %s, want -3", max.Get(0))
	}
	min, err := p.Minimize(dir)
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	if !min.Get(0).Equal(r(-7)) {
		t.Errorf("min x = %s, want -7", min.Get(0))
	}
}

func TestEqualityConstraintPinsSum(t *testing.T) {
	b := NewBuilder(2)
	b.AddBounds(0, r(0), r(10))
	b.AddBounds(1, r(0), r(10))
	b.AddEquality(linalg.Of(r(1), r(1)), r(10))
	p := b.Build()

	dirX0 := linalg.BasisUnit(2, 0)
	max, err := p.Maximize(dirX0)
	if err != nil {
		t.Fatalf("Maximize: %v", err)
	}
	if !max.Get(0).Equal(r(10)) || !max.Get(1).Equal(r(0)) {
		t.Errorf("max x0 vertex = (%s, %s), want (10, 0)", max.Get(0), max.Get(1))
	}
	min, err := p.Minimize(dirX0)
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	if !min.Get(0).Equal(r(0)) || !min.Get(1).Equal(r(10)) {
		t.Errorf("min x0 vertex = (%s, %s), want (0, 10)", min.Get(0), min.Get(1))
	}
}

func TestWithEqualityCanMakeInfeasible(t *testing.T) {
	b := NewBuilder(1)
	b.AddBounds(0, r(5), r(10))
	p := b.Build()
	pinned := p.WithEquality(linalg.BasisUnit(1, 0), r(2))

	dir := linalg.BasisUnit(1, 0)
	if _, err := pinned.Maximize(dir); err != ErrInfeasible {
		t.Errorf("Maximize on an infeasible program: err = %v, want ErrInfeasible", err)
	}
}

func TestWithEqualityNarrowsWithoutMutatingParent(t *testing.T) {
	b := NewBuilder(1)
	b.AddBounds(0, r(0), r(10))
	p := b.Build()
	pinned := p.WithEquality(linalg.BasisUnit(1, 0), r(4))

	dir := linalg.BasisUnit(1, 0)
	got, err := pinned.Maximize(dir)
	if err != nil {
		t.Fatalf("Maximize: %v", err)
	}
	if !got.Get(0).Equal(r(4)) {
		t.Errorf("pinned max = %s, want 4", got.Get(0))
	}
	parentMax, err := p.Maximize(dir)
	if err != nil {
		t.Fatalf("Maximize on parent: %v", err)
	}
	if !parentMax.Get(0).Equal(r(10)) {
		t.Errorf("WithEquality mutated the parent program: parent max = %s, want 10", parentMax.Get(0))
	}
}

func TestBoundedBasisAppliesRowsAsGradients(t *testing.T) {
	b := NewBuilder(2)
	basis := linalg.OfRows(linalg.Of(r(1), r(1)), linalg.Of(r(1), r(-1)))
	b.AddBoundedBasis(basis, []rational.Value{r(0), r(-2)}, []rational.Value{r(10), r(2)})
	p := b.Build()

	// u = x0+x1 in [0,10], v = x0-x1 in [-2,2]. Maximizing x0 should hit
	// the vertex where both bounds are tight: u=10, v=2 => x0=6, x1=4.
	dir := linalg.BasisUnit(2, 0)
	got, err := p.Maximize(dir)
	if err != nil {
		t.Fatalf("Maximize: %v", err)
	}
	if !got.Get(0).Equal(r(6)) || !got.Get(1).Equal(r(4)) {
		t.Errorf("vertex = (%s, %s), want (6, 4)", got.Get(0), got.Get(1))
	}
}
