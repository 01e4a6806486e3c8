package linalg

import "regen/internal/rational"

// Augmented couples a main matrix with zero or more auxiliary matrices
// of the same height, so that Gauss-Jordan row operations performed to
// solve or invert the main matrix are broadcast across the auxiliaries
// too (used to recover an inverse, or a change-of-basis, alongside a
// reduced row-echelon form).
type Augmented struct {
	main   Matrix
	others []Matrix
}

// NewAugmented couples main with the given auxiliary matrices. Panics
// if any auxiliary's height differs from main's.
func NewAugmented(main Matrix, others ...Matrix) *Augmented {
	for _, o := range others {
		if o.Height() != main.Height() {
			panic("linalg: augmented matrix height mismatch")
		}
	}
	return &Augmented{main: main, others: others}
}

func (a *Augmented) Main() Matrix     { return a.main }
func (a *Augmented) Other(i int) Matrix { return a.others[i] }
func (a *Augmented) NumOthers() int   { return len(a.others) }
func (a *Augmented) Height() int      { return a.main.Height() }
func (a *Augmented) Width() int       { return a.main.Width() }

// forAll invokes fn against the main matrix and every auxiliary.
func (a *Augmented) forAll(fn func(Matrix)) {
	fn(a.main)
	for _, o := range a.others {
		fn(o)
	}
}

// SwapRows exchanges rows r1 and r2 across the main matrix and every
// auxiliary matrix in lockstep.
func (a *Augmented) SwapRows(r1, r2 int) {
	a.forAll(func(m Matrix) { m.SwapRows(r1, r2) })
}

// PivotCell normalizes row so that Get(col, row) becomes 1 (dividing
// the entire row, across main and every auxiliary, by its current
// value), then eliminates the entry in col of every row below it (and,
// when eliminateAbove is true, of every row above it too) by
// subtracting the appropriate multiple of row. Panics if the pivot
// entry is zero.
func (a *Augmented) PivotCell(col, row int, eliminateAbove bool) {
	pivot := a.main.Get(col, row)
	if pivot.Sign() == 0 {
		panic("linalg: pivot on a zero cell")
	}
	if !pivot.Equal(rational.One) {
		a.forAll(func(m Matrix) {
			m.Row(row).DivScalarAndSet(pivot)
		})
	}
	start := row + 1
	if eliminateAbove {
		start = 0
	}
	for r := start; r < a.Height(); r++ {
		if r == row {
			continue
		}
		factor := a.main.Get(col, r)
		if factor.Sign() == 0 {
			continue
		}
		a.forAll(func(m Matrix) {
			scaled := m.Row(row).MulScalar(factor)
			m.Row(r).SubAndSet(scaled)
		})
	}
}
