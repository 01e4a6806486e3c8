// Package lll implements Lenstra-Lenstra-Lovász lattice basis
// reduction over exact rationals, following the classical
// Gram-Schmidt-with-incremental-update formulation (Cohen, "A Course
// in Computational Algebraic Number Theory", algorithm 2.6.3): an
// upper-triangular mu coefficient table and a squared-norm vector are
// maintained incrementally across size-reduction and swap steps rather
// than recomputed from scratch, so degenerate (norm-zero) orthogonal
// vectors are handled explicitly by the swap step's three cases.
package lll

import (
	"regen/internal/linalg"
	"regen/internal/rational"
)

// state holds the incrementally maintained Gram-Schmidt data for the
// basis currently being reduced.
type state struct {
	basis      linalg.Matrix   // columns are the current basis vectors, mutated in place
	orthogonal []linalg.Vector // b*_i, valid for i <= kMax
	mu         [][]rational.Value
	sqNorm     []rational.Value
	kMax       int
	n          int
}

func newState(basis linalg.Matrix) *state {
	n := basis.Width()
	mu := make([][]rational.Value, n)
	for i := range mu {
		mu[i] = make([]rational.Value, n)
		for j := range mu[i] {
			mu[i][j] = rational.Zero
		}
	}
	s := &state{
		basis:      basis,
		orthogonal: make([]linalg.Vector, n),
		mu:         mu,
		sqNorm:     make([]rational.Value, n),
		kMax:       0,
		n:          n,
	}
	if n > 0 {
		s.orthogonal[0] = s.basis.Column(0).Copy()
		s.sqNorm[0] = s.orthogonal[0].SDot()
	}
	return s
}

// updateGSO extends the incremental Gram-Schmidt data up through
// column k, if it has not already been computed.
func (s *state) updateGSO(k int) {
	if k <= s.kMax {
		return
	}
	s.kMax = k
	bk := s.basis.Column(k).Copy()
	for j := 0; j < k; j++ {
		if s.sqNorm[j].Sign() == 0 {
			s.mu[k][j] = rational.Zero
			continue
		}
		s.mu[k][j] = s.basis.Column(k).Dot(s.orthogonal[j]).Div(s.sqNorm[j])
		bk.SubAndSet(s.orthogonal[j].MulScalar(s.mu[k][j]))
	}
	s.orthogonal[k] = bk
	s.sqNorm[k] = bk.SDot()
}

// red size-reduces column k against column l (l < k): it subtracts an
// integer multiple of column l from column k so that mu[k][l] lands in
// [-1/2, 1/2], updating mu accordingly.
func (s *state) red(k, l int) {
	if s.mu[k][l].Abs().Cmp(rational.Half) <= 0 {
		return
	}
	q := s.mu[k][l].Round()
	s.basis.Column(k).SubAndSet(s.basis.Column(l).MulScalar(q))
	for j := 0; j < l; j++ {
		s.mu[k][j] = s.mu[k][j].Sub(q.Mul(s.mu[l][j]))
	}
	s.mu[k][l] = s.mu[k][l].Sub(q)
}

// swap exchanges columns k and k-1, updating the Gram-Schmidt data in
// place. Three cases arise depending on whether the orthogonal vector
// at k or the combined-swap norm degenerates to zero.
func (s *state) swap(k int) {
	s.basis.SwapColumns(k, k-1)
	for j := 0; j < k-1; j++ {
		s.mu[k][j], s.mu[k-1][j] = s.mu[k-1][j], s.mu[k][j]
	}
	mu := s.mu[k][k-1]
	combined := s.sqNorm[k].Add(mu.Mul(mu).Mul(s.sqNorm[k-1]))

	switch {
	case combined.Sign() == 0:
		// Both b*_k and the would-be combined norm vanish: the swap just
		// relabels b*_{k-1} as b*_k.
		s.sqNorm[k] = s.sqNorm[k-1]
		s.sqNorm[k-1] = rational.Zero
		s.orthogonal[k], s.orthogonal[k-1] = s.orthogonal[k-1], s.orthogonal[k]
		s.mu[k][k-1] = rational.Zero
		for i := k + 1; i <= s.kMax; i++ {
			s.mu[i][k], s.mu[i][k-1] = s.mu[i][k-1], s.mu[i][k]
		}
	case s.sqNorm[k].Sign() == 0:
		// b*_k was zero but b*_{k-1} is not: rescale it into the k-1 slot.
		s.sqNorm[k-1] = combined
		s.orthogonal[k-1] = s.orthogonal[k-1].MulScalar(mu)
		s.mu[k][k-1] = mu.Inverse()
		for i := k + 1; i <= s.kMax; i++ {
			s.mu[i][k-1] = s.mu[i][k-1].Div(mu)
		}
	default:
		t := s.sqNorm[k-1].Div(combined)
		newMu := mu.Mul(t)
		newOrthoKMinus1 := s.orthogonal[k].Add(s.orthogonal[k-1].MulScalar(mu))
		s.orthogonal[k] = s.orthogonal[k-1].Sub(newOrthoKMinus1.MulScalar(newMu))
		s.orthogonal[k-1] = newOrthoKMinus1
		s.sqNorm[k] = s.sqNorm[k].Mul(t)
		s.sqNorm[k-1] = combined
		s.mu[k][k-1] = newMu
		for i := k + 1; i <= s.kMax; i++ {
			tmp := s.mu[i][k-1]
			s.mu[i][k-1] = s.mu[i][k].Sub(mu.Mul(tmp))
			s.mu[i][k] = tmp.Add(newMu.Mul(s.mu[i][k-1]))
		}
	}
}

// lovasz reports whether the Lovász condition holds at index k:
// B[k] >= (delta - mu[k][k-1]^2) * B[k-1].
func (s *state) lovasz(k int, delta rational.Value) bool {
	mu := s.mu[k][k-1]
	rhs := delta.Sub(mu.Mul(mu)).Mul(s.sqNorm[k-1])
	return s.sqNorm[k].Cmp(rhs) >= 0
}

// Reduce runs LLL reduction on basis (whose columns are the input
// lattice basis vectors) with quality parameter delta (typically
// 3/4 < delta < 1) and returns a reduced basis. The input matrix is
// copied; basis is not modified. Every all-zero column produced by a
// rank-deficient input basis is stripped from the result, matching
// the reference reducer's post-processing step.
func Reduce(basis linalg.Matrix, delta rational.Value) linalg.Matrix {
	working := basis.Copy()
	s := newState(working)
	n := s.n
	if n < 2 {
		return stripZeroColumns(working)
	}

	k := 1
	for k < n {
		s.updateGSO(k)
		s.red(k, k-1)
		if s.lovasz(k, delta) {
			for l := k - 2; l >= 0; l-- {
				s.red(k, l)
			}
			k++
		} else {
			s.swap(k)
			if k > 1 {
				k--
			}
		}
	}
	return stripZeroColumns(working)
}

// stripZeroColumns drops every all-zero column, wherever it sits
// (present when the input basis vectors were linearly dependent),
// returning a matrix with only the nonzero columns retained, in order.
func stripZeroColumns(m linalg.Matrix) linalg.Matrix {
	kept := 0
	for col := 0; col < m.Width(); col++ {
		if !m.Column(col).IsZero() {
			kept++
		}
	}
	if kept == m.Width() {
		return m
	}
	columns := make([]linalg.Vector, 0, kept)
	for col := 0; col < m.Width(); col++ {
		if !m.Column(col).IsZero() {
			columns = append(columns, m.Column(col).Copy())
		}
	}
	if len(columns) == 0 {
		return linalg.NewMatrix(0, m.Height())
	}
	return linalg.OfColumns(columns...)
}
