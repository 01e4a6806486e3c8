package simplex

import (
	"regen/internal/linalg"
	"regen/internal/rational"
)

// tableau is a standard-form simplex tableau: columns are, in order,
// the n positive-part variables x+, the n negative-part variables x-,
// one auxiliary (slack/surplus) column per constraint row, one
// artificial column per row that needs one, and finally the RHS
// column. The objective occupies the last row of the same matrix, so
// every pivot — including bringing the objective row into canonical
// form relative to the current basis — is a single
// AugmentedMatrix.PivotCell call.
type tableau struct {
	aug      *linalg.Augmented
	basic    []int // basic[i] = column index of the basic variable in row i
	n        int   // number of free variables
	m        int   // number of constraints
	rhsCol   int
	artCols  []int // all artificial column indices, one per row that has an artificial, in row order
	hasArt   []bool
}

const maxPivots = 10000

func buildTableau(n int, constraints []Constraint) (*tableau, error) {
	m := len(constraints)
	if m == 0 {
		// No constraints at all: everything is feasible, nothing to pivot.
		return &tableau{n: n, m: 0, rhsCol: 2 * n, aug: linalg.NewAugmented(linalg.NewMatrix(2*n+1, 1))}, nil
	}

	artIndex := make([]int, m)
	numArt := 0
	for i, c := range constraints {
		// The row is normalized below to a non-negative RHS, which flips
		// an inequality; the artificial goes with the flipped type.
		typ := c.Type
		if c.Value.Sign() < 0 {
			switch typ {
			case LessEqual:
				typ = GreaterEqual
			case GreaterEqual:
				typ = LessEqual
			}
		}
		if typ == Equal || typ == GreaterEqual {
			artIndex[i] = numArt
			numArt++
		} else {
			artIndex[i] = -1
		}
	}

	auxBase := 2 * n
	artBase := auxBase + m
	rhsCol := artBase + numArt
	width := rhsCol + 1
	height := m + 1

	main := linalg.NewMatrix(width, height)
	basic := make([]int, m)
	hasArt := make([]bool, m)

	for i, c := range constraints {
		value := c.Value
		typ := c.Type
		gradient := c.Gradient
		sign := rational.One
		if value.Sign() < 0 {
			sign = rational.MinusOne
			value = value.Negate()
			switch typ {
			case LessEqual:
				typ = GreaterEqual
			case GreaterEqual:
				typ = LessEqual
			}
		}
		for j := 0; j < n; j++ {
			g := gradient.Get(j).Mul(sign)
			main.Set(j, i, g)          // x+_j
			main.Set(n+j, i, g.Negate()) // x-_j
		}
		main.Set(rhsCol, i, value)

		switch typ {
		case LessEqual:
			main.Set(auxBase+i, i, rational.One)
			basic[i] = auxBase + i
		case GreaterEqual:
			main.Set(auxBase+i, i, rational.MinusOne)
			main.Set(artBase+artIndex[i], i, rational.One)
			basic[i] = artBase + artIndex[i]
			hasArt[i] = true
		case Equal:
			main.Set(artBase+artIndex[i], i, rational.One)
			basic[i] = artBase + artIndex[i]
			hasArt[i] = true
		}
	}

	allArt := make([]int, numArt)
	for _, idx := range artIndex {
		if idx >= 0 {
			allArt[idx] = artBase + idx
		}
	}

	return &tableau{
		aug:     linalg.NewAugmented(main),
		basic:   basic,
		n:       n,
		m:       m,
		rhsCol:  rhsCol,
		artCols: allArt,
		hasArt:  hasArt,
	}, nil
}

func (t *tableau) objRow() int { return t.m }

// setObjective zeroes the objective row, writes -cost (the "z - c.x =
// 0" convention) into the structural columns named by coeffs, and then
// canonicalizes it against the current basis by re-running PivotCell
// on every already-basic column — each such call is a no-op on its own
// row (already pivoted to a unit column) but propagates the
// elimination into the freshly rewritten objective row.
func (t *tableau) setObjective(coeffs map[int]rational.Value) {
	row := t.objRow()
	main := t.aug.Main()
	for col := 0; col < main.Width(); col++ {
		main.Set(col, row, rational.Zero)
	}
	for col, c := range coeffs {
		main.Set(col, row, c.Negate())
	}
	for i := 0; i < t.m; i++ {
		if main.Get(t.basic[i], row).Sign() != 0 {
			t.aug.PivotCell(t.basic[i], i, true)
		}
	}
}

// runPhaseOne drives the artificial variables out of the basis by
// minimizing their sum. Returns ErrInfeasible if the minimum is
// strictly positive, meaning no feasible point exists.
func (t *tableau) runPhaseOne() error {
	if t.m == 0 || len(t.artCols) == 0 {
		return nil
	}
	coeffs := make(map[int]rational.Value, len(t.artCols))
	for _, col := range t.artCols {
		coeffs[col] = rational.MinusOne // maximize -sum(artificials)
	}
	t.setObjective(coeffs)
	if err := t.pivotToOptimal(); err != nil {
		return err
	}
	main := t.aug.Main()
	if main.Get(t.rhsCol, t.objRow()).Sign() != 0 {
		return ErrInfeasible
	}
	// Drive any artificial that is still basic (at value zero, a
	// degenerate row) out of the basis so phase two never reintroduces it.
	for i := 0; i < t.m; i++ {
		if !t.hasArt[i] || !isArtificial(t.basic[i], t.artCols) {
			continue
		}
		replaced := false
		for col := 0; col < t.rhsCol; col++ {
			if isArtificial(col, t.artCols) {
				continue
			}
			if main.Get(col, i).Sign() != 0 {
				t.aug.PivotCell(col, i, true)
				t.basic[i] = col
				replaced = true
				break
			}
		}
		_ = replaced // if no replacement exists the row is a redundant 0=0 constraint; harmless
	}
	return nil
}

func isArtificial(col int, artCols []int) bool {
	for _, a := range artCols {
		if a == col {
			return true
		}
	}
	return false
}

// runPhaseTwo optimizes the real objective (already expressed over the
// x+/x- split, as `cost`) starting from the phase-one feasible basis.
func (t *tableau) runPhaseTwo(cost linalg.Vector) error {
	// A program with no constraints at all has no way to bound any
	// direction; rather than treat that as unbounded, it is defined to
	// extremize at the origin regardless of the requested gradient.
	if t.m == 0 {
		return nil
	}
	coeffs := make(map[int]rational.Value, 2*t.n)
	for j := 0; j < t.n; j++ {
		c := cost.Get(j)
		if c.Sign() == 0 {
			continue
		}
		coeffs[j] = c
		coeffs[t.n+j] = c.Negate()
	}
	t.setObjective(coeffs)
	return t.pivotToOptimal()
}

// pivotToOptimal repeatedly selects the entering column with the most
// negative objective-row coefficient (Dantzig's rule, under the
// "z - c.x = rhs" row convention setObjective maintains) and the
// exiting row by the minimum ratio test, breaking ties by the smallest
// basic column index to keep degenerate problems from cycling.
// Artificial columns are never chosen to enter the basis.
func (t *tableau) pivotToOptimal() error {
	if t.m == 0 {
		return nil
	}
	main := t.aug.Main()
	row := t.objRow()
	for iter := 0; iter < maxPivots; iter++ {
		enter := -1
		best := rational.Zero
		for col := 0; col < t.rhsCol; col++ {
			if isArtificial(col, t.artCols) {
				continue
			}
			v := main.Get(col, row)
			if v.Sign() < 0 && (enter == -1 || v.Cmp(best) < 0) {
				enter = col
				best = v
			}
		}
		if enter == -1 {
			return nil
		}
		exit := -1
		var bestRatio rational.Value
		for i := 0; i < t.m; i++ {
			entry := main.Get(enter, i)
			if entry.Sign() <= 0 {
				continue
			}
			ratio := main.Get(t.rhsCol, i).Div(entry)
			if exit == -1 || ratio.Cmp(bestRatio) < 0 ||
				(ratio.Cmp(bestRatio) == 0 && t.basic[i] < t.basic[exit]) {
				exit = i
				bestRatio = ratio
			}
		}
		if exit == -1 {
			return ErrUnbounded
		}
		t.aug.PivotCell(enter, exit, true)
		t.basic[exit] = enter
	}
	return ErrUnbounded
}

// extractSolution reads off the free-variable vector x = x+ - x- from
// the current basis.
func (t *tableau) extractSolution(n int) linalg.Vector {
	main := t.aug.Main()
	xp := make([]rational.Value, n)
	xm := make([]rational.Value, n)
	for j := 0; j < n; j++ {
		xp[j] = rational.Zero
		xm[j] = rational.Zero
	}
	for i := 0; i < t.m; i++ {
		v := main.Get(t.rhsCol, i)
		if b := t.basic[i]; b < n {
			xp[b] = v
		} else if b < 2*n {
			xm[b-n] = v
		}
	}
	return linalg.Generate(n, func(j int) rational.Value {
		return xp[j].Sub(xm[j])
	})
}
