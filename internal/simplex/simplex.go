// Package simplex implements a two-phase simplex method over exact
// rationals for the bounded polytopes the reverser carves out of a
// reduced lattice basis. Variables are unrestricted in sign (lattice
// basis coordinates, not the usual non-negative LP variables), so each
// free variable x is split into a difference of two non-negative
// variables x+ - x- when the tableau is built for a Maximize or
// Minimize call, and the resulting standard-form problem goes to the
// tableau simplex below. Pivoting reuses
// linalg's Gauss-Jordan row-elimination machinery: a simplex pivot is
// exactly an AugmentedMatrix.PivotCell call, with the objective row
// riding along as just another row of the same augmented matrix.
package simplex

import (
	"errors"

	"regen/internal/linalg"
	"regen/internal/rational"
)

// ErrInfeasible is returned when a program's constraints admit no
// feasible point at all.
var ErrInfeasible = errors.New("simplex: infeasible constraints")

// ErrUnbounded is returned when the objective is unbounded in the
// requested direction over the feasible region.
var ErrUnbounded = errors.New("simplex: unbounded objective")

// ConstraintType selects the relational operator of a linear constraint.
type ConstraintType int

const (
	LessEqual ConstraintType = iota
	Equal
	GreaterEqual
)

// Constraint is gradient . x <op> value over the program's free variables.
type Constraint struct {
	Gradient linalg.Vector
	Type     ConstraintType
	Value    rational.Value
}

// substituteVariable returns the constraint obtained by fixing
// variable index to value: value is moved to the right-hand side and
// the corresponding gradient entry dropped to zero (the variable
// itself is no longer free, so it is eliminated from the gradient but
// the constraint's dimensionality is left unchanged — callers that
// want a smaller program build one explicitly).
func (c Constraint) substituteVariable(index int, value rational.Value) Constraint {
	coeff := c.Gradient.Get(index)
	if coeff.Sign() == 0 {
		return c
	}
	g := c.Gradient.Copy()
	g.Set(index, rational.Zero)
	return Constraint{Gradient: g, Type: c.Type, Value: c.Value.Sub(coeff.Mul(value))}
}

// Builder accumulates constraints over a fixed number of free
// variables before producing an immutable Program.
type Builder struct {
	size        int
	constraints []Constraint
}

// NewBuilder starts a builder for a program over `size` free variables.
func NewBuilder(size int) *Builder {
	return &Builder{size: size}
}

func (b *Builder) checkGradient(gradient linalg.Vector) {
	if gradient.Size() != b.size {
		panic("simplex: gradient size does not match program size")
	}
}

// AddEquality adds gradient . x = value.
func (b *Builder) AddEquality(gradient linalg.Vector, value rational.Value) {
	b.checkGradient(gradient)
	b.constraints = append(b.constraints, Constraint{gradient, Equal, value})
}

// AddLessEqual adds gradient . x <= value.
func (b *Builder) AddLessEqual(gradient linalg.Vector, value rational.Value) {
	b.checkGradient(gradient)
	b.constraints = append(b.constraints, Constraint{gradient, LessEqual, value})
}

// AddGreaterEqual adds gradient . x >= value.
func (b *Builder) AddGreaterEqual(gradient linalg.Vector, value rational.Value) {
	b.checkGradient(gradient)
	b.constraints = append(b.constraints, Constraint{gradient, GreaterEqual, value})
}

// AddBounds adds min <= x[index] <= max as a pair of constraints on
// the standard basis vector at index.
func (b *Builder) AddBounds(index int, min, max rational.Value) {
	gradient := linalg.BasisUnit(b.size, index)
	b.AddGreaterEqual(gradient, min)
	b.AddLessEqual(gradient, max)
}

// AddBoundedBasis adds, for each row of basis, the bound pair
// mins[i] <= basis.Row(i) . x <= maxs[i]. This is how the reverser
// constrains the polytope in the rotated coordinate system produced by
// lattice reduction: each row of the basis inverse is a direction, and
// mins/maxs are the integer range the corresponding lattice coordinate
// must fall within.
func (b *Builder) AddBoundedBasis(basis linalg.Matrix, mins, maxs []rational.Value) {
	if basis.Height() != len(mins) || basis.Height() != len(maxs) {
		panic("simplex: bounds length mismatch with basis height")
	}
	for i := 0; i < basis.Height(); i++ {
		gradient := basis.Row(i)
		b.AddGreaterEqual(gradient, mins[i])
		b.AddLessEqual(gradient, maxs[i])
	}
}

// Build finalizes the accumulated constraints into a Program. It does
// not itself run the simplex method — feasibility is established
// lazily the first time Maximize or Minimize is called, matching the
// solver's policy that errors surface at their point of use.
func (b *Builder) Build() *Program {
	constraints := make([]Constraint, len(b.constraints))
	copy(constraints, b.constraints)
	return &Program{size: b.size, constraints: constraints}
}

// Program is an immutable set of linear constraints over `size` free
// variables, queryable for the extreme point of the feasible polytope
// along any direction.
type Program struct {
	size        int
	constraints []Constraint
}

// Size returns the number of free variables.
func (p *Program) Size() int { return p.size }

// WithEquality returns a new program with gradient . x = value added
// to p's constraints, used by the branch-and-bound enumerator to pin
// one lattice coordinate before descending to the next.
func (p *Program) WithEquality(gradient linalg.Vector, value rational.Value) *Program {
	if gradient.Size() != p.size {
		panic("simplex: gradient size does not match program size")
	}
	constraints := make([]Constraint, len(p.constraints), len(p.constraints)+1)
	copy(constraints, p.constraints)
	constraints = append(constraints, Constraint{gradient, Equal, value})
	return &Program{size: p.size, constraints: constraints}
}

// Maximize returns a point of the feasible polytope maximizing
// direction . x, or ErrInfeasible / ErrUnbounded.
func (p *Program) Maximize(direction linalg.Vector) (linalg.Vector, error) {
	return p.optimize(direction, true)
}

// Minimize returns a point of the feasible polytope minimizing
// direction . x, or ErrInfeasible / ErrUnbounded.
func (p *Program) Minimize(direction linalg.Vector) (linalg.Vector, error) {
	return p.optimize(direction, false)
}

func (p *Program) optimize(direction linalg.Vector, maximize bool) (linalg.Vector, error) {
	if direction.Size() != p.size {
		panic("simplex: direction size does not match program size")
	}
	t, err := buildTableau(p.size, p.constraints)
	if err != nil {
		return linalg.Vector{}, err
	}
	if err := t.runPhaseOne(); err != nil {
		return linalg.Vector{}, err
	}
	cost := direction.Copy()
	if !maximize {
		cost = cost.Negate()
	}
	if err := t.runPhaseTwo(cost); err != nil {
		return linalg.Vector{}, err
	}
	return t.extractSolution(p.size), nil
}
