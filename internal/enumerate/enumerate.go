// Package enumerate lists every integer lattice point inside a
// polytope, one basis coordinate at a time: at each level it solves
// the LP relaxation to bound the current coordinate, then either
// emits the integer candidates directly (if this is the last free
// coordinate) or narrows the program with an equality constraint per
// candidate and recurses one level deeper. Branches are walked
// concurrently through an errgroup capped at a fixed worker limit, so
// wide fan-out near the root of the tree is spread across goroutines
// instead of draining depth-first on a single one.
package enumerate

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"regen/internal/linalg"
	"regen/internal/rational"
	"regen/internal/simplex"
)

// node is one branch of the enumeration tree: a partially fixed
// vertex, the depth (number of basis rows already fixed), and the
// program narrowed by every equality fixed on the way here.
type node struct {
	depth   int
	basis   linalg.Matrix
	program *simplex.Program
	vertex  linalg.Vector
}

// root constructs the root of the branch-and-bound tree over basis,
// whose rows are walked one per level, bounded at every level by
// program.
func root(basis linalg.Matrix, program *simplex.Program) *node {
	return &node{
		depth:   0,
		basis:   basis,
		program: program,
		vertex:  linalg.Zero(basis.Width()),
	}
}

// bounds solves the LP relaxation along this node's current row,
// returning the smallest integer the coordinate may take and how many
// consecutive integers up from there are feasible.
func (n *node) bounds() (min rational.Value, width int, gradient linalg.Vector, err error) {
	gradient = n.basis.Row(n.depth)

	minSol, err := n.program.Minimize(gradient)
	if err != nil {
		return rational.Zero, 0, gradient, err
	}
	maxSol, err := n.program.Maximize(gradient)
	if err != nil {
		return rational.Zero, 0, gradient, err
	}

	min = minSol.Dot(gradient).Ceil()
	max := maxSol.Dot(gradient).Floor()

	span := max.Sub(min)
	if span.Sign() < 0 {
		return min, 0, gradient, nil
	}
	return min, int(span.Int64()) + 1, gradient, nil
}

// expand computes this node's next level: leaves holds the solved
// vectors when depth was the last free coordinate, in which case
// children is nil; otherwise children holds the next-depth nodes, one
// per integer value the current coordinate can take, and leaves is
// nil. A zero-width bound (infeasible branch) returns an empty,
// non-nil slice in whichever of the two the depth selects.
func (n *node) expand() (leaves []linalg.Vector, children []*node, err error) {
	min, width, gradient, err := n.bounds()
	if err != nil {
		return nil, nil, err
	}
	size := n.basis.Width()

	if n.depth+1 == size {
		leaves = make([]linalg.Vector, width)
		for i := 0; i < width; i++ {
			value := min.Add(rational.FromInt64(int64(i)))
			leaves[i] = n.vertex.Add(linalg.Basis(size, n.depth, value))
		}
		return leaves, nil, nil
	}

	children = make([]*node, width)
	for i := 0; i < width; i++ {
		value := min.Add(rational.FromInt64(int64(i)))
		children[i] = &node{
			depth:   n.depth + 1,
			basis:   n.basis,
			program: n.program.WithEquality(gradient, value),
			vertex:  n.vertex.Add(linalg.Basis(size, n.depth, value)),
		}
	}
	return nil, children, nil
}

// Enumerate walks the tree rooted at basis/program and returns every
// integer lattice point it contains. Branch nodes are dispatched to
// an errgroup capped at workers concurrent goroutines; the walk
// aborts and returns the first error any node's LP relaxation
// produces, or ctx.Err() if ctx is cancelled first.
func Enumerate(ctx context.Context, basis linalg.Matrix, program *simplex.Program, workers int) ([]linalg.Vector, error) {
	if workers < 1 {
		workers = 1
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	var mu sync.Mutex
	var solutions []linalg.Vector

	var walk func(n *node) error
	walk = func(n *node) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		leaves, children, err := n.expand()
		if err != nil {
			return err
		}

		if leaves != nil {
			mu.Lock()
			solutions = append(solutions, leaves...)
			mu.Unlock()
			return nil
		}

		for _, child := range children {
			child := child
			if group.TryGo(func() error { return walk(child) }) {
				continue
			}
			// Pool is full: this goroutine already holds a slot, and
			// blocking on group.Go here would wait on a slot held by
			// one of its own ancestors. Walk the child inline instead.
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}

	group.Go(func() error { return walk(root(basis, program)) })

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return solutions, nil
}
