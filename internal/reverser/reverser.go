// Package reverser drives components A through I into the end-to-end
// pipeline: accumulate an observed transcript of RNG calls, build the
// lattice and polytope that describe every register state consistent
// with it, enumerate the integer points inside that polytope, and
// validate each candidate by replaying the full transcript against
// it.
package reverser

import (
	"context"
	"errors"
	"math/big"
	"sort"

	"regen/internal/calls"
	"regen/internal/enumerate"
	"regen/internal/lcg"
	"regen/internal/lll"
	"regen/internal/linalg"
	"regen/internal/rational"
	"regen/internal/simplex"
)

// DefaultDelta is the LLL quality parameter a Reverser reduces its
// lattice with unless overridden by SetDelta.
var DefaultDelta = rational.New(99, 100)

// ErrNoSeedCalls is returned by Solve when the transcript contains no
// non-filter call: with nothing to build a lattice from, there is no
// constraint to search against.
var ErrNoSeedCalls = errors.New("reverser: transcript has no non-filter calls")

// entry is one recorded step of the transcript: the call itself, the
// absolute LCG-step index at which its first update lands, and
// whether it is excluded from the lattice (but still checked during
// validation).
type entry struct {
	index      int
	call       calls.RandomCall
	filterOnly bool
}

// expand flattens e into one entry per SeedCall its ToSeed produces,
// each at the absolute index of the step it constrains.
func (e entry) expand() []entry {
	seedCalls := e.call.ToSeed()
	out := make([]entry, len(seedCalls))
	for i, sc := range seedCalls {
		out[i] = entry{index: e.index + i, call: sc, filterOnly: e.filterOnly}
	}
	return out
}

// Reverser accumulates an ordered transcript of RNG calls. Once built,
// Solve consumes it to produce every seed consistent with the
// transcript; the Reverser itself may be reused across calls to
// Solve.
type Reverser struct {
	entries   []entry
	nextIndex int
	delta     rational.Value
}

// New starts an empty transcript, reduced with DefaultDelta unless
// SetDelta is called before Solve.
func New() *Reverser {
	return &Reverser{delta: DefaultDelta}
}

// SetDelta overrides the LLL quality parameter used by Solve.
func (r *Reverser) SetDelta(delta rational.Value) *Reverser {
	r.delta = delta
	return r
}

// AddCall appends an observed call to the transcript. It contributes
// both to the lattice built during Solve and to the post-solve
// validation replay.
func (r *Reverser) AddCall(call calls.RandomCall) *Reverser {
	return r.addEntry(call, false)
}

// AddFilter appends a call that is used only as a filter: it still
// advances the transcript's index and its range is checked when
// candidates are replayed during validation, but it never enters the
// lattice.
func (r *Reverser) AddFilter(call calls.RandomCall) *Reverser {
	return r.addEntry(call, true)
}

func (r *Reverser) addEntry(call calls.RandomCall, filterOnly bool) *Reverser {
	r.entries = append(r.entries, entry{index: r.nextIndex, call: call, filterOnly: filterOnly})
	r.nextIndex += call.Skips()
	return r
}

// Skip advances the transcript's index counter by steps without
// recording an entry, for calls whose output was neither observed nor
// needs replay-checking.
func (r *Reverser) Skip(steps int) *Reverser {
	r.nextIndex += steps
	return r
}

// SkipOne is Skip(1).
func (r *Reverser) SkipOne() *Reverser {
	return r.Skip(1)
}

// SolveJava is Solve against lcg.Java, the common case.
func (r *Reverser) SolveJava(ctx context.Context, workers int) ([]int64, error) {
	return r.Solve(ctx, lcg.Java, workers)
}

// Solve searches lc's state space for every seed consistent with the
// recorded transcript, using workers goroutines during enumeration.
// The returned values are raw register states suitable for
// Random.SetRawSeed — the value immediately after the original
// SetSeed/SetRawSeed call that produced the transcript. If that call
// was SetSeed (which scrambles), the caller must apply lc.Scramble
// once more to recover the literal seed argument.
func (r *Reverser) Solve(ctx context.Context, lc lcg.LCG, workers int) ([]int64, error) {
	var seedEntries []entry
	for _, e := range r.entries {
		if !e.filterOnly {
			seedEntries = append(seedEntries, e.expand()...)
		}
	}
	if len(seedEntries) == 0 {
		return nil, ErrNoSeedCalls
	}

	basis, offset, min, max, err := buildLattice(lc, seedEntries)
	if err != nil {
		return nil, err
	}

	reduced, err := reduceLattice(basis, min, max, r.delta)
	if err != nil {
		return nil, err
	}
	basisInverse := reduced.Inverse()

	program, order, err := orderedProgram(basisInverse, min, max)
	if err != nil {
		return nil, err
	}
	sortedInverse := permuteRows(basisInverse, order)

	vertices, err := enumerate.Enumerate(ctx, sortedInverse, program, workers)
	if err != nil {
		return nil, err
	}

	toStart, err := lc.Step(-(int64(seedEntries[0].index) + 1))
	if err != nil {
		return nil, err
	}

	seeds := make([]int64, 0, len(vertices))
	for _, vertex := range vertices {
		unsorted := unpermute(vertex, order)
		y := offset.Add(reduced.MulVector(unsorted))
		y0 := y.Get(0).Numerator()

		initial := toStart.Next(y0)
		if !r.validate(lc, initial) {
			continue
		}
		seeds = append(seeds, initial.Int64())
	}
	return seeds, nil
}

// buildLattice constructs the rational basis (width n+1, height n,
// whose columns generate the lattice) and the offset, min and max
// vectors described by seedEntries: row i of the basis holds
// multiplier^index_i mod modulus in column 0 and modulus in column
// i+1; offset[i] is the seed produced by advancing a zero-initial
// cursor through the cumulative gap between consecutive entries,
// leaving offset[0] at zero (the first row's absolute exponent already
// accounts for its own index — see the package's leading-entry note in
// validate).
func buildLattice(lc lcg.LCG, seedEntries []entry) (basis linalg.Matrix, offset, min, max linalg.Vector, err error) {
	n := len(seedEntries)
	basis = linalg.NewMatrix(n+1, n)
	offset = linalg.Zero(n)
	min = linalg.Zero(n)
	max = linalg.Zero(n)

	multiplier := rational.FromBigInt(lc.Multiplier)
	modulusValue := rational.FromBigInt(lc.Modulus)

	cursor := lcg.NewRandom(lc)
	cursor.SetRawSeed(big.NewInt(0))

	prevIndex := 0
	for i, e := range seedEntries {
		sc := e.call.(calls.SeedCall)

		if i != 0 {
			gap := e.index - prevIndex
			if err := cursor.SkipN(int64(gap)); err != nil {
				return linalg.Matrix{}, linalg.Vector{}, linalg.Vector{}, linalg.Vector{}, err
			}
		}
		prevIndex = e.index

		basis.Set(0, i, multiplier.Pow(e.index).Mod(modulusValue))
		basis.Set(i+1, i, modulusValue)

		offset.Set(i, rational.FromBigInt(cursor.GetSeed()))
		min.Set(i, rational.FromBigInt(sc.Min))
		max.Set(i, rational.FromBigInt(sc.Max))
	}

	min = min.Sub(offset)
	max = max.Sub(offset)
	return basis, offset, min, max, nil
}

// reduceLattice rescales basis so every axis has comparable width
// before running LLL, then unscales the reduced result — LLL is
// scale-sensitive, so mixing a huge modulus row against a narrow
// domain-bound row without normalizing first would reduce poorly.
func reduceLattice(basis linalg.Matrix, min, max linalg.Vector, delta rational.Value) (linalg.Matrix, error) {
	n := min.Size()
	sideLengths := make([]*big.Int, n)
	lengthValues := make([]rational.Value, n)
	lcm := big.NewInt(1)
	for i := 0; i < n; i++ {
		length := max.Get(i).Sub(min.Get(i)).Add(rational.One)
		if length.Sign() <= 0 {
			return linalg.Matrix{}, simplex.ErrInfeasible
		}
		sideLengths[i] = length.Numerator()
		lengthValues[i] = length
		gcd := new(big.Int).GCD(nil, nil, lcm, sideLengths[i])
		lcm = new(big.Int).Div(new(big.Int).Mul(lcm, sideLengths[i]), gcd)
	}
	lcmValue := rational.FromBigInt(lcm)

	scale := linalg.OfDiagonal(linalg.Generate(n, func(row int) rational.Value {
		return lcmValue.Div(lengthValues[row])
	}))

	scaled := scale.Mul(basis)
	reduced := lll.Reduce(scaled, delta)
	unscaled := scale.Inverse().Mul(reduced)
	return unscaled, nil
}

// orderedProgram builds the LP over min <= x <= max and sorts
// basisInverse's rows by ascending LP-bound width, narrowest first,
// returning the permutation applied (order[i] is the original row now
// at position i).
func orderedProgram(basisInverse linalg.Matrix, min, max linalg.Vector) (*simplex.Program, []int, error) {
	n := min.Size()
	mins := make([]rational.Value, n)
	maxs := make([]rational.Value, n)
	for i := 0; i < n; i++ {
		mins[i] = min.Get(i)
		maxs[i] = max.Get(i)
	}

	builder := simplex.NewBuilder(n)
	builder.AddBoundedBasis(linalg.Identity(n), mins, maxs)
	program := builder.Build()

	type rowWidth struct {
		row   int
		width rational.Value
	}
	widths := make([]rowWidth, n)
	for i := 0; i < n; i++ {
		gradient := basisInverse.Row(i)
		lo, err := program.Minimize(gradient)
		if err != nil {
			return nil, nil, err
		}
		hi, err := program.Maximize(gradient)
		if err != nil {
			return nil, nil, err
		}
		widths[i] = rowWidth{row: i, width: hi.Dot(gradient).Sub(lo.Dot(gradient))}
	}

	sort.Slice(widths, func(i, j int) bool { return widths[i].width.Cmp(widths[j].width) < 0 })

	order := make([]int, n)
	for i, rw := range widths {
		order[i] = rw.row
	}
	return program, order, nil
}

// permuteRows returns a matrix whose row i is m's row order[i].
func permuteRows(m linalg.Matrix, order []int) linalg.Matrix {
	rows := make([]linalg.Vector, len(order))
	for i, orig := range order {
		rows[i] = m.Row(orig).Copy()
	}
	return linalg.OfRows(rows...)
}

// unpermute reverses permuteRows: sorted holds values indexed by
// sorted-row position, and the result holds them indexed by original
// row position.
func unpermute(sorted linalg.Vector, order []int) linalg.Vector {
	return linalg.Generate(sorted.Size(), func(i int) rational.Value {
		for pos, orig := range order {
			if orig == i {
				return sorted.Get(pos)
			}
		}
		panic("reverser: order is not a permutation")
	})
}

// validate replays every recorded entry (including filter-only ones)
// against a cursor started at candidate, in transcript order,
// confirming each call reproduces its recorded observation. The first
// entry always advances the cursor by its own absolute index before
// its own check, unlike every later entry, which advances by the gap
// since the previous entry's index plus its skip count — the cursor
// starts positioned at the true initial seed, one step before index 0,
// so entry 0's own index *is* its gap from there.
func (r *Reverser) validate(lc lcg.LCG, candidate *big.Int) bool {
	cursor := lcg.NewRandom(lc)
	cursor.SetRawSeed(candidate)

	prevIndex, prevSkips := 0, 0
	for i, e := range r.entries {
		gap := e.index
		if i != 0 {
			gap = e.index - (prevIndex + prevSkips)
		}
		for s := 0; s < gap; s++ {
			cursor.Skip()
		}
		if !e.call.Validate(cursor) {
			return false
		}
		prevIndex, prevSkips = e.index, e.call.Skips()
	}
	return true
}
