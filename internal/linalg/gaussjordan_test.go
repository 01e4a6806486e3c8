package linalg

import "testing"

func TestGaussJordanSolvesSystem(t *testing.T) {
	// x + y = 3, x - y = 1  =>  x=2, y=1
	main := OfRows(Of(r(1), r(1)), Of(r(1), r(-1)))
	rhs := OfColumns(Of(r(3), r(1)))
	aug := NewAugmented(main, rhs)
	pivots := RunGaussJordan(aug, true)
	for _, p := range pivots {
		if p < 0 {
			t.Fatal("expected every column to pivot for a nonsingular system")
		}
	}
	solved := aug.Other(0)
	if !solved.Get(0, 0).Equal(r(2)) || !solved.Get(0, 1).Equal(r(1)) {
		t.Fatalf("solution = (%s, %s), want (2, 1)", solved.Get(0, 0), solved.Get(0, 1))
	}
}

func TestGaussJordanRankDeficientLeavesUnpivotedColumn(t *testing.T) {
	// two identical rows: rank 1, one column never pivots.
	main := OfRows(Of(r(1), r(2)), Of(r(2), r(4)))
	aug := NewAugmented(main)
	pivots := RunGaussJordan(aug, true)
	unpivoted := 0
	for _, p := range pivots {
		if p < 0 {
			unpivoted++
		}
	}
	if unpivoted != 1 {
		t.Fatalf("expected exactly one unpivoted column, got %d", unpivoted)
	}
}

func TestAugmentedPivotCellBroadcastsAcrossOthers(t *testing.T) {
	main := OfRows(Of(r(2), r(0)), Of(r(0), r(1)))
	other := OfRows(Of(r(10), r(20)), Of(r(30), r(40)))
	aug := NewAugmented(main, other)
	aug.PivotCell(0, 0, true)
	if !aug.Main().Get(0, 0).Equal(r(1)) {
		t.Fatalf("pivot did not normalize main to 1, got %s", aug.Main().Get(0, 0))
	}
	if !aug.Other(0).Get(0, 0).Equal(r(5)) || !aug.Other(0).Get(1, 0).Equal(r(10)) {
		t.Fatalf("pivot did not scale auxiliary row, got (%s, %s)", aug.Other(0).Get(0, 0), aug.Other(0).Get(1, 0))
	}
}

func TestAugmentedSwapRows(t *testing.T) {
	main := OfRows(Of(r(1), r(2)), Of(r(3), r(4)))
	aug := NewAugmented(main)
	aug.SwapRows(0, 1)
	if !aug.Main().Get(0, 0).Equal(r(3)) || !aug.Main().Get(0, 1).Equal(r(1)) {
		t.Fatalf("SwapRows did not exchange rows")
	}
}
