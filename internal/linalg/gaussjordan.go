package linalg

// RunGaussJordan reduces aug's main matrix to row-echelon form (or, if
// reduceAbove is true, fully reduced row-echelon form) by column-major
// pivoting, applying every row operation to the auxiliary matrices as
// well. It returns, for each column, the row it was pivoted on, or -1
// if the column never produced a pivot (it is a free/dependent column).
func RunGaussJordan(aug *Augmented, reduceAbove bool) []int {
	width, height := aug.Width(), aug.Height()
	pivots := make([]int, width)
	for i := range pivots {
		pivots[i] = -1
	}

	row := 0
	for col := 0; col < width && row < height; col++ {
		pivotRow := findPivotRow(aug, col, row)
		if pivotRow < 0 {
			continue
		}
		if pivotRow != row {
			aug.SwapRows(pivotRow, row)
		}
		aug.PivotCell(col, row, reduceAbove)
		pivots[col] = row
		row++
	}
	return pivots
}

// findPivotRow scans column col from startRow downward for the first
// nonzero entry, returning its row index or -1 if the column is all
// zero from startRow on.
func findPivotRow(aug *Augmented, col, startRow int) int {
	for row := startRow; row < aug.Height(); row++ {
		if aug.Main().Get(col, row).Sign() != 0 {
			return row
		}
	}
	return -1
}
