package linalg

import "regen/internal/rational"

// Matrix is a column-major dense matrix of rational values. Columns,
// rows, and the main diagonal are all exposed as Vector views sharing
// the matrix's backing storage, matching the column/row/diagonal
// stride-and-offset formulas of the reference implementation.
type Matrix struct {
	storage       []rational.Value
	width, height int
}

// NewMatrix constructs a zero matrix of the given dimensions.
func NewMatrix(width, height int) Matrix {
	storage := make([]rational.Value, width*height)
	for i := range storage {
		storage[i] = rational.Zero
	}
	return Matrix{storage: storage, width: width, height: height}
}

// GenerateMatrix builds a matrix by calling gen for every (col, row).
func GenerateMatrix(width, height int, gen func(col, row int) rational.Value) Matrix {
	m := NewMatrix(width, height)
	for col := 0; col < width; col++ {
		for row := 0; row < height; row++ {
			m.Set(col, row, gen(col, row))
		}
	}
	return m
}

// Identity returns the size x size identity matrix.
func Identity(size int) Matrix {
	return GenerateMatrix(size, size, func(col, row int) rational.Value {
		if col == row {
			return rational.One
		}
		return rational.Zero
	})
}

// OfDiagonal returns the square matrix whose diagonal is entries and
// whose off-diagonal cells are zero, the inverse operation of
// Matrix.Diagonal.
func OfDiagonal(entries Vector) Matrix {
	size := entries.Size()
	return GenerateMatrix(size, size, func(col, row int) rational.Value {
		if col == row {
			return entries.Get(row)
		}
		return rational.Zero
	})
}

// OfColumns builds a matrix whose columns are the given vectors, all of
// which must share the same size. Panics if columns is empty or the
// sizes disagree.
func OfColumns(columns ...Vector) Matrix {
	if len(columns) == 0 {
		panic("linalg: OfColumns needs at least one column")
	}
	height := columns[0].Size()
	m := NewMatrix(len(columns), height)
	for col, v := range columns {
		m.Column(col).SetVector(v)
	}
	return m
}

// OfRows builds a matrix whose rows are the given vectors.
func OfRows(rows ...Vector) Matrix {
	if len(rows) == 0 {
		panic("linalg: OfRows needs at least one row")
	}
	width := rows[0].Size()
	m := NewMatrix(width, len(rows))
	for row, v := range rows {
		m.Row(row).SetVector(v)
	}
	return m
}

func (m Matrix) Width() int  { return m.width }
func (m Matrix) Height() int { return m.height }

// Get returns the value at (col, row). Panics if out of range.
func (m Matrix) Get(col, row int) rational.Value {
	if col < 0 || col >= m.width || row < 0 || row >= m.height {
		panic("linalg: matrix index out of range")
	}
	return m.storage[m.height*col+row]
}

// Set assigns the value at (col, row). Panics if out of range.
func (m Matrix) Set(col, row int, value rational.Value) {
	if col < 0 || col >= m.width || row < 0 || row >= m.height {
		panic("linalg: matrix index out of range")
	}
	m.storage[m.height*col+row] = value
}

// Column returns a view of column index: size height, stride 1,
// offset height*index.
func (m Matrix) Column(index int) Vector {
	if index < 0 || index >= m.width {
		panic("linalg: matrix column index out of range")
	}
	return View(m.storage, m.height, 1, m.height*index)
}

// Row returns a view of row index: size width, stride height, offset index.
func (m Matrix) Row(index int) Vector {
	if index < 0 || index >= m.height {
		panic("linalg: matrix row index out of range")
	}
	return View(m.storage, m.width, m.height, index)
}

// Diagonal returns a view of the main diagonal: size width, stride
// height+1, offset 0.
func (m Matrix) Diagonal() Vector {
	return View(m.storage, m.width, m.height+1, 0)
}

// Copy returns a matrix with fresh, independent storage.
func (m Matrix) Copy() Matrix {
	storage := make([]rational.Value, len(m.storage))
	copy(storage, m.storage)
	return Matrix{storage: storage, width: m.width, height: m.height}
}

// SwapColumns exchanges columns a and b. The exchanged cells are
// copied first since the two views alias the same storage.
func (m Matrix) SwapColumns(a, b int) {
	if a == b {
		return
	}
	ca, cb := m.Column(a).Copy(), m.Column(b).Copy()
	m.Column(a).SetVector(cb)
	m.Column(b).SetVector(ca)
}

// SwapRows exchanges rows a and b.
func (m Matrix) SwapRows(a, b int) {
	if a == b {
		return
	}
	ra, rb := m.Row(a).Copy(), m.Row(b).Copy()
	m.Row(a).SetVector(rb)
	m.Row(b).SetVector(ra)
}

// Transpose returns a new matrix with rows and columns swapped.
func (m Matrix) Transpose() Matrix {
	return GenerateMatrix(m.height, m.width, func(col, row int) rational.Value {
		return m.Get(row, col)
	})
}

// Mul multiplies m by another matrix. Panics if m.width != other.height.
func (m Matrix) Mul(other Matrix) Matrix {
	if m.width != other.height {
		panic("linalg: matrix dimension mismatch")
	}
	return GenerateMatrix(other.width, m.height, func(col, row int) rational.Value {
		return m.Row(row).Dot(other.Column(col))
	})
}

// MulVector multiplies m by a column vector. Panics if m.width != v.Size().
func (m Matrix) MulVector(v Vector) Vector {
	if m.width != v.Size() {
		panic("linalg: matrix/vector dimension mismatch")
	}
	return Generate(m.height, func(row int) rational.Value {
		return m.Row(row).Dot(v)
	})
}

// Determinant computes the determinant via cofactor expansion along
// column 0. Panics if m is not square. A 0-width matrix has
// determinant 0, matching the reference implementation exactly (not
// the mathematically conventional 1 for an empty product).
func (m Matrix) Determinant() rational.Value {
	if m.width != m.height {
		panic("linalg: determinant requires a square matrix")
	}
	if m.width == 0 {
		return rational.Zero
	}
	if m.width == 1 {
		return m.Get(0, 0)
	}
	sum := rational.Zero
	sign := rational.One
	for row := 0; row < m.height; row++ {
		entry := m.Get(0, row)
		if entry.Sign() != 0 {
			minor := m.minor(0, row)
			sum = sum.Add(sign.Mul(entry).Mul(minor.Determinant()))
		}
		sign = sign.Negate()
	}
	return sum
}

// minor returns the (height-1)x(width-1) submatrix with column col and
// row row removed.
func (m Matrix) minor(col, row int) Matrix {
	return GenerateMatrix(m.width-1, m.height-1, func(c, r int) rational.Value {
		if c >= col {
			c++
		}
		if r >= row {
			r++
		}
		return m.Get(c, r)
	})
}

// Inverse computes the matrix inverse via Gauss-Jordan elimination on
// [m | I]. Panics if m is not square or is singular.
func (m Matrix) Inverse() Matrix {
	if m.width != m.height {
		panic("linalg: inverse requires a square matrix")
	}
	aug := NewAugmented(m.Copy(), Identity(m.width))
	pivots := RunGaussJordan(aug, true)
	for _, p := range pivots {
		if p < 0 {
			panic("linalg: matrix is singular")
		}
	}
	return aug.Other(0)
}
