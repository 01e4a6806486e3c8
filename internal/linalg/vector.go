// Package linalg implements dense exact-rational vectors and matrices
// with strided views sharing storage, Gauss-Jordan elimination, and
// the matrix algebra (inverse, determinant, transpose) the LLL reducer
// and simplex tableau builder are layered on top of.
package linalg

import "regen/internal/rational"

// Vector is a storage-and-view concept, not a container: index i maps
// to storage[offset+i*stride]. A view shares storage with whoever
// constructed it (a Matrix row/column/diagonal, typically); a Copy
// owns fresh storage. Mutating a view is visible through any other
// view of the same cells.
type Vector struct {
	storage []rational.Value
	size    int
	stride  int
	offset  int
}

// Operator is a component-wise binary operation applied across a
// vector (and, in the two-operand form, another vector or a scalar).
type Operator func(lhs, rhs rational.Value) rational.Value

// Of wraps a freshly-owned, contiguous slice of values as a vector.
func Of(values ...rational.Value) Vector {
	return Vector{storage: values, size: len(values), stride: 1, offset: 0}
}

// View constructs a vector view over an existing, shared storage slice.
func View(storage []rational.Value, size, stride, offset int) Vector {
	return Vector{storage: storage, size: size, stride: stride, offset: offset}
}

// Zero constructs a zero vector of the given size.
func Zero(size int) Vector {
	return Repeat(size, rational.Zero)
}

// Repeat constructs a vector with every component equal to value.
func Repeat(size int, value rational.Value) Vector {
	storage := make([]rational.Value, size)
	for i := range storage {
		storage[i] = value
	}
	return Of(storage...)
}

// Basis constructs a vector that is zero everywhere except at index,
// where it holds value.
func Basis(size, index int, value rational.Value) Vector {
	v := Zero(size)
	v.Set(index, value)
	return v
}

// BasisUnit is Basis with value = 1.
func BasisUnit(size, index int) Vector {
	return Basis(size, index, rational.One)
}

// Generate builds a vector by calling gen for every index.
func Generate(size int, gen func(i int) rational.Value) Vector {
	storage := make([]rational.Value, size)
	for i := range storage {
		storage[i] = gen(i)
	}
	return Of(storage...)
}

// Size returns the number of components.
func (v Vector) Size() int { return v.size }

// Get returns the value at index. Panics if index is out of [0, Size()).
func (v Vector) Get(index int) rational.Value {
	if index < 0 || index >= v.size {
		panic("linalg: vector index out of range")
	}
	return v.storage[index*v.stride+v.offset]
}

// Set assigns the value at index. Panics if index is out of range.
func (v Vector) Set(index int, value rational.Value) {
	if index < 0 || index >= v.size {
		panic("linalg: vector index out of range")
	}
	v.storage[index*v.stride+v.offset] = value
}

// SetVector copies every component of other into v. Panics on size mismatch.
func (v Vector) SetVector(other Vector) {
	if v.size != other.size {
		panic("linalg: vector size mismatch")
	}
	for i := 0; i < v.size; i++ {
		v.Set(i, other.Get(i))
	}
}

// Copy returns a new vector with fresh, contiguous storage holding the
// same values as v.
func (v Vector) Copy() Vector {
	storage := make([]rational.Value, v.size)
	for i := 0; i < v.size; i++ {
		storage[i] = v.Get(i)
	}
	return Of(storage...)
}

// ApplyAndSet applies op component-wise between v and other, writing
// the results back into v, and returns v.
func (v Vector) ApplyAndSet(op Operator, other Vector) Vector {
	if v.size != other.size {
		panic("linalg: vector size mismatch")
	}
	for i := 0; i < v.size; i++ {
		v.Set(i, op(v.Get(i), other.Get(i)))
	}
	return v
}

// ApplyScalarAndSet applies op between every component of v and scalar,
// writing the results back into v, and returns v.
func (v Vector) ApplyScalarAndSet(op Operator, scalar rational.Value) Vector {
	for i := 0; i < v.size; i++ {
		v.Set(i, op(v.Get(i), scalar))
	}
	return v
}

func (v Vector) AddAndSet(other Vector) Vector { return v.ApplyAndSet(rational.Value.Add, other) }
func (v Vector) SubAndSet(other Vector) Vector { return v.ApplyAndSet(rational.Value.Sub, other) }
func (v Vector) MulAndSet(other Vector) Vector { return v.ApplyAndSet(rational.Value.Mul, other) }
func (v Vector) DivAndSet(other Vector) Vector { return v.ApplyAndSet(rational.Value.Div, other) }

func (v Vector) MulScalarAndSet(scalar rational.Value) Vector {
	return v.ApplyScalarAndSet(rational.Value.Mul, scalar)
}
func (v Vector) DivScalarAndSet(scalar rational.Value) Vector {
	return v.ApplyScalarAndSet(rational.Value.Div, scalar)
}
func (v Vector) NegateAndSet() Vector { return v.MulScalarAndSet(rational.MinusOne) }

// Apply returns a fresh vector holding the component-wise op(v, other),
// leaving both operands unmodified.
func (v Vector) Apply(op Operator, other Vector) Vector { return v.Copy().ApplyAndSet(op, other) }

// ApplyScalar returns a fresh vector holding op(v, scalar) component-wise.
func (v Vector) ApplyScalar(op Operator, scalar rational.Value) Vector {
	return v.Copy().ApplyScalarAndSet(op, scalar)
}

func (v Vector) Add(other Vector) Vector { return v.Apply(rational.Value.Add, other) }
func (v Vector) Sub(other Vector) Vector { return v.Apply(rational.Value.Sub, other) }
func (v Vector) Mul(other Vector) Vector { return v.Apply(rational.Value.Mul, other) }
func (v Vector) Div(other Vector) Vector { return v.Apply(rational.Value.Div, other) }

func (v Vector) MulScalar(scalar rational.Value) Vector {
	return v.ApplyScalar(rational.Value.Mul, scalar)
}
func (v Vector) DivScalar(scalar rational.Value) Vector {
	return v.ApplyScalar(rational.Value.Div, scalar)
}
func (v Vector) Negate() Vector { return v.MulScalar(rational.MinusOne) }

// IsZero reports whether every component is zero.
func (v Vector) IsZero() bool {
	for i := 0; i < v.size; i++ {
		if v.Get(i).Sign() != 0 {
			return false
		}
	}
	return true
}

// Dot computes the dot product of v and other. Panics on size mismatch.
func (v Vector) Dot(other Vector) rational.Value {
	if v.size != other.size {
		panic("linalg: vector size mismatch")
	}
	sum := rational.Zero
	for i := 0; i < v.size; i++ {
		sum = sum.Add(v.Get(i).Mul(other.Get(i)))
	}
	return sum
}

// SDot returns the squared length of v (v.Dot(v)).
func (v Vector) SDot() rational.Value { return v.Dot(v) }

// GramSchmidt returns the Gram-Schmidt coefficient of projecting other
// onto v: (v . other) / (v . v).
func (v Vector) GramSchmidt(other Vector) rational.Value {
	return v.Dot(other).Div(v.SDot())
}

// Proj projects other onto v.
func (v Vector) Proj(other Vector) Vector {
	return v.MulScalar(v.GramSchmidt(other))
}
