// Package rational implements arbitrary-precision rational arithmetic
// with a normalized sign and gcd-reduced form. It is the numeric
// foundation of the seed-solver pipeline: every step from lattice
// construction through LLL through simplex runs on exact fractions so
// that no floating-point rounding can ever misclassify a lattice point.
package rational

import (
	"fmt"
	"math/big"
)

// Value is an immutable rational number, always held in lowest terms
// with a positive denominator. The zero Value is not valid; use Zero
// or one of the constructors.
type Value struct {
	num *big.Int
	den *big.Int
}

var (
	Zero      = FromInt64(0)
	One       = FromInt64(1)
	Two       = FromInt64(2)
	Half      = New(1, 2)
	MinusHalf = Half.Negate()
	MinusOne  = One.Negate()
	MinusTwo  = Two.Negate()
)

// FromInt64 constructs an integer value.
func FromInt64(n int64) Value {
	return FromBigInt(big.NewInt(n))
}

// FromBigInt constructs an integer value from a big.Int, copying it.
func FromBigInt(n *big.Int) Value {
	return normalize(new(big.Int).Set(n), big.NewInt(1))
}

// New constructs num/den from int64s.
func New(num, den int64) Value {
	return NewBig(big.NewInt(num), big.NewInt(den))
}

// NewBig constructs num/den from big.Ints, copying both.
func NewBig(num, den *big.Int) Value {
	return normalize(new(big.Int).Set(num), new(big.Int).Set(den))
}

// normalize takes ownership of num and den and returns the reduced form:
// if num == 0 then den = 1; else den > 0 and gcd(|num|, den) = 1.
func normalize(num, den *big.Int) Value {
	if num.Sign() == 0 {
		return Value{num: big.NewInt(0), den: big.NewInt(1)}
	}
	if den.Sign() < 0 {
		num.Neg(num)
		den.Neg(den)
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(num), den)
	if g.Cmp(big.NewInt(1)) != 0 {
		num.Quo(num, g)
		den.Quo(den, g)
	}
	return Value{num: num, den: den}
}

func (v Value) String() string {
	if v.IsInteger() {
		return v.num.String()
	}
	return fmt.Sprintf("%s/%s", v.num, v.den)
}

// Numerator returns the normalized numerator.
func (v Value) Numerator() *big.Int { return new(big.Int).Set(v.num) }

// Denominator returns the normalized denominator (always > 0).
func (v Value) Denominator() *big.Int { return new(big.Int).Set(v.den) }

// IsInteger reports whether the denominator is 1.
func (v Value) IsInteger() bool { return v.den.Cmp(big.NewInt(1)) == 0 }

// Sign returns -1, 0 or 1.
func (v Value) Sign() int { return v.num.Sign() }

// Int64 returns the numerator as an int64, valid only when IsInteger().
func (v Value) Int64() int64 { return v.num.Int64() }

// Uint64 returns the numerator as a uint64, valid only when IsInteger()
// and non-negative.
func (v Value) Uint64() uint64 { return v.num.Uint64() }

func (v Value) Add(o Value) Value {
	n1 := new(big.Int).Mul(v.num, o.den)
	n2 := new(big.Int).Mul(o.num, v.den)
	return normalize(n1.Add(n1, n2), new(big.Int).Mul(v.den, o.den))
}

func (v Value) Sub(o Value) Value {
	n1 := new(big.Int).Mul(v.num, o.den)
	n2 := new(big.Int).Mul(o.num, v.den)
	return normalize(n1.Sub(n1, n2), new(big.Int).Mul(v.den, o.den))
}

func (v Value) Mul(o Value) Value {
	return normalize(new(big.Int).Mul(v.num, o.num), new(big.Int).Mul(v.den, o.den))
}

// Div divides by o. Panics if o is zero, mirroring the spec's
// "callers responsible" contract for inversion.
func (v Value) Div(o Value) Value {
	if o.Sign() == 0 {
		panic("rational: division by zero")
	}
	return normalize(new(big.Int).Mul(v.num, o.den), new(big.Int).Mul(v.den, o.num))
}

func (v Value) Negate() Value {
	return Value{num: new(big.Int).Neg(v.num), den: new(big.Int).Set(v.den)}
}

// Inverse returns 1/v. Panics if v is zero.
func (v Value) Inverse() Value {
	if v.Sign() == 0 {
		panic("rational: inverse of zero")
	}
	return NewBig(v.den, v.num)
}

// Abs returns the absolute value.
func (v Value) Abs() Value {
	if v.Sign() < 0 {
		return v.Negate()
	}
	return v
}

// Pow raises v to an integer exponent; a negative exponent raises the
// inverse of v (and so panics when v is zero).
func (v Value) Pow(exponent int) Value {
	if exponent < 0 {
		return v.Inverse().Pow(-exponent)
	}
	return normalize(new(big.Int).Exp(v.num, big.NewInt(int64(exponent)), nil),
		new(big.Int).Exp(v.den, big.NewInt(int64(exponent)), nil))
}

// Floor returns the greatest integer <= v, truncating toward zero and
// correcting for negative non-integers (Go's big.Int.Quo truncates
// toward zero, same as Java's BigInteger.divide).
func (v Value) Floor() Value {
	if v.IsInteger() {
		return v
	}
	q := new(big.Int).Quo(v.num, v.den)
	if v.num.Sign() < 0 {
		q.Sub(q, big.NewInt(1))
	}
	return FromBigInt(q)
}

// Ceil returns the smallest integer >= v.
func (v Value) Ceil() Value {
	if v.IsInteger() {
		return v
	}
	q := new(big.Int).Quo(v.num, v.den)
	if v.num.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return FromBigInt(q)
}

// Round implements (x - 1/2).Ceil(): ties round down, toward negative
// infinity, so 1/2 rounds to 0 and -1/2 rounds to -1. This
// matches the reference reverser's rounding exactly, which LLL's
// size-reduction step depends on to terminate identically.
func (v Value) Round() Value {
	return v.Sub(Half).Ceil()
}

// Mod returns v - floor(v/m)*m.
func (v Value) Mod(m Value) Value {
	return v.Sub(v.Div(m).Floor().Mul(m))
}

// Cmp returns -1, 0 or 1 comparing v to o.
func (v Value) Cmp(o Value) int {
	return v.Sub(o).Sign()
}

// Equal reports whether v and o denote the same rational number.
func (v Value) Equal(o Value) bool {
	return v.num.Cmp(o.num) == 0 && v.den.Cmp(o.den) == 0
}
