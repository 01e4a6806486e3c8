// Package lcg implements the linear congruential generator model the
// reverser operates on: an affine map x -> a*x + b (mod m), step
// composition by square-and-accumulate in the resulting affine
// semigroup, and a Random cursor that advances a register of state
// under a fixed LCG. The concrete Java-compatible generator used by
// java.util.Random is exposed as Java.
package lcg

import (
	"errors"
	"math/big"
)

// ErrNotInvertible is returned by Step for a negative exponent when
// the LCG's multiplier has no inverse modulo its modulus.
var ErrNotInvertible = errors.New("lcg: multiplier is not invertible modulo the modulus")

// LCG is the affine recurrence seed' = multiplier*seed + increment
// (mod modulus).
type LCG struct {
	Multiplier *big.Int
	Increment  *big.Int
	Modulus    *big.Int
}

// Java is the 48-bit LCG underlying java.util.Random.
var Java = LCG{
	Multiplier: big.NewInt(0x5DEECE66D),
	Increment:  big.NewInt(0xB),
	Modulus:    new(big.Int).Lsh(big.NewInt(1), 48),
}

// isPowerOfTwo reports whether m is a positive power of two.
func isPowerOfTwo(m *big.Int) bool {
	if m.Sign() <= 0 {
		return false
	}
	return new(big.Int).And(m, new(big.Int).Sub(m, big.NewInt(1))).Sign() == 0
}

// Mod reduces x into [0, modulus). For a power-of-two modulus this is
// a bitmask, matching the Java implementation's fast path exactly;
// otherwise it is a general modular reduction.
func (l LCG) Mod(x *big.Int) *big.Int {
	if isPowerOfTwo(l.Modulus) {
		mask := new(big.Int).Sub(l.Modulus, big.NewInt(1))
		return new(big.Int).And(x, mask)
	}
	r := new(big.Int).Mod(x, l.Modulus)
	return r
}

// Next advances seed by one step: multiplier*seed + increment (mod m).
func (l LCG) Next(seed *big.Int) *big.Int {
	v := new(big.Int).Mul(l.Multiplier, seed)
	v.Add(v, l.Increment)
	return l.Mod(v)
}

// Scramble XORs seed with the multiplier, the transform
// java.util.Random applies to a user-supplied seed before storing it
// as the generator's internal register.
func (l LCG) Scramble(seed *big.Int) *big.Int {
	return l.Mod(new(big.Int).Xor(seed, l.Multiplier))
}

// identity returns the zero-step LCG: seed' = seed.
func (l LCG) identity() LCG {
	return LCG{Multiplier: big.NewInt(1), Increment: big.NewInt(0), Modulus: l.Modulus}
}

// compose returns the LCG equivalent to first applying l, then other:
// other.Next(l.Next(seed)).
func (l LCG) compose(other LCG) LCG {
	mult := l.Mod(new(big.Int).Mul(l.Multiplier, other.Multiplier))
	inc := l.Mod(new(big.Int).Add(new(big.Int).Mul(l.Increment, other.Multiplier), other.Increment))
	return LCG{Multiplier: mult, Increment: inc, Modulus: l.Modulus}
}

// Step returns the LCG equivalent to applying l exactly k times,
// computed by square-and-accumulate in the affine-map semigroup so
// that no division is ever needed for k >= 0. Step(0) is the identity
// map and Step(1) is l itself, both short-circuited. A negative k
// requires l's multiplier to be invertible modulo the modulus (i.e.
// gcd(multiplier, modulus) = 1): l is inverted once, then the inverse
// is composed |k| times.
func (l LCG) Step(k int64) (LCG, error) {
	if k == 0 {
		return l.identity(), nil
	}
	if k == 1 {
		return l, nil
	}
	if k < 0 {
		inv, err := l.inverse()
		if err != nil {
			return LCG{}, err
		}
		return inv.Step(-k)
	}

	result := l.identity()
	base := l
	n := k
	for n > 0 {
		if n&1 == 1 {
			result = result.compose(base)
		}
		base = base.compose(base)
		n >>= 1
	}
	return result, nil
}

// inverse returns the LCG whose step function is the inverse affine
// map of l's: given seed' = a*seed + b (mod m), seed = a^-1*(seed' -
// b) (mod m). Returns ErrNotInvertible if a has no inverse mod m.
func (l LCG) inverse() (LCG, error) {
	invMult := new(big.Int).ModInverse(l.Multiplier, l.Modulus)
	if invMult == nil {
		return LCG{}, ErrNotInvertible
	}
	invInc := l.Mod(new(big.Int).Mul(new(big.Int).Neg(invMult), l.Increment))
	return LCG{Multiplier: invMult, Increment: invInc, Modulus: l.Modulus}, nil
}
