package lcg

import "math/big"

// RegisterBits is the width of java.util.Random's internal register.
const RegisterBits = 48

// next returns the top `bits` bits of the register after one LCG
// step, as java.util.Random.next(bits) does: (int)(seed >>> (48 -
// bits)) after advancing seed. It also returns the advanced register
// value so callers building bit-range constraints know what it was
// derived from.
func next(r *Random, bits int) (int32, *big.Int) {
	seed := r.NextSeed()
	shifted := new(big.Int).Rsh(seed, uint(RegisterBits-bits))
	return int32(uint32(shifted.Uint64())), seed
}

// NextBoolean returns the next boolean, consuming one step.
func NextBoolean(r *Random) bool {
	v, _ := next(r, 1)
	return v != 0
}

// NextInt returns the next full-range int32, consuming one step.
func NextInt(r *Random) int32 {
	v, _ := next(r, 32)
	return v
}

// NextIntRangedPow2 returns nextInt(bound) for a power-of-two bound,
// consuming one step. bound must be a positive power of two.
func NextIntRangedPow2(r *Random, bound int32) int32 {
	v, _ := next(r, 31)
	return int32((int64(bound) * int64(v)) >> 31)
}

// NextIntRanged returns nextInt(bound) for an arbitrary positive
// bound, plus the number of LCG steps the rejection-sampling loop
// consumed. Mirrors java.util.Random.nextInt(int)'s loop exactly,
// including the wrapping int32 overflow check that terminates it.
func NextIntRanged(r *Random, bound int32) (int32, int) {
	if bound&(bound-1) == 0 {
		return NextIntRangedPow2(r, bound), 1
	}
	steps := 0
	for {
		bits, _ := next(r, 31)
		steps++
		val := bits % bound
		if bits-val+(bound-1) >= 0 {
			return val, steps
		}
	}
}

// NextLong returns the next int64, consuming two steps.
func NextLong(r *Random) int64 {
	hi, _ := next(r, 32)
	lo, _ := next(r, 32)
	return (int64(hi) << 32) + int64(lo)
}

// NextFloat returns the next float32, consuming one step.
func NextFloat(r *Random) float32 {
	v, _ := next(r, 24)
	return float32(v) / float32(1<<24)
}

// NextDouble returns the next float64, consuming two steps.
func NextDouble(r *Random) float64 {
	hi, _ := next(r, 26)
	lo, _ := next(r, 27)
	combined := (int64(hi) << 27) + int64(lo)
	return float64(combined) / float64(int64(1)<<53)
}
