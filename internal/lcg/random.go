package lcg

import "math/big"

// Random is a cursor over an LCG's state register: NextSeed advances
// it and returns the new raw register value, Skip/SkipN advance
// without returning, SetSeed installs a seed in its scrambled
// (java.util.Random-compatible) form, and SetRawSeed/GetSeed set and
// read the raw register.
type Random struct {
	lcg  LCG
	seed *big.Int
}

// NewRandom constructs a cursor over lcg with an unset (zero) register.
func NewRandom(l LCG) *Random {
	return &Random{lcg: l, seed: big.NewInt(0)}
}

// SetSeed scrambles seed (XOR with the multiplier, per
// java.util.Random's constructor/setSeed) and installs it as the
// current register.
func (r *Random) SetSeed(seed *big.Int) {
	r.seed = r.lcg.Scramble(seed)
}

// SetRawSeed installs seed directly as the register, with no
// scrambling. Used to seed a cursor from a value already known to be
// in internal-register form (e.g. a candidate produced by the
// reverser, which reconstructs the register directly).
func (r *Random) SetRawSeed(seed *big.Int) {
	r.seed = r.lcg.Mod(new(big.Int).Set(seed))
}

// GetSeed returns a copy of the current raw register value.
func (r *Random) GetSeed() *big.Int {
	return new(big.Int).Set(r.seed)
}

// NextSeed advances the register by one LCG step and returns a copy
// of the new value.
func (r *Random) NextSeed() *big.Int {
	r.seed = r.lcg.Next(r.seed)
	return new(big.Int).Set(r.seed)
}

// Skip advances the register by one step without returning it,
// modeling a call whose output the transcript does not record.
func (r *Random) Skip() {
	r.seed = r.lcg.Next(r.seed)
}

// SkipN advances the register by k steps (k may be negative, provided
// the underlying LCG's multiplier is invertible modulo its modulus).
func (r *Random) SkipN(k int64) error {
	step, err := r.lcg.Step(k)
	if err != nil {
		return err
	}
	r.seed = step.Next(r.seed)
	return nil
}

// LCG returns the LCG this cursor advances under.
func (r *Random) LCG() LCG { return r.lcg }

// Scramble applies the cursor's LCG scrambling transform to seed,
// without installing it. Callers holding a raw register value
// produced by SetRawSeed (e.g. a reverser candidate) use this to
// recover the literal argument a SetSeed call would have taken.
func (r *Random) Scramble(seed *big.Int) *big.Int {
	return r.lcg.Scramble(seed)
}
