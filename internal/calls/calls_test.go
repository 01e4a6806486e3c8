package calls

import (
	"math/big"
	"testing"

	"pgregory.net/rapid"

	"regen/internal/lcg"
)

// replay constructs a Random seeded directly from a known register
// value and drains it through call, checking that the bit-range
// constraints ToSeed derives are satisfied by the actual register at
// the point each constrained step lands, and that Validate agrees.
func replay(t *testing.T, seed int64, call RandomCall) {
	t.Helper()
	r := lcg.NewRandom(lcg.Java)
	r.SetRawSeed(big.NewInt(seed))

	check := lcg.NewRandom(lcg.Java)
	check.SetRawSeed(big.NewInt(seed))
	for _, sc := range call.ToSeed() {
		reg := check.NextSeed()
		if reg.Cmp(sc.Min) < 0 || reg.Cmp(sc.Max) > 0 {
			t.Fatalf("register %s outside derived range [%s, %s]", reg, sc.Min, sc.Max)
		}
	}
	remaining := call.Skips() - len(call.ToSeed())
	for i := 0; i < remaining; i++ {
		check.Skip()
	}

	if !call.Validate(r) {
		t.Fatalf("Validate failed to replay its own observation")
	}
}

func TestBooleanCallRoundTrips(t *testing.T) {
	for _, seed := range []int64{0, 1, 42, 123456789} {
		r := lcg.NewRandom(lcg.Java)
		r.SetSeed(big.NewInt(seed))
		v := lcg.NextBoolean(r)

		raw := lcg.Java.Scramble(big.NewInt(seed))
		replay(t, raw.Int64(), BooleanCall{Value: v})
	}
}

func TestIntegerCallRoundTripsExactValue(t *testing.T) {
	for _, seed := range []int64{0, 1, 42, 999999} {
		r := lcg.NewRandom(lcg.Java)
		r.SetSeed(big.NewInt(seed))
		v := lcg.NextInt(r)

		raw := lcg.Java.Scramble(big.NewInt(seed))
		replay(t, raw.Int64(), IntegerCall{Min: v, Max: v})
	}
}

func TestIntegerCallRoundTripsWideRange(t *testing.T) {
	for _, seed := range []int64{0, 1, 42, 999999} {
		r := lcg.NewRandom(lcg.Java)
		r.SetSeed(big.NewInt(seed))
		v := lcg.NextInt(r)

		raw := lcg.Java.Scramble(big.NewInt(seed))
		replay(t, raw.Int64(), IntegerCall{Min: v - 1000, Max: v + 1000})
	}
}

func TestIntegerCallWordRangeSpanningSignBoundary(t *testing.T) {
	for _, seed := range []int64{0, 1, 42, 999999} {
		r := lcg.NewRandom(lcg.Java)
		r.SetSeed(big.NewInt(seed))
		v := lcg.NextInt(r)

		raw := lcg.Java.Scramble(big.NewInt(seed))
		replay(t, raw.Int64(), IntegerCall{Min: min(v, -5), Max: max(v, 5)})
	}
}

func TestIntegerRangeCallRoundTrips(t *testing.T) {
	for _, seed := range []int64{0, 1, 42, 55555} {
		for _, bound := range []int32{2, 8, 1024} {
			r := lcg.NewRandom(lcg.Java)
			r.SetSeed(big.NewInt(seed))
			v := lcg.NextIntRangedPow2(r, bound)

			raw := lcg.Java.Scramble(big.NewInt(seed))
			replay(t, raw.Int64(), IntegerRangeCall{Bound: bound, Min: v, Max: v})
		}
	}
}

func TestFloatCallRoundTrips(t *testing.T) {
	for _, seed := range []int64{0, 1, 42, 31415} {
		r := lcg.NewRandom(lcg.Java)
		r.SetSeed(big.NewInt(seed))
		v := lcg.NextFloat(r)

		raw := lcg.Java.Scramble(big.NewInt(seed))
		replay(t, raw.Int64(), FloatCall{Min: v, Max: v})
	}
}

func TestFloatCallRoundTripsWideRange(t *testing.T) {
	for _, seed := range []int64{0, 1, 42, 31415} {
		r := lcg.NewRandom(lcg.Java)
		r.SetSeed(big.NewInt(seed))
		v := lcg.NextFloat(r)

		raw := lcg.Java.Scramble(big.NewInt(seed))
		lo, hi := v-0.1, v+0.1
		if lo < 0 {
			lo = 0
		}
		if hi > 1 {
			hi = 1
		}
		replay(t, raw.Int64(), FloatCall{Min: lo, Max: hi})
	}
}

func TestFloatCallExclusiveBoundsExcludeEndpoints(t *testing.T) {
	seed := int64(31415)
	r := lcg.NewRandom(lcg.Java)
	r.SetSeed(big.NewInt(seed))
	v := lcg.NextFloat(r)

	incl := FloatCall{Min: v, Max: v}
	excl := FloatCall{Min: v, Max: v, MinExclusive: true}

	raw := lcg.Java.Scramble(big.NewInt(seed)).Int64()
	check := lcg.NewRandom(lcg.Java)
	check.SetRawSeed(big.NewInt(raw))
	if !incl.Validate(check) {
		t.Fatalf("inclusive bound should validate against its own observation")
	}

	check.SetRawSeed(big.NewInt(raw))
	if excl.Validate(check) {
		t.Fatalf("exclusive minimum should reject the boundary value itself")
	}
}

func TestLongCallRoundTrips(t *testing.T) {
	for _, seed := range []int64{0, 1, 42, 271828} {
		r := lcg.NewRandom(lcg.Java)
		r.SetSeed(big.NewInt(seed))
		v := lcg.NextLong(r)

		raw := lcg.Java.Scramble(big.NewInt(seed))
		replay(t, raw.Int64(), LongCall{Min: v, Max: v})
	}
}

func TestLongCallRoundTripsWideRange(t *testing.T) {
	for _, seed := range []int64{0, 1, 42, 271828} {
		r := lcg.NewRandom(lcg.Java)
		r.SetSeed(big.NewInt(seed))
		v := lcg.NextLong(r)

		raw := lcg.Java.Scramble(big.NewInt(seed))
		replay(t, raw.Int64(), LongCall{Min: v - 1<<20, Max: v + 1<<20})
	}
}

func TestDoubleCallRoundTrips(t *testing.T) {
	for _, seed := range []int64{0, 1, 42, 161803} {
		r := lcg.NewRandom(lcg.Java)
		r.SetSeed(big.NewInt(seed))
		v := lcg.NextDouble(r)

		raw := lcg.Java.Scramble(big.NewInt(seed))
		replay(t, raw.Int64(), DoubleCall{Min: v, Max: v})
	}
}

func TestDoubleCallRoundTripsWideRange(t *testing.T) {
	for _, seed := range []int64{0, 1, 42, 161803} {
		r := lcg.NewRandom(lcg.Java)
		r.SetSeed(big.NewInt(seed))
		v := lcg.NextDouble(r)

		raw := lcg.Java.Scramble(big.NewInt(seed))
		lo, hi := v-0.01, v+0.01
		if lo < 0 {
			lo = 0
		}
		if hi > 1 {
			hi = 1
		}
		replay(t, raw.Int64(), DoubleCall{Min: lo, Max: hi})
	}
}

func TestFilterCallSkipsWithoutConstraint(t *testing.T) {
	f := FilterCall{SkipCount: 3}
	if f.Skips() != 3 {
		t.Fatalf("Skips() = %d, want 3", f.Skips())
	}
	if len(f.ToSeed()) != 0 {
		t.Fatalf("ToSeed() = %v, want empty", f.ToSeed())
	}
	r := lcg.NewRandom(lcg.Java)
	r.SetSeed(big.NewInt(7))
	before := r.GetSeed()
	if !f.Validate(r) {
		t.Fatalf("Validate() = false, want true")
	}
	after := r.GetSeed()
	if after.Cmp(before) == 0 {
		t.Fatalf("FilterCall did not advance the register")
	}
}

func TestTopBitsRangeWidth(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bits := rapid.IntRange(1, 32).Draw(t, "bits")
		value := rapid.Uint32Range(0, uint32(1)<<uint(bits)-1).Draw(t, "value")
		sc := topBitsRange(value, bits)
		span := new(big.Int).Sub(sc.Max, sc.Min)
		wantSpan := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(lcg.RegisterBits-bits)), big.NewInt(1))
		if span.Cmp(wantSpan) != 0 {
			t.Fatalf("range span = %s, want %s", span, wantSpan)
		}
	})
}

func TestIntegerCallRapidRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64Range(0, 1<<48-1).Draw(t, "seed")
		r := lcg.NewRandom(lcg.Java)
		r.SetRawSeed(big.NewInt(seed))
		v := lcg.NextInt(r)

		call := IntegerCall{Min: v, Max: v}
		sc := call.ToSeed()[0]

		check := lcg.NewRandom(lcg.Java)
		check.SetRawSeed(big.NewInt(seed))
		reg := check.NextSeed()
		if reg.Cmp(sc.Min) < 0 || reg.Cmp(sc.Max) > 0 {
			t.Fatalf("register %s outside derived range [%s, %s]", reg, sc.Min, sc.Max)
		}
	})
}

func TestWordRangeOrderedBoundsAreContiguous(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Int32().Draw(t, "a")
		b := rapid.Int32().Draw(t, "b")
		min, max := a, b
		if uint32(min) > uint32(max) {
			min, max = max, min
		}
		sc := wordRange(min, max)
		width := new(big.Int).Sub(sc.Max, sc.Min)
		wantWidth := new(big.Int).Mul(
			new(big.Int).Sub(big.NewInt(int64(uint32(max))), big.NewInt(int64(uint32(min)))),
			big.NewInt(1<<16),
		)
		wantWidth.Add(wantWidth, big.NewInt(1<<16-1))
		if width.Cmp(wantWidth) != 0 {
			t.Fatalf("wordRange width = %s, want %s", width, wantWidth)
		}
	})
}
