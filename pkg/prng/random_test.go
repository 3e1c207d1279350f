// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package prng_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/accumulatenetwork/betterrand/pkg/errors"
	. "gitlab.com/accumulatenetwork/betterrand/pkg/prng"
	prngtesting "gitlab.com/accumulatenetwork/betterrand/test/testing"
)

// variable accepts seeds of 1 to 8 bytes and counts its output.
type variable struct {
	seed []byte
	n    uint32
}

func (*variable) Name() string    { return "variable" }
func (*variable) SeedLength() int { return 8 }
func (v *variable) Seed() []byte  { return append([]byte(nil), v.seed...) }

func (v *variable) Next() uint32 {
	v.n++
	return v.n * 0x9e3779b9
}

func (v *variable) Reseed(b []byte) error {
	if len(b) < 1 || len(b) > 8 {
		return errors.InvalidSeedLength.With("bad seed")
	}
	v.seed = append(v.seed[:0], b...)
	return nil
}

func TestEntropyNeverDecreasesOnReseed(t *testing.T) {
	r, err := New(new(variable), make([]byte, 8))
	require.NoError(t, err)
	require.Equal(t, int64(64), r.EntropyBits())

	for i := 0; i < 10; i++ {
		r.Bool()
	}
	require.Equal(t, int64(54), r.EntropyBits())

	// A shorter seed only provides 32 bits so the ledger stays put
	require.NoError(t, r.SetSeed(make([]byte, 4)))
	require.Equal(t, int64(54), r.EntropyBits())

	require.NoError(t, r.SetSeed(make([]byte, 8)))
	require.Equal(t, int64(64), r.EntropyBits())
}

func TestAESEntropyCredit(t *testing.T) {
	r, err := NewAESCounter(prngtesting.SeedBytes(16, 1))
	require.NoError(t, err)
	require.Equal(t, int64(128), r.EntropyBits())

	require.NoError(t, r.SetSeed(prngtesting.SeedBytes(48, 2)))
	require.Equal(t, int64(384), r.EntropyBits())

	// Spend some then reseed with a short seed, which is folded into the key
	_, _ = r.Read(make([]byte, 10))
	require.Equal(t, int64(304), r.EntropyBits())
	require.NoError(t, r.SetSeed(prngtesting.SeedBytes(8, 3)))
	require.Equal(t, int64(304), r.EntropyBits())
}

func TestEntropyDebit(t *testing.T) {
	cases := []struct {
		Name string
		Bits int64
		Call func(*Random)
	}{
		{"Bool", 1, func(r *Random) { r.Bool() }},
		{"Int32Range(0,256)", 8, func(r *Random) { r.Int32Range(0, 256) }},
		{"Int32Range(0,257)", 9, func(r *Random) { r.Int32Range(0, 257) }},
		{"Int32n(1)", 0, func(r *Random) { r.Int32n(1) }},
		{"Int64Range(-2^62,2^62)", 63, func(r *Random) { r.Int64Range(-1<<62, 1<<62) }},
		{"Uint32", 32, func(r *Random) { r.Uint32() }},
		{"Uint64", 64, func(r *Random) { r.Uint64() }},
		{"Float64", 53, func(r *Random) { r.Float64() }},
		{"Float32", 24, func(r *Random) { r.Float32() }},
		{"NormFloat64", 53, func(r *Random) { r.NormFloat64() }},
		{"NormFloat64 cached", 106, func(r *Random) { r.NormFloat64(); r.NormFloat64() }},
		{"Read(10)", 80, func(r *Random) { _, _ = r.Read(make([]byte, 10)) }},
		{"WithProbability(0.25)", 1, func(r *Random) { r.WithProbability(0.25) }},
		{"WithProbability(0)", 0, func(r *Random) { r.WithProbability(0) }},
		{"WithProbability(1)", 0, func(r *Random) { r.WithProbability(1) }},
		{"NextBits", 0, func(r *Random) { r.NextBits(17) }},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			r, err := NewAESCounter(prngtesting.SeedBytes(48, c.Name))
			require.NoError(t, err)
			before := r.EntropyBits()
			c.Call(r)
			require.Equal(t, c.Bits, before-r.EntropyBits())
		})
	}
}

func TestEntropyOfRange(t *testing.T) {
	require.Equal(t, int64(0), EntropyOfRange[int32](0, 1))
	require.Equal(t, int64(1), EntropyOfRange[int32](0, 2))
	require.Equal(t, int64(2), EntropyOfRange[int32](0, 3))
	require.Equal(t, int64(32), EntropyOfRange[int32](-1<<31, 1<<31-1))
	require.Equal(t, int64(64), EntropyOfRange[int64](-1<<63, 1<<63-1))
}

type countingSeeder struct {
	added, removed, wakes atomic.Int32
	refuse                bool
}

func (s *countingSeeder) Add(...*Random) bool {
	if s.refuse {
		return false
	}
	s.added.Add(1)
	return true
}

func (s *countingSeeder) Remove(...*Random) { s.removed.Add(1) }
func (s *countingSeeder) Wake()             { s.wakes.Add(1) }

func TestSeederWakesOnceOnExhaustion(t *testing.T) {
	r, err := NewPCG64(prngtesting.SeedBytes(8, 1))
	require.NoError(t, err)

	s := new(countingSeeder)
	require.True(t, r.SetSeeder(s))
	require.Equal(t, int32(1), s.added.Load())

	r.Uint32()
	require.Zero(t, s.wakes.Load())
	r.Uint32()
	require.Equal(t, int32(1), s.wakes.Load(), "Crossing zero should wake the seeder")
	r.Uint32()
	require.Equal(t, int32(1), s.wakes.Load(), "Spending past zero should not wake again")

	require.NoError(t, r.SetSeedLong(42))
	require.Equal(t, int64(64), r.EntropyBits())
	r.Uint64()
	require.Equal(t, int32(2), s.wakes.Load())
}

func TestSetSeeder(t *testing.T) {
	r, err := NewPCG64(prngtesting.SeedBytes(8, 1))
	require.NoError(t, err)

	a, b := new(countingSeeder), new(countingSeeder)
	require.True(t, r.SetSeeder(a))
	require.True(t, r.SetSeeder(b))
	require.Equal(t, int32(1), a.removed.Load())
	require.Equal(t, Seeder(b), r.Seeder())

	// Releasing a seeder that is not bound does nothing
	r.ReleaseSeeder(a)
	require.Equal(t, Seeder(b), r.Seeder())
	r.ReleaseSeeder(b)
	require.Nil(t, r.Seeder())
	require.Zero(t, b.removed.Load())

	refusing := &countingSeeder{refuse: true}
	require.False(t, r.SetSeeder(refusing))
	require.Nil(t, r.Seeder())

	_, err = Restore(new(PCG64), prngtesting.SeedBytes(8, 2), refusing)
	require.ErrorIs(t, err, errors.BadRequest)
}

func TestSetSeedLong(t *testing.T) {
	for _, info := range Algorithms() {
		t.Run(info.Name, func(t *testing.T) {
			a, err := New(info.New(), prngtesting.SeedBytes(info.SeedLength, 1))
			require.NoError(t, err)
			b, err := New(info.New(), prngtesting.SeedBytes(info.SeedLength, 1))
			require.NoError(t, err)

			require.NoError(t, a.SetSeedLong(12345))
			require.NoError(t, b.SetSeedLong(12345))
			for i := 0; i < 10; i++ {
				require.Equal(t, a.Uint32(), b.Uint32())
			}

			// Crediting 64 bits never lowers the ledger below the full seed
			require.Equal(t, int64(info.SeedLength*8), a.EntropyBits()+10*32)
		})
	}
}

func TestSeek(t *testing.T) {
	for _, name := range []string{"AESCounter", "ChaCha20Counter", "PCG64", "PCG128"} {
		info, err := Lookup(name)
		require.NoError(t, err)
		for _, warmup := range []int{0, 5} {
			for _, delta := range []int64{0, 1, 37, -37, 10000} {
				t.Run(fmt.Sprintf("%s/warmup=%d/delta=%d", name, warmup, delta), func(t *testing.T) {
					seed := prngtesting.SeedBytes(info.SeedLength, name)
					seeker := newRandom(t, info, seed)
					stepper := newRandom(t, info, seed)
					for i := 0; i < warmup; i++ {
						seeker.Uint32()
						stepper.Uint32()
					}

					if delta < 0 {
						// Walk the seeker forward then back
						for i := int64(0); i < -delta; i++ {
							seeker.Uint32()
						}
					} else {
						for i := int64(0); i < delta; i++ {
							stepper.Uint32()
						}
					}
					require.NoError(t, seeker.Advance(delta))

					for i := 0; i < 64; i++ {
						require.Equal(t, stepper.Uint32(), seeker.Uint32(), "output %d", i)
					}
				})
			}
		}
	}
}

func TestSeekPartialBlock(t *testing.T) {
	// Seeking lands mid-block and across block boundaries
	seed := prngtesting.SeedBytes(32, "partial")
	for _, delta := range []int64{3, 63, 64, 65, -3, -63, -64, -65} {
		t.Run(fmt.Sprint(delta), func(t *testing.T) {
			seeker, err := NewAESCounter(seed)
			require.NoError(t, err)
			stepper, err := NewAESCounter(seed)
			require.NoError(t, err)

			for i := 0; i < 70; i++ {
				seeker.Uint32()
				stepper.Uint32()
			}
			if delta < 0 {
				for i := int64(0); i < -delta; i++ {
					seeker.Uint32()
				}
			} else {
				for i := int64(0); i < delta; i++ {
					stepper.Uint32()
				}
			}
			require.NoError(t, seeker.Advance(delta))
			require.Equal(t, stepper.Uint32(), seeker.Uint32())
		})
	}
}

func TestSeekPartialChaChaBlock(t *testing.T) {
	// ChaCha20 blocks hold 16 words and a refill holds 256
	seed := prngtesting.SeedBytes(48, "partial")
	for _, delta := range []int64{3, 15, 16, 17, 255, 256, 257, -3, -15, -16, -17, -255, -256, -257} {
		t.Run(fmt.Sprint(delta), func(t *testing.T) {
			seeker, err := NewChaCha20Counter(seed)
			require.NoError(t, err)
			stepper, err := NewChaCha20Counter(seed)
			require.NoError(t, err)

			for i := 0; i < 300; i++ {
				seeker.Uint32()
				stepper.Uint32()
			}
			if delta < 0 {
				for i := int64(0); i < -delta; i++ {
					seeker.Uint32()
				}
			} else {
				for i := int64(0); i < delta; i++ {
					stepper.Uint32()
				}
			}
			require.NoError(t, seeker.Advance(delta))
			require.Equal(t, stepper.Uint32(), seeker.Uint32())
		})
	}
}

func TestNotSeekable(t *testing.T) {
	r, err := NewMersenneTwister(prngtesting.SeedBytes(16, 1))
	require.NoError(t, err)
	require.False(t, r.Seekable())
	require.ErrorIs(t, r.Advance(10), errors.NotSeekable)
}

func TestUnsupportedKeyLength(t *testing.T) {
	_, err := NewAESCounterWithMaxKey(20)
	require.ErrorIs(t, err, errors.UnsupportedKeyLength)

	alg, err := NewAESCounterWithMaxKey(16)
	require.NoError(t, err)
	require.Equal(t, 32, alg.SeedLength())
	_, err = New(alg, make([]byte, 33))
	require.ErrorIs(t, err, errors.InvalidSeedLength)
}

func TestRanges(t *testing.T) {
	r, err := NewXorShift(prngtesting.SeedBytes(20, 1))
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		v := r.Int32Range(-1<<31, 1<<31-1)
		require.Less(t, v, int32(1<<31-1))

		w := r.Int64Range(-10, 10)
		require.GreaterOrEqual(t, w, int64(-10))
		require.Less(t, w, int64(10))

		f := r.Float64Range(2, 3)
		require.GreaterOrEqual(t, f, 2.0)
		require.Less(t, f, 3.0)

		g := r.Float32()
		require.GreaterOrEqual(t, g, float32(0))
		require.Less(t, g, float32(1))
	}

	require.Panics(t, func() { r.Int32Range(5, 5) })
	require.Panics(t, func() { r.Int64n(0) })
	require.Panics(t, func() { r.NextBits(65) })
	require.Panics(t, func() { Element(r, []int{}) })
	require.Contains(t, []string{"a", "b"}, Element(r, []string{"a", "b"}))
}

func TestDescribe(t *testing.T) {
	r, err := NewPCG64([]byte{0, 0, 0, 0, 0, 0, 0, 1})
	require.NoError(t, err)
	d := r.Describe()
	require.Equal(t, "PCG64", d.Algorithm)
	require.Equal(t, "0000000000000001", d.Seed)
	require.Equal(t, int64(64), d.EntropyBits)
	require.Equal(t, uint64(1), d.Fields["state"])
	require.Equal(t, "PCG64(entropy=64)", r.String())
}

func TestSeekClearsGaussian(t *testing.T) {
	a, err := NewPCG64(prngtesting.SeedBytes(8, t.Name()))
	require.NoError(t, err)

	// Leave a cached value in a, then copy its state to b
	a.NormFloat64()
	state, err := a.Seed()
	require.NoError(t, err)
	b, err := NewPCG64(state)
	require.NoError(t, err)

	require.NoError(t, a.Advance(1000))
	require.NoError(t, b.Advance(1000))
	require.Equal(t, b.NormFloat64(), a.NormFloat64())
}

func TestReseedClearsGaussian(t *testing.T) {
	seed := prngtesting.SeedBytes(16, t.Name())
	a, err := NewMersenneTwister(seed)
	require.NoError(t, err)
	b, err := NewMersenneTwister(seed)
	require.NoError(t, err)

	// The first call caches the second value of the pair
	a.NormFloat64()
	require.NoError(t, a.SetSeed(seed))
	require.Equal(t, b.NormFloat64(), a.NormFloat64())
}
