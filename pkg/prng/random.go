// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package prng

import (
	"encoding/binary"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"gitlab.com/accumulatenetwork/betterrand/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// SeedGenerator produces seed bytes. seed.Source satisfies it.
type SeedGenerator interface {
	GenerateSeed(n int) ([]byte, error)
}

// Seeder refreshes generators in the background. A seeder that has shut down
// refuses new generators by returning false from Add.
type Seeder interface {
	Add(rs ...*Random) bool
	Remove(rs ...*Random)
	Wake()
}

type seederBox struct {
	s Seeder
}

// Random wraps an [Algorithm] with a lock, an entropy ledger, a cached
// Gaussian and an optional background [Seeder]. Random is safe for concurrent
// use.
type Random struct {
	mu          sync.Mutex
	alg         Algorithm
	gaussian    float64
	hasGaussian bool

	entropy atomic.Int64
	seeder  atomic.Pointer[seederBox]
	blocker *entropyBlocker
}

var _ rand.Source = (*Random)(nil)

// New seeds the algorithm and wraps it.
func New(alg Algorithm, seed []byte) (*Random, error) {
	r := &Random{alg: alg}
	err := r.SetSeed(seed)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// NewFromSource seeds the algorithm with SeedLength bytes drawn from src.
func NewFromSource(alg Algorithm, src SeedGenerator) (*Random, error) {
	seed, err := src.GenerateSeed(alg.SeedLength())
	if err != nil {
		return nil, errors.UnknownError.WithCauseAndFormat(err, "seed %s", alg.Name())
	}
	return New(alg, seed)
}

// Wrap wraps an algorithm that has already been seeded, crediting it with
// its full seed length.
func Wrap(alg Algorithm) *Random {
	r := &Random{alg: alg}
	r.creditEntropy(alg.SeedLength())
	return r
}

// Restore rebuilds a generator from saved seed material and, if seeder is
// not nil, registers it with that seeder again.
func Restore(alg Algorithm, seed []byte, seeder Seeder) (*Random, error) {
	r, err := New(alg, seed)
	if err != nil {
		return nil, err
	}
	if seeder != nil && !r.SetSeeder(seeder) {
		return nil, errors.BadRequest.With("seeder has shut down")
	}
	return r, nil
}

// Algorithm returns the name of the wrapped algorithm.
func (r *Random) Algorithm() string { return r.alg.Name() }

// SeedLength returns the preferred seed length of the wrapped algorithm.
func (r *Random) SeedLength() int { return r.alg.SeedLength() }

// PreferSeedWithLong returns true if the algorithm's seed is no wider than a
// 64-bit integer.
func (r *Random) PreferSeedWithLong() bool { return r.alg.SeedLength() <= 8 }

// EntropyBits returns the number of bits of entropy the generator is
// estimated to have left. It may be zero or negative.
func (r *Random) EntropyBits() int64 { return r.entropy.Load() }

// Seekable returns true if the wrapped algorithm supports [Random.Advance].
func (r *Random) Seekable() bool {
	_, ok := r.alg.(Seekable)
	return ok
}

// SetSeed reseeds the algorithm and credits the ledger.
func (r *Random) SetSeed(seed []byte) error {
	r.mu.Lock()
	err := r.alg.Reseed(seed)
	if err == nil {
		r.hasGaussian = false
	}
	r.mu.Unlock()
	if err != nil {
		return err
	}

	r.creditEntropy(len(seed))
	r.seedingChanged(true)
	return nil
}

// SetSeedLong reseeds the generator from a single 64-bit value. Algorithms
// with wider seeds mix the value into their current seed with BLAKE2b. Either
// way the ledger is credited for at most 64 bits.
func (r *Random) SetSeedLong(v int64) error {
	err := r.setSeedLong(v)
	if err != nil {
		return err
	}
	r.creditEntropy(8)
	r.seedingChanged(true)
	return nil
}

func (r *Random) setSeedLong(v int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.hasGaussian = false
	if ls, ok := r.alg.(LongSeeder); ok {
		ls.ReseedLong(v)
		return nil
	}

	seed, err := combineSeed(r.alg.Seed(), v, r.alg.SeedLength())
	if err != nil {
		return err
	}
	return r.alg.Reseed(seed)
}

func combineSeed(old []byte, v int64, n int) ([]byte, error) {
	h, err := blake2b.NewXOF(uint32(n), nil)
	if err != nil {
		return nil, errors.InternalError.WithCauseAndFormat(err, "combine seed")
	}
	_, _ = h.Write(old)
	_, _ = h.Write(binary.BigEndian.AppendUint64(nil, uint64(v)))
	seed := make([]byte, n)
	_, err = h.Read(seed)
	if err != nil {
		return nil, errors.InternalError.WithCauseAndFormat(err, "combine seed")
	}
	return seed, nil
}

// Seed returns a copy of the current seed material.
func (r *Random) Seed() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.alg.Seed(), nil
}

// Advance moves the generator delta steps forward, or backward when delta is
// negative.
func (r *Random) Advance(delta int64) error {
	s, ok := r.alg.(Seekable)
	if !ok {
		return errors.NotSeekable.WithFormat("%s does not support seeking", r.alg.Name())
	}
	if delta == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	s.Advance(delta)
	r.hasGaussian = false
	return nil
}

// SetSeeder registers the generator with the seeder, replacing any previous
// one. Passing nil unregisters the generator. SetSeeder returns false if the
// seeder refused the generator. The caller must not hold any lock the seeder
// may need.
func (r *Random) SetSeeder(s Seeder) bool {
	if s != nil && !s.Add(r) {
		return false
	}

	var box *seederBox
	if s != nil {
		box = &seederBox{s}
	}
	old := r.seeder.Swap(box)
	if old != nil && old.s != s {
		old.s.Remove(r)
	}
	r.seedingChanged(false)
	return true
}

// Seeder returns the current seeder or nil.
func (r *Random) Seeder() Seeder {
	box := r.seeder.Load()
	if box == nil {
		return nil
	}
	return box.s
}

// ReleaseSeeder clears the seeder binding if it is s, without calling back
// into s. Seeders call this when they shut down.
func (r *Random) ReleaseSeeder(s Seeder) {
	box := r.seeder.Load()
	if box != nil && box.s == s && r.seeder.CompareAndSwap(box, nil) {
		r.seedingChanged(false)
	}
}

// creditEntropy raises the ledger to the entropy of a seed of the given
// length, capped by the algorithm's capacity. Crediting never lowers the
// ledger.
func (r *Random) creditEntropy(seedLen int) {
	bits := int64(min(seedLen, r.alg.SeedLength())) * 8
	for {
		old := r.entropy.Load()
		if old >= bits || r.entropy.CompareAndSwap(old, bits) {
			return
		}
	}
}

// debitEntropy subtracts bits from the ledger and wakes the seeder when the
// ledger crosses zero. Blocking generators were already debited by
// awaitEntropy.
func (r *Random) debitEntropy(bits int64) {
	if bits == 0 || r.blocker != nil {
		return
	}
	n := r.entropy.Add(-bits)
	if n > 0 || n+bits <= 0 {
		return
	}
	if box := r.seeder.Load(); box != nil {
		box.s.Wake()
	}
}
