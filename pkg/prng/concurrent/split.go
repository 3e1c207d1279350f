// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package concurrent

import (
	"sync"
	"sync/atomic"

	"gitlab.com/accumulatenetwork/betterrand/internal/util/pool"
	"gitlab.com/accumulatenetwork/betterrand/pkg/prng"
)

// Split derives an independent SplitMix instance for each concurrent caller
// from a shared master. Splitting mutates the master so it is done under a
// lock; the derived instances need no locking.
type Split struct {
	ops
	mu     sync.Mutex
	master *prng.SplitMix

	// SetSeed replaces the pool so instances split from the old master are
	// never used again
	instances atomic.Pointer[pool.Pool[*prng.Random]]
}

var _ prng.Generator = (*Split)(nil)

// NewSplit returns a split adapter whose master is seeded with the 8-byte
// seed.
func NewSplit(seed []byte) (*Split, error) {
	master := prng.NewSplitMix(0)
	err := master.Reseed(seed)
	if err != nil {
		return nil, err
	}

	s := &Split{master: master}
	s.ops.src = s
	s.instances.Store(s.newPool())
	return s, nil
}

func (s *Split) newPool() *pool.Pool[*prng.Random] {
	return pool.New(func() *prng.Random {
		s.mu.Lock()
		child := s.master.Split()
		s.mu.Unlock()
		return prng.Wrap(child)
	})
}

func (s *Split) get() (*prng.Random, *pool.Pool[*prng.Random]) {
	p := s.instances.Load()
	return p.Get(), p
}

// SetSeed reseeds the master and discards every derived instance.
func (s *Split) SetSeed(b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.master.Reseed(b)
	if err != nil {
		return err
	}
	s.instances.Store(s.newPool())
	return nil
}

// Seed returns the master's current seed.
func (s *Split) Seed() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.master.Seed(), nil
}
