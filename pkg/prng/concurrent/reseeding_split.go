// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package concurrent

import (
	"encoding/binary"
	"fmt"
	"runtime"
	"sync"
	"weak"

	"gitlab.com/accumulatenetwork/betterrand/internal/util/pool"
	"gitlab.com/accumulatenetwork/betterrand/pkg/errors"
	"gitlab.com/accumulatenetwork/betterrand/pkg/prng"
	"gitlab.com/accumulatenetwork/betterrand/pkg/reseed"
	"gitlab.com/accumulatenetwork/betterrand/pkg/seed"
)

// ReseedingSplit is a split adapter whose derived instances are each
// registered with a coordinator, so every instance is reseeded on its own
// once its entropy runs out. There is at most one live ReseedingSplit per
// registry and source; use [Intern] to get it.
type ReseedingSplit struct {
	ops
	registry *reseed.Registry
	source   seed.Source

	mu        sync.Mutex
	master    *prng.SplitMix
	instances *pool.Pool[*prng.Random]
}

var _ prng.Generator = (*ReseedingSplit)(nil)

type splitKey struct {
	registry *reseed.Registry
	source   seed.Source
}

var interned = struct {
	sync.Mutex
	m map[splitKey]weak.Pointer[ReseedingSplit]
}{m: map[splitKey]weak.Pointer[ReseedingSplit]{}}

// Intern returns the ReseedingSplit for the registry and source, creating
// it if there is none. A nil registry means [reseed.Default] and a nil
// source means [seed.Default].
func Intern(registry *reseed.Registry, source seed.Source) (*ReseedingSplit, error) {
	if registry == nil {
		registry = reseed.Default()
	}
	if source == nil {
		source = seed.Default()
	}
	key := splitKey{registry, source}
	if s := lookupInterned(key); s != nil {
		return s, nil
	}

	// The source may be slow, so it is not called with the lock held
	b, err := source.GenerateSeed(8)
	if err != nil {
		return nil, errors.UnknownError.WithCauseAndFormat(err, "seed split master from %v", source)
	}

	interned.Lock()
	defer interned.Unlock()
	if p, ok := interned.m[key]; ok {
		if s := p.Value(); s != nil {
			return s, nil
		}
	}

	s := &ReseedingSplit{
		registry: registry,
		source:   source,
		master:   prng.NewSplitMix(int64(binary.BigEndian.Uint64(b))),
	}
	s.ops.src = s
	s.instances = pool.New(s.newInstance)

	interned.m[key] = weak.Make(s)
	runtime.AddCleanup(s, func(key splitKey) {
		interned.Lock()
		defer interned.Unlock()
		if p, ok := interned.m[key]; ok && p.Value() == nil {
			delete(interned.m, key)
		}
	}, key)
	return s, nil
}

func lookupInterned(key splitKey) *ReseedingSplit {
	interned.Lock()
	defer interned.Unlock()
	if p, ok := interned.m[key]; ok {
		return p.Value()
	}
	return nil
}

func (s *ReseedingSplit) newInstance() *prng.Random {
	s.mu.Lock()
	child := s.master.Split()
	s.mu.Unlock()

	r := prng.Wrap(child)
	s.registry.Register(s.source, r)
	return r
}

func (s *ReseedingSplit) get() (*prng.Random, *pool.Pool[*prng.Random]) {
	return s.instances.Get(), s.instances
}

func (s *ReseedingSplit) String() string {
	return fmt.Sprintf("ReseedingSplit(%v)", s.source)
}

// SetSeed reseeds the calling goroutine's instance. Its coordinator will
// replace the seed again once the instance runs out of entropy.
func (s *ReseedingSplit) SetSeed(b []byte) error { return s.setSeed(b) }

// Seed always fails with [errors.SeedUnavailable] because every instance
// has its own seed.
func (s *ReseedingSplit) Seed() ([]byte, error) {
	return nil, errors.SeedUnavailable.With("a reseeding split generator has no single seed")
}
