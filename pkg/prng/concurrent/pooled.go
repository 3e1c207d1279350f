// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package concurrent

import (
	"fmt"

	"gitlab.com/accumulatenetwork/betterrand/internal/util/pool"
	"gitlab.com/accumulatenetwork/betterrand/pkg/errors"
	"gitlab.com/accumulatenetwork/betterrand/pkg/prng"
	"gitlab.com/accumulatenetwork/betterrand/pkg/reseed"
	"gitlab.com/accumulatenetwork/betterrand/pkg/seed"
)

// Pooled gives each concurrent caller its own generator, built by a
// factory. Seeding affects only the instance the caller happens to use, so
// Pooled is not reseedable as a whole unless every instance is registered
// with a coordinator, as [NewReseeding] does.
type Pooled struct {
	ops
	instances *pool.Pool[*prng.Random]
}

var _ prng.Generator = (*Pooled)(nil)

// NewPooled returns a pooled adapter. The factory is called once immediately
// so that a broken factory fails here. If the factory fails later, when the
// pool grows, the call that needed the instance panics.
func NewPooled(factory func() (*prng.Random, error)) (*Pooled, error) {
	first, err := factory()
	if err != nil {
		return nil, err
	}

	p := new(Pooled)
	p.ops.src = p
	p.instances = pool.New(func() *prng.Random {
		r, err := factory()
		if err != nil {
			panic(fmt.Errorf("create pooled generator: %w", err))
		}
		return r
	})
	p.instances.Put(first)
	return p, nil
}

// NewReseeding returns a pooled adapter that registers every instance with
// the registry's coordinator for the source.
func NewReseeding(registry *reseed.Registry, source seed.Source, factory func() (*prng.Random, error)) (*Pooled, error) {
	return NewPooled(func() (*prng.Random, error) {
		r, err := factory()
		if err != nil {
			return nil, err
		}
		registry.Register(source, r)
		return r, nil
	})
}

func (p *Pooled) get() (*prng.Random, *pool.Pool[*prng.Random]) {
	return p.instances.Get(), p.instances
}

// SetSeed reseeds the calling goroutine's instance.
func (p *Pooled) SetSeed(b []byte) error { return p.setSeed(b) }

// Seed always fails with [errors.SeedUnavailable] because there is no single
// seed.
func (p *Pooled) Seed() ([]byte, error) {
	return nil, errors.SeedUnavailable.With("a pooled generator has no single seed")
}
