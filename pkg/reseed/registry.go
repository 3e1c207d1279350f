// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package reseed

import (
	"sync"

	"gitlab.com/accumulatenetwork/betterrand/pkg/prng"
	"gitlab.com/accumulatenetwork/betterrand/pkg/seed"
)

// Registry maps seed sources to coordinators. Coordinators are created on
// first use and replaced if they have stopped. A nil source means
// [seed.Default].
type Registry struct {
	opts         Options
	mu           sync.Mutex
	coordinators map[seed.Source]*Coordinator
}

// NewRegistry returns a registry whose coordinators use the given options.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		opts:         opts,
		coordinators: map[seed.Source]*Coordinator{},
	}
}

var defaultRegistry = NewRegistry(Options{})

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }

func sourceOrDefault(src seed.Source) seed.Source {
	if src == nil {
		return seed.Default()
	}
	return src
}

// Coordinator returns the running coordinator for the source, starting one
// if there is none.
func (g *Registry) Coordinator(src seed.Source) *Coordinator {
	src = sourceOrDefault(src)

	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.coordinators[src]
	if ok && c.IsRunning() {
		return c
	}

	c = NewCoordinator(src, g.opts)
	_ = c.Start()
	g.coordinators[src] = c
	return c
}

func (g *Registry) lookup(src seed.Source) *Coordinator {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.coordinators[sourceOrDefault(src)]
}

// Register binds each generator to the coordinator for the source. The
// caller must not hold any lock on the generators.
func (g *Registry) Register(src seed.Source, rs ...*prng.Random) {
	for _, r := range rs {
		// The coordinator may stop between lookup and Add, in which case the
		// next lookup replaces it
		for !r.SetSeeder(g.Coordinator(src)) {
		}
	}
}

// Unregister removes the generators from the coordinator for the source.
func (g *Registry) Unregister(src seed.Source, rs ...*prng.Random) {
	c := g.lookup(src)
	if c == nil {
		return
	}
	for _, r := range rs {
		if r.Seeder() == prng.Seeder(c) {
			r.SetSeeder(nil)
		}
		c.Remove(r)
	}
}

// RequestReseedNow asks the coordinator for the source to reseed the
// generator as soon as possible. It returns false if the generator is not
// registered with a running coordinator for the source.
func (g *Registry) RequestReseedNow(src seed.Source, r *prng.Random) bool {
	c := g.lookup(src)
	return c != nil && c.RequestReseed(r)
}

// IsIdle returns true if there is no running coordinator for the source or
// it has no live generators.
func (g *Registry) IsIdle(src seed.Source) bool {
	c := g.lookup(src)
	return c == nil || c.IsIdle()
}

// HasCoordinator returns true if there is a running coordinator for the
// source.
func (g *Registry) HasCoordinator(src seed.Source) bool {
	c := g.lookup(src)
	return c != nil && c.IsRunning()
}

// StopIfIdle stops the coordinator for the source if it has no live
// generators.
func (g *Registry) StopIfIdle(src seed.Source) {
	src = sourceOrDefault(src)
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.coordinators[src]; ok && c.stopIfIdle() {
		delete(g.coordinators, src)
	}
}

// StopAllIdle stops every coordinator that has no live generators.
func (g *Registry) StopAllIdle() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for src, c := range g.coordinators {
		if c.stopIfIdle() {
			delete(g.coordinators, src)
		}
	}
}

// Close stops every coordinator and waits for them to release their
// generators. The registry can still be used afterwards.
func (g *Registry) Close() {
	g.mu.Lock()
	coordinators := g.coordinators
	g.coordinators = map[seed.Source]*Coordinator{}
	g.mu.Unlock()

	for _, c := range coordinators {
		c.Stop()
	}
	for _, c := range coordinators {
		<-c.Done()
	}
}
