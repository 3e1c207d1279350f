// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package prng

import (
	"sync"
	"sync/atomic"

	"gitlab.com/accumulatenetwork/betterrand/pkg/errors"
)

type sourceBox struct {
	src SeedGenerator
}

// entropyBlocker makes draws wait until the ledger can pay for them without
// falling below a minimum.
type entropyBlocker struct {
	minimum int64
	source  atomic.Pointer[sourceBox]
	waiting atomic.Bool

	mu      sync.Mutex
	changed chan struct{}
}

// NewEntropyBlocking seeds alg like [New] and returns a generator that never
// lets its entropy fall below minimumEntropy bits. A draw that would do so
// waits for the generator's [Seeder] to reseed it. Without a seeder, the
// drawing goroutine reseeds it from source. If there is neither, the draw
// panics with [errors.SeedUnavailable].
//
// The algorithm's seed must cover the minimum plus one 64-bit draw.
func NewEntropyBlocking(alg Algorithm, seed []byte, minimumEntropy int64, source SeedGenerator) (*Random, error) {
	if int64(alg.SeedLength())*8-minimumEntropy < 64 {
		return nil, errors.BadRequest.WithFormat("%s: a minimum of %d bits leaves less than 64 bits for a draw", alg.Name(), minimumEntropy)
	}

	r, err := New(alg, seed)
	if err != nil {
		return nil, err
	}

	b := &entropyBlocker{minimum: minimumEntropy, changed: make(chan struct{})}
	if source != nil {
		b.source.Store(&sourceBox{source})
	}
	r.blocker = b
	return r, nil
}

// NewEntropyBlockingFromSource seeds alg from source and uses source for
// reseeding on the drawing goroutine.
func NewEntropyBlockingFromSource(alg Algorithm, minimumEntropy int64, source SeedGenerator) (*Random, error) {
	seed, err := source.GenerateSeed(alg.SeedLength())
	if err != nil {
		return nil, errors.UnknownError.WithCauseAndFormat(err, "seed %s", alg.Name())
	}
	return NewEntropyBlocking(alg, seed, minimumEntropy, source)
}

// MinimumEntropy returns the entropy floor of a generator created by
// [NewEntropyBlocking]. ok is false for other generators.
func (r *Random) MinimumEntropy() (bits int64, ok bool) {
	if r.blocker == nil {
		return 0, false
	}
	return r.blocker.minimum, true
}

// SameGoroutineSource returns the source a blocking generator reseeds from
// when it has no seeder, or nil.
func (r *Random) SameGoroutineSource() SeedGenerator {
	if r.blocker == nil {
		return nil
	}
	box := r.blocker.source.Load()
	if box == nil {
		return nil
	}
	return box.src
}

// SetSameGoroutineSource replaces the source a blocking generator reseeds
// from when it has no seeder. Passing nil removes it.
func (r *Random) SetSameGoroutineSource(src SeedGenerator) error {
	b := r.blocker
	if b == nil {
		return errors.BadRequest.WithFormat("%s does not block on entropy", r.alg.Name())
	}

	var box *sourceBox
	if src != nil {
		box = &sourceBox{src}
	}
	old := b.source.Swap(box)
	if old != box {
		b.signal(false)
	}
	return nil
}

// NeedsReseedingEarly returns true while a draw is waiting for the seeder,
// even if the ledger is still positive.
func (r *Random) NeedsReseedingEarly() bool {
	return r.blocker != nil && r.blocker.waiting.Load()
}

func (b *entropyBlocker) wait() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.changed
}

func (b *entropyBlocker) signal(reseeded bool) {
	if reseeded {
		b.waiting.Store(false)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	changed := b.changed
	b.changed = make(chan struct{})
	close(changed)
}

// seedingChanged wakes blocked draws. It is a no-op for other generators.
func (r *Random) seedingChanged(reseeded bool) {
	if r.blocker != nil {
		r.blocker.signal(reseeded)
	}
}

// awaitEntropy debits a blocking generator before a draw, waiting or
// reseeding until the ledger can pay. It is a no-op for other generators,
// which are debited after the draw by debitEntropy.
func (r *Random) awaitEntropy(bits int64) {
	b := r.blocker
	if b == nil || bits == 0 {
		return
	}

	for {
		// Take the channel first so that a reseed after the check below is
		// not missed
		ch := b.wait()
		if r.entropy.Add(-bits) >= b.minimum {
			return
		}
		r.entropy.Add(bits)

		if s := r.Seeder(); s != nil {
			b.waiting.Store(true)
			s.Wake()
			<-ch
			continue
		}

		box := b.source.Load()
		if box == nil {
			panic(errors.SeedUnavailable.WithFormat("%s is out of entropy and has no way to reseed", r.alg.Name()))
		}
		seed, err := box.src.GenerateSeed(r.alg.SeedLength())
		if err != nil {
			panic(errors.SeedUnavailable.WithCauseAndFormat(err, "reseed %s", r.alg.Name()))
		}
		err = r.SetSeed(seed)
		if err != nil {
			panic(errors.InternalError.WithCauseAndFormat(err, "reseed %s", r.alg.Name()))
		}
	}
}
