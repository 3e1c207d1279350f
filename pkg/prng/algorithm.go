// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package prng

import (
	"sort"
	"strings"

	"gitlab.com/accumulatenetwork/betterrand/pkg/errors"
	"golang.org/x/crypto/chacha20"
)

// Algorithm is a bit-producing state machine. Implementations are not safe
// for concurrent use; [Random] serializes access to them.
type Algorithm interface {
	// Name returns the algorithm's name, as used by [Lookup].
	Name() string

	// Next advances the state and returns 32 bits of output.
	Next() uint32

	// Reseed reinitializes the state from the seed. The seed is copied.
	Reseed(seed []byte) error

	// Seed returns a copy of the current seed material.
	Seed() []byte

	// SeedLength returns the preferred seed length in bytes. It is also the
	// most entropy, in bytes, the algorithm is credited for.
	SeedLength() int
}

// Seekable is implemented by algorithms that can jump forward or backward
// through their output sequence in logarithmic time. Advance(delta) leaves
// the algorithm in the state that calling Next delta times would.
type Seekable interface {
	Algorithm
	Advance(delta int64)
}

// LongSeeder is implemented by algorithms whose native seed is a single
// 64-bit value.
type LongSeeder interface {
	Algorithm
	ReseedLong(v int64)
}

// Wide is implemented by algorithms that natively produce 64 bits per step.
type Wide interface {
	Algorithm
	Next64() uint64
}

// Splittable is implemented by algorithms that can derive a statistically
// independent instance without consuming visible output.
type Splittable interface {
	Algorithm
	Split() Algorithm
}

// FieldDescriber is implemented by algorithms that expose internal fields
// for [Random.Describe].
type FieldDescriber interface {
	DescribeFields() map[string]any
}

// Info describes a registered algorithm.
type Info struct {
	Name       string
	SeedLength int
	MinSeed    int
	MaxSeed    int
	Seekable   bool
	New        func() Algorithm
}

var algorithms = map[string]Info{}

func register(info Info) {
	a := info.New()
	info.Name = a.Name()
	info.SeedLength = a.SeedLength()
	if info.MinSeed == 0 {
		info.MinSeed = info.SeedLength
	}
	if info.MaxSeed == 0 {
		info.MaxSeed = info.SeedLength
	}
	_, info.Seekable = a.(Seekable)
	algorithms[strings.ToLower(info.Name)] = info
}

func init() {
	register(Info{New: func() Algorithm { return new(MersenneTwister) }})
	register(Info{New: func() Algorithm { return new(CMWC4096) }})
	register(Info{New: func() Algorithm { return new(XorShift) }})
	register(Info{New: func() Algorithm { return new(PCG64) }})
	register(Info{New: func() Algorithm { return NewSplitMix(0) }})
	register(Info{New: func() Algorithm { return new(AESCounter) }, MinSeed: aesMinSeedLength})
	register(Info{New: func() Algorithm { return new(PCG128) }})
	register(Info{New: func() Algorithm { return new(CellularAutomaton) }})
	register(Info{New: func() Algorithm { return new(ChaCha20Counter) }, MinSeed: chacha20.KeySize})
}

// Algorithms returns every registered algorithm, sorted by name.
func Algorithms() []Info {
	all := make([]Info, 0, len(algorithms))
	for _, info := range algorithms {
		all = append(all, info)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// Lookup returns the algorithm with the given name (case insensitive).
func Lookup(name string) (Info, error) {
	info, ok := algorithms[strings.ToLower(name)]
	if !ok {
		return Info{}, errors.BadRequest.WithFormat("unknown algorithm %q", name)
	}
	return info, nil
}

func checkSeed(name string, seed []byte, min, max int) error {
	if seed == nil {
		return errors.MissingSeed.WithFormat("%s: seed must not be nil", name)
	}
	switch {
	case len(seed) < min || len(seed) > max:
		if min == max {
			return errors.InvalidSeedLength.WithFormat("%s: seed length must be %d but got %d", name, min, len(seed))
		}
		return errors.InvalidSeedLength.WithFormat("%s: seed length is %d bytes; need %d to %d bytes", name, len(seed), min, max)
	}
	return nil
}
