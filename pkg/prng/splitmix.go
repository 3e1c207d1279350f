// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package prng

import (
	"encoding/binary"
	"math/bits"
)

const (
	splitMixSeedLength = 8
	goldenGamma        = 0x9e3779b97f4a7c15
)

// SplitMix is the SplitMix64 algorithm. Split derives an independent instance
// with a different gamma.
type SplitMix struct {
	seed  uint64
	gamma uint64
}

var _ Splittable = (*SplitMix)(nil)
var _ Wide = (*SplitMix)(nil)

// NewSplitMix returns a SplitMix algorithm with the golden gamma.
func NewSplitMix(seed int64) *SplitMix {
	return &SplitMix{seed: uint64(seed), gamma: goldenGamma}
}

func (*SplitMix) Name() string    { return "SplitMix" }
func (*SplitMix) SeedLength() int { return splitMixSeedLength }

// Seed returns the current state. The gamma is not included.
func (g *SplitMix) Seed() []byte { return binary.BigEndian.AppendUint64(nil, g.seed) }

func (g *SplitMix) Reseed(seed []byte) error {
	err := checkSeed(g.Name(), seed, splitMixSeedLength, splitMixSeedLength)
	if err != nil {
		return err
	}
	g.ReseedLong(int64(binary.BigEndian.Uint64(seed)))
	return nil
}

func (g *SplitMix) ReseedLong(v int64) {
	g.seed = uint64(v)
	if g.gamma == 0 {
		g.gamma = goldenGamma
	}
}

func (g *SplitMix) nextSeed() uint64 {
	g.seed += g.gamma
	return g.seed
}

func (g *SplitMix) Next() uint32   { return mix32(g.nextSeed()) }
func (g *SplitMix) Next64() uint64 { return mix64(g.nextSeed()) }

// Split returns a new instance seeded from this one. The two instances
// produce statistically independent sequences.
func (g *SplitMix) Split() Algorithm {
	seed := g.Next64()
	return &SplitMix{seed: seed, gamma: mixGamma(g.nextSeed())}
}

func (g *SplitMix) DescribeFields() map[string]any {
	return map[string]any{
		"seed":  g.seed,
		"gamma": g.gamma,
	}
}

func mix64(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func mix32(z uint64) uint32 {
	z = (z ^ (z >> 33)) * 0x62a9d9ed799705f5
	return uint32(((z ^ (z >> 28)) * 0xcb24d0a5c88c35b3) >> 32)
}

func mixGamma(z uint64) uint64 {
	z = (z ^ (z >> 33)) * 0xff51afd7ed558ccd
	z = (z ^ (z >> 33)) * 0xc4ceb9fe1a85ec53
	z = (z ^ (z >> 33)) | 1
	if bits.OnesCount64(z^(z>>1)) < 24 {
		z ^= 0xaaaaaaaaaaaaaaaa
	}
	return z
}
