// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package prng

import (
	"encoding/binary"
	"hash/fnv"
)

const (
	mtSeedLength    = 16
	mtN             = 624
	mtM             = 397
	mtUpperMask     = 0x80000000
	mtLowerMask     = 0x7fffffff
	mtBootstrapSeed = 19650218
	mtBootstrapMul  = 1812433253
	mtSeedFactor1   = 1664525
	mtSeedFactor2   = 1566083941
	mtTemperMask1   = 0x9d2c5680
	mtTemperMask2   = 0xefc60000
)

var mtMag01 = [2]uint32{0, 0x9908b0df}

// MersenneTwister is the MT19937 generator, seeded with init_by_array from a
// 16-byte seed.
type MersenneTwister struct {
	seed  []byte
	mt    [mtN]uint32
	index int
}

// NewMersenneTwister returns a Mersenne Twister generator.
func NewMersenneTwister(seed []byte) (*Random, error) {
	return New(new(MersenneTwister), seed)
}

func (*MersenneTwister) Name() string    { return "MersenneTwister" }
func (*MersenneTwister) SeedLength() int { return mtSeedLength }

func (g *MersenneTwister) Seed() []byte { return append([]byte(nil), g.seed...) }

func (g *MersenneTwister) Reseed(seed []byte) error {
	err := checkSeed(g.Name(), seed, mtSeedLength, mtSeedLength)
	if err != nil {
		return err
	}
	g.seed = append(g.seed[:0], seed...)

	var key [mtSeedLength / 4]uint32
	for i := range key {
		key[i] = binary.BigEndian.Uint32(seed[i*4:])
	}

	mt := &g.mt
	mt[0] = mtBootstrapSeed
	for i := 1; i < mtN; i++ {
		mt[i] = mtBootstrapMul*(mt[i-1]^(mt[i-1]>>30)) + uint32(i)
	}

	i, j := 1, 0
	for k := max(mtN, len(key)); k > 0; k-- {
		mt[i] = (mt[i] ^ (mt[i-1]^(mt[i-1]>>30))*mtSeedFactor1) + key[j] + uint32(j)
		i++
		j++
		if i >= mtN {
			mt[0] = mt[mtN-1]
			i = 1
		}
		if j >= len(key) {
			j = 0
		}
	}
	for k := mtN - 1; k > 0; k-- {
		mt[i] = (mt[i] ^ (mt[i-1]^(mt[i-1]>>30))*mtSeedFactor2) - uint32(i)
		i++
		if i >= mtN {
			mt[0] = mt[mtN-1]
			i = 1
		}
	}

	// The most significant bit is set, so the state is never all zero
	mt[0] = mtUpperMask
	g.index = mtN
	return nil
}

func (g *MersenneTwister) twist() {
	mt := &g.mt
	var kk int
	for ; kk < mtN-mtM; kk++ {
		y := (mt[kk] & mtUpperMask) | (mt[kk+1] & mtLowerMask)
		mt[kk] = mt[kk+mtM] ^ (y >> 1) ^ mtMag01[y&1]
	}
	for ; kk < mtN-1; kk++ {
		y := (mt[kk] & mtUpperMask) | (mt[kk+1] & mtLowerMask)
		mt[kk] = mt[kk+(mtM-mtN)] ^ (y >> 1) ^ mtMag01[y&1]
	}
	y := (mt[mtN-1] & mtUpperMask) | (mt[0] & mtLowerMask)
	mt[mtN-1] = mt[mtM-1] ^ (y >> 1) ^ mtMag01[y&1]
	g.index = 0
}

func (g *MersenneTwister) Next() uint32 {
	if g.index >= mtN {
		g.twist()
	}
	y := g.mt[g.index]
	g.index++

	y ^= y >> 11
	y ^= (y << 7) & mtTemperMask1
	y ^= (y << 15) & mtTemperMask2
	y ^= y >> 18
	return y
}

func (g *MersenneTwister) DescribeFields() map[string]any {
	h := fnv.New64a()
	for _, v := range g.mt {
		_ = binary.Write(h, binary.BigEndian, v)
	}
	return map[string]any{
		"mtHash":  h.Sum64(),
		"mtIndex": g.index,
	}
}
