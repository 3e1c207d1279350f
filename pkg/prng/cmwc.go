// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package prng

import "encoding/binary"

const (
	cmwcSeedLength = 16384
	cmwcLag        = 4096
	cmwcA          = 18782
	cmwcCarry      = 362436
)

// CMWC4096 is Marsaglia's lag-4096 complementary-multiply-with-carry
// generator. It has a period of about 2^131104 and needs a 16 KiB seed.
type CMWC4096 struct {
	seed  []byte
	state [cmwcLag]uint32
	carry uint32
	index int
}

// NewCMWC4096 returns a CMWC4096 generator.
func NewCMWC4096(seed []byte) (*Random, error) {
	return New(new(CMWC4096), seed)
}

func (*CMWC4096) Name() string    { return "CMWC4096" }
func (*CMWC4096) SeedLength() int { return cmwcSeedLength }

func (g *CMWC4096) Seed() []byte { return append([]byte(nil), g.seed...) }

func (g *CMWC4096) Reseed(seed []byte) error {
	err := checkSeed(g.Name(), seed, cmwcSeedLength, cmwcSeedLength)
	if err != nil {
		return err
	}
	g.seed = append(g.seed[:0], seed...)
	for i := range g.state {
		g.state[i] = binary.BigEndian.Uint32(seed[i*4:])
	}
	g.carry = cmwcCarry
	g.index = cmwcLag - 1
	return nil
}

func (g *CMWC4096) Next() uint32 {
	g.index = (g.index + 1) & (cmwcLag - 1)
	t := cmwcA*uint64(g.state[g.index]) + uint64(g.carry)
	g.carry = uint32(t >> 32)
	x := uint32(t) + g.carry
	if int32(x) < int32(g.carry) {
		x++
		g.carry++
	}
	g.state[g.index] = 0xFFFFFFFE - x
	return g.state[g.index]
}

func (g *CMWC4096) DescribeFields() map[string]any {
	return map[string]any{
		"carry": g.carry,
		"index": g.index,
	}
}
