// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package prng

import "encoding/binary"

const xorShiftSeedLength = 20

// XorShift is Marsaglia's five-register xorshift generator. It is the
// fastest algorithm here and has the shortest period (2^160 - 1).
type XorShift struct {
	seed  []byte
	state [5]int32
}

// NewXorShift returns an XorShift generator.
func NewXorShift(seed []byte) (*Random, error) {
	return New(new(XorShift), seed)
}

func (*XorShift) Name() string    { return "XorShift" }
func (*XorShift) SeedLength() int { return xorShiftSeedLength }

func (g *XorShift) Seed() []byte { return append([]byte(nil), g.seed...) }

func (g *XorShift) Reseed(seed []byte) error {
	err := checkSeed(g.Name(), seed, xorShiftSeedLength, xorShiftSeedLength)
	if err != nil {
		return err
	}
	g.seed = append(g.seed[:0], seed...)
	for i := range g.state {
		g.state[i] = int32(binary.BigEndian.Uint32(seed[i*4:]))
	}
	return nil
}

func (g *XorShift) Next() uint32 {
	s := &g.state
	t := s[0] ^ (s[0] >> 7)
	s[0], s[1], s[2], s[3] = s[1], s[2], s[3], s[4]
	s[4] = (s[4] ^ (s[4] << 6)) ^ (t ^ (t << 13))
	return uint32((s[1] + s[1] + 1) * s[4])
}

func (g *XorShift) DescribeFields() map[string]any {
	return map[string]any{
		"state": g.state,
	}
}
