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
	pcgSeedLength = 8
	pcgMultiplier = 6364136223846793005
	pcgIncrement  = 1442695040888963407
)

// PCG64 is the PCG XSH-RR generator with 64 bits of state and 32 bits of
// output. It supports seeking.
type PCG64 struct {
	state uint64
}

// NewPCG64 returns a PCG64 generator.
func NewPCG64(seed []byte) (*Random, error) {
	return New(new(PCG64), seed)
}

func (*PCG64) Name() string    { return "PCG64" }
func (*PCG64) SeedLength() int { return pcgSeedLength }

// Seed returns the current state, which seeds an identical generator.
func (g *PCG64) Seed() []byte { return binary.BigEndian.AppendUint64(nil, g.state) }

func (g *PCG64) Reseed(seed []byte) error {
	err := checkSeed(g.Name(), seed, pcgSeedLength, pcgSeedLength)
	if err != nil {
		return err
	}
	g.state = binary.BigEndian.Uint64(seed)
	return nil
}

func (g *PCG64) ReseedLong(v int64) { g.state = uint64(v) }

func (g *PCG64) Next() uint32 {
	old := g.state
	g.state = old*pcgMultiplier + pcgIncrement

	// Output is computed from the old state so the multiply above can
	// proceed in parallel
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := int(old >> 59)
	return bits.RotateLeft32(xorshifted, -rot)
}

// Advance jumps delta steps using Brown's fast-forward for LCGs. A negative
// delta wraps to its two's complement, which is the same as stepping back
// because the period of the state is 2^64.
func (g *PCG64) Advance(delta int64) {
	curMult, curPlus := uint64(pcgMultiplier), uint64(pcgIncrement)
	accMult, accPlus := uint64(1), uint64(0)
	for d := uint64(delta); d != 0; d >>= 1 {
		if d&1 == 1 {
			accMult *= curMult
			accPlus = accPlus*curMult + curPlus
		}
		curPlus = (curMult + 1) * curPlus
		curMult *= curMult
	}
	g.state = accMult*g.state + accPlus
}

func (g *PCG64) DescribeFields() map[string]any {
	return map[string]any{
		"state": g.state,
	}
}
