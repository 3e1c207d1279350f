// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package prng

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

const (
	pcg128SeedLength   = 16
	pcg128MultiplierHi = 2549297995355413924
	pcg128MultiplierLo = 4865540595714422341
	pcg128IncrementHi  = 6364136223846793005
	pcg128IncrementLo  = 1442695040888963407
)

// uint128 is an unsigned 128-bit integer. Arithmetic wraps.
type uint128 struct {
	hi, lo uint64
}

func (a uint128) add(b uint128) uint128 {
	lo, carry := bits.Add64(a.lo, b.lo, 0)
	hi, _ := bits.Add64(a.hi, b.hi, carry)
	return uint128{hi, lo}
}

func (a uint128) mul(b uint128) uint128 {
	hi, lo := bits.Mul64(a.lo, b.lo)
	hi += a.hi*b.lo + a.lo*b.hi
	return uint128{hi, lo}
}

func (a uint128) isZero() bool { return a.hi == 0 && a.lo == 0 }

func (a uint128) shr1() uint128 { return uint128{a.hi >> 1, a.lo>>1 | a.hi<<63} }

var (
	pcg128Multiplier = uint128{pcg128MultiplierHi, pcg128MultiplierLo}
	pcg128Increment  = uint128{pcg128IncrementHi, pcg128IncrementLo}
)

// PCG128 is the PCG XSL-RR generator with 128 bits of state and 64 bits of
// output. It supports seeking.
type PCG128 struct {
	state uint128
}

// NewPCG128 returns a PCG128 generator.
func NewPCG128(seed []byte) (*Random, error) {
	return New(new(PCG128), seed)
}

func (*PCG128) Name() string    { return "PCG128" }
func (*PCG128) SeedLength() int { return pcg128SeedLength }

// Seed returns the current state, which seeds an identical generator.
func (g *PCG128) Seed() []byte {
	b := binary.BigEndian.AppendUint64(nil, g.state.hi)
	return binary.BigEndian.AppendUint64(b, g.state.lo)
}

func (g *PCG128) Reseed(seed []byte) error {
	err := checkSeed(g.Name(), seed, pcg128SeedLength, pcg128SeedLength)
	if err != nil {
		return err
	}
	g.state.hi = binary.BigEndian.Uint64(seed)
	g.state.lo = binary.BigEndian.Uint64(seed[8:])
	return nil
}

func (g *PCG128) Next64() uint64 {
	old := g.state
	g.state = old.mul(pcg128Multiplier).add(pcg128Increment)

	rot := int(old.hi >> 58)
	return bits.RotateLeft64(old.hi^old.lo, -rot)
}

func (g *PCG128) Next() uint32 { return uint32(g.Next64() >> 32) }

// Advance jumps delta steps the same way [PCG64.Advance] does, with 128-bit
// arithmetic. A negative delta is sign-extended, which steps back because
// the period of the state is 2^128.
func (g *PCG128) Advance(delta int64) {
	curMult, curPlus := pcg128Multiplier, pcg128Increment
	accMult, accPlus := uint128{0, 1}, uint128{}
	for d := (uint128{uint64(delta >> 63), uint64(delta)}); !d.isZero(); d = d.shr1() {
		if d.lo&1 == 1 {
			accMult = accMult.mul(curMult)
			accPlus = accPlus.mul(curMult).add(curPlus)
		}
		curPlus = curMult.add(uint128{0, 1}).mul(curPlus)
		curMult = curMult.mul(curMult)
	}
	g.state = accMult.mul(g.state).add(accPlus)
}

func (g *PCG128) DescribeFields() map[string]any {
	return map[string]any{
		"state": fmt.Sprintf("%016x%016x", g.state.hi, g.state.lo),
	}
}
