// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package prng

import "encoding/binary"

const (
	automatonSeedLength = 4
	automatonLength     = 2056
	automatonLastCell   = automatonLength - 1

	// AutomatonWarmup is the number of steps the automaton evolves after
	// every reseed before it produces output.
	AutomatonWarmup = automatonLength * automatonLength / 4
)

// automatonRule maps the sum of two neighboring cells, modulo 256, to the
// next state of a cell.
var automatonRule = [256]byte{
	100, 75, 16, 3, 229, 51, 197, 118, 24, 62, 198, 11, 141, 152, 241, 188,
	2, 17, 71, 47, 179, 177, 126, 231, 202, 243, 59, 25, 77, 196, 30, 134,
	199, 163, 34, 216, 21, 84, 37, 182, 224, 186, 64, 79, 225, 45, 143, 20,
	48, 147, 209, 221, 125, 29, 99, 12, 46, 190, 102, 220, 80, 215, 242, 105,
	15, 53, 0, 67, 68, 69, 70, 89, 109, 195, 170, 78, 210, 131, 42, 110,
	181, 145, 40, 114, 254, 85, 107, 87, 72, 192, 90, 201, 162, 122, 86, 252,
	94, 129, 98, 132, 193, 249, 156, 172, 219, 230, 153, 54, 180, 151, 83, 214,
	123, 88, 164, 167, 116, 117, 7, 27, 23, 213, 235, 5, 65, 124, 60, 127,
	236, 149, 44, 28, 58, 121, 191, 13, 250, 10, 232, 112, 101, 217, 183, 239,
	8, 32, 228, 174, 49, 113, 247, 158, 106, 218, 154, 66, 226, 157, 50, 26,
	253, 93, 205, 41, 133, 165, 61, 161, 187, 169, 6, 171, 81, 248, 56, 175,
	246, 36, 178, 52, 57, 212, 39, 176, 184, 185, 245, 63, 35, 189, 206, 76,
	104, 233, 194, 19, 43, 159, 108, 55, 200, 155, 14, 74, 244, 255, 222, 207,
	208, 137, 128, 135, 96, 144, 18, 95, 234, 139, 173, 92, 1, 203, 115, 223,
	130, 97, 91, 227, 146, 4, 31, 120, 211, 38, 22, 138, 140, 237, 238, 251,
	240, 160, 142, 119, 73, 103, 166, 33, 148, 9, 111, 136, 168, 150, 82, 204,
}

// CellularAutomaton is a one-dimensional cellular automaton of 2056 byte
// cells with a 32-bit seed. Each step updates four cells and outputs them as
// a little-endian word. It is fast but weak, and the short seed makes it
// unsuitable where unpredictability matters.
type CellularAutomaton struct {
	seed    [automatonSeedLength]byte
	cells   [automatonLength]byte
	current int
}

// NewCellularAutomaton returns a cellular automaton generator.
func NewCellularAutomaton(seed []byte) (*Random, error) {
	return New(new(CellularAutomaton), seed)
}

func (*CellularAutomaton) Name() string    { return "CellularAutomaton" }
func (*CellularAutomaton) SeedLength() int { return automatonSeedLength }

func (g *CellularAutomaton) Seed() []byte { return append([]byte(nil), g.seed[:]...) }

func (g *CellularAutomaton) Reseed(seed []byte) error {
	err := checkSeed(g.Name(), seed, automatonSeedLength, automatonSeedLength)
	if err != nil {
		return err
	}
	copy(g.seed[:], seed)

	// The last four cells hold the seed bytes, offset from signed to
	// unsigned
	for i, b := range g.seed {
		g.cells[automatonLastCell-i] = b + 128
	}
	g.current = automatonLastCell

	// The rest hold bits of the seed plus one, shifted arithmetically
	v := int32(binary.BigEndian.Uint32(g.seed[:]))
	if v != -1 {
		v++
	}
	for i := 0; i < automatonLength-4; i++ {
		g.cells[i] = byte(v >> (i % 32))
	}

	for i := 0; i < AutomatonWarmup; i++ {
		g.step()
	}
	return nil
}

// ReseedLong folds the value to 32 bits by xoring its halves.
func (g *CellularAutomaton) ReseedLong(v int64) {
	var seed [automatonSeedLength]byte
	binary.BigEndian.PutUint32(seed[:], uint32(uint64(v)^uint64(v)>>32))
	_ = g.Reseed(seed[:])
}

// step updates the current cell and the three to its left, moves four cells
// left, and returns the index of the leftmost updated cell.
func (g *CellularAutomaton) step() int {
	c := g.current - 1
	b := c - 1
	a := b - 1
	g.cells[g.current] = automatonRule[g.cells[c]+g.cells[g.current]]
	g.cells[c] = automatonRule[g.cells[b]+g.cells[c]]
	g.cells[b] = automatonRule[g.cells[a]+g.cells[b]]

	if a == 0 {
		g.cells[0] = automatonRule[g.cells[0]]
		g.current = automatonLastCell
	} else {
		g.cells[a] = automatonRule[g.cells[a-1]+g.cells[a]]
		g.current -= 4
	}
	return a
}

func (g *CellularAutomaton) Next() uint32 {
	a := g.step()
	return binary.LittleEndian.Uint32(g.cells[a:])
}

func (g *CellularAutomaton) DescribeFields() map[string]any {
	return map[string]any{
		"current": g.current,
	}
}
