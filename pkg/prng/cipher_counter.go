// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package prng

import (
	"encoding/binary"
	"encoding/hex"
)

const (
	cipherCounterSize  = 16
	cipherBlocksAtOnce = 16
)

// cipherCounter is the counter mode machinery shared by the cipher based
// generators. Each refill produces the keystream for the next sixteen counter
// values, and output words are read big-endian from it.
type cipherCounter struct {
	blockSize int
	counter   counter128
	block     []byte
	index     int

	// encrypt writes the block for a counter value to dst.
	encrypt func(dst []byte, ctr *counter128)
}

func (c *cipherCounter) init(blockSize int, encrypt func(dst []byte, ctr *counter128)) {
	c.blockSize = blockSize
	c.encrypt = encrypt
	c.block = make([]byte, blockSize*cipherBlocksAtOnce)
	c.index = len(c.block)
}

// reset sets the counter and discards any buffered output.
func (c *cipherCounter) reset(ctr []byte) {
	c.counter = counter128{}
	copy(c.counter[:], ctr)
	c.index = len(c.block)
}

// refill increments the counter before each block.
func (c *cipherCounter) refill() {
	for i := 0; i < cipherBlocksAtOnce; i++ {
		c.counter.increment()
		c.encrypt(c.block[i*c.blockSize:(i+1)*c.blockSize], &c.counter)
	}
}

func (c *cipherCounter) next() uint32 {
	if len(c.block)-c.index < 4 {
		c.refill()
		c.index = 0
	}
	v := binary.BigEndian.Uint32(c.block[c.index:])
	c.index += 4
	return v
}

// advance moves the counter by whole blocks and then sets the position
// within the block.
func (c *cipherCounter) advance(delta int64) {
	if delta == 0 {
		return
	}

	// The next word is word (index%size)/4 of counter block C-15+index/size,
	// where C is the counter of the last block produced
	wordsPerBlock := int64(c.blockSize / 4)
	total := int64(c.index%c.blockSize/4) + delta
	blockDelta := floorDiv(total, wordsPerBlock)
	word := total - blockDelta*wordsPerBlock

	// refill increments the counter first, so leave it one before the target
	// block
	c.counter.add(blockDelta + int64(c.index/c.blockSize) - cipherBlocksAtOnce)
	c.refill()
	c.index = int(word) * 4
}

func (c *cipherCounter) describe(fields map[string]any) map[string]any {
	fields["counter"] = hex.EncodeToString(c.counter[:])
	fields["index"] = c.index
	return fields
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
