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

// counter128 is a 128-bit big-endian counter.
type counter128 [16]byte

// increment adds one, carrying from the last byte toward the first.
func (c *counter128) increment() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]++
		if c[i] != 0 {
			return
		}
	}
}

// add adds a signed value, sign-extended to 128 bits. Overflow wraps.
func (c *counter128) add(delta int64) {
	hi := binary.BigEndian.Uint64(c[:8])
	lo := binary.BigEndian.Uint64(c[8:])
	lo, carry := bits.Add64(lo, uint64(delta), 0)
	hi, _ = bits.Add64(hi, uint64(delta>>63), carry)
	binary.BigEndian.PutUint64(c[:8], hi)
	binary.BigEndian.PutUint64(c[8:], lo)
}
