// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package prng

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Entropy, in bits, of values that do not depend on a range.
const (
	EntropyOfFloat32  = 24
	EntropyOfFloat64  = 53
	EntropyOfGaussian = EntropyOfFloat64
	EntropyOfBool     = 1
	EntropyOfByte     = 8
)

// EntropyOfRange returns ceil(log2(bound - origin)), the number of bits of
// entropy in a value drawn uniformly from [origin, bound).
func EntropyOfRange[T constraints.Signed](origin, bound T) int64 {
	// The difference is computed in 64 bits so that int32 ranges cannot
	// overflow. For int64 the wrapped difference is still correct as an
	// unsigned value.
	return int64(bits.Len64(uint64(int64(bound)-int64(origin)) - 1))
}
