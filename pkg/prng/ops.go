// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package prng

import (
	"fmt"
	"math"
)

// NextBits returns the top n bits (1 to 64) of one step of the algorithm.
// It does not debit the ledger.
func (r *Random) NextBits(n int) uint64 {
	if n < 1 || n > 64 {
		panic(fmt.Sprintf("invalid bit count %d", n))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bits(n)
}

func (r *Random) bits(n int) uint64 {
	if n <= 32 {
		return uint64(r.alg.Next() >> (32 - n))
	}
	return r.next64() >> (64 - n)
}

func (r *Random) next64() uint64 {
	if w, ok := r.alg.(Wide); ok {
		return w.Next64()
	}
	hi := uint64(r.alg.Next())
	lo := uint64(r.alg.Next())
	return hi<<32 | lo
}

// Uint32 returns a uniformly distributed 32-bit value.
func (r *Random) Uint32() uint32 {
	r.awaitEntropy(32)
	v := uint32(r.NextBits(32))
	r.debitEntropy(32)
	return v
}

// Int32 returns a uniformly distributed, possibly negative, 32-bit value.
func (r *Random) Int32() int32 {
	return int32(r.Uint32())
}

// Uint64 returns a uniformly distributed 64-bit value. It makes *Random a
// [math/rand/v2.Source].
func (r *Random) Uint64() uint64 {
	r.awaitEntropy(64)
	v := r.NextBits(64)
	r.debitEntropy(64)
	return v
}

// Int64 returns a uniformly distributed, possibly negative, 64-bit value.
func (r *Random) Int64() int64 {
	return int64(r.Uint64())
}

// Int32n returns a value in [0, n). It panics if n <= 0.
func (r *Random) Int32n(n int32) int32 {
	if n <= 0 {
		panic("invalid argument to Int32n")
	}
	r.awaitEntropy(EntropyOfRange(0, n))
	r.mu.Lock()
	v := r.int31n(n)
	r.mu.Unlock()
	r.debitEntropy(EntropyOfRange(0, n))
	return v
}

func (r *Random) int31n(n int32) int32 {
	if n&-n == n {
		return int32((int64(n) * int64(r.bits(31))) >> 31)
	}
	for {
		bits := int32(r.bits(31))
		val := bits % n
		if bits-val+(n-1) >= 0 {
			return val
		}
	}
}

// Int32Range returns a value in [origin, bound). It panics if bound <= origin.
func (r *Random) Int32Range(origin, bound int32) int32 {
	if bound <= origin {
		panic(fmt.Sprintf("bound %d must be greater than origin %d", bound, origin))
	}

	var v int32
	r.awaitEntropy(EntropyOfRange(origin, bound))
	r.mu.Lock()
	if n := bound - origin; n > 0 {
		v = r.int31n(n) + origin
	} else {
		// The range does not fit in an int32
		for {
			v = int32(r.bits(32))
			if v >= origin && v < bound {
				break
			}
		}
	}
	r.mu.Unlock()
	r.debitEntropy(EntropyOfRange(origin, bound))
	return v
}

// Int64n returns a value in [0, n). It panics if n <= 0.
func (r *Random) Int64n(n int64) int64 {
	if n <= 0 {
		panic("invalid argument to Int64n")
	}
	return r.Int64Range(0, n)
}

// Int64Range returns a value in [origin, bound). It panics if bound <= origin.
func (r *Random) Int64Range(origin, bound int64) int64 {
	if bound <= origin {
		panic(fmt.Sprintf("bound %d must be greater than origin %d", bound, origin))
	}

	r.awaitEntropy(EntropyOfRange(origin, bound))
	r.mu.Lock()
	v := r.int64Range(origin, bound)
	r.mu.Unlock()
	r.debitEntropy(EntropyOfRange(origin, bound))
	return v
}

func (r *Random) int64Range(origin, bound int64) int64 {
	v := int64(r.next64())
	n := bound - origin
	m := n - 1

	switch {
	case n&m == 0:
		// Power of two
		return v&m + origin

	case n > 0:
		// Reject over-represented candidates
		u := int64(uint64(v) >> 1)
		for {
			v = u % n
			if u+m-v >= 0 {
				return v + origin
			}
			u = int64(r.next64() >> 1)
		}

	default:
		// The range does not fit in an int64
		for v < origin || v >= bound {
			v = int64(r.next64())
		}
		return v
	}
}

// Float32 returns a value in [0, 1).
func (r *Random) Float32() float32 {
	r.awaitEntropy(EntropyOfFloat32)
	v := float32(r.NextBits(24)) * 0x1p-24
	r.debitEntropy(EntropyOfFloat32)
	return v
}

// Float64 returns a value in [0, 1).
func (r *Random) Float64() float64 {
	r.awaitEntropy(EntropyOfFloat64)
	v := float64(r.NextBits(53)) * 0x1p-53
	r.debitEntropy(EntropyOfFloat64)
	return v
}

// Float64Range returns a value in [origin, bound). It panics if bound <=
// origin.
func (r *Random) Float64Range(origin, bound float64) float64 {
	if !(bound > origin) {
		panic(fmt.Sprintf("bound %f must be greater than origin %f", bound, origin))
	}
	v := r.Float64()*(bound-origin) + origin
	if v >= bound {
		// Correct for rounding
		v = math.Nextafter(bound, math.Inf(-1))
	}
	return v
}

// NormFloat64 returns a normally distributed value with mean 0 and standard
// deviation 1. Values are generated in pairs by the polar method; the second
// of each pair is cached until the next call or the next reseed. Every call
// is debited 53 bits, even when it returns the cached value.
func (r *Random) NormFloat64() float64 {
	r.awaitEntropy(EntropyOfGaussian)
	r.mu.Lock()
	v := r.gaussianLocked()
	r.mu.Unlock()
	r.debitEntropy(EntropyOfGaussian)
	return v
}

func (r *Random) gaussianLocked() float64 {
	if r.hasGaussian {
		r.hasGaussian = false
		return r.gaussian
	}

	var v1, v2, s float64
	for {
		v1 = 2*float64(r.bits(53))*0x1p-53 - 1
		v2 = 2*float64(r.bits(53))*0x1p-53 - 1
		s = v1*v1 + v2*v2
		if s < 1 && s != 0 {
			break
		}
	}
	mul := math.Sqrt(-2 * math.Log(s) / s)
	r.gaussian = v2 * mul
	r.hasGaussian = true
	return v1 * mul
}

// Bool returns a uniformly distributed boolean.
func (r *Random) Bool() bool {
	r.awaitEntropy(EntropyOfBool)
	v := r.NextBits(1) != 0
	r.debitEntropy(EntropyOfBool)
	return v
}

// WithProbability returns true with probability p. If p <= 0 or p >= 1 the
// result does not depend on the generator and nothing is debited. Otherwise
// one bit is debited.
func (r *Random) WithProbability(p float64) bool {
	switch {
	case p >= 1:
		return true
	case p <= 0:
		return false
	case p == 0.5:
		return r.Bool()
	}
	r.awaitEntropy(EntropyOfBool)
	v := float64(r.NextBits(53))*0x1p-53 < p
	r.debitEntropy(EntropyOfBool)
	return v
}

// Read fills p with random bytes and debits 8 bits per byte. It always
// returns len(p), nil.
func (r *Random) Read(p []byte) (int, error) {
	if r.blocker != nil {
		return r.readBlocking(p)
	}

	r.mu.Lock()
	for i := 0; i < len(p); {
		v := r.alg.Next()
		for n := min(len(p)-i, 4); n > 0; n-- {
			p[i] = byte(v)
			v >>= 8
			i++
		}
	}
	r.mu.Unlock()
	r.debitEntropy(int64(len(p)) * EntropyOfByte)
	return len(p), nil
}

// readBlocking debits each word before drawing it, so that a long read
// reseeds as often as it needs to.
func (r *Random) readBlocking(p []byte) (int, error) {
	for i := 0; i < len(p); {
		n := min(len(p)-i, 4)
		r.awaitEntropy(int64(n) * EntropyOfByte)
		r.mu.Lock()
		v := r.alg.Next()
		r.mu.Unlock()
		for ; n > 0; n-- {
			p[i] = byte(v)
			v >>= 8
			i++
		}
	}
	return len(p), nil
}

// Element returns a uniformly chosen element of s. It panics if s is empty.
func Element[E any](r *Random, s []E) E {
	return s[r.Int64n(int64(len(s)))]
}
