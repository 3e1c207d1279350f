// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package prng

// Generator is the surface shared by [Random] and the adapters in package
// concurrent.
type Generator interface {
	NextBits(n int) uint64
	Uint32() uint32
	Int32() int32
	Uint64() uint64
	Int64() int64
	Int32n(n int32) int32
	Int32Range(origin, bound int32) int32
	Int64n(n int64) int64
	Int64Range(origin, bound int64) int64
	Float32() float32
	Float64() float64
	Float64Range(origin, bound float64) float64
	NormFloat64() float64
	Bool() bool
	WithProbability(p float64) bool
	Read(p []byte) (int, error)

	SetSeed(seed []byte) error
	Seed() ([]byte, error)
	EntropyBits() int64
}

var _ Generator = (*Random)(nil)
