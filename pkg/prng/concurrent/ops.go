// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package concurrent adapts single-goroutine generators for concurrent use
// without a shared lock. Each call checks an instance out of a pool,
// so no instance is ever used by two goroutines at once.
package concurrent

import (
	"gitlab.com/accumulatenetwork/betterrand/internal/util/pool"
	"gitlab.com/accumulatenetwork/betterrand/pkg/prng"
)

type checkout interface {
	get() (*prng.Random, *pool.Pool[*prng.Random])
}

// ops forwards each operation to a checked-out instance.
type ops struct {
	src checkout
}

func (o ops) NextBits(n int) uint64 {
	r, p := o.src.get()
	defer p.Put(r)
	return r.NextBits(n)
}

func (o ops) Uint32() uint32 {
	r, p := o.src.get()
	defer p.Put(r)
	return r.Uint32()
}

func (o ops) Int32() int32 {
	r, p := o.src.get()
	defer p.Put(r)
	return r.Int32()
}

func (o ops) Uint64() uint64 {
	r, p := o.src.get()
	defer p.Put(r)
	return r.Uint64()
}

func (o ops) Int64() int64 {
	r, p := o.src.get()
	defer p.Put(r)
	return r.Int64()
}

func (o ops) Int32n(n int32) int32 {
	r, p := o.src.get()
	defer p.Put(r)
	return r.Int32n(n)
}

func (o ops) Int32Range(origin, bound int32) int32 {
	r, p := o.src.get()
	defer p.Put(r)
	return r.Int32Range(origin, bound)
}

func (o ops) Int64n(n int64) int64 {
	r, p := o.src.get()
	defer p.Put(r)
	return r.Int64n(n)
}

func (o ops) Int64Range(origin, bound int64) int64 {
	r, p := o.src.get()
	defer p.Put(r)
	return r.Int64Range(origin, bound)
}

func (o ops) Float32() float32 {
	r, p := o.src.get()
	defer p.Put(r)
	return r.Float32()
}

func (o ops) Float64() float64 {
	r, p := o.src.get()
	defer p.Put(r)
	return r.Float64()
}

func (o ops) Float64Range(origin, bound float64) float64 {
	r, p := o.src.get()
	defer p.Put(r)
	return r.Float64Range(origin, bound)
}

func (o ops) NormFloat64() float64 {
	r, p := o.src.get()
	defer p.Put(r)
	return r.NormFloat64()
}

func (o ops) Bool() bool {
	r, p := o.src.get()
	defer p.Put(r)
	return r.Bool()
}

func (o ops) WithProbability(prob float64) bool {
	r, p := o.src.get()
	defer p.Put(r)
	return r.WithProbability(prob)
}

func (o ops) Read(b []byte) (int, error) {
	r, p := o.src.get()
	defer p.Put(r)
	return r.Read(b)
}

// EntropyBits returns the entropy of the instance the caller would use.
func (o ops) EntropyBits() int64 {
	r, p := o.src.get()
	defer p.Put(r)
	return r.EntropyBits()
}

// setSeed reseeds the instance the caller would use.
func (o ops) setSeed(seed []byte) error {
	r, p := o.src.get()
	defer p.Put(r)
	return r.SetSeed(seed)
}
