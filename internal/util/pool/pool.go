// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package pool is a typed [sync.Pool].
package pool

import "sync"

type Pool[T any] sync.Pool

// New returns a pool that calls fn when it has nothing to hand out. fn may
// panic; the panic propagates to the caller of Get.
func New[T any](fn func() T) *Pool[T] {
	return (*Pool[T])(&sync.Pool{New: func() any { return fn() }})
}

func (p *Pool[T]) Get() T {
	return (*sync.Pool)(p).Get().(T)
}

func (p *Pool[T]) Put(v T) {
	(*sync.Pool)(p).Put(v)
}
