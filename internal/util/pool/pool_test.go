// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPool(t *testing.T) {
	var made int
	p := New(func() *int { made++; v := made; return &v })

	a := p.Get()
	require.Equal(t, 1, *a)
	b := p.Get()
	require.Equal(t, 2, *b)

	p.Put(a)
	p.Put(b)
	for i := 0; i < 4; i++ {
		v := p.Get()
		require.NotNil(t, v)
		require.LessOrEqual(t, *v, made)
	}
}

func TestPoolPanics(t *testing.T) {
	p := New(func() *int { panic("empty") })
	require.PanicsWithValue(t, "empty", func() { p.Get() })
}
