// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package prng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounterIncrementCarries(t *testing.T) {
	var c counter128
	c[15], c[14] = 0xFF, 0xFF
	c.increment()
	require.Equal(t, counter128{13: 1}, c)

	c = counter128{}
	for i := range c {
		c[i] = 0xFF
	}
	c.increment()
	require.Equal(t, counter128{}, c, "Overflow wraps")
}

func TestCounterAdd(t *testing.T) {
	var c counter128
	c.add(-1)
	for _, b := range c {
		require.Equal(t, byte(0xFF), b)
	}
	c.add(1)
	require.Equal(t, counter128{}, c)

	c = counter128{7: 1}
	c.add(-1)
	require.Equal(t, counter128{8: 0xFF, 9: 0xFF, 10: 0xFF, 11: 0xFF, 12: 0xFF, 13: 0xFF, 14: 0xFF, 15: 0xFF}, c)

	c.add(0x100)
	require.Equal(t, counter128{7: 1, 15: 0xFF}, c)
}

func TestFloorDiv(t *testing.T) {
	require.Equal(t, int64(1), floorDiv(7, 4))
	require.Equal(t, int64(-2), floorDiv(-7, 4))
	require.Equal(t, int64(-1), floorDiv(-4, 4))
	require.Equal(t, int64(0), floorDiv(0, 4))
}
