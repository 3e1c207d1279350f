// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package seed_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/accumulatenetwork/betterrand/pkg/errors"
	. "gitlab.com/accumulatenetwork/betterrand/pkg/seed"
	prngtesting "gitlab.com/accumulatenetwork/betterrand/test/testing"
)

func TestCrypto(t *testing.T) {
	b, err := Crypto.GenerateSeed(32)
	require.NoError(t, err)
	require.Len(t, b, 32)
	require.NotEqual(t, make([]byte, 32), b)

	b, err = Crypto.GenerateSeed(0)
	require.NoError(t, err)
	require.Empty(t, b)

	_, err = Crypto.GenerateSeed(-1)
	require.ErrorIs(t, err, errors.BadRequest)
}

func TestCryptoReaderFailure(t *testing.T) {
	src := &CryptoSource{Reader: bytes.NewReader([]byte{1, 2, 3})}
	_, err := src.GenerateSeed(8)
	require.ErrorIs(t, err, errors.SeedSourceFailure)
}

func TestDevRandomMissing(t *testing.T) {
	src := NewDevRandom(filepath.Join(t.TempDir(), "does-not-exist"))
	require.True(t, src.IsWorthTrying())

	_, err := src.GenerateSeed(8)
	require.ErrorIs(t, err, errors.SeedSourceFailure)
	require.False(t, src.IsWorthTrying(), "A missing device is never worth trying again")

	_, err = src.GenerateSeed(8)
	require.ErrorIs(t, err, errors.SeedSourceFailure)
}

func TestDevRandomDefaultPath(t *testing.T) {
	require.Equal(t, DefaultDevRandomPath, NewDevRandom("").Path)
}

func TestBuffered(t *testing.T) {
	fake := prngtesting.NewFakeSource(t.Name())
	src := NewBuffered(fake, 64)

	// Small requests are served from one fetch
	for i := 0; i < 8; i++ {
		b, err := src.GenerateSeed(8)
		require.NoError(t, err)
		require.Len(t, b, 8)
	}
	require.Equal(t, int64(1), fake.Calls())

	// The next small request refills
	_, err := src.GenerateSeed(8)
	require.NoError(t, err)
	require.Equal(t, int64(2), fake.Calls())

	// A request at least as large as the buffer bypasses it
	_, err = src.GenerateSeed(64)
	require.NoError(t, err)
	require.Equal(t, int64(3), fake.Calls())
}

func TestBufferedMatchesSource(t *testing.T) {
	// Reading through the buffer yields the same bytes as reading directly
	direct, err := prngtesting.NewFakeSource(t.Name()).GenerateSeed(64)
	require.NoError(t, err)

	src := NewBuffered(prngtesting.NewFakeSource(t.Name()), 64)
	var got []byte
	for len(got) < 64 {
		b, err := src.GenerateSeed(10)
		require.NoError(t, err)
		got = append(got, b...)
	}
	require.Equal(t, direct, got[:64])
}

func TestBufferedFailure(t *testing.T) {
	fake := prngtesting.NewFakeSource(t.Name())
	fake.Broken.Store(true)
	src := NewBuffered(fake, 64)
	require.False(t, src.IsWorthTrying())

	_, err := src.GenerateSeed(8)
	require.ErrorIs(t, err, errors.SeedSourceFailure)

	fake.Broken.Store(false)
	require.True(t, src.IsWorthTrying())
	_, err = src.GenerateSeed(8)
	require.NoError(t, err)
}

func TestChainFallsBack(t *testing.T) {
	failing := &prngtesting.FailingSource{WorthTrying: true}
	fake := prngtesting.NewFakeSource(t.Name())
	chain := NewChain(false, failing, fake)

	b, err := chain.GenerateSeed(16)
	require.NoError(t, err)
	require.Len(t, b, 16)
	require.Equal(t, int64(1), failing.Calls())
	require.Equal(t, int64(1), fake.Calls())
	require.Equal(t, []Source{failing, fake}, chain.Sources())
}

func TestChainSkipsUnworthy(t *testing.T) {
	failing := &prngtesting.FailingSource{WorthTrying: false}
	fake := prngtesting.NewFakeSource(t.Name())
	chain := NewChain(false, failing, fake)

	_, err := chain.GenerateSeed(16)
	require.NoError(t, err)
	require.Zero(t, failing.Calls())
}

func TestChainExhausted(t *testing.T) {
	a := &prngtesting.FailingSource{WorthTrying: true}
	b := &prngtesting.FailingSource{WorthTrying: true}
	chain := NewChain(false, a, b)
	require.True(t, chain.IsWorthTrying())

	_, err := chain.GenerateSeed(16)
	require.ErrorIs(t, err, errors.AllSourcesExhausted)
	require.ErrorIs(t, err, errors.SeedSourceFailure, "The last failure is the cause")
	require.Equal(t, int64(1), a.Calls())
	require.Equal(t, int64(1), b.Calls())

	a.WorthTrying, b.WorthTrying = false, false
	require.False(t, chain.IsWorthTrying())
	require.True(t, NewChain(true, a, b).IsWorthTrying())

	_, err = chain.GenerateSeed(16)
	require.ErrorIs(t, err, errors.AllSourcesExhausted)
}

func TestDefault(t *testing.T) {
	src := Default()
	require.True(t, src.IsWorthTrying())
	b, err := src.GenerateSeed(48)
	require.NoError(t, err)
	require.Len(t, b, 48)
}
