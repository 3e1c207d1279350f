// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package concurrent_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gitlab.com/accumulatenetwork/betterrand/pkg/errors"
	"gitlab.com/accumulatenetwork/betterrand/pkg/prng"
	. "gitlab.com/accumulatenetwork/betterrand/pkg/prng/concurrent"
	"gitlab.com/accumulatenetwork/betterrand/pkg/reseed"
	prngtesting "gitlab.com/accumulatenetwork/betterrand/test/testing"
)

func init() { prngtesting.EnableDebugFeatures() }

// hammer calls every operation from several goroutines at once. Run with
// -race to check that no instance is shared.
func hammer(t *testing.T, g prng.Generator) {
	t.Helper()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				g.Uint32()
				g.Int64()
				if v := g.Int32Range(10, 20); v < 10 || v >= 20 {
					t.Errorf("Int32Range returned %d", v)
				}
				if v := g.Float64(); v < 0 || v >= 1 {
					t.Errorf("Float64 returned %v", v)
				}
				g.NormFloat64()
				g.Bool()
				_, _ = g.Read(make([]byte, 5))
			}
		}()
	}
	wg.Wait()
}

func TestPooled(t *testing.T) {
	var calls int
	var mu sync.Mutex
	g, err := NewPooled(func() (*prng.Random, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		return prng.NewXorShift(prngtesting.SeedBytes(20, t.Name(), n))
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls, "The factory is called eagerly")

	hammer(t, g)

	_, err = g.Seed()
	require.ErrorIs(t, err, errors.SeedUnavailable)
	require.NoError(t, g.SetSeed(prngtesting.SeedBytes(20, 1)))
	require.ErrorIs(t, g.SetSeed(make([]byte, 3)), errors.InvalidSeedLength)
}

func TestPooledFactoryError(t *testing.T) {
	_, err := NewPooled(func() (*prng.Random, error) {
		return prng.NewXorShift(make([]byte, 3))
	})
	require.ErrorIs(t, err, errors.InvalidSeedLength)
}

func TestReseeding(t *testing.T) {
	reg := reseed.NewRegistry(reseed.Options{Logger: prngtesting.NewTestLogger(t)})
	defer reg.Close()
	src := prngtesting.NewFakeSource(t.Name())

	g, err := NewReseeding(reg, src, func() (*prng.Random, error) {
		return prng.NewPCG64(prngtesting.SeedBytes(8, t.Name()))
	})
	require.NoError(t, err)
	require.True(t, reg.HasCoordinator(src), "Instances are registered as they are created")

	// Drain whichever instance this goroutine gets
	for i := 0; i < 4; i++ {
		g.Uint64()
	}
	require.Eventually(t, func() bool { return src.Calls() > 0 }, 5*time.Second, 10*time.Millisecond)
	hammer(t, g)
}

func TestSplit(t *testing.T) {
	seed := prngtesting.SeedBytes(8, t.Name())
	g, err := NewSplit(seed)
	require.NoError(t, err)

	// The first instance is the master's first split
	master := prng.NewSplitMix(0)
	require.NoError(t, master.Reseed(seed))
	want := prng.Wrap(master.Split())
	require.Equal(t, want.Uint64(), g.Uint64())

	got, err := g.Seed()
	require.NoError(t, err)
	require.Equal(t, master.Seed(), got, "Seed returns the master's current state")

	hammer(t, g)
}

func TestSplitSetSeed(t *testing.T) {
	a, err := NewSplit(prngtesting.SeedBytes(8, 1))
	require.NoError(t, err)
	b, err := NewSplit(prngtesting.SeedBytes(8, 2))
	require.NoError(t, err)
	a.Uint64()

	// Reseeding discards the old instances
	require.NoError(t, a.SetSeed(prngtesting.SeedBytes(8, 2)))
	require.Equal(t, b.Uint64(), a.Uint64())

	require.ErrorIs(t, a.SetSeed(make([]byte, 4)), errors.InvalidSeedLength)
	_, err = NewSplit(nil)
	require.ErrorIs(t, err, errors.MissingSeed)
}

func TestIntern(t *testing.T) {
	reg := reseed.NewRegistry(reseed.Options{Logger: prngtesting.NewTestLogger(t)})
	defer reg.Close()
	src := prngtesting.NewFakeSource(t.Name())

	a, err := Intern(reg, src)
	require.NoError(t, err)
	b, err := Intern(reg, src)
	require.NoError(t, err)
	require.Same(t, a, b)

	c, err := Intern(reg, prngtesting.NewFakeSource("other"))
	require.NoError(t, err)
	require.NotSame(t, a, c)

	_, err = a.Seed()
	require.ErrorIs(t, err, errors.SeedUnavailable)

	// Each instance has 64 bits; spending them gets it reseeded
	calls := src.Calls()
	a.Uint64()
	require.Eventually(t, func() bool { return src.Calls() > calls }, 5*time.Second, 10*time.Millisecond)
	hammer(t, a)
}

// slowSource blocks GenerateSeed until release is closed.
type slowSource struct {
	*prngtesting.FakeSource
	entered chan struct{}
	release chan struct{}
}

func (s *slowSource) GenerateSeed(n int) ([]byte, error) {
	close(s.entered)
	<-s.release
	return s.FakeSource.GenerateSeed(n)
}

func TestInternDoesNotBlockOnSlowSource(t *testing.T) {
	reg := reseed.NewRegistry(reseed.Options{Logger: prngtesting.NewTestLogger(t)})
	defer reg.Close()

	slow := &slowSource{prngtesting.NewFakeSource(t.Name()), make(chan struct{}), make(chan struct{})}
	var a *ReseedingSplit
	var errA error
	done := make(chan struct{})
	go func() {
		defer close(done)
		a, errA = Intern(reg, slow)
	}()
	<-slow.entered

	// Another source can be interned while the first is still seeding
	_, err := Intern(reg, prngtesting.NewFakeSource("other"))
	require.NoError(t, err)

	close(slow.release)
	<-done
	require.NoError(t, errA)
	b, err := Intern(reg, slow)
	require.NoError(t, err)
	require.Same(t, a, b)
}

func TestInternBrokenSource(t *testing.T) {
	src := prngtesting.NewFakeSource(t.Name())
	src.Broken.Store(true)
	_, err := Intern(reseed.NewRegistry(reseed.Options{}), src)
	require.ErrorIs(t, err, errors.SeedSourceFailure)
}
