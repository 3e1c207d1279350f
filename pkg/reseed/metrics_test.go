// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package reseed

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"gitlab.com/accumulatenetwork/betterrand/pkg/prng"
	prngtesting "gitlab.com/accumulatenetwork/betterrand/test/testing"
)

func TestMetrics(t *testing.T) {
	reseeds := testutil.ToFloat64(mReseeds)
	failures := testutil.ToFloat64(mFailures)

	reg := NewRegistry(Options{Logger: prngtesting.NewTestLogger(t)})
	defer reg.Close()

	good := prngtesting.NewFakeSource(t.Name())
	r := prng.Wrap(prng.NewSplitMix(1))
	r.Uint64()
	reg.Register(good, r)
	require.Eventually(t, func() bool { return testutil.ToFloat64(mReseeds) > reseeds }, 5*time.Second, 10*time.Millisecond)

	bad := prngtesting.NewFakeSource(t.Name())
	bad.Broken.Store(true)
	s := prng.Wrap(prng.NewSplitMix(2))
	s.Uint64()
	reg.Register(bad, s)
	require.Eventually(t, func() bool { return testutil.ToFloat64(mFailures) > failures }, 5*time.Second, 10*time.Millisecond)
}
