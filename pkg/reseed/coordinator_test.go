// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package reseed

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gitlab.com/accumulatenetwork/betterrand/internal/logging"
	"gitlab.com/accumulatenetwork/betterrand/pkg/prng"
	prngtesting "gitlab.com/accumulatenetwork/betterrand/test/testing"
)

func TestStopIfIdleRefusesLateAdd(t *testing.T) {
	c := NewCoordinator(prngtesting.NewFakeSource(t.Name()), Options{})
	r, err := prng.NewPCG64(prngtesting.SeedBytes(8, t.Name()))
	require.NoError(t, err)

	require.True(t, c.Add(r))
	require.False(t, c.stopIfIdle(), "A coordinator with generators is not idle")
	c.Remove(r)

	require.True(t, c.stopIfIdle())
	c.mu.Lock()
	stopped := c.stopped
	c.mu.Unlock()
	require.True(t, stopped)
	require.False(t, c.Add(r))
	require.False(t, r.SetSeeder(c))
	<-c.Done()
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestPassLogging(t *testing.T) {
	out := new(lockedBuffer)
	logger, err := logging.NewSlogLogger("json", logging.SlogConfig{DefaultLevel: slog.LevelDebug}, out)
	require.NoError(t, err)

	reg := NewRegistry(Options{Logger: logger})
	defer reg.Close()
	src := prngtesting.NewFakeSource(t.Name())
	r := prng.Wrap(prng.NewSplitMix(1))
	r.Uint64()

	reg.Register(src, r)
	require.Eventually(t, func() bool { return strings.Contains(out.String(), `"message":"Reseeded"`) }, 5*time.Second, 10*time.Millisecond)

	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if !strings.Contains(line, `"message":"Reseeded"`) {
			continue
		}
		require.Contains(t, line, `"pass":`)
		require.Contains(t, line, `"module":"reseed"`)
		require.Contains(t, line, `"id":"`+reg.Coordinator(src).ID()+`"`)
	}
}
