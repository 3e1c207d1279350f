// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package reseed refreshes generators in the background. A [Coordinator]
// serves every generator that draws its seeds from one [seed.Source]; a
// [Registry] maps sources to coordinators and creates them on demand.
package reseed

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
	"weak"

	"github.com/google/uuid"
	"gitlab.com/accumulatenetwork/betterrand/internal/logging"
	"gitlab.com/accumulatenetwork/betterrand/pkg/errors"
	"gitlab.com/accumulatenetwork/betterrand/pkg/prng"
	"gitlab.com/accumulatenetwork/betterrand/pkg/seed"
)

const (
	DefaultPollInterval      = time.Minute
	DefaultFirstPollInterval = time.Second
	DefaultIdleTimeout       = 5 * time.Second
)

// Options configures coordinators.
type Options struct {
	// PollInterval is the longest a coordinator waits between passes when
	// nothing needs reseeding.
	PollInterval time.Duration

	// FirstPollInterval replaces PollInterval for the first wait after the
	// coordinator starts.
	FirstPollInterval time.Duration

	// IdleTimeout is how long a coordinator with no generators waits for
	// one before stopping.
	IdleTimeout time.Duration

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.FirstPollInterval <= 0 {
		o.FirstPollInterval = min(DefaultFirstPollInterval, o.PollInterval)
	}
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = DefaultIdleTimeout
	}
	return o
}

type randomRef = weak.Pointer[prng.Random]

// Coordinator reseeds the generators registered with it from a single
// source. Generators are held weakly, so registering a generator does not
// keep it alive. A coordinator that has stopped cannot be restarted and
// refuses new generators.
type Coordinator struct {
	id     string
	source seed.Source
	opts   Options
	logger logging.OptionalLogger

	mu      sync.Mutex
	randoms map[randomRef]struct{}
	forced  map[randomRef]struct{}
	stopped bool

	started  atomic.Bool
	wake     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	// Only accessed by the worker
	buffers map[int][]byte
}

var _ prng.Seeder = (*Coordinator)(nil)

// NewCoordinator returns a coordinator for the source. Call Start to run it.
func NewCoordinator(source seed.Source, opts Options) *Coordinator {
	c := new(Coordinator)
	c.id = uuid.NewString()
	c.source = source
	c.opts = opts.withDefaults()
	c.randoms = map[randomRef]struct{}{}
	c.forced = map[randomRef]struct{}{}
	c.wake = make(chan struct{}, 1)
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	c.buffers = map[int][]byte{}
	c.logger.Set(c.opts.Logger, "module", "reseed", "source", fmt.Sprint(source), "id", c.id)
	return c
}

// Source returns the coordinator's seed source.
func (c *Coordinator) Source() seed.Source { return c.source }

// ID returns a random identifier that distinguishes this coordinator from
// others for the same source in logs.
func (c *Coordinator) ID() string { return c.id }

func (c *Coordinator) String() string {
	return fmt.Sprintf("reseed.Coordinator(%v)", c.source)
}

// Start starts the worker goroutine.
func (c *Coordinator) Start() error {
	if !c.started.CompareAndSwap(false, true) {
		return errors.BadRequest.With("already started")
	}

	go c.run()
	return nil
}

// Stop tells the coordinator to stop. It does not wait; use Done for that.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()
	c.stopOnce.Do(func() { close(c.stop) })

	// A coordinator that never started has no worker to clean up after it
	if c.started.CompareAndSwap(false, true) {
		c.shutdown()
		close(c.done)
	}
}

// Done returns a channel that is closed once the coordinator has stopped and
// released its generators.
func (c *Coordinator) Done() <-chan struct{} { return c.done }

// IsRunning returns true if the coordinator has not stopped.
func (c *Coordinator) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.stopped
}

// IsIdle returns true if the coordinator has stopped or has no live
// generators.
func (c *Coordinator) IsIdle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped || c.pruneLocked() == 0
}

// stopIfIdle stops the coordinator if it has no live generators. It returns
// true if the coordinator is stopped.
func (c *Coordinator) stopIfIdle() bool {
	// Mark the coordinator stopped while the registry is known to be empty,
	// so that a concurrent Add either lands before the check or is refused
	c.mu.Lock()
	if !c.stopped && c.pruneLocked() > 0 {
		c.mu.Unlock()
		return false
	}
	c.stopped = true
	c.mu.Unlock()
	c.Stop()
	return true
}

// Add registers generators. It returns false, and registers nothing, if the
// coordinator has stopped.
func (c *Coordinator) Add(rs ...*prng.Random) bool {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return false
	}
	var added int
	for _, r := range rs {
		p := weak.Make(r)
		if _, ok := c.randoms[p]; ok {
			continue
		}
		c.randoms[p] = struct{}{}
		added++
	}
	c.mu.Unlock()

	mGenerators.Add(float64(added))
	c.Wake()
	return true
}

// Remove unregisters generators.
func (c *Coordinator) Remove(rs ...*prng.Random) {
	c.mu.Lock()
	var removed int
	for _, r := range rs {
		p := weak.Make(r)
		if _, ok := c.randoms[p]; !ok {
			continue
		}
		delete(c.randoms, p)
		delete(c.forced, p)
		removed++
	}
	c.mu.Unlock()
	mGenerators.Sub(float64(removed))
}

// Contains returns true if the generator is registered.
func (c *Coordinator) Contains(r *prng.Random) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.randoms[weak.Make(r)]
	return ok
}

// Wake asks the coordinator to make a pass now. It never blocks.
func (c *Coordinator) Wake() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// RequestReseed asks the coordinator to reseed the generator on its next
// pass, whether or not it has entropy left, and wakes the coordinator. It
// returns false if the generator is not registered or the coordinator has
// stopped.
func (c *Coordinator) RequestReseed(r *prng.Random) bool {
	p := weak.Make(r)
	c.mu.Lock()
	_, ok := c.randoms[p]
	ok = ok && !c.stopped
	if ok {
		c.forced[p] = struct{}{}
	}
	c.mu.Unlock()

	if ok {
		c.Wake()
	}
	return ok
}

// pruneLocked removes collected generators and returns the number of live
// ones.
func (c *Coordinator) pruneLocked() int {
	var pruned int
	for p := range c.randoms {
		if p.Value() == nil {
			delete(c.randoms, p)
			delete(c.forced, p)
			pruned++
		}
	}
	mGenerators.Sub(float64(pruned))
	return len(c.randoms)
}

// snapshot returns the live generators and the ones that must be reseeded
// regardless of their entropy.
func (c *Coordinator) snapshot() ([]*prng.Random, map[*prng.Random]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pruneLocked()

	randoms := make([]*prng.Random, 0, len(c.randoms))
	forced := make(map[*prng.Random]bool, len(c.forced))
	for p := range c.randoms {
		r := p.Value()
		if r == nil {
			continue
		}
		randoms = append(randoms, r)
		if _, ok := c.forced[p]; ok {
			forced[r] = true
		}
	}
	clear(c.forced)
	return randoms, forced
}

func (c *Coordinator) run() {
	defer close(c.done)
	defer c.shutdown()
	defer func() {
		if r := recover(); r != nil {
			mFailures.Inc()
			c.logger.Error("Coordinator panicked", "error", r, "stack", string(debug.Stack()))
		}
	}()

	mCoordinators.Inc()
	defer mCoordinators.Dec()
	c.logger.Debug("Started")

	wait := c.opts.FirstPollInterval
	for i := 1; ; i++ {
		ctx := logging.With(context.Background(), "pass", i)
		n, empty, err := c.pass(ctx)
		if err != nil {
			mFailures.Inc()
			c.logger.ErrorContext(ctx, "Reseeding failed, stopping", "error", err)
			return
		}

		switch {
		case empty:
			if !c.waitForGenerators() {
				return
			}
			continue
		case n > 0:
			// Check again immediately, something may have drained while
			// this pass was running
			continue
		}

		if !c.sleep(wait) {
			return
		}
		wait = c.opts.PollInterval
	}
}

// pass reseeds every generator that is out of entropy or that was
// explicitly requested. It returns the number of generators reseeded and
// whether the registry was empty.
func (c *Coordinator) pass(ctx context.Context) (int, bool, error) {
	randoms, forced := c.snapshot()
	if len(randoms) == 0 {
		return 0, true, nil
	}

	var n int
	for _, r := range randoms {
		if r.EntropyBits() > 0 && !forced[r] && !r.NeedsReseedingEarly() {
			continue
		}

		err := c.reseed(r)
		if err != nil {
			return n, false, errors.UnknownError.WithCauseAndFormat(err, "reseed %v", r)
		}
		n++
		mReseeds.Inc()
		c.logger.DebugContext(ctx, "Reseeded", "algorithm", r.Algorithm(), "entropy", r.EntropyBits())
	}
	return n, false, nil
}

func (c *Coordinator) reseed(r *prng.Random) error {
	if r.PreferSeedWithLong() {
		b, err := c.source.GenerateSeed(8)
		if err != nil {
			return err
		}
		return r.SetSeedLong(int64(binary.BigEndian.Uint64(b)))
	}

	buf, ok := c.buffers[r.SeedLength()]
	if !ok {
		buf = make([]byte, r.SeedLength())
		c.buffers[len(buf)] = buf
	}
	err := c.source.Fill(buf)
	if err != nil {
		return err
	}
	return r.SetSeed(buf)
}

// waitForGenerators waits for a generator to be registered. It returns false
// if the coordinator should stop.
func (c *Coordinator) waitForGenerators() bool {
	timer := time.NewTimer(c.opts.IdleTimeout)
	defer timer.Stop()

	select {
	case <-c.wake:
		return true
	case <-c.stop:
		return false
	case <-timer.C:
		if c.stopIfIdle() {
			c.logger.Debug("Idle, stopping")
			return false
		}
		return true
	}
}

// sleep waits for the poll interval or a wake-up. It returns false if the
// coordinator should stop.
func (c *Coordinator) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-c.wake:
		return true
	case <-timer.C:
		return true
	case <-c.stop:
		return false
	}
}

// shutdown clears the registry and releases every generator.
func (c *Coordinator) shutdown() {
	c.mu.Lock()
	c.stopped = true
	randoms := c.randoms
	c.randoms = map[randomRef]struct{}{}
	clear(c.forced)
	c.mu.Unlock()

	mGenerators.Sub(float64(len(randoms)))
	for p := range randoms {
		if r := p.Value(); r != nil {
			r.ReleaseSeeder(c)
		}
	}
	c.stopOnce.Do(func() { close(c.stop) })
	c.logger.Debug("Stopped")
}
