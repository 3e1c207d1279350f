// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package seed

import (
	"fmt"
	"strings"

	"gitlab.com/accumulatenetwork/betterrand/pkg/errors"
)

// Chain tries each source in order and returns the first success.
type Chain struct {
	sources     []Source
	alwaysWorth bool
}

// NewChain returns a chain of the given sources. If alwaysWorthTrying is
// true, the chain claims to be worth trying even when none of its sources
// do.
func NewChain(alwaysWorthTrying bool, sources ...Source) *Chain {
	return &Chain{
		sources:     append([]Source(nil), sources...),
		alwaysWorth: alwaysWorthTrying,
	}
}

func (c *Chain) String() string {
	s := make([]string, len(c.sources))
	for i, src := range c.sources {
		s[i] = fmt.Sprint(src)
	}
	return "Chain[" + strings.Join(s, ",") + "]"
}

// Sources returns the chain's sources in priority order.
func (c *Chain) Sources() []Source { return append([]Source(nil), c.sources...) }

func (c *Chain) IsWorthTrying() bool {
	if c.alwaysWorth {
		return true
	}
	for _, s := range c.sources {
		if s.IsWorthTrying() {
			return true
		}
	}
	return false
}

func (c *Chain) GenerateSeed(n int) ([]byte, error) { return generate(c, n) }

func (c *Chain) Fill(buf []byte) error {
	var last error
	for _, s := range c.sources {
		if !s.IsWorthTrying() {
			continue
		}
		err := s.Fill(buf)
		if err == nil {
			return nil
		}
		last = err
	}
	if last == nil {
		return errors.AllSourcesExhausted.With("no seed source is worth trying")
	}
	return errors.AllSourcesExhausted.WithCauseAndFormat(last, "all seed sources failed")
}

// Default returns the default source: the operating system entropy device,
// buffered, falling back to the platform CSPRNG.
func Default() Source {
	return defaultSource
}

var defaultSource = NewChain(true,
	NewBuffered(NewDevRandom(""), 128),
	Crypto,
)
