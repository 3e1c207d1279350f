// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package testing

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"gitlab.com/accumulatenetwork/betterrand/pkg/errors"
	"gitlab.com/accumulatenetwork/betterrand/pkg/seed"
	"golang.org/x/crypto/blake2b"
)

// SeedBytes deterministically derives n bytes from the given values.
func SeedBytes(n int, values ...interface{}) []byte {
	h, err := blake2b.NewXOF(uint32(n), nil)
	if err != nil {
		panic(err)
	}
	for _, v := range values {
		_, _ = fmt.Fprint(h, v, "\x00")
	}
	b := make([]byte, n)
	_, err = h.Read(b)
	if err != nil {
		panic(err)
	}
	return b
}

// FakeSource is a deterministic [seed.Source]. Setting Broken makes it fail.
type FakeSource struct {
	Broken atomic.Bool

	mu    sync.Mutex
	rng   *rand.ChaCha8
	calls atomic.Int64
}

var _ seed.Source = (*FakeSource)(nil)

// NewFakeSource returns a source whose output is determined by the given
// values.
func NewFakeSource(values ...interface{}) *FakeSource {
	var key [32]byte
	copy(key[:], SeedBytes(32, values...))
	return &FakeSource{rng: rand.NewChaCha8(key)}
}

func (s *FakeSource) String() string { return fmt.Sprintf("fake(%p)", s) }

// Calls returns the number of times the source was asked for seed material.
func (s *FakeSource) Calls() int64 { return s.calls.Load() }

func (s *FakeSource) IsWorthTrying() bool { return !s.Broken.Load() }

func (s *FakeSource) GenerateSeed(n int) ([]byte, error) {
	b := make([]byte, n)
	err := s.Fill(b)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *FakeSource) Fill(buf []byte) error {
	s.calls.Add(1)
	if s.Broken.Load() {
		return errors.SeedSourceFailure.With("fake source is broken")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.rng.Read(buf)
	return nil
}

// FailingSource always fails.
type FailingSource struct {
	// WorthTrying is returned by IsWorthTrying.
	WorthTrying bool

	calls atomic.Int64
}

var _ seed.Source = (*FailingSource)(nil)

func (s *FailingSource) String() string { return "failing" }

func (s *FailingSource) Calls() int64 { return s.calls.Load() }

func (s *FailingSource) IsWorthTrying() bool { return s.WorthTrying }

func (s *FailingSource) GenerateSeed(n int) ([]byte, error) {
	return nil, s.Fill(nil)
}

func (s *FailingSource) Fill([]byte) error {
	s.calls.Add(1)
	return errors.SeedSourceFailure.With("failing source")
}
