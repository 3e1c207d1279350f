// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package seed

import (
	"io"
	"os"
	"sync/atomic"

	"gitlab.com/accumulatenetwork/betterrand/pkg/errors"
)

// DefaultDevRandomPath is the entropy device DevRandom reads by default.
const DefaultDevRandomPath = "/dev/random"

// DevRandom reads from the operating system's entropy device. Once the
// device is found to be missing, the source stops being worth trying.
type DevRandom struct {
	Path string

	missing atomic.Bool
}

// NewDevRandom returns a source that reads from path, or from
// [DefaultDevRandomPath] if path is empty.
func NewDevRandom(path string) *DevRandom {
	if path == "" {
		path = DefaultDevRandomPath
	}
	return &DevRandom{Path: path}
}

func (s *DevRandom) String() string { return s.Path }

func (s *DevRandom) IsWorthTrying() bool { return !s.missing.Load() }

func (s *DevRandom) GenerateSeed(n int) ([]byte, error) { return generate(s, n) }

func (s *DevRandom) Fill(buf []byte) error {
	if !s.IsWorthTrying() {
		return errors.SeedSourceFailure.WithFormat("%s did not exist when previously checked for", s.Path)
	}

	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.missing.Store(true)
		}
		return errors.SeedSourceFailure.WithCauseAndFormat(err, "open %s", s.Path)
	}
	defer f.Close()

	_, err = io.ReadFull(f, buf)
	if err != nil {
		return errors.SeedSourceFailure.WithCauseAndFormat(err, "read %s", s.Path)
	}
	return nil
}
