// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package seed

import (
	"fmt"
	"sync"
)

// Buffered serves requests smaller than its buffer from a prefetched buffer,
// so that a slow source is read in large batches. Larger requests go
// straight to the underlying source.
type Buffered struct {
	source Source
	mu     sync.Mutex
	buffer []byte
	pos    int
}

// NewBuffered returns a buffered source with the given buffer size.
func NewBuffered(source Source, size int) *Buffered {
	return &Buffered{
		source: source,
		buffer: make([]byte, size),
		pos:    size,
	}
}

func (s *Buffered) String() string {
	return fmt.Sprintf("Buffered(%v,%d)", s.source, len(s.buffer))
}

func (s *Buffered) IsWorthTrying() bool {
	s.mu.Lock()
	available := s.pos < len(s.buffer)
	s.mu.Unlock()
	return available || s.source.IsWorthTrying()
}

func (s *Buffered) GenerateSeed(n int) ([]byte, error) { return generate(s, n) }

func (s *Buffered) Fill(buf []byte) error {
	if len(buf) >= len(s.buffer) {
		return s.source.Fill(buf)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := copy(buf, s.buffer[s.pos:])
	s.pos += n
	if n == len(buf) {
		return nil
	}

	err := s.source.Fill(s.buffer)
	if err != nil {
		// The buffer is untouched on failure
		s.pos = len(s.buffer)
		return err
	}
	s.pos = copy(buf[n:], s.buffer)
	return nil
}
