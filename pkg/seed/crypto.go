// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package seed

import (
	"crypto/rand"
	"io"

	"gitlab.com/accumulatenetwork/betterrand/pkg/errors"
)

// CryptoSource reads from the platform CSPRNG. It is always worth trying.
type CryptoSource struct {
	// Reader overrides crypto/rand.Reader.
	Reader io.Reader
}

// Crypto is the shared platform CSPRNG source.
var Crypto = new(CryptoSource)

func (s *CryptoSource) String() string { return "crypto/rand" }

func (s *CryptoSource) IsWorthTrying() bool { return true }

func (s *CryptoSource) GenerateSeed(n int) ([]byte, error) { return generate(s, n) }

func (s *CryptoSource) Fill(buf []byte) error {
	r := s.Reader
	if r == nil {
		r = rand.Reader
	}
	_, err := io.ReadFull(r, buf)
	if err != nil {
		return errors.SeedSourceFailure.WithCauseAndFormat(err, "read %s", s)
	}
	return nil
}
