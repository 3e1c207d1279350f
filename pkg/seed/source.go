// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package seed provides sources of seed material for generators.
package seed

import "gitlab.com/accumulatenetwork/betterrand/pkg/errors"

// Source produces seed bytes. Sources are compared by identity, so
// implementations must be pointers or other comparable values.
type Source interface {
	// IsWorthTrying returns false if the source is known to be unavailable,
	// for example because it failed recently. It must be cheap.
	IsWorthTrying() bool

	// GenerateSeed returns n bytes of seed material.
	GenerateSeed(n int) ([]byte, error)

	// Fill fills buf with seed material.
	Fill(buf []byte) error
}

type filler interface {
	Fill(buf []byte) error
}

func generate(s filler, n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.BadRequest.WithFormat("invalid seed length %d", n)
	}
	b := make([]byte, n)
	err := s.Fill(b)
	if err != nil {
		return nil, err
	}
	return b, nil
}
