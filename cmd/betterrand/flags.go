// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// HexFlag is a byte slice flag written in hex.
type HexFlag []byte

var _ pflag.Value = (*HexFlag)(nil)

func (h HexFlag) Type() string { return "hex" }

func (h HexFlag) String() string { return hex.EncodeToString(h) }

func (h *HexFlag) Set(s string) error {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return fmt.Errorf("invalid hex: %w", err)
	}
	*h = b
	return nil
}

// EnumFlag is a string flag restricted to a set of values.
type EnumFlag struct {
	Value   string
	Allowed []string
}

var _ pflag.Value = (*EnumFlag)(nil)

func (e *EnumFlag) Type() string { return strings.Join(e.Allowed, "|") }

func (e *EnumFlag) String() string { return e.Value }

func (e *EnumFlag) Set(s string) error {
	for _, a := range e.Allowed {
		if strings.EqualFold(a, s) {
			e.Value = a
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(e.Allowed, ", "))
}
