// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package prng

import (
	"encoding/hex"
	"fmt"
)

// Description is a snapshot of a generator's state for debugging.
type Description struct {
	Algorithm   string         `json:"algorithm" yaml:"algorithm"`
	Seed        string         `json:"seed" yaml:"seed"`
	EntropyBits int64          `json:"entropyBits" yaml:"entropyBits"`
	Seeder      string         `json:"seeder,omitempty" yaml:"seeder,omitempty"`
	Fields      map[string]any `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Describe returns a snapshot of the generator's state.
func (r *Random) Describe() *Description {
	d := new(Description)
	r.mu.Lock()
	d.Algorithm = r.alg.Name()
	d.Seed = hex.EncodeToString(r.alg.Seed())
	if fd, ok := r.alg.(FieldDescriber); ok {
		d.Fields = fd.DescribeFields()
	}
	r.mu.Unlock()

	d.EntropyBits = r.EntropyBits()
	if s := r.Seeder(); s != nil {
		d.Seeder = fmt.Sprint(s)
	}
	return d
}

func (r *Random) String() string {
	return fmt.Sprintf("%s(entropy=%d)", r.alg.Name(), r.EntropyBits())
}
