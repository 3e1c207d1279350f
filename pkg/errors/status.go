// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package errors

import (
	"fmt"
	"strings"
)

// Status is an error status code.
type Status uint64

const (
	// OK means the operation succeeded.
	OK Status = 200

	// BadRequest means the caller supplied an invalid argument.
	BadRequest Status = 400

	// MissingSeed means a seed was required but none was given.
	MissingSeed Status = 401

	// InvalidSeedLength means the seed is shorter or longer than the
	// algorithm accepts.
	InvalidSeedLength Status = 402

	// UnsupportedKeyLength means the cipher key length is not allowed by the
	// configured policy.
	UnsupportedKeyLength Status = 403

	// NotSeekable means the algorithm cannot advance or rewind its state.
	NotSeekable Status = 404

	// SeedUnavailable means the generator does not know its current seed.
	SeedUnavailable Status = 405

	// InternalError means something went wrong that should not have.
	InternalError Status = 500

	// UnknownError means an error of unknown origin.
	UnknownError Status = 501

	// SeedSourceFailure means an entropy source failed to produce a seed.
	SeedSourceFailure Status = 502

	// AllSourcesExhausted means every source in a chain failed or was
	// skipped.
	AllSourcesExhausted Status = 503
)

var statusNames = map[Status]string{
	OK:                   "ok",
	BadRequest:           "badRequest",
	MissingSeed:          "missingSeed",
	InvalidSeedLength:    "invalidSeedLength",
	UnsupportedKeyLength: "unsupportedKeyLength",
	NotSeekable:          "notSeekable",
	SeedUnavailable:      "seedUnavailable",
	InternalError:        "internalError",
	UnknownError:         "unknownError",
	SeedSourceFailure:    "seedSourceFailure",
	AllSourcesExhausted:  "allSourcesExhausted",
}

// String returns the name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status:%d", uint64(s))
}

// StatusByName returns the status with the given name.
func StatusByName(name string) (Status, bool) {
	for s, n := range statusNames {
		if strings.EqualFold(n, name) {
			return s, true
		}
	}
	return 0, false
}
