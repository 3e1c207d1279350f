// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package errors

var trackLocation = false

// EnableLocationTracking records the call site of every error created after
// it is called. This is expensive and intended for tests.
func EnableLocationTracking() {
	trackLocation = true
}

// DisableLocationTracking stops recording call sites.
func DisableLocationTracking() {
	trackLocation = false
}
