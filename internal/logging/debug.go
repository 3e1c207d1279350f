// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

//go:build !production
// +build !production

package logging

import "gitlab.com/accumulatenetwork/betterrand/pkg/errors"

// EnableDebugFeatures turns on error location tracking.
func EnableDebugFeatures() {
	errors.EnableLocationTracking()
}

func DisableDebugFeatures() {
	errors.DisableLocationTracking()
}
