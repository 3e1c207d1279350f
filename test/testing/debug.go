// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package testing

import "gitlab.com/accumulatenetwork/betterrand/internal/logging"

// EnableDebugFeatures turns on error location tracking so failed assertions
// print call sites. It is a no-op in production builds.
func EnableDebugFeatures() { logging.EnableDebugFeatures() }

func DisableDebugFeatures() { logging.DisableDebugFeatures() }
