// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package testing

import (
	"log/slog"
	"testing"

	"gitlab.com/accumulatenetwork/betterrand/internal/logging"
)

// DefaultLogLevel is the level of loggers returned by NewTestLogger.
var DefaultLogLevel = slog.LevelInfo

func NewTestLogger(t testing.TB) *slog.Logger {
	return logging.NewTestLogger(t, "plain", DefaultLogLevel)
}
