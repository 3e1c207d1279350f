// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"io"
	"log/slog"
	"strings"
	"testing"
)

type TestLogger struct {
	Test testing.TB
}

var _ io.Writer = (*TestLogger)(nil)

func (l *TestLogger) Write(b []byte) (int, error) {
	l.Test.Helper()
	l.Test.Log(strings.TrimSuffix(string(b), "\n"))
	return len(b), nil
}

// NewTestLogger returns a logger that writes to the test log.
func NewTestLogger(t testing.TB, format string, level slog.Level) *slog.Logger {
	logger, err := NewSlogLogger(format, SlogConfig{DefaultLevel: level}, &TestLogger{Test: t})
	if err != nil {
		t.Fatalf("Unsupported log format: %s", format)
	}
	return logger
}
