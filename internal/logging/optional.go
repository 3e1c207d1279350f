// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"context"
	"log/slog"
)

// OptionalLogger wraps a logger that may be nil.
type OptionalLogger struct {
	L *slog.Logger
}

func (l OptionalLogger) Debug(msg string, keyVals ...interface{}) {
	if l.L == nil {
		return
	}
	l.L.Debug(msg, keyVals...)
}

func (l OptionalLogger) Info(msg string, keyVals ...interface{}) {
	if l.L == nil {
		return
	}
	l.L.Info(msg, keyVals...)
}

func (l OptionalLogger) Warn(msg string, keyVals ...interface{}) {
	if l.L == nil {
		return
	}
	l.L.Warn(msg, keyVals...)
}

func (l OptionalLogger) Error(msg string, keyVals ...interface{}) {
	if l.L == nil {
		return
	}
	l.L.Error(msg, keyVals...)
}

func (l OptionalLogger) DebugContext(ctx context.Context, msg string, keyVals ...interface{}) {
	if l.L == nil {
		return
	}
	l.L.DebugContext(ctx, msg, keyVals...)
}

func (l OptionalLogger) ErrorContext(ctx context.Context, msg string, keyVals ...interface{}) {
	if l.L == nil {
		return
	}
	l.L.ErrorContext(ctx, msg, keyVals...)
}

func (l OptionalLogger) With(keyVals ...interface{}) OptionalLogger {
	if l.L == nil {
		return l
	}
	return OptionalLogger{l.L.With(keyVals...)}
}

func (l *OptionalLogger) Set(ll *slog.Logger, keyVals ...interface{}) {
	if ll == nil {
		return
	}
	l.L = ll.With(keyVals...)
}
