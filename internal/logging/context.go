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

type attrsKey struct{}

// With returns a context carrying the given key/value pairs or attributes,
// parsed the way [slog.Logger.Log] parses its arguments. Handlers built by
// [NewSlogHandler] add them to every record logged with the context, and a
// "module" pair selects the module's level rule.
func With(ctx context.Context, args ...any) context.Context {
	var r slog.Record
	r.Add(args...)

	old := Attrs(ctx)
	attrs := make([]slog.Attr, len(old), len(old)+r.NumAttrs())
	copy(attrs, old)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	return context.WithValue(ctx, attrsKey{}, attrs)
}

// Attrs returns the attributes added to the context by [With].
func Attrs(ctx context.Context) []slog.Attr {
	v, _ := ctx.Value(attrsKey{}).([]slog.Attr)
	return v
}
