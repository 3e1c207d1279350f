// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoggingCtxAttrs(t *testing.T) {
	var records records
	logger := slog.New(&logHandler{
		handler:      handler{&records},
		defaultLevel: slog.LevelDebug,
		lowestLevel:  slog.LevelDebug,
	})

	ctx := With(context.Background(), "foo", "bar")
	logger.InfoContext(ctx, "Hello world")
	require.Len(t, records, 1)

	attrs := map[string]any{}
	records[0].Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	require.Equal(t, "Hello world", records[0].Message)
	require.Equal(t, "bar", attrs["foo"])
}

func TestPlainLogging(t *testing.T) {
	buf := new(bytes.Buffer)
	handler, err := NewSlogHandler(SlogConfig{
		DefaultLevel: slog.LevelDebug,
	}, ConsoleSlogWriter(buf, false))
	require.NoError(t, err)
	logger := slog.New(stripTime{handler})

	logger.Info("Hello world")
	require.Equal(t, testTime.Format(time.RFC3339)+" INFO Hello world\n", buf.String())
}

func TestJSONLogging(t *testing.T) {
	buf := new(bytes.Buffer)
	handler, err := NewSlogHandler(SlogConfig{
		DefaultLevel: slog.LevelDebug,
	}, buf)
	require.NoError(t, err)
	logger := slog.New(stripTime{handler})

	logger.Info("Hello world")
	require.Equal(t, `{`+
		`"time":"`+testTime.Format(time.RFC3339)+`",`+
		`"level":"INFO",`+
		`"message":"Hello world"`+
		`}`+"\n", buf.String())
}

func TestModuleRules(t *testing.T) {
	rules, err := ParseRules("info;reseed=debug")
	require.NoError(t, err)
	require.Equal(t, []Rule{{Level: slog.LevelInfo}, {Module: "reseed", Level: slog.LevelDebug}}, rules)

	buf := new(bytes.Buffer)
	handler, err := NewSlogHandler(SlogConfig{DefaultLevel: slog.LevelError, Rules: rules}, buf)
	require.NoError(t, err)
	logger := slog.New(handler)

	logger.With("module", "reseed").Debug("shown")
	logger.With("module", "seed").Debug("hidden")
	logger.Debug("hidden")
	logger.Info("default")

	out := buf.String()
	require.Contains(t, out, "shown")
	require.Contains(t, out, "default")
	require.NotContains(t, out, "hidden")
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
}

func TestModuleRulesPerRecord(t *testing.T) {
	rules, err := ParseRules("error;reseed=debug")
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	handler, err := NewSlogHandler(SlogConfig{Rules: rules}, buf)
	require.NoError(t, err)
	logger := slog.New(handler)

	logger.Debug("shown", "module", "reseed")
	logger.Info("hidden", "module", "seed")
	logger.InfoContext(With(context.Background(), "module", "reseed"), "from context")

	out := buf.String()
	require.Contains(t, out, "shown")
	require.Contains(t, out, "from context")
	require.NotContains(t, out, "hidden")
}

func TestParseRulesInvalid(t *testing.T) {
	_, err := ParseRules("reseed=loud")
	require.Error(t, err)

	_, err = ParseRules("a=b=c")
	require.Error(t, err)
}

func TestOptionalLogger(t *testing.T) {
	var l OptionalLogger
	l.Info("nothing happens")
	l.With("module", "x").Error("still nothing")

	buf := new(bytes.Buffer)
	h, err := NewSlogHandler(SlogConfig{DefaultLevel: slog.LevelDebug}, buf)
	require.NoError(t, err)
	l.Set(slog.New(h), "module", "test")
	l.Info("Hello")
	require.Contains(t, buf.String(), `"module":"test"`)
}

type handler struct {
	justHandler
}

func (h handler) Enabled(context.Context, slog.Level) bool { return true }
func (h handler) WithAttrs(attrs []slog.Attr) slog.Handler { return &attrHandler{h, attrs} }
func (h handler) WithGroup(name string) slog.Handler       { return h }

type justHandler interface {
	Handle(context.Context, slog.Record) error
}

type records []slog.Record

func (r *records) Handle(_ context.Context, record slog.Record) error {
	*r = append(*r, record)
	return nil
}

type attrHandler struct {
	slog.Handler
	attrs []slog.Attr
}

func (h *attrHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(h.attrs...)
	return h.Handler.Handle(ctx, r)
}

type stripTime struct {
	slog.Handler
}

var testTime = time.Date(2000, 1, 1, 0, 0, 0, 0, time.Local)

func (s stripTime) Handle(ctx context.Context, r slog.Record) error {
	r.Time = testTime
	return s.Handler.Handle(ctx, r)
}

func (s stripTime) WithAttrs(attrs []slog.Attr) slog.Handler {
	return stripTime{s.Handler.WithAttrs(attrs)}
}

func (s stripTime) WithGroup(name string) slog.Handler {
	return stripTime{s.Handler.WithGroup(name)}
}
