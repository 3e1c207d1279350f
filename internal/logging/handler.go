// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/accumulatenetwork/betterrand/pkg/errors"
)

const messageKey = "message"

// Rule sets the level for a module. A rule with an empty module sets the
// default level.
type Rule struct {
	Module string     `toml:"module" mapstructure:"module"`
	Level  slog.Level `toml:"level" mapstructure:"level"`
}

type SlogConfig struct {
	DefaultLevel slog.Level
	Rules        []Rule
}

// NewSlogHandler returns a JSON handler that writes to w and filters records
// by the level of their module attribute. Pass a [ConsoleSlogWriter] to get
// human readable output.
func NewSlogHandler(cfg SlogConfig, w io.Writer) (slog.Handler, error) {
	defaultLevel := cfg.DefaultLevel
	lowestLevel := defaultLevel
	modules := map[string]slog.Level{}
	for _, r := range cfg.Rules {
		if r.Module == "" {
			defaultLevel = r.Level
		} else {
			modules[strings.ToLower(r.Module)] = r.Level
		}
		if r.Level < lowestLevel {
			lowestLevel = r.Level
		}
	}
	if defaultLevel < lowestLevel {
		lowestLevel = defaultLevel
	}

	if w == nil {
		return nil, errors.BadRequest.With("missing writer")
	}

	opts := &slog.HandlerOptions{
		Level: lowestLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key != slog.MessageKey || len(groups) > 0 {
				return a
			}
			if a.Value.Kind() == slog.KindString {
				return slog.Any(messageKey, a.Value)
			}
			return slog.String(messageKey, fmt.Sprint(a.Value.Any()))
		},
	}

	return &logHandler{
		handler:      slog.NewJSONHandler(w, opts),
		defaultLevel: defaultLevel,
		lowestLevel:  lowestLevel,
		modules:      modules,
	}, nil
}

// NewSlogLogger is a convenience wrapper around [NewSlogHandler] that
// recognizes the "plain", "text", and "json" formats.
func NewSlogLogger(format string, cfg SlogConfig, w io.Writer) (*slog.Logger, error) {
	switch strings.ToLower(format) {
	case "", "plain", "text":
		w = ConsoleSlogWriter(w, true)
	case "json":
	default:
		return nil, errors.BadRequest.WithFormat("log format %q is not supported", format)
	}

	h, err := NewSlogHandler(cfg, w)
	if err != nil {
		return nil, err
	}
	return slog.New(h), nil
}

// ConsoleSlogWriter uses zerolog's console writer to render the JSON produced
// by the handler.
func ConsoleSlogWriter(w io.Writer, color bool) io.Writer {
	return &zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !color,
		TimeFormat: time.RFC3339,
		FormatLevel: func(i interface{}) string {
			if ll, ok := i.(string); ok {
				return strings.ToUpper(ll)
			}
			return "????"
		},
		FormatMessage: func(i interface{}) string {
			s, ok := i.(string)
			if ok {
				return s
			}
			return fmt.Sprint(i)
		},
	}
}

type logHandler struct {
	handler      slog.Handler
	defaultLevel slog.Level
	lowestLevel  slog.Level
	modules      map[string]slog.Level
}

func (h *logHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	i := *h
	i.handler = h.handler.WithAttrs(attrs)
	i.defaultLevel = h.levelFor2(i.defaultLevel, attrs)
	return &i
}

func (h *logHandler) WithGroup(name string) slog.Handler {
	i := *h
	i.handler = h.handler.WithGroup(name)
	return &i
}

// Enabled only checks the lowest level of any rule. The record's own module
// attribute is not known yet, so Handle makes the final decision.
func (h *logHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level < h.lowestLevel {
		return false
	}
	return h.handler.Enabled(ctx, level)
}

func (h *logHandler) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(Attrs(ctx)...)
	if record.Level < h.levelFor(h.defaultLevel, record.Attrs) {
		return nil
	}
	return h.handler.Handle(ctx, record)
}

func (h *logHandler) levelFor2(level slog.Level, attrs []slog.Attr) slog.Level {
	if len(attrs) == 0 {
		return level
	}
	return h.levelFor(level, func(fn func(slog.Attr) bool) {
		for _, a := range attrs {
			if !fn(a) {
				return
			}
		}
	})
}

func (h *logHandler) levelFor(level slog.Level, fn func(func(slog.Attr) bool)) slog.Level {
	fn(func(a slog.Attr) bool {
		if a.Key != "module" {
			return true
		}
		if l, ok := h.modules[strings.ToLower(a.Value.String())]; ok {
			level = l
		}
		return false
	})
	return level
}
