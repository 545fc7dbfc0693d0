// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides context loggers backed by go-ethereum's slog based logger.
package log

import (
	"context"
	"io"
	"log/slog"

	gethlog "github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
)

// Levels, lower is more verbose.
const (
	LevelTrace = gethlog.LevelTrace
	LevelDebug = gethlog.LevelDebug
	LevelInfo  = gethlog.LevelInfo
	LevelWarn  = gethlog.LevelWarn
	LevelError = gethlog.LevelError
	LevelCrit  = gethlog.LevelCrit
)

// Logger writes key/value pairs to a handler.
type Logger interface {
	With(ctx ...any) Logger
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
}

// WithContext returns a logger carrying ctx.
// The root logger is resolved on each call, so loggers declared as package
// vars follow later calls of Init or SetDefault.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) get() gethlog.Logger {
	return gethlog.Root().With(l.ctx...)
}

func (l *lazyLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return &lazyLogger{ctx: append(merged, ctx...)}
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.get().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.get().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.get().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.get().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.get().Error(msg, ctx...) }
func (l *lazyLogger) Crit(msg string, ctx ...any)  { l.get().Crit(msg, ctx...) }

// Root returns the root logger.
func Root() gethlog.Logger {
	return gethlog.Root()
}

// SetDefault replaces the root logger.
func SetDefault(l gethlog.Logger) {
	gethlog.SetDefault(l)
}

// NewLogger creates a logger over the handler.
func NewLogger(h slog.Handler) gethlog.Logger {
	return gethlog.NewLogger(h)
}

// JSONHandler returns a handler writing json records.
func JSONHandler(w io.Writer) slog.Handler {
	return gethlog.JSONHandler(w)
}

// Init installs the root logger and returns its level, adjustable at runtime.
// verbosity follows the legacy levels: 0 crit, 1 error, 2 warn, 3 info, 4 debug, 5 trace.
func Init(w io.Writer, verbosity int, json bool) *slog.LevelVar {
	level := new(slog.LevelVar)
	level.Set(gethlog.FromLegacyLevel(verbosity))

	var h slog.Handler
	if json {
		h = gethlog.JSONHandler(w)
	} else {
		useColor := false
		if f, ok := w.(interface{ Fd() uintptr }); ok {
			useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		h = gethlog.NewTerminalHandler(w, useColor)
	}
	gethlog.SetDefault(gethlog.NewLogger(WithLevel(h, level)))
	return level
}

// WithLevel gates h by level, read on every record so it can change at runtime.
func WithLevel(h slog.Handler, level slog.Leveler) slog.Handler {
	return &levelHandler{h, level}
}

type levelHandler struct {
	slog.Handler
	level slog.Leveler
}

func (h *levelHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= h.level.Level() && h.Handler.Enabled(ctx, l)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{h.Handler.WithAttrs(attrs), h.level}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{h.Handler.WithGroup(name), h.level}
}

// ParseLevel parses a level name such as "debug" or "warn".
func ParseLevel(name string) (slog.Level, bool) {
	switch name {
	case "trace":
		return LevelTrace, true
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn":
		return LevelWarn, true
	case "error":
		return LevelError, true
	case "crit":
		return LevelCrit, true
	}
	return 0, false
}

func Debug(msg string, ctx ...any) { gethlog.Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { gethlog.Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { gethlog.Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { gethlog.Root().Error(msg, ctx...) }
