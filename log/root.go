// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

var root atomic.Value

func init() {
	root.Store(&logger{slog.New(DiscardHandler())})
}

// SetDefault sets the default global logger
func SetDefault(l Logger) {
	root.Store(l)
	if lg, ok := l.(*logger); ok {
		slog.SetDefault(lg.inner)
	}
}

// Root returns the root logger
func Root() Logger {
	return root.Load().(Logger)
}

// WithContext returns a logger carrying the given context that always writes
// through the current root logger, so package level loggers declared before
// SetDefault follow it.
func WithContext(ctx ...any) Logger {
	return &contextLogger{ctx: ctx}
}

type rootBinding struct {
	root   Logger
	logger Logger
}

type contextLogger struct {
	ctx   []any
	bound atomic.Pointer[rootBinding]
}

func (l *contextLogger) get() Logger {
	r := Root()
	if b := l.bound.Load(); b != nil && b.root == r {
		return b.logger
	}
	lg := r.With(l.ctx...)
	l.bound.Store(&rootBinding{root: r, logger: lg})
	return lg
}

func (l *contextLogger) With(ctx ...any) Logger {
	return &contextLogger{ctx: append(append([]any{}, l.ctx...), ctx...)}
}

func (l *contextLogger) New(ctx ...any) Logger { return l.With(ctx...) }

func (l *contextLogger) Log(level slog.Level, msg string, ctx ...any) {
	l.get().Write(level, msg, ctx...)
}

func (l *contextLogger) Trace(msg string, ctx ...any) { l.get().Write(LevelTrace, msg, ctx...) }
func (l *contextLogger) Debug(msg string, ctx ...any) { l.get().Write(slog.LevelDebug, msg, ctx...) }
func (l *contextLogger) Info(msg string, ctx ...any)  { l.get().Write(slog.LevelInfo, msg, ctx...) }
func (l *contextLogger) Warn(msg string, ctx ...any)  { l.get().Write(slog.LevelWarn, msg, ctx...) }
func (l *contextLogger) Error(msg string, ctx ...any) { l.get().Write(slog.LevelError, msg, ctx...) }

func (l *contextLogger) Crit(msg string, ctx ...any) {
	l.get().Write(LevelCrit, msg, ctx...)
	os.Exit(1)
}

func (l *contextLogger) Write(level slog.Level, msg string, attrs ...any) {
	l.get().Write(level, msg, attrs...)
}

func (l *contextLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.get().Enabled(ctx, level)
}

func (l *contextLogger) Handler() slog.Handler {
	return l.get().Handler()
}

// The following functions bypass the exported logger methods (logger.Debug,
// etc.) to keep the call depth the same for all paths to logger.Write so
// runtime.Caller(2) always refers to the call site in client code.

// Trace is a convenient alias for Root().Trace
func Trace(msg string, ctx ...any) {
	Root().Write(LevelTrace, msg, ctx...)
}

// Debug is a convenient alias for Root().Debug
func Debug(msg string, ctx ...any) {
	Root().Write(slog.LevelDebug, msg, ctx...)
}

// Info is a convenient alias for Root().Info
func Info(msg string, ctx ...any) {
	Root().Write(slog.LevelInfo, msg, ctx...)
}

// Warn is a convenient alias for Root().Warn
func Warn(msg string, ctx ...any) {
	Root().Write(slog.LevelWarn, msg, ctx...)
}

// Error is a convenient alias for Root().Error
func Error(msg string, ctx ...any) {
	Root().Write(slog.LevelError, msg, ctx...)
}

// Crit is a convenient alias for Root().Crit
func Crit(msg string, ctx ...any) {
	Root().Write(LevelCrit, msg, ctx...)
	os.Exit(1)
}
