// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"
)

// Level aliases slog.Level so callers need not import log/slog.
type Level = slog.Level

const (
	LevelTrace = slog.Level(-8)
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Logger writes key/value pairs to a Handler.
type Logger interface {
	// With returns a new Logger that has this logger's attributes plus the given attributes.
	With(ctx ...any) Logger

	// Enabled reports whether l emits log records at the given context and level.
	Enabled(ctx context.Context, level slog.Level) bool

	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)

	// Write logs a message at the specified level.
	Write(level slog.Level, msg string, attrs ...any)

	// Handler returns the underlying handler of the inner logger.
	Handler() slog.Handler
}

type logger struct {
	inner *slog.Logger
}

// NewLogger returns a logger with the specified handler set.
func NewLogger(h slog.Handler) Logger {
	return &logger{slog.New(h)}
}

func (l *logger) Handler() slog.Handler {
	return l.inner.Handler()
}

// Write logs a message at the specified level.
func (l *logger) Write(level slog.Level, msg string, attrs ...any) {
	if !l.inner.Enabled(context.Background(), level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])

	if len(attrs)%2 != 0 {
		attrs = append(attrs, nil, errorKey, "Normalized odd number of arguments by adding nil")
	}
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(attrs...)
	l.inner.Handler().Handle(context.Background(), r)
}

func (l *logger) With(ctx ...any) Logger {
	return &logger{l.inner.With(ctx...)}
}

func (l *logger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.inner.Enabled(ctx, level)
}

func (l *logger) Trace(msg string, ctx ...any) {
	l.Write(LevelTrace, msg, ctx...)
}

func (l *logger) Debug(msg string, ctx ...any) {
	l.Write(slog.LevelDebug, msg, ctx...)
}

func (l *logger) Info(msg string, ctx ...any) {
	l.Write(slog.LevelInfo, msg, ctx...)
}

func (l *logger) Warn(msg string, ctx ...any) {
	l.Write(slog.LevelWarn, msg, ctx...)
}

func (l *logger) Error(msg string, ctx ...any) {
	l.Write(slog.LevelError, msg, ctx...)
}

const errorKey = "LOG_ERROR"

var root = &logger{slog.New(DiscardHandler())}

// SetDefault sets the default global logger.
func SetDefault(l Logger) {
	root = l.(*logger)
}

// Root returns the root logger.
func Root() Logger {
	return root
}

// WithContext returns a logger attached to the root handler with the given
// context attributes. The conventional first pair is ("pkg", <package name>).
func WithContext(ctx ...any) Logger {
	return root.With(ctx...)
}

// NewTerminalLogger builds a logger writing human readable records to stderr,
// filtered at the given level.
func NewTerminalLogger(level slog.Level) Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Trace logs a message at the trace level with context key/value pairs.
func Trace(msg string, ctx ...any) {
	root.Write(LevelTrace, msg, ctx...)
}

// Debug logs a message at the debug level with context key/value pairs.
func Debug(msg string, ctx ...any) {
	root.Write(slog.LevelDebug, msg, ctx...)
}

// Info logs a message at the info level with context key/value pairs.
func Info(msg string, ctx ...any) {
	root.Write(slog.LevelInfo, msg, ctx...)
}

// Warn logs a message at the warn level with context key/value pairs.
func Warn(msg string, ctx ...any) {
	root.Write(slog.LevelWarn, msg, ctx...)
}

// Error logs a message at the error level with context key/value pairs.
func Error(msg string, ctx ...any) {
	root.Write(slog.LevelError, msg, ctx...)
}
