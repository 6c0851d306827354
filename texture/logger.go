package texture

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards all log records without formatting them.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// loggerPtr stores the active logger, shared by all pools and textures.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := slog.New(nopHandler{})
	loggerPtr.Store(l)
}

// SetLogger configures the logger for the texture package. The root tiled
// package propagates its logger here, so most callers should use
// tiled.SetLogger instead. Pass nil to silence logging.
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// logger returns the current package logger.
func logger() *slog.Logger {
	return loggerPtr.Load()
}
