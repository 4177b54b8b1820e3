// Package debug is the optional structured-logging sink for the connection
// and channel dispatcher loops: deliveries for unknown consumers, returns
// with no listener, connection.blocked, fatal connection errors, heartbeat
// timeouts and failed assertions all go through Log, and are silently
// discarded until a caller opts in with RegisterLogger.
package debug

import (
	"context"
	"log/slog"
)

var (
	logger = slog.New(noOp{})
)

// RegisterLogger directs all subsequent Log/Assert calls at h. Intended to
// be called once, from Config, before the connection is dialed.
func RegisterLogger(h slog.Handler) {
	logger = slog.New(h)
}

// Log records a connection- or channel-level event at the given slog.Level.
// Arguments are forwarded to slog as-is, preferably as slog.Attr pairs
// (e.g. slog.Int("channel", id)).
func Log(ctx context.Context, level slog.Level, msg string, args ...any) {
	logger.Log(ctx, level, msg, args...)
}

// Assert logs an error-level "assertion failed" record when condition is
// false. Used at internal invariant boundaries (e.g. a reply arriving for a
// channel with no pending rendezvous) that should never happen but should
// not panic a production connection either.
func Assert(ctx context.Context, condition bool, args ...any) {
	if !condition {
		logger.Log(ctx, slog.LevelError, "assertion failed", args...)
	}
}
