package amqp

import (
	"log/slog"

	"github.com/timrosenblatt/amqp091/internal/debug"
)

// RegisterLogger directs the package's internal diagnostic logging
// (deliveries for unknown consumers, returns with no listener,
// connection.blocked, fatal connection errors, heartbeat timeouts and failed
// internal assertions) at h. Config.Logger
// calls this for you; use it directly only if you want logging before a
// Connection exists (e.g. to trace Dial itself).
func RegisterLogger(h slog.Handler) {
	debug.RegisterLogger(h)
}
