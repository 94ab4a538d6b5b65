package notify

import (
	"log/slog"
	"time"

	"github.com/msageha/mcuwatch/internal/clock"
	"github.com/msageha/mcuwatch/internal/store"
)

// DefaultCooldown is the minimum spacing between two forwarded events.
const DefaultCooldown = time.Hour

// Cooldown forwards at most one event per window to next. The time of the
// last forwarded event is persisted, so the window spans invocations.
type Cooldown struct {
	next   Notifier
	state  store.CooldownStore
	clock  clock.Clock
	window time.Duration
	log    *slog.Logger
}

func NewCooldown(next Notifier, state store.CooldownStore, clk clock.Clock, window time.Duration, log *slog.Logger) *Cooldown {
	if window < 0 {
		window = DefaultCooldown
	}
	return &Cooldown{next: next, state: state, clock: clk, window: window, log: log}
}

func (c *Cooldown) ReportError(ev Event) {
	now := c.clock.Now()

	last, ok, err := c.state.LastNotified()
	if err != nil {
		// Unreadable cooldown state never suppresses a notification.
		c.log.Warn("cooldown state unreadable, notifying anyway", "error", err)
	} else if ok && now.Sub(last) < c.window {
		c.log.Debug("notification suppressed by cooldown",
			"last_notified", last.Format(time.RFC3339),
			"window", c.window.String(),
			"fault", ev.Message)
		return
	}

	c.next.ReportError(ev)

	if err := c.state.MarkNotified(now); err != nil {
		c.log.Warn("cooldown state write failed", "error", err)
	}
}
