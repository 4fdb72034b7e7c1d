package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/spendbook/internal/events"
)

// publish announces a replaced collection. The write has already succeeded,
// so a delivery failure is logged and not returned.
func publish(ctx context.Context, p events.Publisher, typ, email string, count int, now time.Time) {
	if p == nil {
		return
	}
	e := events.Event{Type: typ, User: email, Count: count, At: now.UTC()}
	if err := p.Publish(ctx, e); err != nil {
		slog.Warn("Failed to publish event", "type", typ, "user", email, "error", err)
	}
}
