package workers

import (
	"context"
	"log/slog"

	"github.com/novamart/checkout-system/shared/events"
)

// AuditWorker writes one structured log line per checkout event, giving the
// stream a grep-able trail independent of the event store API.
type AuditWorker struct{}

// NewAuditWorker creates a new AuditWorker
func NewAuditWorker() *AuditWorker {
	return &AuditWorker{}
}

// HandlerID identifies this worker on its consumer group
func (w *AuditWorker) HandlerID() string {
	return "audit-worker"
}

// Handle records one event from the checkout-audit group
func (w *AuditWorker) Handle(ctx context.Context, event *events.Event) error {
	slog.InfoContext(ctx, "checkout event",
		"event_id", event.ID.String(),
		"checkout_id", event.CheckoutID.String(),
		"kind", event.Kind.String(),
		"emitted_at", event.EmittedAt,
		"payload", string(event.Payload),
	)
	return nil
}
