package workers

import (
	"context"
	"log/slog"

	"github.com/novamart/checkout-system/shared/events"
)

// NotificationWorker forwards every checkout event to the notification side
// channel (an SNS topic in production). Delivery is best effort: a forward
// failure is logged and the event is acknowledged anyway, so notifications
// never hold the saga back.
type NotificationWorker struct {
	notifier events.Publisher
}

// NewNotificationWorker creates a new NotificationWorker
func NewNotificationWorker(notifier events.Publisher) *NotificationWorker {
	return &NotificationWorker{notifier: notifier}
}

// HandlerID identifies this worker on its consumer group
func (w *NotificationWorker) HandlerID() string {
	return "notification-worker"
}

// Handle forwards one event from the checkout-notification group
func (w *NotificationWorker) Handle(ctx context.Context, event *events.Event) error {
	if err := w.notifier.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "notification forward failed",
			"checkout_id", event.CheckoutID.String(),
			"kind", event.Kind.String(),
			"error", err.Error(),
		)
	}
	return nil
}
