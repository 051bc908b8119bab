package workers

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/novamart/checkout-system/shared/collaborators"
	"github.com/novamart/checkout-system/shared/events"
	"github.com/novamart/checkout-system/shared/models"
)

// OrderCreationWorker reacts to StockReserved: it registers the sale with the
// order collaborator, then publishes OrderCreated followed by
// CheckoutSucceeded. When order creation fails it publishes
// OrderCreationFailed so the compensation worker can release the reserved
// stock.
type OrderCreationWorker struct {
	log    events.Log
	orders collaborators.OrderService
	guard  IdempotencyGuard
}

// NewOrderCreationWorker creates a new OrderCreationWorker
func NewOrderCreationWorker(log events.Log, orders collaborators.OrderService, guard IdempotencyGuard) *OrderCreationWorker {
	return &OrderCreationWorker{
		log:    log,
		orders: orders,
		guard:  guard,
	}
}

// HandlerID identifies this worker on its consumer group
func (w *OrderCreationWorker) HandlerID() string {
	return "order-creation-worker"
}

// Handle processes one event from the choreo-order group
func (w *OrderCreationWorker) Handle(ctx context.Context, event *events.Event) error {
	if event.Kind != events.StockReserved {
		return nil
	}

	var payload events.StockReservedPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return errors.Wrap(err, "failed to decode stock reserved payload")
	}

	key := "order:" + event.CheckoutID.String()
	taken, err := w.guard.Acquire(ctx, key)
	if err != nil {
		return errors.Wrap(err, "idempotency check failed")
	}
	if !taken {
		slog.InfoContext(ctx, "order already created, skipping redelivery",
			"checkout_id", event.CheckoutID.String())
		return nil
	}

	// A prior attempt may have created and announced the order but lost its
	// CheckoutSucceeded; resume from the stream instead of a second order.
	created, err := priorEvent(ctx, w.log, event.CheckoutID, events.OrderCreated)
	if err != nil {
		return voidAfterFailure(ctx, w.guard, key, err)
	}
	if created != nil {
		var prior events.OrderCreatedPayload
		if err := created.UnmarshalPayload(&prior); err != nil {
			return voidAfterFailure(ctx, w.guard, key, errors.Wrap(err, "failed to decode order created payload"))
		}
		return w.finish(ctx, key, event.CheckoutID, prior.OrderID, payload.ClientID)
	}

	orderID, err := w.orders.Create(ctx, payload.ClientID, payload.CartLines)
	if err != nil {
		failed, buildErr := events.New(event.CheckoutID, events.OrderCreationFailed,
			events.OrderCreationFailedPayload{Reason: errors.Wrap(err, "order creation failed").Error()})
		if buildErr != nil {
			return voidAfterFailure(ctx, w.guard, key, buildErr)
		}
		if err := publishWithRetry(ctx, w.log, failed); err != nil {
			return voidAfterFailure(ctx, w.guard, key, err)
		}
		return nil
	}

	createdEvent, err := events.New(event.CheckoutID, events.OrderCreated, events.OrderCreatedPayload{
		OrderID:  orderID,
		ClientID: payload.ClientID,
	})
	if err != nil {
		return voidAfterFailure(ctx, w.guard, key, err)
	}
	if err := publishWithRetry(ctx, w.log, createdEvent); err != nil {
		return voidAfterFailure(ctx, w.guard, key, err)
	}

	return w.finish(ctx, key, event.CheckoutID, orderID, payload.ClientID)
}

// finish closes the checkout with CheckoutSucceeded for the given order
func (w *OrderCreationWorker) finish(ctx context.Context, key string, checkoutID, orderID, clientID models.ID) error {
	succeeded, err := events.New(checkoutID, events.CheckoutSucceeded, events.CheckoutSucceededPayload{
		OrderID:  orderID,
		ClientID: clientID,
	})
	if err != nil {
		return voidAfterFailure(ctx, w.guard, key, err)
	}
	if err := publishWithRetry(ctx, w.log, succeeded); err != nil {
		return voidAfterFailure(ctx, w.guard, key, err)
	}
	return nil
}
