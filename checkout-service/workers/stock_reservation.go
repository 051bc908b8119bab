package workers

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/novamart/checkout-system/shared/collaborators"
	"github.com/novamart/checkout-system/shared/events"
	"github.com/novamart/checkout-system/shared/models"
)

// StockReservationWorker reacts to CheckoutInitiated: it verifies and
// reserves stock for the whole cart, enriching the lines from the catalog on
// the way. Reservation is all or nothing: a mid-cart failure releases the
// lines already taken before StockReservationFailed is published, so a failed
// reservation never leaves units held.
type StockReservationWorker struct {
	log     events.Log
	stock   collaborators.StockService
	catalog collaborators.CatalogService
	guard   IdempotencyGuard
}

// NewStockReservationWorker creates a new StockReservationWorker
func NewStockReservationWorker(
	log events.Log,
	stock collaborators.StockService,
	catalog collaborators.CatalogService,
	guard IdempotencyGuard,
) *StockReservationWorker {
	return &StockReservationWorker{
		log:     log,
		stock:   stock,
		catalog: catalog,
		guard:   guard,
	}
}

// HandlerID identifies this worker on its consumer group
func (w *StockReservationWorker) HandlerID() string {
	return "stock-reservation-worker"
}

// Handle processes one event from the choreo-reservation group
func (w *StockReservationWorker) Handle(ctx context.Context, event *events.Event) error {
	if event.Kind != events.CheckoutInitiated {
		return nil
	}

	var payload events.CheckoutInitiatedPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return errors.Wrap(err, "failed to decode checkout initiated payload")
	}

	key := "reservation:" + event.CheckoutID.String()
	taken, err := w.guard.Acquire(ctx, key)
	if err != nil {
		return errors.Wrap(err, "idempotency check failed")
	}
	if !taken {
		slog.InfoContext(ctx, "checkout already reserved, skipping redelivery",
			"checkout_id", event.CheckoutID.String())
		return nil
	}

	lines, reason := w.reserve(ctx, payload.CartLines)
	if reason != "" {
		failed, err := events.New(event.CheckoutID, events.StockReservationFailed,
			events.StockReservationFailedPayload{Reason: reason})
		if err != nil {
			return voidAfterFailure(ctx, w.guard, key, err)
		}
		if err := publishWithRetry(ctx, w.log, failed); err != nil {
			return voidAfterFailure(ctx, w.guard, key, err)
		}
		return nil
	}

	reserved, err := events.New(event.CheckoutID, events.StockReserved, events.StockReservedPayload{
		ClientID:  payload.ClientID,
		CartLines: lines,
	})
	if err != nil {
		w.rollback(ctx, lines)
		return voidAfterFailure(ctx, w.guard, key, err)
	}
	if err := publishWithRetry(ctx, w.log, reserved); err != nil {
		// The outcome never reached the log; hand the stock back so the
		// redelivery starts from scratch.
		w.rollback(ctx, lines)
		return voidAfterFailure(ctx, w.guard, key, err)
	}
	return nil
}

// reserve checks, enriches and reserves the full cart. On failure it returns
// a non-empty reason and guarantees no line remains reserved.
func (w *StockReservationWorker) reserve(ctx context.Context, cart []models.CartLine) ([]models.CartLine, string) {
	for _, line := range cart {
		available, err := w.stock.Check(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return nil, errors.Wrapf(err, "stock check failed for product %s", line.ProductID).Error()
		}
		if !available {
			return nil, "insufficient stock for product " + line.ProductID
		}
	}

	enriched := make([]models.CartLine, 0, len(cart))
	for _, line := range cart {
		product, err := w.catalog.Lookup(ctx, line.ProductID)
		if err != nil {
			return nil, errors.Wrapf(err, "product lookup failed for %s", line.ProductID).Error()
		}
		line.ProductName = product.Name
		line.UnitPrice = product.Price
		enriched = append(enriched, line)
	}

	applied := make([]models.CartLine, 0, len(enriched))
	for _, line := range enriched {
		if err := w.stock.Reserve(ctx, line.ProductID, line.Quantity); err != nil {
			w.rollback(ctx, applied)
			return nil, errors.Wrapf(err, "reservation failed for product %s", line.ProductID).Error()
		}
		applied = append(applied, line)
	}
	return enriched, ""
}

// rollback releases partially reserved lines so a failed reservation holds
// nothing
func (w *StockReservationWorker) rollback(ctx context.Context, applied []models.CartLine) {
	for i := len(applied) - 1; i >= 0; i-- {
		line := applied[i]
		if err := w.stock.Release(ctx, line.ProductID, line.Quantity); err != nil {
			slog.ErrorContext(ctx, "rollback release failed, reserved units leaked",
				"product_id", line.ProductID,
				"quantity", line.Quantity,
				"error", err.Error(),
			)
		}
	}
}
