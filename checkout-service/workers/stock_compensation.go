package workers

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/novamart/checkout-system/shared/collaborators"
	"github.com/novamart/checkout-system/shared/events"
	"github.com/novamart/checkout-system/shared/models"
	"github.com/novamart/checkout-system/shared/telemetry"
)

// maxScanned bounds the history scan; the stream itself is trimmed to about
// the same length on publish.
const maxScanned = 10000

// StockCompensationWorker closes failed checkouts. A failed reservation
// holds no stock, so StockReservationFailed yields only CheckoutFailed. A
// failed order creation happens after the reservation took units, so the
// worker recovers the reserved lines from the checkout's StockReserved event,
// releases them, and publishes StockReleased before CheckoutFailed.
type StockCompensationWorker struct {
	log   events.Log
	stock collaborators.StockService
	guard IdempotencyGuard
}

// NewStockCompensationWorker creates a new StockCompensationWorker
func NewStockCompensationWorker(log events.Log, stock collaborators.StockService, guard IdempotencyGuard) *StockCompensationWorker {
	return &StockCompensationWorker{
		log:   log,
		stock: stock,
		guard: guard,
	}
}

// HandlerID identifies this worker on its consumer group
func (w *StockCompensationWorker) HandlerID() string {
	return "stock-compensation-worker"
}

// Handle processes one event from the choreo-compensation group
func (w *StockCompensationWorker) Handle(ctx context.Context, event *events.Event) error {
	switch event.Kind {
	case events.StockReservationFailed, events.OrderCreationFailed:
	default:
		return nil
	}

	key := "compensation:" + event.CheckoutID.String()
	taken, err := w.guard.Acquire(ctx, key)
	if err != nil {
		return errors.Wrap(err, "idempotency check failed")
	}
	if !taken {
		slog.InfoContext(ctx, "checkout already compensated, skipping redelivery",
			"checkout_id", event.CheckoutID.String())
		return nil
	}

	if event.Kind == events.OrderCreationFailed {
		if err := w.releaseReserved(ctx, event.CheckoutID); err != nil {
			return voidAfterFailure(ctx, w.guard, key, err)
		}
	}

	failed, err := events.New(event.CheckoutID, events.CheckoutFailed,
		events.CheckoutFailedPayload{Reason: event.Reason()})
	if err != nil {
		return voidAfterFailure(ctx, w.guard, key, err)
	}
	if err := publishWithRetry(ctx, w.log, failed); err != nil {
		return voidAfterFailure(ctx, w.guard, key, err)
	}
	telemetry.SagaFailed.WithLabelValues(telemetry.ModeChoreographed, event.Kind.String()).Inc()
	return nil
}

// releaseReserved recovers the reserved cart lines from the checkout's own
// event history and returns them to stock. A release failure after the
// publisher's retries leaks units; the leak is logged and counted, and the
// checkout is still driven to CheckoutFailed.
func (w *StockCompensationWorker) releaseReserved(ctx context.Context, checkoutID models.ID) error {
	// A retried compensation must not release twice: a StockReleased already
	// on the stream means an earlier attempt returned the stock.
	prior, err := priorEvent(ctx, w.log, checkoutID, events.StockReleased)
	if err != nil {
		return err
	}
	if prior != nil {
		return nil
	}

	lines, err := w.reservedLines(ctx, checkoutID)
	if err != nil {
		return err
	}
	if lines == nil {
		slog.WarnContext(ctx, "no stock reserved event found for failed checkout, nothing to release",
			"checkout_id", checkoutID.String())
		return nil
	}

	var released []models.CartLine
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if err := w.stock.Release(ctx, line.ProductID, line.Quantity); err != nil {
			telemetry.CompensationLeaks.Inc()
			slog.ErrorContext(ctx, "compensation release failed, reserved units leaked",
				"checkout_id", checkoutID.String(),
				"product_id", line.ProductID,
				"quantity", line.Quantity,
				"error", err.Error(),
			)
			continue
		}
		released = append(released, line)
	}

	if len(released) == 0 {
		return nil
	}
	releasedEvent, err := events.New(checkoutID, events.StockReleased, events.StockReleasedPayload{})
	if err != nil {
		return err
	}
	return publishWithRetry(ctx, w.log, releasedEvent)
}

// reservedLines scans the stream for the checkout's StockReserved event
func (w *StockCompensationWorker) reservedLines(ctx context.Context, checkoutID models.ID) ([]models.CartLine, error) {
	evts, err := w.log.Range(ctx, events.Stream, "", maxScanned)
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan event history")
	}

	for _, e := range evts {
		if e.CheckoutID != checkoutID || e.Kind != events.StockReserved {
			continue
		}
		var payload events.StockReservedPayload
		if err := e.UnmarshalPayload(&payload); err != nil {
			return nil, errors.Wrap(err, "failed to decode stock reserved payload")
		}
		return payload.CartLines, nil
	}
	return nil, nil
}
