package infrastructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novamart/checkout-system/shared/events"
	"github.com/novamart/checkout-system/shared/models"
)

func TestDrainDeliversOnlyEventsPendingAtCall(t *testing.T) {
	ctx := context.Background()
	log := NewMemoryEventLog()
	require.NoError(t, log.EnsureGroup(ctx, events.Stream, events.GroupReservation))

	checkoutID := models.GenerateUUID()
	initiated := events.MustNew(checkoutID, events.CheckoutInitiated,
		events.CheckoutInitiatedPayload{ClientID: models.GenerateUUID()})
	_, err := log.Publish(ctx, events.Stream, initiated)
	require.NoError(t, err)

	// The handler publishes a successor, the way every worker does. It must
	// not be delivered back within the same call.
	handler := events.NewHandlerFunc("successor-publisher", func(ctx context.Context, event *events.Event) error {
		if event.Kind != events.CheckoutInitiated {
			return nil
		}
		reserved := events.MustNew(event.CheckoutID, events.StockReserved,
			events.StockReservedPayload{ClientID: models.GenerateUUID()})
		_, err := log.Publish(ctx, events.Stream, reserved)
		return err
	})

	handled := log.Drain(ctx, events.Stream, events.GroupReservation, handler)
	assert.Equal(t, 1, handled)

	// The successor is still pending and comes out on the next call.
	handled = log.Drain(ctx, events.Stream, events.GroupReservation, handler)
	assert.Equal(t, 1, handled)

	handled = log.Drain(ctx, events.Stream, events.GroupReservation, handler)
	assert.Equal(t, 0, handled)
}

func TestDrainLeavesFailedEventPending(t *testing.T) {
	ctx := context.Background()
	log := NewMemoryEventLog()
	require.NoError(t, log.EnsureGroup(ctx, events.Stream, events.GroupOrder))

	event := events.MustNew(models.GenerateUUID(), events.CheckoutInitiated,
		events.CheckoutInitiatedPayload{ClientID: models.GenerateUUID()})
	_, err := log.Publish(ctx, events.Stream, event)
	require.NoError(t, err)

	calls := 0
	failing := events.NewHandlerFunc("failing", func(context.Context, *events.Event) error {
		calls++
		if calls == 1 {
			return assert.AnError
		}
		return nil
	})

	assert.Equal(t, 0, log.Drain(ctx, events.Stream, events.GroupOrder, failing))
	assert.Equal(t, 1, log.Drain(ctx, events.Stream, events.GroupOrder, failing))
	assert.Equal(t, 2, calls)
}
