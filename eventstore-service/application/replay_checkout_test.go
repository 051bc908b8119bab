package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novamart/checkout-system/shared/events"
	"github.com/novamart/checkout-system/shared/infrastructure"
	"github.com/novamart/checkout-system/shared/models"
	"github.com/novamart/checkout-system/shared/saga"
)

// publishHistory appends a checkout's events in the given order
func publishHistory(t *testing.T, log *infrastructure.MemoryEventLog, checkoutID models.ID, kinds ...events.Kind) {
	t.Helper()
	clientID := models.GenerateUUID()
	orderID := models.GenerateUUID()
	for _, kind := range kinds {
		var payload interface{}
		switch kind {
		case events.CheckoutInitiated:
			payload = events.CheckoutInitiatedPayload{ClientID: clientID}
		case events.StockReserved:
			payload = events.StockReservedPayload{ClientID: clientID}
		case events.StockReservationFailed:
			payload = events.StockReservationFailedPayload{Reason: "insufficient stock"}
		case events.OrderCreated:
			payload = events.OrderCreatedPayload{OrderID: orderID, ClientID: clientID}
		case events.OrderCreationFailed:
			payload = events.OrderCreationFailedPayload{Reason: "order service unavailable"}
		case events.StockReleased:
			payload = events.StockReleasedPayload{}
		case events.CheckoutSucceeded:
			payload = events.CheckoutSucceededPayload{OrderID: orderID, ClientID: clientID}
		case events.CheckoutFailed:
			payload = events.CheckoutFailedPayload{Reason: "order service unavailable"}
		}
		publishEvent(t, log, events.MustNew(checkoutID, kind, payload))
	}
}

func TestReplayCheckout(t *testing.T) {
	tests := []struct {
		name       string
		kinds      []events.Kind
		wantStatus saga.Status
	}{
		{
			name: "completed checkout folds to COMPLETED",
			kinds: []events.Kind{
				events.CheckoutInitiated, events.StockReserved,
				events.OrderCreated, events.CheckoutSucceeded,
			},
			wantStatus: saga.StatusCompleted,
		},
		{
			name: "insufficient stock folds to CANCELLED",
			kinds: []events.Kind{
				events.CheckoutInitiated, events.StockReservationFailed,
				events.CheckoutFailed,
			},
			wantStatus: saga.StatusCancelled,
		},
		{
			name: "compensated order failure folds to CANCELLED",
			kinds: []events.Kind{
				events.CheckoutInitiated, events.StockReserved,
				events.OrderCreationFailed, events.StockReleased,
				events.CheckoutFailed,
			},
			wantStatus: saga.StatusCancelled,
		},
		{
			name:       "in-flight checkout folds to its last state",
			kinds:      []events.Kind{events.CheckoutInitiated, events.StockReserved},
			wantStatus: saga.StatusOrderCreating,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			log := infrastructure.NewMemoryEventLog()
			checkoutID := models.GenerateUUID()

			// Another checkout's events share the stream and must be filtered out.
			publishHistory(t, log, models.GenerateUUID(),
				events.CheckoutInitiated, events.StockReservationFailed, events.CheckoutFailed)
			publishHistory(t, log, checkoutID, tt.kinds...)

			resp, err := NewReplayCheckout(log).Execute(ctx, checkoutID.String())
			require.NoError(t, err)
			require.NotNil(t, resp)

			assert.Equal(t, checkoutID.String(), resp.CheckoutID)
			assert.Equal(t, tt.wantStatus, resp.Status)
			require.Len(t, resp.Events, len(tt.kinds))
			require.Len(t, resp.History, len(tt.kinds))

			// The trail ends where the fold ends, and every step carries the
			// event that caused it.
			assert.Equal(t, tt.wantStatus, resp.History[len(resp.History)-1].Status)
			for i, step := range resp.History {
				assert.Equal(t, tt.kinds[i], step.Kind)
				assert.Equal(t, resp.Events[i].ID, step.EventID)
			}
		})
	}
}

func TestReplayCheckoutUnknownCheckout(t *testing.T) {
	log := infrastructure.NewMemoryEventLog()
	publishHistory(t, log, models.GenerateUUID(), events.CheckoutInitiated)

	resp, err := NewReplayCheckout(log).Execute(context.Background(), models.GenerateUUID().String())
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestReplayCheckoutInvalidID(t *testing.T) {
	_, err := NewReplayCheckout(infrastructure.NewMemoryEventLog()).Execute(context.Background(), "checkout-1")
	assert.Error(t, err)
}

func TestReplayCheckoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	log := infrastructure.NewMemoryEventLog()
	checkoutID := models.GenerateUUID()
	publishHistory(t, log, checkoutID,
		events.CheckoutInitiated, events.StockReserved,
		events.OrderCreated, events.CheckoutSucceeded)

	uc := NewReplayCheckout(log)
	first, err := uc.Execute(ctx, checkoutID.String())
	require.NoError(t, err)
	second, err := uc.Execute(ctx, checkoutID.String())
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.History, second.History)
}
