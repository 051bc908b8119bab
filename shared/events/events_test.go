package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novamart/checkout-system/shared/models"
)

func TestNew(t *testing.T) {
	checkoutID := models.GenerateUUID()

	tests := []struct {
		name        string
		checkoutID  models.ID
		kind        Kind
		payload     interface{}
		expectedErr error
	}{
		{
			name:       "valid event",
			checkoutID: checkoutID,
			kind:       CheckoutInitiated,
			payload:    CheckoutInitiatedPayload{ClientID: models.GenerateUUID()},
		},
		{
			name:        "unknown kind",
			checkoutID:  checkoutID,
			kind:        Kind("SomethingElse"),
			payload:     nil,
			expectedErr: ErrInvalidKind,
		},
		{
			name:        "missing checkout ID",
			checkoutID:  "",
			kind:        CheckoutInitiated,
			payload:     nil,
			expectedErr: ErrMissingCheckout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := New(tt.checkoutID, tt.kind, tt.payload)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, event)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, event.ID)
			assert.Equal(t, tt.checkoutID, event.CheckoutID)
			assert.Equal(t, tt.kind, event.Kind)
			assert.False(t, event.EmittedAt.IsZero())
		})
	}
}

func TestEventRoundTrip(t *testing.T) {
	original := MustNew(models.GenerateUUID(), StockReserved, StockReservedPayload{
		ClientID: models.GenerateUUID(),
		CartLines: []models.CartLine{
			{ProductID: "sku-123", Quantity: 2, ProductName: "Keyboard", UnitPrice: models.NewMoney(4500, "USD")},
		},
	})
	original.WithMetadata("stream_seq", "7-0")

	raw, err := original.ToJSON()
	require.NoError(t, err)

	decoded, err := FromJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, original.ID, decoded.ID)
	assert.Equal(t, original.CheckoutID, decoded.CheckoutID)
	assert.Equal(t, original.Kind, decoded.Kind)

	seq, ok := decoded.Metadata.Get("stream_seq")
	assert.True(t, ok)
	assert.Equal(t, "7-0", seq)

	var payload StockReservedPayload
	require.NoError(t, decoded.UnmarshalPayload(&payload))
	require.Len(t, payload.CartLines, 1)
	assert.Equal(t, "sku-123", payload.CartLines[0].ProductID)
	assert.Equal(t, int64(4500), payload.CartLines[0].UnitPrice.Amount)
}

func TestFromJSONRejectsUnknownKind(t *testing.T) {
	_, err := FromJSON([]byte(`{"id":"x","checkout_id":"y","kind":"TotallyNew","payload":{}}`))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestReason(t *testing.T) {
	checkoutID := models.GenerateUUID()

	failed := MustNew(checkoutID, CheckoutFailed, CheckoutFailedPayload{Reason: "insufficient stock for product sku-9"})
	assert.Equal(t, "insufficient stock for product sku-9", failed.Reason())

	reserved := MustNew(checkoutID, StockReserved, StockReservedPayload{})
	assert.Empty(t, reserved.Reason())
}

func TestCloneIsIndependent(t *testing.T) {
	original := MustNew(models.GenerateUUID(), CheckoutFailed, CheckoutFailedPayload{Reason: "boom"})
	original.WithMetadata("k", "v")

	clone := original.Clone()
	clone.WithMetadata("k", "changed")
	clone.Payload[0] = '['

	v, _ := original.Metadata.Get("k")
	assert.Equal(t, "v", v)
	assert.Equal(t, byte('{'), original.Payload[0])
}

func TestKindTerminal(t *testing.T) {
	assert.True(t, CheckoutSucceeded.Terminal())
	assert.True(t, CheckoutFailed.Terminal())
	for _, k := range []Kind{CheckoutInitiated, StockReserved, StockReservationFailed, OrderCreated, OrderCreationFailed, StockReleased} {
		assert.False(t, k.Terminal(), "%s must not be terminal", k)
	}
}
