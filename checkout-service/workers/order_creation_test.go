package workers

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/novamart/checkout-system/mocks"
	"github.com/novamart/checkout-system/shared/events"
	"github.com/novamart/checkout-system/shared/infrastructure"
	"github.com/novamart/checkout-system/shared/models"
)

func publishReserved(t *testing.T, log *infrastructure.MemoryEventLog, checkoutID, clientID models.ID, lines []models.CartLine) {
	t.Helper()
	event := events.MustNew(checkoutID, events.StockReserved, events.StockReservedPayload{
		ClientID:  clientID,
		CartLines: lines,
	})
	_, err := log.Publish(context.Background(), events.Stream, event)
	require.NoError(t, err)
}

func TestOrderCreationWorker(t *testing.T) {
	checkoutID := models.GenerateUUID()
	clientID := models.GenerateUUID()
	orderID := models.GenerateUUID()
	lines := []models.CartLine{
		{ProductID: "sku-1", Quantity: 2, ProductName: "Keyboard", UnitPrice: models.NewMoney(4500, "USD")},
	}

	t.Run("successful order publishes created then succeeded", func(t *testing.T) {
		log := newStreamLog(t)
		orders := mocks.NewMockOrderService(t)
		orders.EXPECT().Create(mock.Anything, clientID, lines).Return(orderID, nil).Once()

		publishReserved(t, log, checkoutID, clientID, lines)

		worker := NewOrderCreationWorker(log, orders, newMemoryGuard())
		handled := log.Drain(context.Background(), events.Stream, events.GroupOrder, worker)
		assert.Equal(t, 1, handled)

		assert.Equal(t, []events.Kind{
			events.StockReserved,
			events.OrderCreated,
			events.CheckoutSucceeded,
		}, streamKinds(t, log))

		created := findEvent(t, log, events.OrderCreated)
		require.NotNil(t, created)
		var payload events.OrderCreatedPayload
		require.NoError(t, created.UnmarshalPayload(&payload))
		assert.Equal(t, orderID, payload.OrderID)
		assert.Equal(t, clientID, payload.ClientID)
	})

	t.Run("failed order publishes order creation failed", func(t *testing.T) {
		log := newStreamLog(t)
		orders := mocks.NewMockOrderService(t)
		orders.EXPECT().Create(mock.Anything, clientID, lines).
			Return(models.ID(""), errors.New("order service unavailable")).Once()

		publishReserved(t, log, checkoutID, clientID, lines)

		worker := NewOrderCreationWorker(log, orders, newMemoryGuard())
		handled := log.Drain(context.Background(), events.Stream, events.GroupOrder, worker)
		assert.Equal(t, 1, handled)

		assert.Equal(t, []events.Kind{
			events.StockReserved,
			events.OrderCreationFailed,
		}, streamKinds(t, log))

		failed := findEvent(t, log, events.OrderCreationFailed)
		require.NotNil(t, failed)
		assert.Contains(t, failed.Reason(), "order creation failed")
	})

	t.Run("redelivered reservation creates only one order", func(t *testing.T) {
		log := newStreamLog(t)
		orders := mocks.NewMockOrderService(t)
		orders.EXPECT().Create(mock.Anything, clientID, lines).Return(orderID, nil).Once()

		publishReserved(t, log, checkoutID, clientID, lines)
		publishReserved(t, log, checkoutID, clientID, lines)

		worker := NewOrderCreationWorker(log, orders, newMemoryGuard())
		handled := log.Drain(context.Background(), events.Stream, events.GroupOrder, worker)
		assert.Equal(t, 2, handled)

		createdCount := 0
		for _, kind := range streamKinds(t, log) {
			if kind == events.OrderCreated {
				createdCount++
			}
		}
		assert.Equal(t, 1, createdCount)
	})
}
