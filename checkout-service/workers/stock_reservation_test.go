package workers

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/novamart/checkout-system/mocks"
	"github.com/novamart/checkout-system/shared/collaborators"
	"github.com/novamart/checkout-system/shared/events"
	"github.com/novamart/checkout-system/shared/models"
)

func TestStockReservationWorker(t *testing.T) {
	checkoutID := models.GenerateUUID()
	clientID := models.GenerateUUID()
	cart := []models.CartLine{
		{ProductID: "sku-1", Quantity: 2},
		{ProductID: "sku-2", Quantity: 1},
	}

	tests := []struct {
		name          string
		setupMocks    func(*mocks.MockStockService, *mocks.MockCatalogService)
		expectedKinds []events.Kind
	}{
		{
			name: "successful reservation publishes enriched stock reserved",
			setupMocks: func(stock *mocks.MockStockService, catalog *mocks.MockCatalogService) {
				stock.EXPECT().Check(mock.Anything, "sku-1", 2).Return(true, nil).Once()
				stock.EXPECT().Check(mock.Anything, "sku-2", 1).Return(true, nil).Once()
				catalog.EXPECT().Lookup(mock.Anything, "sku-1").
					Return(&collaborators.Product{ID: "sku-1", Name: "Keyboard", Price: models.NewMoney(4500, "USD")}, nil).Once()
				catalog.EXPECT().Lookup(mock.Anything, "sku-2").
					Return(&collaborators.Product{ID: "sku-2", Name: "Mouse", Price: models.NewMoney(2000, "USD")}, nil).Once()
				stock.EXPECT().Reserve(mock.Anything, "sku-1", 2).Return(nil).Once()
				stock.EXPECT().Reserve(mock.Anything, "sku-2", 1).Return(nil).Once()
			},
			expectedKinds: []events.Kind{events.CheckoutInitiated, events.StockReserved},
		},
		{
			name: "insufficient stock publishes reservation failed without reserving",
			setupMocks: func(stock *mocks.MockStockService, catalog *mocks.MockCatalogService) {
				stock.EXPECT().Check(mock.Anything, "sku-1", 2).Return(true, nil).Once()
				stock.EXPECT().Check(mock.Anything, "sku-2", 1).Return(false, nil).Once()
			},
			expectedKinds: []events.Kind{events.CheckoutInitiated, events.StockReservationFailed},
		},
		{
			name: "mid-cart failure rolls back applied lines before failing",
			setupMocks: func(stock *mocks.MockStockService, catalog *mocks.MockCatalogService) {
				stock.EXPECT().Check(mock.Anything, "sku-1", 2).Return(true, nil).Once()
				stock.EXPECT().Check(mock.Anything, "sku-2", 1).Return(true, nil).Once()
				catalog.EXPECT().Lookup(mock.Anything, "sku-1").
					Return(&collaborators.Product{ID: "sku-1", Name: "Keyboard", Price: models.NewMoney(4500, "USD")}, nil).Once()
				catalog.EXPECT().Lookup(mock.Anything, "sku-2").
					Return(&collaborators.Product{ID: "sku-2", Name: "Mouse", Price: models.NewMoney(2000, "USD")}, nil).Once()
				stock.EXPECT().Reserve(mock.Anything, "sku-1", 2).Return(nil).Once()
				stock.EXPECT().Reserve(mock.Anything, "sku-2", 1).Return(errors.New("inventory unavailable")).Once()
				stock.EXPECT().Release(mock.Anything, "sku-1", 2).Return(nil).Once()
			},
			expectedKinds: []events.Kind{events.CheckoutInitiated, events.StockReservationFailed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := newStreamLog(t)
			stock := mocks.NewMockStockService(t)
			catalog := mocks.NewMockCatalogService(t)
			tt.setupMocks(stock, catalog)

			publishInitiated(t, log, checkoutID, clientID, cart)

			worker := NewStockReservationWorker(log, stock, catalog, newMemoryGuard())
			handled := log.Drain(context.Background(), events.Stream, events.GroupReservation, worker)
			assert.Equal(t, 1, handled)

			assert.Equal(t, tt.expectedKinds, streamKinds(t, log))
		})
	}
}

func TestStockReservationWorkerEnrichesLines(t *testing.T) {
	log := newStreamLog(t)
	checkoutID := models.GenerateUUID()
	stock := mocks.NewMockStockService(t)
	catalog := mocks.NewMockCatalogService(t)

	stock.EXPECT().Check(mock.Anything, "sku-1", 2).Return(true, nil).Once()
	catalog.EXPECT().Lookup(mock.Anything, "sku-1").
		Return(&collaborators.Product{ID: "sku-1", Name: "Keyboard", Price: models.NewMoney(4500, "USD")}, nil).Once()
	stock.EXPECT().Reserve(mock.Anything, "sku-1", 2).Return(nil).Once()

	publishInitiated(t, log, checkoutID, models.GenerateUUID(), []models.CartLine{{ProductID: "sku-1", Quantity: 2}})

	worker := NewStockReservationWorker(log, stock, catalog, newMemoryGuard())
	log.Drain(context.Background(), events.Stream, events.GroupReservation, worker)

	reserved := findEvent(t, log, events.StockReserved)
	require.NotNil(t, reserved)

	var payload events.StockReservedPayload
	require.NoError(t, reserved.UnmarshalPayload(&payload))
	require.Len(t, payload.CartLines, 1)
	assert.Equal(t, "Keyboard", payload.CartLines[0].ProductName)
	assert.Equal(t, int64(4500), payload.CartLines[0].UnitPrice.Amount)
}

func TestStockReservationWorkerIgnoresRedelivery(t *testing.T) {
	log := newStreamLog(t)
	checkoutID := models.GenerateUUID()
	stock := mocks.NewMockStockService(t)
	catalog := mocks.NewMockCatalogService(t)

	// Reserving exactly once despite two deliveries of the same checkout.
	stock.EXPECT().Check(mock.Anything, "sku-1", 1).Return(true, nil).Once()
	catalog.EXPECT().Lookup(mock.Anything, "sku-1").
		Return(&collaborators.Product{ID: "sku-1", Name: "Keyboard", Price: models.NewMoney(4500, "USD")}, nil).Once()
	stock.EXPECT().Reserve(mock.Anything, "sku-1", 1).Return(nil).Once()

	cart := []models.CartLine{{ProductID: "sku-1", Quantity: 1}}
	publishInitiated(t, log, checkoutID, models.GenerateUUID(), cart)
	publishInitiated(t, log, checkoutID, models.GenerateUUID(), cart)

	worker := NewStockReservationWorker(log, stock, catalog, newMemoryGuard())
	handled := log.Drain(context.Background(), events.Stream, events.GroupReservation, worker)
	assert.Equal(t, 2, handled)

	kinds := streamKinds(t, log)
	reservedCount := 0
	for _, kind := range kinds {
		if kind == events.StockReserved {
			reservedCount++
		}
	}
	assert.Equal(t, 1, reservedCount)
}

func TestStockReservationWorkerIgnoresOtherKinds(t *testing.T) {
	log := newStreamLog(t)
	checkoutID := models.GenerateUUID()

	event := events.MustNew(checkoutID, events.OrderCreated, events.OrderCreatedPayload{
		OrderID:  models.GenerateUUID(),
		ClientID: models.GenerateUUID(),
	})
	_, err := log.Publish(context.Background(), events.Stream, event)
	require.NoError(t, err)

	worker := NewStockReservationWorker(log, mocks.NewMockStockService(t), mocks.NewMockCatalogService(t), newMemoryGuard())
	handled := log.Drain(context.Background(), events.Stream, events.GroupReservation, worker)
	assert.Equal(t, 1, handled)
	assert.Equal(t, []events.Kind{events.OrderCreated}, streamKinds(t, log))
}
