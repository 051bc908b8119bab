package application

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/novamart/checkout-system/mocks"
	"github.com/novamart/checkout-system/orchestrator-service/domain"
	"github.com/novamart/checkout-system/shared/collaborators"
	"github.com/novamart/checkout-system/shared/models"
	"github.com/novamart/checkout-system/shared/saga"
)

const testClientID = "550e8400-e29b-41d4-a716-446655440010"

func twoLineCart() []models.CartLine {
	return []models.CartLine{
		{ProductID: "sku-1", Quantity: 2},
		{ProductID: "sku-2", Quantity: 1},
	}
}

func product(id, name string, cents int64) *collaborators.Product {
	return &collaborators.Product{ID: id, Name: name, Price: models.NewMoney(cents, "USD")}
}

func TestRunCheckoutSaga_Execute(t *testing.T) {
	orderID := models.GenerateUUID()

	tests := []struct {
		name           string
		command        *RunCheckoutCommand
		setupMocks     func(*mocks.MockCheckoutSagaRepository, *mocks.MockStockService, *mocks.MockOrderService, *mocks.MockCatalogService)
		expectedError  string
		expectSuccess  bool
		expectedStatus saga.Status
		reasonContains string
	}{
		{
			name:    "successful checkout completes the saga",
			command: &RunCheckoutCommand{ClientID: testClientID, Lines: twoLineCart()},
			setupMocks: func(repo *mocks.MockCheckoutSagaRepository, stock *mocks.MockStockService, orders *mocks.MockOrderService, catalog *mocks.MockCatalogService) {
				repo.EXPECT().Save(mock.Anything, mock.AnythingOfType("*domain.CheckoutSaga")).Return(nil)
				stock.EXPECT().Check(mock.Anything, "sku-1", 2).Return(true, nil).Once()
				stock.EXPECT().Check(mock.Anything, "sku-2", 1).Return(true, nil).Once()
				catalog.EXPECT().Lookup(mock.Anything, "sku-1").Return(product("sku-1", "Keyboard", 4500), nil).Once()
				catalog.EXPECT().Lookup(mock.Anything, "sku-2").Return(product("sku-2", "Mouse", 2000), nil).Once()
				stock.EXPECT().Reserve(mock.Anything, "sku-1", 2).Return(nil).Once()
				stock.EXPECT().Reserve(mock.Anything, "sku-2", 1).Return(nil).Once()
				orders.EXPECT().Create(mock.Anything, models.ID(testClientID), mock.Anything).Return(orderID, nil).Once()
			},
			expectSuccess:  true,
			expectedStatus: saga.StatusCompleted,
		},
		{
			name:    "insufficient stock cancels without compensation",
			command: &RunCheckoutCommand{ClientID: testClientID, Lines: twoLineCart()},
			setupMocks: func(repo *mocks.MockCheckoutSagaRepository, stock *mocks.MockStockService, orders *mocks.MockOrderService, catalog *mocks.MockCatalogService) {
				repo.EXPECT().Save(mock.Anything, mock.AnythingOfType("*domain.CheckoutSaga")).Return(nil)
				stock.EXPECT().Check(mock.Anything, "sku-1", 2).Return(true, nil).Once()
				stock.EXPECT().Check(mock.Anything, "sku-2", 1).Return(false, nil).Once()
				// No Reserve, Release or Create: nothing was taken.
			},
			expectSuccess:  false,
			expectedStatus: saga.StatusCancelled,
			reasonContains: "insufficient stock for product sku-2",
		},
		{
			name:    "mid-cart reservation failure releases only applied lines",
			command: &RunCheckoutCommand{ClientID: testClientID, Lines: twoLineCart()},
			setupMocks: func(repo *mocks.MockCheckoutSagaRepository, stock *mocks.MockStockService, orders *mocks.MockOrderService, catalog *mocks.MockCatalogService) {
				repo.EXPECT().Save(mock.Anything, mock.AnythingOfType("*domain.CheckoutSaga")).Return(nil)
				stock.EXPECT().Check(mock.Anything, "sku-1", 2).Return(true, nil).Once()
				stock.EXPECT().Check(mock.Anything, "sku-2", 1).Return(true, nil).Once()
				catalog.EXPECT().Lookup(mock.Anything, "sku-1").Return(product("sku-1", "Keyboard", 4500), nil).Once()
				catalog.EXPECT().Lookup(mock.Anything, "sku-2").Return(product("sku-2", "Mouse", 2000), nil).Once()
				stock.EXPECT().Reserve(mock.Anything, "sku-1", 2).Return(nil).Once()
				stock.EXPECT().Reserve(mock.Anything, "sku-2", 1).Return(errors.New("inventory unavailable")).Once()
				// Only the first line was applied, only it is released.
				stock.EXPECT().Release(mock.Anything, "sku-1", 2).Return(nil).Once()
			},
			expectSuccess:  false,
			expectedStatus: saga.StatusCancelled,
			reasonContains: "reservation failed for product sku-2",
		},
		{
			name:    "order creation failure releases the whole reservation",
			command: &RunCheckoutCommand{ClientID: testClientID, Lines: twoLineCart()},
			setupMocks: func(repo *mocks.MockCheckoutSagaRepository, stock *mocks.MockStockService, orders *mocks.MockOrderService, catalog *mocks.MockCatalogService) {
				repo.EXPECT().Save(mock.Anything, mock.AnythingOfType("*domain.CheckoutSaga")).Return(nil)
				stock.EXPECT().Check(mock.Anything, "sku-1", 2).Return(true, nil).Once()
				stock.EXPECT().Check(mock.Anything, "sku-2", 1).Return(true, nil).Once()
				catalog.EXPECT().Lookup(mock.Anything, "sku-1").Return(product("sku-1", "Keyboard", 4500), nil).Once()
				catalog.EXPECT().Lookup(mock.Anything, "sku-2").Return(product("sku-2", "Mouse", 2000), nil).Once()
				stock.EXPECT().Reserve(mock.Anything, "sku-1", 2).Return(nil).Once()
				stock.EXPECT().Reserve(mock.Anything, "sku-2", 1).Return(nil).Once()
				orders.EXPECT().Create(mock.Anything, models.ID(testClientID), mock.Anything).Return(models.ID(""), errors.New("order service unavailable")).Once()
				// Released in reverse order of reservation.
				stock.EXPECT().Release(mock.Anything, "sku-2", 1).Return(nil).Once()
				stock.EXPECT().Release(mock.Anything, "sku-1", 2).Return(nil).Once()
			},
			expectSuccess:  false,
			expectedStatus: saga.StatusCancelled,
			reasonContains: "order creation failed",
		},
		{
			name:    "failed release still cancels the saga",
			command: &RunCheckoutCommand{ClientID: testClientID, Lines: twoLineCart()[:1]},
			setupMocks: func(repo *mocks.MockCheckoutSagaRepository, stock *mocks.MockStockService, orders *mocks.MockOrderService, catalog *mocks.MockCatalogService) {
				repo.EXPECT().Save(mock.Anything, mock.AnythingOfType("*domain.CheckoutSaga")).Return(nil)
				stock.EXPECT().Check(mock.Anything, "sku-1", 2).Return(true, nil).Once()
				catalog.EXPECT().Lookup(mock.Anything, "sku-1").Return(product("sku-1", "Keyboard", 4500), nil).Once()
				stock.EXPECT().Reserve(mock.Anything, "sku-1", 2).Return(nil).Once()
				orders.EXPECT().Create(mock.Anything, models.ID(testClientID), mock.Anything).Return(models.ID(""), errors.New("order service unavailable")).Once()
				stock.EXPECT().Release(mock.Anything, "sku-1", 2).Return(errors.New("inventory unavailable")).Once()
			},
			expectSuccess:  false,
			expectedStatus: saga.StatusCancelled,
			reasonContains: "order creation failed",
		},
		{
			name:          "invalid client ID",
			command:       &RunCheckoutCommand{ClientID: "not-a-uuid", Lines: twoLineCart()},
			setupMocks:    func(*mocks.MockCheckoutSagaRepository, *mocks.MockStockService, *mocks.MockOrderService, *mocks.MockCatalogService) {},
			expectedError: "invalid client ID",
		},
		{
			name:          "empty cart",
			command:       &RunCheckoutCommand{ClientID: testClientID},
			setupMocks:    func(*mocks.MockCheckoutSagaRepository, *mocks.MockStockService, *mocks.MockOrderService, *mocks.MockCatalogService) {},
			expectedError: "failed to start checkout saga",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockCheckoutSagaRepository(t)
			stock := mocks.NewMockStockService(t)
			orders := mocks.NewMockOrderService(t)
			catalog := mocks.NewMockCatalogService(t)
			tt.setupMocks(repo, stock, orders, catalog)

			uc := NewRunCheckoutSaga(repo, stock, orders, catalog)
			response, err := uc.Execute(context.Background(), tt.command)

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectSuccess, response.Success)
			assert.Equal(t, tt.expectedStatus.String(), response.Status)
			assert.NotEmpty(t, response.SagaID)
			if tt.expectSuccess {
				assert.Equal(t, orderID.String(), response.OrderID)
			}
			if tt.reasonContains != "" {
				assert.Contains(t, response.Reason, tt.reasonContains)
			}
		})
	}
}

func TestRunCheckoutSaga_PersistsEveryTransition(t *testing.T) {
	repo := mocks.NewMockCheckoutSagaRepository(t)
	stock := mocks.NewMockStockService(t)
	orders := mocks.NewMockOrderService(t)
	catalog := mocks.NewMockCatalogService(t)

	var last *domain.CheckoutSaga
	repo.EXPECT().Save(mock.Anything, mock.AnythingOfType("*domain.CheckoutSaga")).
		Run(func(ctx context.Context, s *domain.CheckoutSaga) { last = s }).
		Return(nil)
	stock.EXPECT().Check(mock.Anything, "sku-1", 2).Return(true, nil).Once()
	catalog.EXPECT().Lookup(mock.Anything, "sku-1").Return(product("sku-1", "Keyboard", 4500), nil).Once()
	stock.EXPECT().Reserve(mock.Anything, "sku-1", 2).Return(nil).Once()
	orders.EXPECT().Create(mock.Anything, models.ID(testClientID), mock.Anything).Return(models.GenerateUUID(), nil).Once()

	uc := NewRunCheckoutSaga(repo, stock, orders, catalog)
	_, err := uc.Execute(context.Background(), &RunCheckoutCommand{
		ClientID: testClientID,
		Lines:    twoLineCart()[:1],
	})
	require.NoError(t, err)

	require.NotNil(t, last)
	statuses := make([]saga.Status, len(last.History))
	for i, tr := range last.History {
		statuses[i] = tr.Status
	}
	assert.Equal(t, []saga.Status{
		saga.StatusPending,
		saga.StatusStockChecking,
		saga.StatusStockChecked,
		saga.StatusStockReserving,
		saga.StatusStockReserved,
		saga.StatusOrderCreating,
		saga.StatusOrderCreated,
		saga.StatusCompleted,
	}, statuses)
}
