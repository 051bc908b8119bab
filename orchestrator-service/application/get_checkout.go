package application

import (
	"context"

	"github.com/pkg/errors"

	"github.com/novamart/checkout-system/orchestrator-service/domain"
	"github.com/novamart/checkout-system/shared/models"
)

// GetCheckoutResponse represents a persisted saga's status and history
type GetCheckoutResponse struct {
	SagaID   string              `json:"saga_id"`
	ClientID string              `json:"client_id"`
	Status   string              `json:"status"`
	OrderID  string              `json:"order_id,omitempty"`
	Lines    []models.CartLine   `json:"lines"`
	History  []domain.Transition `json:"history"`
}

// GetCheckoutSaga use case: status consultation of an orchestrated checkout
type GetCheckoutSaga struct {
	sagas domain.CheckoutSagaRepository
}

// NewGetCheckoutSaga creates a new GetCheckoutSaga use case
func NewGetCheckoutSaga(sagas domain.CheckoutSagaRepository) *GetCheckoutSaga {
	return &GetCheckoutSaga{sagas: sagas}
}

// Execute fetches the saga; returns (nil, nil) when it does not exist
func (uc *GetCheckoutSaga) Execute(ctx context.Context, sagaID string) (*GetCheckoutResponse, error) {
	id, err := models.NewID(sagaID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid saga ID")
	}

	checkout, err := uc.sagas.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find checkout saga")
	}
	if checkout == nil {
		return nil, nil
	}

	return &GetCheckoutResponse{
		SagaID:   checkout.ID.String(),
		ClientID: checkout.ClientID.String(),
		Status:   checkout.Status.String(),
		OrderID:  checkout.OrderID.String(),
		Lines:    checkout.Lines,
		History:  checkout.History,
	}, nil
}
