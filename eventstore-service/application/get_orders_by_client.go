package application

import (
	"context"

	"github.com/pkg/errors"

	"github.com/novamart/checkout-system/shared/infrastructure"
	"github.com/novamart/checkout-system/shared/models"
)

// GetOrdersByClient use case: CQRS read over the per-client order summary
type GetOrdersByClient struct {
	store ReadModelStore
}

// NewGetOrdersByClient creates a new GetOrdersByClient use case
func NewGetOrdersByClient(store ReadModelStore) *GetOrdersByClient {
	return &GetOrdersByClient{store: store}
}

// Execute returns the client's read model document. A client never seen by
// the projection gets a zero-value document, not an error.
func (uc *GetOrdersByClient) Execute(ctx context.Context, clientID string) (*infrastructure.OrdersByClient, error) {
	id, err := models.NewID(clientID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid client ID")
	}

	doc, err := uc.store.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read orders by client")
	}
	if doc == nil {
		doc = &infrastructure.OrdersByClient{ClientID: id, TotalOrders: 0}
	}
	return doc, nil
}
