// Package collaborators defines the contracts of the external catalog,
// inventory and order services the sagas coordinate. The services themselves
// are request/response collaborators reached through the API gateway.
package collaborators

import (
	"context"
	"errors"
	"fmt"

	"github.com/novamart/checkout-system/shared/models"
)

// StockService covers the inventory collaborator
type StockService interface {
	// Check reports whether the requested quantity is available
	Check(ctx context.Context, productID string, quantity int) (bool, error)
	// Reserve takes the quantity out of central stock
	Reserve(ctx context.Context, productID string, quantity int) error
	// Release returns a previously reserved quantity to central stock
	Release(ctx context.Context, productID string, quantity int) error
}

// OrderService covers the order-creation collaborator
type OrderService interface {
	// Create registers the sale and returns the order ID
	Create(ctx context.Context, clientID models.ID, lines []models.CartLine) (models.ID, error)
}

// CatalogService covers the product catalog collaborator
type CatalogService interface {
	// Lookup returns the product's name and unit price
	Lookup(ctx context.Context, productID string) (*Product, error)
}

// Product is the catalog view of a product
type Product struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Price models.Money `json:"price"`
}

// CallError describes a failed collaborator call. Transient errors (network,
// timeout, 5xx) are retried with backoff at the call site; business errors
// (4xx) are surfaced immediately as failure transitions.
type CallError struct {
	Service   string
	Operation string
	Status    int
	Message   string
	Transient bool
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s %s failed (status %d): %s", e.Service, e.Operation, e.Status, e.Message)
}

// IsTransient reports whether err is a retryable collaborator failure.
// Errors that are not CallErrors (network failures, timeouts) count as
// transient: a timeout is never treated as success.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var callErr *CallError
	if errors.As(err, &callErr) {
		return callErr.Transient
	}
	return true
}
