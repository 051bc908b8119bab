package events

import "github.com/novamart/checkout-system/shared/models"

// Kind-specific payloads. Handlers decode by matching on Event.Kind, so new
// kinds can be added without touching existing handlers.

// CheckoutInitiatedPayload starts a choreographed checkout
type CheckoutInitiatedPayload struct {
	ClientID  models.ID         `json:"client_id"`
	CartLines []models.CartLine `json:"cart_lines"`
}

// StockReservedPayload reports a successful reservation; it carries the cart
// forward so the order-creation worker needs no external lookup
type StockReservedPayload struct {
	ClientID  models.ID         `json:"client_id"`
	CartLines []models.CartLine `json:"cart_lines"`
}

// StockReservationFailedPayload reports a failed reservation
type StockReservationFailedPayload struct {
	Reason string `json:"reason"`
}

// OrderCreatedPayload reports the order the checkout produced. ClientID is
// carried so the projection can attribute the order without a join.
type OrderCreatedPayload struct {
	OrderID  models.ID `json:"order_id"`
	ClientID models.ID `json:"client_id"`
}

// OrderCreationFailedPayload reports a failed order creation
type OrderCreationFailedPayload struct {
	Reason string `json:"reason"`
}

// StockReleasedPayload marks a completed compensation; the released lines are
// recoverable from the checkout's StockReserved event
type StockReleasedPayload struct{}

// CheckoutSucceededPayload terminates a successful checkout
type CheckoutSucceededPayload struct {
	OrderID  models.ID `json:"order_id"`
	ClientID models.ID `json:"client_id"`
}

// CheckoutFailedPayload terminates a failed checkout
type CheckoutFailedPayload struct {
	Reason string `json:"reason"`
}

// DecodePayload returns the typed payload for the event's kind
func (e *Event) DecodePayload() (interface{}, error) {
	switch e.Kind {
	case CheckoutInitiated:
		var p CheckoutInitiatedPayload
		return &p, e.UnmarshalPayload(&p)
	case StockReserved:
		var p StockReservedPayload
		return &p, e.UnmarshalPayload(&p)
	case StockReservationFailed:
		var p StockReservationFailedPayload
		return &p, e.UnmarshalPayload(&p)
	case OrderCreated:
		var p OrderCreatedPayload
		return &p, e.UnmarshalPayload(&p)
	case OrderCreationFailed:
		var p OrderCreationFailedPayload
		return &p, e.UnmarshalPayload(&p)
	case StockReleased:
		var p StockReleasedPayload
		return &p, e.UnmarshalPayload(&p)
	case CheckoutSucceeded:
		var p CheckoutSucceededPayload
		return &p, e.UnmarshalPayload(&p)
	case CheckoutFailed:
		var p CheckoutFailedPayload
		return &p, e.UnmarshalPayload(&p)
	default:
		return nil, ErrUnknownKind
	}
}

// Reason extracts the failure reason of a failure event, empty otherwise
func (e *Event) Reason() string {
	switch e.Kind {
	case StockReservationFailed:
		var p StockReservationFailedPayload
		if err := e.UnmarshalPayload(&p); err == nil {
			return p.Reason
		}
	case OrderCreationFailed:
		var p OrderCreationFailedPayload
		if err := e.UnmarshalPayload(&p); err == nil {
			return p.Reason
		}
	case CheckoutFailed:
		var p CheckoutFailedPayload
		if err := e.UnmarshalPayload(&p); err == nil {
			return p.Reason
		}
	}
	return ""
}
