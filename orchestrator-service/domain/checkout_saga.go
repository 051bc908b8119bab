package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/novamart/checkout-system/shared/models"
	"github.com/novamart/checkout-system/shared/saga"
)

// Transition is one recorded state change of a checkout saga. Detail carries
// step-specific context (reason for a failure, reserved lines, order ID).
type Transition struct {
	Status saga.Status     `json:"status"`
	At     time.Time       `json:"at"`
	Detail json.RawMessage `json:"detail,omitempty"`
}

// CheckoutSaga is the aggregate root of an orchestrated checkout. The
// coordinator drives it through the state machine, recording every
// transition, and tracks which reservations were actually applied so that
// compensation only undoes real side effects.
type CheckoutSaga struct {
	ID         models.ID
	ClientID   models.ID
	Lines      []models.CartLine
	Status     saga.Status
	OrderID    models.ID
	Reserved   []models.CartLine
	History    []Transition
	Timestamps models.Timestamps
}

// StartCheckoutSaga factory method
func StartCheckoutSaga(clientID models.ID, lines []models.CartLine) (*CheckoutSaga, error) {
	if clientID == "" {
		return nil, errors.New("client ID is required")
	}
	if err := models.ValidateCart(lines); err != nil {
		return nil, err
	}

	s := &CheckoutSaga{
		ID:         models.GenerateUUID(),
		ClientID:   clientID,
		Lines:      lines,
		Status:     saga.StatusPending,
		Reserved:   make([]models.CartLine, 0, len(lines)),
		History:    make([]Transition, 0, 8),
		Timestamps: models.NewTimestamps(),
	}
	s.record(saga.StatusPending, nil)
	return s, nil
}

// TransitionTo moves the saga to the next status, rejecting moves the state
// machine does not allow
func (s *CheckoutSaga) TransitionTo(next saga.Status, detail interface{}) error {
	if !saga.CanTransition(s.Status, next) {
		return errors.Errorf("illegal transition from %s to %s", s.Status, next)
	}

	var raw json.RawMessage
	if detail != nil {
		data, err := json.Marshal(detail)
		if err != nil {
			return errors.Wrap(err, "failed to marshal transition detail")
		}
		raw = data
	}

	s.Status = next
	s.Timestamps = s.Timestamps.Update()
	s.record(next, raw)
	return nil
}

// RecordReservation marks one cart line as successfully reserved
func (s *CheckoutSaga) RecordReservation(line models.CartLine) {
	s.Reserved = append(s.Reserved, line)
}

// ClearReservations drops the applied reservation records after compensation
func (s *CheckoutSaga) ClearReservations() {
	s.Reserved = s.Reserved[:0]
}

// AssignOrder records the order the collaborator created for this checkout
func (s *CheckoutSaga) AssignOrder(orderID models.ID) {
	s.OrderID = orderID
}

// EnrichLines replaces the cart lines with catalog-enriched copies
func (s *CheckoutSaga) EnrichLines(lines []models.CartLine) {
	s.Lines = lines
}

// Total returns the cart total; meaningful once lines are enriched
func (s *CheckoutSaga) Total() models.Money {
	var total models.Money
	for _, line := range s.Lines {
		total.Amount += line.LineTotal().Amount
		if total.Currency == "" {
			total.Currency = line.UnitPrice.Currency
		}
	}
	return total
}

// Finished reports whether the saga reached a terminal status
func (s *CheckoutSaga) Finished() bool {
	return s.Status.Terminal()
}

func (s *CheckoutSaga) record(status saga.Status, detail json.RawMessage) {
	s.History = append(s.History, Transition{
		Status: status,
		At:     time.Now(),
		Detail: detail,
	})
}

// CheckoutSagaRepository persists orchestrated sagas
type CheckoutSagaRepository interface {
	Save(ctx context.Context, s *CheckoutSaga) error
	FindByID(ctx context.Context, id models.ID) (*CheckoutSaga, error)
	FindByClientID(ctx context.Context, clientID models.ID) ([]*CheckoutSaga, error)
}
