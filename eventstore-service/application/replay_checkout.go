package application

import (
	"context"

	"github.com/pkg/errors"

	"github.com/novamart/checkout-system/shared/events"
	"github.com/novamart/checkout-system/shared/models"
	"github.com/novamart/checkout-system/shared/saga"
)

// replayScanLimit bounds the stream scan; matches the publish-side trim.
const replayScanLimit = 10000

// ReplayStep is one state the checkout passed through, derived from an event
type ReplayStep struct {
	Status  saga.Status `json:"status"`
	Kind    events.Kind `json:"kind"`
	EventID models.ID   `json:"event_id"`
}

// ReplayCheckoutResponse is the deterministic reconstruction of a checkout
// from its event history
type ReplayCheckoutResponse struct {
	CheckoutID string          `json:"checkout_id"`
	Status     saga.Status     `json:"status"`
	History    []ReplayStep    `json:"history"`
	Events     []*events.Event `json:"events"`
}

// ReplayCheckout use case: folds a checkout's events into its current status.
// Replaying twice yields the same answer; the fold tolerates duplicated
// events from at-least-once delivery.
type ReplayCheckout struct {
	log events.Log
}

// NewReplayCheckout creates a new ReplayCheckout use case
func NewReplayCheckout(log events.Log) *ReplayCheckout {
	return &ReplayCheckout{log: log}
}

// Execute rebuilds the checkout's state trail; returns (nil, nil) when the
// stream holds no events for it
func (uc *ReplayCheckout) Execute(ctx context.Context, checkoutID string) (*ReplayCheckoutResponse, error) {
	id, err := models.NewID(checkoutID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid checkout ID")
	}

	all, err := uc.log.Range(ctx, events.Stream, "", replayScanLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read event stream")
	}

	var own []*events.Event
	for _, e := range all {
		if e.CheckoutID == id {
			own = append(own, e)
		}
	}
	if len(own) == 0 {
		return nil, nil
	}

	ordered := saga.Order(own)
	history := make([]ReplayStep, 0, len(ordered))
	for i, e := range ordered {
		history = append(history, ReplayStep{
			Status:  saga.Fold(ordered[:i+1]),
			Kind:    e.Kind,
			EventID: e.ID,
		})
	}

	return &ReplayCheckoutResponse{
		CheckoutID: id.String(),
		Status:     saga.Fold(ordered),
		History:    history,
		Events:     ordered,
	}, nil
}
