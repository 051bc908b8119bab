package application

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/novamart/checkout-system/shared/events"
	"github.com/novamart/checkout-system/shared/infrastructure"
	"github.com/novamart/checkout-system/shared/models"
	"github.com/novamart/checkout-system/shared/saga"
)

// ReadModelStore persists the per-client orders read model
type ReadModelStore interface {
	Get(ctx context.Context, clientID models.ID) (*infrastructure.OrdersByClient, error)
	Save(ctx context.Context, doc *infrastructure.OrdersByClient) error
	MarkProcessed(ctx context.Context, eventID models.ID) (bool, error)
	Reset(ctx context.Context) error
}

// Projector folds checkout events into the per-client read model. The model
// is pure cache: total_orders counts OrderCreated events only, duplicates are
// filtered by the event-ID inbox, and Rebuild reproduces the exact same
// documents from the stream alone.
type Projector struct {
	log   events.Log
	store ReadModelStore
}

// NewProjector creates a new Projector
func NewProjector(log events.Log, store ReadModelStore) *Projector {
	return &Projector{log: log, store: store}
}

// HandlerID identifies the projector on its consumer group
func (p *Projector) HandlerID() string {
	return "cqrs-projection-worker"
}

// Handle applies one event to the read model
func (p *Projector) Handle(ctx context.Context, event *events.Event) error {
	switch event.Kind {
	case events.OrderCreated, events.CheckoutSucceeded:
	default:
		return nil
	}

	first, err := p.store.MarkProcessed(ctx, event.ID)
	if err != nil {
		return errors.Wrap(err, "projection inbox check failed")
	}
	if !first {
		slog.InfoContext(ctx, "event already projected, skipping redelivery",
			"event_id", event.ID.String())
		return nil
	}

	return p.apply(ctx, event)
}

// Rebuild wipes the read model and replays the whole stream into it
func (p *Projector) Rebuild(ctx context.Context) error {
	if err := p.store.Reset(ctx); err != nil {
		return errors.Wrap(err, "failed to reset read model")
	}

	evts, err := p.log.Range(ctx, events.Stream, "", replayScanLimit)
	if err != nil {
		return errors.Wrap(err, "failed to read event stream")
	}

	for _, event := range saga.Order(evts) {
		if err := p.Handle(ctx, event); err != nil {
			return errors.Wrapf(err, "failed to project event %s", event.ID)
		}
	}
	return nil
}

func (p *Projector) apply(ctx context.Context, event *events.Event) error {
	payload, err := event.DecodePayload()
	if err != nil {
		return errors.Wrap(err, "failed to decode event payload")
	}

	var clientID, orderID models.ID
	increment := false
	switch data := payload.(type) {
	case *events.OrderCreatedPayload:
		clientID, orderID = data.ClientID, data.OrderID
		increment = true
	case *events.CheckoutSucceededPayload:
		clientID, orderID = data.ClientID, data.OrderID
	}
	if clientID == "" {
		return nil
	}

	doc, err := p.store.Get(ctx, clientID)
	if err != nil {
		return err
	}
	if doc == nil {
		doc = &infrastructure.OrdersByClient{ClientID: clientID}
	}

	if increment {
		doc.TotalOrders++
	}
	doc.LastOrderID = orderID
	doc.LastCheckoutID = event.CheckoutID
	// Event time, not wall time: a rebuild must reproduce the document
	// exactly.
	doc.LastUpdate = event.EmittedAt

	return p.store.Save(ctx, doc)
}
