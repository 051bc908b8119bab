package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/novamart/checkout-system/shared/models"
)

var (
	ErrInvalidKind     = errors.New("invalid event kind")
	ErrInvalidPayload  = errors.New("invalid payload")
	ErrUnknownKind     = errors.New("unknown event kind")
	ErrMissingCheckout = errors.New("checkout ID is required")
)

// Kind identifies one of the checkout event types. Every event in the
// checkout stream carries exactly one kind and a kind-specific payload.
type Kind string

const (
	CheckoutInitiated      Kind = "CheckoutInitiated"
	StockReserved          Kind = "StockReserved"
	StockReservationFailed Kind = "StockReservationFailed"
	OrderCreated           Kind = "OrderCreated"
	OrderCreationFailed    Kind = "OrderCreationFailed"
	StockReleased          Kind = "StockReleased"
	CheckoutSucceeded      Kind = "CheckoutSucceeded"
	CheckoutFailed         Kind = "CheckoutFailed"
)

// Kinds lists every checkout event kind in no particular order.
var Kinds = []Kind{
	CheckoutInitiated,
	StockReserved,
	StockReservationFailed,
	OrderCreated,
	OrderCreationFailed,
	StockReleased,
	CheckoutSucceeded,
	CheckoutFailed,
}

func (k Kind) String() string {
	return string(k)
}

// Valid reports whether k is one of the known checkout kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Terminal reports whether k ends a checkout's causal history.
// At most one terminal event is ever emitted per checkout.
func (k Kind) Terminal() bool {
	return k == CheckoutSucceeded || k == CheckoutFailed
}

// Metadata represents transport-level event metadata
type Metadata map[string]string

func (m Metadata) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m Metadata) Set(key string, value string) {
	if m == nil {
		return
	}
	m[key] = value
}

func (m Metadata) Has(key string) bool {
	_, ok := m[key]
	return ok
}

func (m Metadata) Clone() Metadata {
	clone := Metadata{}
	for k, v := range m {
		clone[k] = v
	}
	return clone
}

// Event is an immutable record in the checkout stream. Events are append-only
// and total-ordered within a stream; all events sharing a CheckoutID form that
// checkout's causal history.
type Event struct {
	ID         models.ID       `json:"id"`
	CheckoutID models.ID       `json:"checkout_id"`
	Kind       Kind            `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	Metadata   Metadata        `json:"metadata,omitempty"`
	EmittedAt  time.Time       `json:"emitted_at"`
}

// Publisher publishes events
type Publisher interface {
	Publish(ctx context.Context, events ...*Event) error
}

// Handler handles checkout events delivered by a log subscription
type Handler interface {
	HandlerID() string
	Handle(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc struct {
	id string
	fn func(ctx context.Context, event *Event) error
}

func NewHandlerFunc(id string, fn func(ctx context.Context, event *Event) error) *HandlerFunc {
	return &HandlerFunc{id: id, fn: fn}
}

func (h *HandlerFunc) HandlerID() string {
	return h.id
}

func (h *HandlerFunc) Handle(ctx context.Context, event *Event) error {
	return h.fn(ctx, event)
}

// New creates a checkout event with a marshalled payload
func New(checkoutID models.ID, kind Kind, payload interface{}) (*Event, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	if checkoutID == "" {
		return nil, ErrMissingCheckout
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:         models.GenerateUUID(),
		CheckoutID: checkoutID,
		Kind:       kind,
		Payload:    raw,
		Metadata:   make(Metadata),
		EmittedAt:  time.Now().UTC(),
	}, nil
}

// MustNew is New for payloads that cannot fail to marshal; it panics
// otherwise and is intended for tests and static payload structs.
func MustNew(checkoutID models.ID, kind Kind, payload interface{}) *Event {
	event, err := New(checkoutID, kind, payload)
	if err != nil {
		panic(err)
	}
	return event
}

// WithMetadata adds a metadata entry
func (e *Event) WithMetadata(key, value string) *Event {
	if e.Metadata == nil {
		e.Metadata = make(Metadata)
	}
	e.Metadata.Set(key, value)
	return e
}

// UnmarshalPayload unmarshals the event payload into the given receiver
func (e *Event) UnmarshalPayload(v interface{}) error {
	if len(e.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(e.Payload, v)
}

// ToJSON converts the event to JSON
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON creates an event from JSON
func FromJSON(data []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	if !event.Kind.Valid() {
		return nil, ErrUnknownKind
	}
	return &event, nil
}

// Clone creates a copy of the event
func (e *Event) Clone() *Event {
	payload := make(json.RawMessage, len(e.Payload))
	copy(payload, e.Payload)
	return &Event{
		ID:         e.ID,
		CheckoutID: e.CheckoutID,
		Kind:       e.Kind,
		Payload:    payload,
		Metadata:   e.Metadata.Clone(),
		EmittedAt:  e.EmittedAt,
	}
}
