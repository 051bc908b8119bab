package events

import "context"

// Stream is the single logical stream carrying all checkout events.
const Stream = "ecommerce.checkout.events"

// Consumer groups, one per worker role. Each group owns an independently
// advancing cursor over the stream.
const (
	GroupReservation  = "choreo-reservation"
	GroupOrder        = "choreo-order"
	GroupCompensation = "choreo-compensation"
	GroupNotification = "checkout-notification"
	GroupAudit        = "checkout-audit"
	GroupProjection   = "checkout-cqrs"
)

// Log is a durable, ordered, per-stream event log with consumer-group
// semantics: at-least-once delivery, each event delivered to exactly one
// consumer within a group, independent cursors per group.
type Log interface {
	// Publish appends the event and returns its stream sequence. Append
	// failures are transient; callers retry with backoff. Publish is not
	// atomic with any side effect performed before it, so handlers must
	// tolerate repeating that side effect.
	Publish(ctx context.Context, stream string, event *Event) (string, error)

	// EnsureGroup creates the consumer group if absent. Idempotent; safe to
	// call at every worker startup.
	EnsureGroup(ctx context.Context, stream, group string) error

	// Subscribe blocks, delivering events to the handler one at a time. The
	// cursor advances only after the handler returns nil; a handler error
	// leaves the event pending for redelivery. Returns when ctx is done.
	Subscribe(ctx context.Context, stream, group, consumer string, handler Handler) error

	// Range returns an ordered page of events starting at sequence from
	// (empty means the beginning). Read-only, no side effects.
	Range(ctx context.Context, stream, from string, limit int64) ([]*Event, error)
}
