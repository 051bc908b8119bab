// Package workers holds the choreography side of the checkout saga: one
// consume, act, publish loop per role, each on its own consumer group over
// the shared event stream. Every worker is idempotent under redelivery and
// always publishes a successor event, so the saga reaches a terminal event
// even when its step fails.
package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"

	"github.com/novamart/checkout-system/shared/events"
	"github.com/novamart/checkout-system/shared/models"
)

// IdempotencyGuard marks a (role, checkout) pair as taken exactly once.
// Void returns the marker when the handler fails after acquiring it, so the
// redelivered event retries the work instead of being skipped and acked.
type IdempotencyGuard interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Void(ctx context.Context, key string) error
}

// publishWithRetry appends an event to the log, retrying transient failures.
// Losing a successor event would strand the saga in a non-terminal state, so
// the retry budget here is larger than for collaborator calls.
func publishWithRetry(ctx context.Context, log events.Log, event *events.Event) error {
	operation := func() error {
		_, err := log.Publish(ctx, events.Stream, event)
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 100 * time.Millisecond
	policy.MaxInterval = 5 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, 5), ctx)); err != nil {
		return errors.Wrapf(err, "failed to publish %s for checkout %s", event.Kind, event.CheckoutID)
	}
	return nil
}

// voidAfterFailure returns the idempotency marker before propagating the
// handler error, so the coming redelivery retries instead of skipping.
func voidAfterFailure(ctx context.Context, guard IdempotencyGuard, key string, err error) error {
	if voidErr := guard.Void(ctx, key); voidErr != nil {
		slog.ErrorContext(ctx, "failed to void idempotency marker, checkout may stall until the marker expires",
			"key", key,
			"error", voidErr.Error(),
		)
	}
	return err
}

// priorEvent returns the checkout's already-published event of the given
// kind, if any. A worker recovering from a half-published attempt consults
// the stream instead of repeating its side effect.
func priorEvent(ctx context.Context, log events.Log, checkoutID models.ID, kind events.Kind) (*events.Event, error) {
	evts, err := log.Range(ctx, events.Stream, "", maxScanned)
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan event history")
	}
	for _, e := range evts {
		if e.CheckoutID == checkoutID && e.Kind == kind {
			return e, nil
		}
	}
	return nil, nil
}
