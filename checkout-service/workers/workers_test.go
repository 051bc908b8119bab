package workers

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/novamart/checkout-system/shared/events"
	"github.com/novamart/checkout-system/shared/infrastructure"
	"github.com/novamart/checkout-system/shared/models"
)

// memoryGuard is an in-process IdempotencyGuard for worker tests
type memoryGuard struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMemoryGuard() *memoryGuard {
	return &memoryGuard{seen: make(map[string]bool)}
}

func (g *memoryGuard) Acquire(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seen[key] {
		return false, nil
	}
	g.seen[key] = true
	return true, nil
}

func (g *memoryGuard) Void(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.seen, key)
	return nil
}

// newStreamLog returns a memory log with every worker group already
// registered, so events published afterwards are visible to all of them
func newStreamLog(t *testing.T) *infrastructure.MemoryEventLog {
	t.Helper()
	log := infrastructure.NewMemoryEventLog()
	for _, group := range []string{
		events.GroupReservation, events.GroupOrder, events.GroupCompensation,
		events.GroupNotification, events.GroupAudit, events.GroupProjection,
	} {
		require.NoError(t, log.EnsureGroup(context.Background(), events.Stream, group))
	}
	return log
}

// publishInitiated seeds the stream with a CheckoutInitiated event
func publishInitiated(t *testing.T, log *infrastructure.MemoryEventLog, checkoutID, clientID models.ID, lines []models.CartLine) {
	t.Helper()
	event := events.MustNew(checkoutID, events.CheckoutInitiated, events.CheckoutInitiatedPayload{
		ClientID:  clientID,
		CartLines: lines,
	})
	_, err := log.Publish(context.Background(), events.Stream, event)
	require.NoError(t, err)
}

// streamKinds returns the kinds currently in the stream, in append order
func streamKinds(t *testing.T, log *infrastructure.MemoryEventLog) []events.Kind {
	t.Helper()
	evts, err := log.Range(context.Background(), events.Stream, "", 100)
	require.NoError(t, err)
	kinds := make([]events.Kind, len(evts))
	for i, e := range evts {
		kinds[i] = e.Kind
	}
	return kinds
}

// findEvent returns the first stream event of the given kind, or nil
func findEvent(t *testing.T, log *infrastructure.MemoryEventLog, kind events.Kind) *events.Event {
	t.Helper()
	evts, err := log.Range(context.Background(), events.Stream, "", 100)
	require.NoError(t, err)
	for _, e := range evts {
		if e.Kind == kind {
			return e
		}
	}
	return nil
}
