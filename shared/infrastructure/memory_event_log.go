package infrastructure

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/novamart/checkout-system/shared/events"
	"github.com/novamart/checkout-system/shared/saga"
)

var _ events.Log = (*MemoryEventLog)(nil)

// MemoryEventLog is an in-process event log with the same contract as the
// Redis-backed one. Used by tests and local wiring; a handler error leaves the
// group cursor in place so the event is redelivered, mirroring the ack model.
type MemoryEventLog struct {
	mu      sync.Mutex
	streams map[string][]*events.Event
	cursors map[string]map[string]int
	wakeup  chan struct{}
}

// NewMemoryEventLog creates an empty in-memory log
func NewMemoryEventLog() *MemoryEventLog {
	return &MemoryEventLog{
		streams: make(map[string][]*events.Event),
		cursors: make(map[string]map[string]int),
		wakeup:  make(chan struct{}),
	}
}

// Publish appends the event and returns its sequence ID
func (l *MemoryEventLog) Publish(_ context.Context, stream string, event *events.Event) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	stored := event.Clone()
	// Zero-padded so the string comparison in Range keeps append order past
	// ten entries.
	seq := fmt.Sprintf("%012d-0", len(l.streams[stream])+1)
	if stored.Metadata == nil {
		stored.Metadata = make(events.Metadata)
	}
	stored.Metadata.Set(saga.SeqMetadataKey, seq)
	l.streams[stream] = append(l.streams[stream], stored)

	close(l.wakeup)
	l.wakeup = make(chan struct{})
	return seq, nil
}

// EnsureGroup registers the group cursor at the current stream tail
func (l *MemoryEventLog) EnsureGroup(_ context.Context, stream, group string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureGroupLocked(stream, group)
	return nil
}

func (l *MemoryEventLog) ensureGroupLocked(stream, group string) {
	if l.cursors[stream] == nil {
		l.cursors[stream] = make(map[string]int)
	}
	if _, ok := l.cursors[stream][group]; !ok {
		l.cursors[stream][group] = len(l.streams[stream])
	}
}

// Subscribe delivers events past the group cursor until ctx is done
func (l *MemoryEventLog) Subscribe(ctx context.Context, stream, group, _ string, handler events.Handler) error {
	if err := l.EnsureGroup(ctx, stream, group); err != nil {
		return err
	}

	for {
		event, wakeup := l.next(stream, group)
		if event == nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-wakeup:
			case <-time.After(50 * time.Millisecond):
			}
			continue
		}

		if err := handler.Handle(ctx, event); err != nil {
			// Leave the cursor so the event is delivered again.
			continue
		}
		l.advance(stream, group)
	}
}

// Drain synchronously delivers the events pending at the time of the call
// and returns how many were acknowledged. Events the handler publishes while
// draining are left for the next call, so a worker's own output is never
// counted against it. Test helper: it lets worker loops be exercised by
// feeding a finite event sequence without goroutines.
func (l *MemoryEventLog) Drain(ctx context.Context, stream, group string, handler events.Handler) int {
	if err := l.EnsureGroup(ctx, stream, group); err != nil {
		return 0
	}

	l.mu.Lock()
	end := len(l.streams[stream])
	l.mu.Unlock()

	handled := 0
	for {
		l.mu.Lock()
		cursor := l.cursors[stream][group]
		if cursor >= end {
			l.mu.Unlock()
			return handled
		}
		event := l.streams[stream][cursor].Clone()
		l.mu.Unlock()

		if err := handler.Handle(ctx, event); err != nil {
			return handled
		}
		l.advance(stream, group)
		handled++
	}
}

// Range returns an ordered page of events starting at sequence from
func (l *MemoryEventLog) Range(_ context.Context, stream, from string, limit int64) ([]*events.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit <= 0 {
		limit = 100
	}

	var page []*events.Event
	for _, event := range l.streams[stream] {
		seq, _ := event.Metadata.Get(saga.SeqMetadataKey)
		if from != "" && from != "-" && seq < from {
			continue
		}
		page = append(page, event.Clone())
		if int64(len(page)) >= limit {
			break
		}
	}
	return page, nil
}

func (l *MemoryEventLog) next(stream, group string) (*events.Event, <-chan struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ensureGroupLocked(stream, group)
	cursor := l.cursors[stream][group]
	if cursor >= len(l.streams[stream]) {
		return nil, l.wakeup
	}
	return l.streams[stream][cursor].Clone(), nil
}

func (l *MemoryEventLog) advance(stream, group string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cursors[stream][group]++
}
