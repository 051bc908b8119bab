package application

import (
	"context"

	"github.com/pkg/errors"

	"github.com/novamart/checkout-system/shared/events"
)

const defaultPageSize = 100

// ListEventsQuery represents a page request over a stream
type ListEventsQuery struct {
	Stream string
	From   string
	Limit  int64
}

// ListEventsResponse represents one ordered page of a stream
type ListEventsResponse struct {
	Stream string          `json:"stream"`
	Events []*events.Event `json:"events"`
}

// ListEvents use case: paged, ordered read over the event log
type ListEvents struct {
	log events.Log
}

// NewListEvents creates a new ListEvents use case
func NewListEvents(log events.Log) *ListEvents {
	return &ListEvents{log: log}
}

// Execute reads one page of the stream in append order
func (uc *ListEvents) Execute(ctx context.Context, query *ListEventsQuery) (*ListEventsResponse, error) {
	if query.Stream == "" {
		return nil, errors.New("stream is required")
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	evts, err := uc.log.Range(ctx, query.Stream, query.From, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read event stream")
	}

	return &ListEventsResponse{
		Stream: query.Stream,
		Events: evts,
	}, nil
}
