package infrastructure

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/novamart/checkout-system/shared/events"
	"github.com/novamart/checkout-system/shared/saga"
	"github.com/novamart/checkout-system/shared/telemetry"
)

var _ events.Log = (*RedisEventLog)(nil)

const (
	kindField  = "kind"
	eventField = "event"
)

// RedisEventLog implements the event log on Redis Streams. Consumer groups
// give at-least-once delivery with one cursor per group; an entry is acked
// only after the handler succeeds, so a crash mid-handle leads to redelivery.
type RedisEventLog struct {
	client  *redis.Client
	options *redisLogOptions
}

type redisLogOptions struct {
	maxLen    int64
	blockTime time.Duration
	readCount int64
}

type RedisLogOption func(*redisLogOptions)

// WithMaxLen caps the stream length (approximate trimming)
func WithMaxLen(maxLen int64) RedisLogOption {
	return func(o *redisLogOptions) {
		o.maxLen = maxLen
	}
}

// WithBlockTime sets how long a subscribe read blocks before re-polling
func WithBlockTime(d time.Duration) RedisLogOption {
	return func(o *redisLogOptions) {
		o.blockTime = d
	}
}

// NewRedisEventLog creates an event log backed by the given Redis client
func NewRedisEventLog(client *redis.Client, opts ...RedisLogOption) *RedisEventLog {
	options := &redisLogOptions{
		maxLen:    10000,
		blockTime: 5 * time.Second,
		readCount: 10,
	}
	for _, opt := range opts {
		opt(options)
	}
	return &RedisEventLog{client: client, options: options}
}

// Publish appends the event to the stream and returns its sequence ID
func (l *RedisEventLog) Publish(ctx context.Context, stream string, event *events.Event) (string, error) {
	body, err := event.ToJSON()
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal event")
	}

	seq, err := l.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: l.options.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			kindField:  event.Kind.String(),
			eventField: string(body),
		},
	}).Result()
	if err != nil {
		return "", errors.Wrap(err, "failed to append event to stream")
	}

	telemetry.EventsPublished.WithLabelValues(stream, event.Kind.String()).Inc()
	return seq, nil
}

// EnsureGroup creates the consumer group at the stream tail, tolerating the
// BUSYGROUP reply when the group already exists
func (l *RedisEventLog) EnsureGroup(ctx context.Context, stream, group string) error {
	err := l.client.XGroupCreateMkStream(ctx, stream, group, "$").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return errors.Wrapf(err, "failed to create consumer group %s", group)
	}
	return nil
}

// Subscribe runs the blocking consume loop for one consumer in a group.
// Pending entries from a previous crash of this consumer are drained first.
func (l *RedisEventLog) Subscribe(ctx context.Context, stream, group, consumer string, handler events.Handler) error {
	if err := l.EnsureGroup(ctx, stream, group); err != nil {
		return err
	}

	if err := l.consumeOnce(ctx, stream, group, consumer, handler, "0"); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := l.consumeOnce(ctx, stream, group, consumer, handler, ">"); err != nil {
			return err
		}
	}
}

func (l *RedisEventLog) consumeOnce(ctx context.Context, stream, group, consumer string, handler events.Handler, cursor string) error {
	streams, err := l.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, cursor},
		Count:    l.options.readCount,
		Block:    l.options.blockTime,
	}).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(err, "failed to read from stream")
	}

	for _, s := range streams {
		for _, message := range s.Messages {
			event, err := decodeStreamMessage(message)
			if err != nil {
				// Malformed entry: ack so it never wedges the group.
				l.client.XAck(ctx, stream, group, message.ID)
				continue
			}

			telemetry.ObserveEventLatency(stream, event)
			telemetry.EventsConsumed.WithLabelValues(stream, event.Kind.String(), group).Inc()

			if err := handler.Handle(ctx, event); err != nil {
				// No ack: the entry stays pending and is redelivered.
				continue
			}
			l.client.XAck(ctx, stream, group, message.ID)
		}
	}
	return nil
}

// Range returns an ordered page of events starting at sequence from
func (l *RedisEventLog) Range(ctx context.Context, stream, from string, limit int64) ([]*events.Event, error) {
	if from == "" {
		from = "-"
	}
	if limit <= 0 {
		limit = 100
	}

	messages, err := l.client.XRangeN(ctx, stream, from, "+", limit).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to range stream")
	}

	result := make([]*events.Event, 0, len(messages))
	for _, message := range messages {
		event, err := decodeStreamMessage(message)
		if err != nil {
			continue
		}
		result = append(result, event)
	}
	return result, nil
}

func decodeStreamMessage(message redis.XMessage) (*events.Event, error) {
	raw, ok := message.Values[eventField].(string)
	if !ok {
		return nil, errors.New("stream entry has no event body")
	}

	event, err := events.FromJSON([]byte(raw))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode event body")
	}

	if event.Metadata == nil {
		event.Metadata = make(events.Metadata)
	}
	event.Metadata.Set(saga.SeqMetadataKey, message.ID)
	return event, nil
}
