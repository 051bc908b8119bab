package infrastructure

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/novamart/checkout-system/shared/models"
)

const (
	readModelKeyPrefix = "cqrs:orders_by_client:"
	projectionInboxKey = "cqrs:projection:seen"
)

// OrdersByClient is the per-client read model. It is a cache derived from the
// event history, never a source of truth; it can be wiped and rebuilt at any
// time by replaying the stream.
type OrdersByClient struct {
	ClientID       models.ID `json:"client_id"`
	TotalOrders    int       `json:"total_orders"`
	LastOrderID    models.ID `json:"last_order_id,omitempty"`
	LastCheckoutID models.ID `json:"last_checkout_id,omitempty"`
	LastUpdate     time.Time `json:"last_update"`
}

// RedisReadModelStore keeps the CQRS read model and the projection inbox in
// Redis, one JSON document per client.
type RedisReadModelStore struct {
	client *redis.Client
}

// NewRedisReadModelStore creates a read model store on the given client
func NewRedisReadModelStore(client *redis.Client) *RedisReadModelStore {
	return &RedisReadModelStore{client: client}
}

// Get returns the read model for a client, or nil when none exists yet
func (s *RedisReadModelStore) Get(ctx context.Context, clientID models.ID) (*OrdersByClient, error) {
	raw, err := s.client.Get(ctx, readModelKeyPrefix+clientID.String()).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get read model")
	}

	var doc OrdersByClient
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode read model")
	}
	doc.ClientID = clientID
	return &doc, nil
}

// Save stores the read model document for its client
func (s *RedisReadModelStore) Save(ctx context.Context, doc *OrdersByClient) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to encode read model")
	}

	if err := s.client.Set(ctx, readModelKeyPrefix+doc.ClientID.String(), raw, 0).Err(); err != nil {
		return errors.Wrap(err, "failed to save read model")
	}
	return nil
}

// MarkProcessed records an event in the projection inbox. It returns true the
// first time an event ID is seen, false on redelivery.
func (s *RedisReadModelStore) MarkProcessed(ctx context.Context, eventID models.ID) (bool, error) {
	added, err := s.client.SAdd(ctx, projectionInboxKey, eventID.String()).Result()
	if err != nil {
		return false, errors.Wrap(err, "failed to mark event processed")
	}
	return added == 1, nil
}

// Reset deletes every read model document and the projection inbox so the
// model can be rebuilt from scratch
func (s *RedisReadModelStore) Reset(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, readModelKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return errors.Wrap(err, "failed to delete read model key")
		}
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "failed to scan read model keys")
	}

	if err := s.client.Del(ctx, projectionInboxKey).Err(); err != nil {
		return errors.Wrap(err, "failed to reset projection inbox")
	}
	return nil
}
