package config

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/novamart/checkout-system/eventstore-service/application"
	"github.com/novamart/checkout-system/eventstore-service/handlers"
	sharedinfra "github.com/novamart/checkout-system/shared/infrastructure"
	"github.com/novamart/checkout-system/shared/telemetry"
)

type Dependencies struct {
	// Redis
	Redis *redis.Client

	// Infrastructure
	EventLog       *sharedinfra.RedisEventLog
	ReadModelStore *sharedinfra.RedisReadModelStore

	// Use Cases
	ListEvents        *application.ListEvents
	ReplayCheckout    *application.ReplayCheckout
	GetOrdersByClient *application.GetOrdersByClient
	Projector         *application.Projector

	// HTTP Handlers
	EventStoreHandlers *handlers.EventStoreHandlers

	// Telemetry
	Telemetry         *telemetry.Telemetry
	telemetryShutdown func()
}

func BuildDependencies(ctx context.Context, config *Config) (*Dependencies, error) {
	deps := &Dependencies{}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	deps.Redis = client

	tel, shutdown, err := telemetry.InitTelemetry(ctx,
		telemetry.EventStoreServiceConfig.WithOTLPEndpoint(config.Telemetry.OTLPEndpoint))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to init telemetry: %w", err)
	}
	deps.Telemetry = tel
	deps.telemetryShutdown = shutdown

	deps.EventLog = sharedinfra.NewRedisEventLog(client)
	deps.ReadModelStore = sharedinfra.NewRedisReadModelStore(client)

	deps.ListEvents = application.NewListEvents(deps.EventLog)
	deps.ReplayCheckout = application.NewReplayCheckout(deps.EventLog)
	deps.GetOrdersByClient = application.NewGetOrdersByClient(deps.ReadModelStore)
	deps.Projector = application.NewProjector(deps.EventLog, deps.ReadModelStore)

	deps.EventStoreHandlers = handlers.NewEventStoreHandlers(
		deps.ListEvents,
		deps.ReplayCheckout,
		deps.GetOrdersByClient,
	)

	return deps, nil
}

// Close releases held resources
func (d *Dependencies) Close() error {
	if d.telemetryShutdown != nil {
		d.telemetryShutdown()
	}
	if d.Redis != nil {
		return d.Redis.Close()
	}
	return nil
}
