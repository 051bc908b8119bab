package config

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/novamart/checkout-system/checkout-service/handlers"
	"github.com/novamart/checkout-system/checkout-service/workers"
	esapplication "github.com/novamart/checkout-system/eventstore-service/application"
	"github.com/novamart/checkout-system/shared/collaborators"
	"github.com/novamart/checkout-system/shared/events"
	sharedinfra "github.com/novamart/checkout-system/shared/infrastructure"
	"github.com/novamart/checkout-system/shared/telemetry"
)

// idempotencyTTL bounds how long a processed (role, checkout) marker lives.
// Long enough to cover any realistic redelivery window.
const idempotencyTTL = 72 * time.Hour

type Dependencies struct {
	// Redis
	Redis *redis.Client

	// Infrastructure
	EventLog *sharedinfra.RedisEventLog
	Guard    *sharedinfra.RedisIdempotencyGuard
	Notifier *sharedinfra.SNSNotifier

	// Collaborators
	Gateway *collaborators.GatewayClient

	// Workers
	Supervisor *workers.Supervisor

	// HTTP Handlers
	CheckoutHandlers *handlers.CheckoutHandlers

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
		telemetry.CheckoutServiceConfig.WithOTLPEndpoint(config.Telemetry.OTLPEndpoint))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to init telemetry: %w", err)
	}
	deps.Telemetry = tel
	deps.telemetryShutdown = shutdown

	deps.EventLog = sharedinfra.NewRedisEventLog(client)
	deps.Guard = sharedinfra.NewRedisIdempotencyGuard(client, idempotencyTTL)
	deps.Gateway = collaborators.NewGatewayClient(config.Gateway.BaseURL, config.Gateway.APIKey)

	notifier, err := sharedinfra.NewSNSNotifierFromEnv(ctx, config.AWS.SNSTopicArn)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create SNS notifier: %w", err)
	}
	deps.Notifier = notifier

	supervisor, err := buildSupervisor(deps, config.RoleNames())
	if err != nil {
		client.Close()
		return nil, err
	}
	deps.Supervisor = supervisor

	deps.CheckoutHandlers = handlers.NewCheckoutHandlers(deps.EventLog)

	return deps, nil
}

// buildSupervisor wires the configured worker roles to their consumer groups
func buildSupervisor(deps *Dependencies, roleNames []string) (*workers.Supervisor, error) {
	available := map[string]workers.Role{
		"stock-reservation": {
			Name:    "stock-reservation",
			Group:   events.GroupReservation,
			Handler: workers.NewStockReservationWorker(deps.EventLog, deps.Gateway, deps.Gateway, deps.Guard),
		},
		"order-creation": {
			Name:    "order-creation",
			Group:   events.GroupOrder,
			Handler: workers.NewOrderCreationWorker(deps.EventLog, deps.Gateway, deps.Guard),
		},
		"stock-compensation": {
			Name:    "stock-compensation",
			Group:   events.GroupCompensation,
			Handler: workers.NewStockCompensationWorker(deps.EventLog, deps.Gateway, deps.Guard),
		},
		"notification": {
			Name:    "notification",
			Group:   events.GroupNotification,
			Handler: workers.NewNotificationWorker(deps.Notifier),
		},
		"audit": {
			Name:    "audit",
			Group:   events.GroupAudit,
			Handler: workers.NewAuditWorker(),
		},
		"cqrs-projection": {
			Name:    "cqrs-projection",
			Group:   events.GroupProjection,
			Handler: esapplication.NewProjector(deps.EventLog, sharedinfra.NewRedisReadModelStore(deps.Redis)),
		},
	}

	selected := make([]workers.Role, 0, len(roleNames))
	for _, name := range roleNames {
		role, ok := available[name]
		if !ok {
			return nil, fmt.Errorf("unknown worker role: %s", name)
		}
		selected = append(selected, role)
	}
	return workers.NewSupervisor(deps.EventLog, selected...), nil
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
