package config

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/novamart/checkout-system/orchestrator-service/application"
	"github.com/novamart/checkout-system/orchestrator-service/handlers"
	"github.com/novamart/checkout-system/orchestrator-service/infrastructure"
	"github.com/novamart/checkout-system/shared/collaborators"
	"github.com/novamart/checkout-system/shared/telemetry"
)

type Dependencies struct {
	// Database
	DB *sqlx.DB

	// Repositories
	SagaRepository *infrastructure.PostgresCheckoutSagaRepository

	// Collaborators
	Gateway *collaborators.GatewayClient

	// Use Cases
	RunCheckout *application.RunCheckoutSaga
	GetCheckout *application.GetCheckoutSaga

	// HTTP Handlers
	CheckoutHandlers *handlers.CheckoutHandlers

	// Telemetry
	Telemetry         *telemetry.Telemetry
	telemetryShutdown func()
}

func BuildDependencies(ctx context.Context, config *Config) (*Dependencies, error) {
	deps := &Dependencies{}

	db, err := sqlx.Connect("postgres", config.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	deps.DB = db

	tel, shutdown, err := telemetry.InitTelemetry(ctx,
		telemetry.OrchestratorServiceConfig.WithOTLPEndpoint(config.Telemetry.OTLPEndpoint))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init telemetry: %w", err)
	}
	deps.Telemetry = tel
	deps.telemetryShutdown = shutdown

	deps.SagaRepository = infrastructure.NewPostgresCheckoutSagaRepository(db)
	deps.Gateway = collaborators.NewGatewayClient(config.Gateway.BaseURL, config.Gateway.APIKey)

	deps.RunCheckout = application.NewRunCheckoutSaga(
		deps.SagaRepository,
		deps.Gateway,
		deps.Gateway,
		deps.Gateway,
	)
	deps.GetCheckout = application.NewGetCheckoutSaga(deps.SagaRepository)

	deps.CheckoutHandlers = handlers.NewCheckoutHandlers(deps.RunCheckout, deps.GetCheckout)

	return deps, nil
}

// Close releases held resources
func (d *Dependencies) Close() error {
	if d.telemetryShutdown != nil {
		d.telemetryShutdown()
	}
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
