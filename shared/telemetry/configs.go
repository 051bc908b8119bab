package telemetry

// Predefined service configurations
var (
	// OrchestratorServiceConfig is the telemetry configuration for the saga orchestrator
	OrchestratorServiceConfig = Config{
		ServiceName:    "orchestrator-service",
		ServiceVersion: "1.0.0",
	}

	// CheckoutServiceConfig is the telemetry configuration for the choreographed checkout entry
	CheckoutServiceConfig = Config{
		ServiceName:    "checkout-service",
		ServiceVersion: "1.0.0",
	}

	// EventStoreServiceConfig is the telemetry configuration for the event store read API
	EventStoreServiceConfig = Config{
		ServiceName:    "eventstore-service",
		ServiceVersion: "1.0.0",
	}

	// WorkerConfig is the telemetry configuration for choreography workers
	WorkerConfig = Config{
		ServiceName:    "checkout-worker",
		ServiceVersion: "1.0.0",
	}
)

// WithOTLPEndpoint sets the OTLP endpoint for a config
func (c Config) WithOTLPEndpoint(endpoint string) Config {
	c.OTLPEndpoint = endpoint
	return c
}
