package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	ServiceName string    `mapstructure:"service_name"`
	Env         string    `mapstructure:"env"`
	Port        string    `mapstructure:"port"`
	Redis       Redis     `mapstructure:"redis"`
	Gateway     Gateway   `mapstructure:"gateway"`
	AWS         AWS       `mapstructure:"aws"`
	Workers     Workers   `mapstructure:"workers"`
	Telemetry   Telemetry `mapstructure:"telemetry"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Gateway struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

type AWS struct {
	Region      string `mapstructure:"region"`
	EndpointSNS string `mapstructure:"endpoint_sns"`
	SNSTopicArn string `mapstructure:"sns_topic_arn"`
}

type Workers struct {
	// Roles selects which worker loops this process runs, comma separated:
	// stock-reservation, order-creation, stock-compensation, notification,
	// audit, cqrs-projection.
	Roles string `mapstructure:"roles"`
}

type Telemetry struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

func ReadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvPrefix("CHECKOUT")

	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "checkout-service")
	v.SetDefault("env", getEnv("ENV", "local"))
	v.SetDefault("port", getEnv("PORT", "8081"))

	v.SetDefault("redis.addr", getEnv("REDIS_ADDR", "localhost:6379"))
	v.SetDefault("redis.password", getEnv("REDIS_PASSWORD", ""))
	v.SetDefault("redis.db", 0)

	v.SetDefault("gateway.base_url", getEnv("GATEWAY_BASE_URL", "http://localhost:8000"))
	v.SetDefault("gateway.api_key", getEnv("GATEWAY_API_KEY", "local-dev-key"))

	v.SetDefault("aws.region", getEnv("AWS_DEFAULT_REGION", "us-east-1"))
	v.SetDefault("aws.endpoint_sns", getEnv("AWS_ENDPOINT_URL_SNS", "http://localhost:4566"))
	v.SetDefault("aws.sns_topic_arn", getEnv("SNS_TOPIC_ARN", "arn:aws:sns:us-east-1:000000000000:checkout-events"))

	v.SetDefault("workers.roles", getEnv("WORKER_ROLES",
		"stock-reservation,order-creation,stock-compensation,notification,audit,cqrs-projection"))

	v.SetDefault("telemetry.otlp_endpoint", getEnv("OTLP_ENDPOINT", "localhost:4318"))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// RoleNames returns the configured worker roles, trimmed
func (c *Config) RoleNames() []string {
	parts := strings.Split(c.Workers.Roles, ",")
	roles := make([]string, 0, len(parts))
	for _, part := range parts {
		if role := strings.TrimSpace(part); role != "" {
			roles = append(roles, role)
		}
	}
	return roles
}
