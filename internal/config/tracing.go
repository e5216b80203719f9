package config

// TracingConfig holds OTLP trace export configuration.
//
// When enabled, spans are exported over OTLP/HTTP to the configured
// collector endpoint. See internal/observability for the exporter setup.
type TracingConfig struct {
	// Enabled turns span export on. Off by default.
	Enabled bool `mapstructure:"enabled"`
	// Endpoint is the OTLP/HTTP collector endpoint (default: localhost:4318)
	Endpoint string `mapstructure:"endpoint"`
	// ServiceName is the service name attached to exported spans (default: bridgechat)
	ServiceName string `mapstructure:"service_name"`
	// Environment is the deployment environment tag (default: dev)
	Environment string `mapstructure:"environment"`
}
