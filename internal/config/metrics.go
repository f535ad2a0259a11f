package config

// MetricsConfig controls the Prometheus scrape endpoint.
type MetricsConfig struct {
	Enabled bool   `default:"true"`
	Port    string `default:"9090"`
}

// OtelConfig controls OpenTelemetry export settings.
type OtelConfig struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"scoreboard-overlay"`
	Endpoint    string `envconfig:"EXPORTER_OTLP_ENDPOINT"`
	Insecure    bool   `envconfig:"EXPORTER_OTLP_INSECURE" default:"true"`
}
