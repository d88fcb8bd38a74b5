package tracer

// Config defines the tracer configuration.
type Config struct {
	// ServiceName is recorded as the service.name resource attribute.
	ServiceName string `yaml:"service_name" env:"VECBRIDGE_SERVICE_NAME"`

	// AppEnv is recorded as deployment.environment.
	AppEnv string `yaml:"app_env" env:"VECBRIDGE_APP_ENV"`

	// EnableExport turns on the OTLP/HTTP exporter. Without it spans are
	// created and propagated but never leave the process.
	EnableExport bool `yaml:"enable_export" env:"VECBRIDGE_TRACE_EXPORT"`

	// Endpoint is the collector URL, e.g. "http://localhost:4318".
	// Empty means the OTEL_EXPORTER_OTLP_* environment variables apply.
	Endpoint string `yaml:"endpoint" env:"VECBRIDGE_OTLP_ENDPOINT"`
}

// Logger is the subset of logger.Logger used by the tracer.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}
