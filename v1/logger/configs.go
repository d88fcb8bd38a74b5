package logger

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config defines the logger configuration.
type Config struct {
	// Level is one of debug, info, warning or error. Anything else means info.
	Level string `yaml:"level" env:"VECBRIDGE_LOG_LEVEL"`

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string `yaml:"service_name" env:"VECBRIDGE_SERVICE_NAME"`

	// EnableTracing adds trace_id/span_id to entries logged via the *WithContext methods.
	EnableTracing bool `yaml:"enable_tracing" env:"VECBRIDGE_LOG_TRACING"`
}
