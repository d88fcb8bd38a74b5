// Package logger provides structured logging for vecbridge components.
//
// It wraps Uber's zap with a fixed production profile (JSON encoding,
// ISO8601 timestamps, capitalised levels, pid and service fields) and a small
// call signature shared by every package in this module:
//
//	log.Info(msg string, err error, fields ...map[string]interface{})
//
// Packages never import zap directly; they declare a narrow Logger interface
// with the methods they need and accept any implementation, usually *Logger.
//
// # Direct Usage
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:       logger.Info,
//		ServiceName: "vecbridge",
//	})
//	defer log.Zap.Sync()
//
//	log.Info("collection created", nil, map[string]interface{}{
//		"collection": "documents_text",
//	})
//
// # Trace Correlation
//
// When EnableTracing is set, the *WithContext variants add the active
// OpenTelemetry trace_id and span_id to every entry:
//
//	log.WarnWithContext(ctx, "retrying request", err, map[string]interface{}{"attempt": 2})
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		fx.Provide(func() logger.Config {
//			return logger.Config{Level: logger.Debug, ServiceName: "vecbridge"}
//		}),
//	)
package logger
