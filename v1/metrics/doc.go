// Package metrics exposes vecbridge operation metrics to Prometheus.
//
// *Metrics implements observability.Observer. Hand it to an adapter or to the
// retry HTTP client and every reported operation is counted and timed:
//
//	vecbridge_operations_total{component,operation,status,service}
//	vecbridge_operation_duration_seconds{component,operation,service}
//	vecbridge_operation_size{component,operation,service}
//
// The registry is private to the Metrics instance and is served on /metrics
// by Server. Go runtime, process and build-info collectors are added when
// EnableDefaultCollectors is set.
//
// # Direct Usage (Without FX)
//
//	m := metrics.NewMetrics(metrics.DefaultConfig())
//	go m.Server.ListenAndServe()
//	defer m.Server.Shutdown(context.Background())
//
//	adapter := redis.NewAdapter(client, engine, log).WithObserver(m)
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		metrics.FXModule,
//		fx.Provide(metrics.DefaultConfig),
//		qdrant.FXModule,
//	)
//
// FXModule provides observability.Observer, so adapter modules that declare
// an optional Observer pick it up without further wiring.
//
// Custom metrics can be registered on the same registry through
// CreateCounter, CreateHistogram and CreateGauge.
package metrics
