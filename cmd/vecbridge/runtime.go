package vecbridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/Aleph-Alpha/vecbridge/v1/logger"
	"github.com/Aleph-Alpha/vecbridge/v1/metrics"
	"github.com/Aleph-Alpha/vecbridge/v1/observability"
	"github.com/Aleph-Alpha/vecbridge/v1/tracer"
)

const serviceName = "vecbridge"

func (o *options) loggerConfig() logger.Config {
	return logger.Config{
		Level:         o.v.GetString("log-level"),
		ServiceName:   serviceName,
		EnableTracing: true,
	}
}

func (o *options) tracerConfig() tracer.Config {
	return tracer.Config{
		ServiceName:  serviceName,
		AppEnv:       o.v.GetString("env"),
		EnableExport: o.v.GetBool("otlp"),
		Endpoint:     o.v.GetString("otlp-endpoint"),
	}
}

// metricsConfig reports false when no metrics address was requested.
func (o *options) metricsConfig() (metrics.Config, bool) {
	addr := o.v.GetString("metrics-addr")
	if addr == "" {
		return metrics.Config{}, false
	}
	cfg := metrics.DefaultConfig()
	cfg.Address = addr
	return cfg, true
}

// runtime holds the ambient services of commands that do not run an fx app.
type runtime struct {
	log      *logger.Logger
	tracer   *tracer.Tracer
	metrics  *metrics.Metrics
	observer observability.Observer
}

func (o *options) newRuntime() (*runtime, error) {
	log := logger.NewLoggerClient(o.loggerConfig())

	t, err := tracer.NewClient(o.tracerConfig(), log)
	if err != nil {
		return nil, err
	}

	rt := &runtime{log: log, tracer: t}
	if cfg, ok := o.metricsConfig(); ok {
		rt.metrics = metrics.NewMetrics(cfg)
		rt.observer = rt.metrics
		go func() {
			log.Info("Starting Prometheus metrics server", nil, map[string]interface{}{"address": cfg.Address})
			if err := rt.metrics.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Error starting Prometheus metrics server", err, nil)
			}
		}()
	}
	return rt, nil
}

func (rt *runtime) close(ctx context.Context) {
	if rt.metrics != nil {
		_ = rt.metrics.Server.Shutdown(ctx)
	}
	if err := rt.tracer.Shutdown(ctx); err != nil {
		rt.log.Warn("tracer shutdown failed", err, nil)
	}
	_ = rt.log.Zap.Sync()
}
