// Package telemetry provides the observability stack of the windrose tooling.
//
// It combines structured logging (zerolog), tracing (OpenTelemetry), metrics
// (Prometheus) and in-process events into one Telemetry value that the
// validation service and the CLI share.
//
// # Usage
//
//	cfg := telemetry.DefaultConfig()
//	cfg.ServiceVersion = version
//
//	tel, err := telemetry.NewTelemetry(cfg)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	ctx = tel.WithContext(ctx)
//
// # Structured Logging
//
//	logger := tel.Logger.NewComponentLogger("watcher")
//	logger.WithRunID(runID).WithSource(path).Info("config reloaded")
//
// Log levels: trace, debug, info, warn, error, none. The card configuration
// core accepts a plain zerolog.Logger, available through Logger.Zerolog.
//
// # Tracing
//
// Every validation run gets a "config.validate" span carrying the run id and
// the config source. Exporters: otlp (gRPC), stdout, none.
//
// # Metrics
//
//	windrose_validations_total{result}
//	windrose_validation_errors_total{kind}
//	windrose_validation_duration_seconds{result}
//	windrose_deprecations_total{field}
//	windrose_configured_entities{source}
//	windrose_last_valid_config_timestamp_seconds
//
// Metrics live in a private registry exposed through Metrics.Handler and
// Metrics.ServeMetrics.
//
// # Events
//
// The publisher emits config.validated, config.rejected and config.deprecated
// events. Delivery is synchronous unless EventsConfig.EnableAsync is set.
package telemetry
