// Package validation runs card config validations with telemetry attached.
//
// A Service wraps the config package: every Validate call gets a run id, a
// "config.validate" span, Prometheus metrics, events and structured logs.
// A Watcher re-runs the service whenever a config file changes.
//
//	svc, err := validation.NewService(tel, validation.WithStrict(true))
//	if err != nil {
//	    return err
//	}
//	result, err := svc.ValidateFile(ctx, "card.yaml")
package validation
