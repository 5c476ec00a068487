package validation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/fishter/lovelace-windrose-card/pkg/config"
	"github.com/fishter/lovelace-windrose-card/pkg/policy"
	"github.com/fishter/lovelace-windrose-card/pkg/telemetry"
)

var (
	// ErrMalformed marks input that could not be decoded as YAML or JSON.
	ErrMalformed = errors.New("malformed card config")

	// ErrSchemaViolation marks input rejected by the strict CUE schema.
	ErrSchemaViolation = errors.New("card config violates schema")

	// ErrPolicyViolation marks a config blocked by an error severity policy.
	ErrPolicyViolation = errors.New("card config violates policy")
)

// Error kind labels for failures outside the config package taxonomy.
const (
	KindMalformed       = "Malformed"
	KindSchemaViolation = "SchemaViolation"
	KindPolicyViolation = "PolicyViolation"
	KindInternal        = "Internal"
)

// PolicyError carries the error severity violations that blocked a config.
// It matches ErrPolicyViolation with errors.Is.
type PolicyError struct {
	Violations []policy.Violation
}

func (e *PolicyError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = fmt.Sprintf("%s: %s", v.Policy, v.Message)
	}
	return fmt.Sprintf("%v: %s", ErrPolicyViolation, strings.Join(msgs, "; "))
}

// Is reports whether target is ErrPolicyViolation.
func (e *PolicyError) Is(target error) bool {
	return target == ErrPolicyViolation
}

// Result is the outcome of one successful validation run.
type Result struct {
	RunID    string                    `json:"run_id"`
	Source   string                    `json:"source"`
	Duration time.Duration             `json:"duration"`
	Card     *config.CardConfigWrapper `json:"-"`
	Snapshot config.Snapshot           `json:"config"`

	// Violations lists the non-blocking policy findings.
	Violations []policy.Violation `json:"violations,omitempty"`
}

// Service runs instrumented validations of card configs.
type Service struct {
	tel      *telemetry.Telemetry
	logger   *telemetry.Logger
	defaults config.Defaults
	strict   bool
	schemas  *config.SchemaRegistry
	schema   string
	policies *policy.Engine

	customSchema *namedSchema
}

type namedSchema struct {
	name   string
	source string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithDefaults replaces the stock card defaults.
func WithDefaults(d config.Defaults) ServiceOption {
	return func(s *Service) { s.defaults = d }
}

// WithStrict enables the CUE schema check before the builders run.
func WithStrict(strict bool) ServiceOption {
	return func(s *Service) { s.strict = strict }
}

// WithSchema registers a custom CUE schema and uses it for strict checks.
// It implies WithStrict(true).
func WithSchema(name, source string) ServiceOption {
	return func(s *Service) {
		s.customSchema = &namedSchema{name: name, source: source}
		s.strict = true
	}
}

// WithPolicies evaluates the engine's lint policies after every successful
// validation. Error severity violations reject the config.
func WithPolicies(engine *policy.Engine) ServiceOption {
	return func(s *Service) { s.policies = engine }
}

// NewService creates a validation service. A nil tel disables all telemetry.
func NewService(tel *telemetry.Telemetry, opts ...ServiceOption) (*Service, error) {
	if tel == nil {
		tel = telemetry.NewNopTelemetry()
	}
	s := &Service{
		tel:      tel,
		logger:   tel.Logger.NewComponentLogger("validation"),
		defaults: config.DefaultDefaults(),
		schema:   config.BuiltinSchema,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.strict {
		s.schemas = config.NewSchemaRegistry()
		if cs := s.customSchema; cs != nil {
			if err := s.schemas.RegisterSchema(cs.name, cs.source); err != nil {
				return nil, err
			}
			s.schema = cs.name
		}
	}
	return s, nil
}

// Validate decodes and validates one card config. Every call is a separate
// run with its own id, span, metrics and events.
func (s *Service) Validate(ctx context.Context, source string, data []byte) (*Result, error) {
	runID := uuid.New().String()
	timer := telemetry.NewTimer()

	ctx, span := s.tel.Tracer.StartValidationSpan(ctx, runID, source)
	defer span.End()
	span.SetAttributes(telemetry.AttrConfigStrict.Bool(s.strict))

	logger := s.logger.WithRunID(runID).WithSource(source)
	run := &run{s: s, span: span, logger: logger, runID: runID, source: source, timer: timer}

	var doc map[string]any
	if s.strict || s.policies != nil {
		m, err := config.ParseMap(data)
		if err != nil {
			return nil, run.fail(fmt.Errorf("%w: %v", ErrMalformed, err))
		}
		doc = m
	}

	if s.strict {
		if err := s.checkSchema(ctx, doc); err != nil {
			return nil, run.fail(err)
		}
	}

	raw, err := config.Parse(data)
	if err != nil {
		return nil, run.fail(fmt.Errorf("%w: %v", ErrMalformed, err))
	}

	card, err := config.NewCardConfigWrapper(raw,
		config.WithDefaults(s.defaults),
		config.WithLogger(logger.Zerolog()),
	)
	if err != nil {
		return nil, run.fail(err)
	}

	var violations []policy.Violation
	if s.policies != nil {
		violations, err = run.checkPolicies(ctx, doc, card)
		if err != nil {
			return nil, run.fail(err)
		}
	}
	return run.succeed(card, violations), nil
}

// ValidateFile reads and validates a card config file.
func (s *Service) ValidateFile(ctx context.Context, path string) (*Result, error) {
	op := telemetry.StartOperation(s.tel.WithContext(ctx), "config.load",
		telemetry.AttrConfigSource.String(path))

	data, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("failed to read card config %s: %w", path, err)
		op.Logger.WithError(err).Error("card config unreadable")
		op.End(err)
		return nil, err
	}

	result, err := s.Validate(op.Ctx, path, data)
	op.End(err)
	return result, err
}

func (s *Service) checkSchema(ctx context.Context, m map[string]any) error {
	ctx, span := s.tel.Tracer.StartSpan(ctx, telemetry.SpanSchema)
	defer span.End()

	if err := s.schemas.ValidateAgainstSchema(ctx, s.schema, m); err != nil {
		err = fmt.Errorf("%w: %v", ErrSchemaViolation, err)
		telemetry.RecordError(span, err)
		return err
	}
	telemetry.RecordSuccess(span)
	return nil
}

// run carries the per-run instrumentation.
type run struct {
	s      *Service
	span   trace.Span
	logger *telemetry.Logger
	runID  string
	source string
	timer  *telemetry.Timer
}

// checkPolicies evaluates the lint policies and records every violation.
// Violations below error severity are returned; any error severity
// violation rejects the config with a *PolicyError.
func (r *run) checkPolicies(ctx context.Context, doc map[string]any, card *config.CardConfigWrapper) ([]policy.Violation, error) {
	ctx, span := r.s.tel.Tracer.StartSpan(ctx, telemetry.SpanPolicy)
	defer span.End()

	snap := card.Snapshot()
	res, err := r.s.policies.Evaluate(ctx, &policy.Input{
		Config:   doc,
		Resolved: &snap,
		Context:  &policy.Context{Source: r.source, RunID: r.runID},
	})
	if err != nil {
		err = fmt.Errorf("policy evaluation: %w", err)
		telemetry.RecordError(span, err)
		return nil, err
	}

	tel := r.s.tel
	for _, f := range res.Failures {
		r.logger.Warn(f)
	}
	for _, v := range res.Violations {
		tel.Metrics.RecordPolicyViolation(v.Policy, string(v.Severity))
		_ = tel.Events.PublishPolicyViolation(r.runID, r.source, v.Policy, string(v.Severity), v.Field, v.Message)
		r.logger.WithFields(map[string]any{
			"policy":   v.Policy,
			"severity": string(v.Severity),
			"field":    v.Field,
		}).Info(v.Message)
	}
	span.SetAttributes(
		telemetry.AttrPolicyCount.Int(len(res.EvaluatedPolicies)),
		telemetry.AttrViolations.Int(len(res.Violations)),
	)

	if !res.Allowed {
		err := &PolicyError{Violations: res.Errors()}
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.RecordSuccess(span)

	var findings []policy.Violation
	for _, v := range res.Violations {
		if v.Severity != policy.SeverityError {
			findings = append(findings, v)
		}
	}
	return findings, nil
}

func (r *run) fail(err error) error {
	result, kind, field := telemetry.ResultRejected, KindInternal, ""
	var verr *config.ValidationError
	var perr *PolicyError
	switch {
	case errors.As(err, &verr):
		kind, field = string(verr.Kind), verr.Field
	case errors.As(err, &perr):
		kind = KindPolicyViolation
		if len(perr.Violations) > 0 {
			field = perr.Violations[0].Field
		}
	case errors.Is(err, ErrSchemaViolation):
		kind = KindSchemaViolation
	case errors.Is(err, ErrMalformed):
		result, kind = telemetry.ResultMalformed, KindMalformed
	}

	tel := r.s.tel
	tel.Metrics.RecordValidation(result, r.timer.Duration())
	tel.Metrics.RecordValidationError(kind)
	_ = tel.Events.PublishConfigRejected(r.runID, r.source, kind, field, err.Error())

	r.span.SetAttributes(
		telemetry.AttrResult.String(result),
		telemetry.AttrErrorKind.String(kind),
	)
	if field != "" {
		r.span.SetAttributes(telemetry.AttrConfigField.String(field))
	}
	telemetry.RecordError(r.span, err)

	r.logger.WithError(err).WithFields(map[string]any{"kind": kind, "field": field}).
		Error("card config rejected")
	return err
}

func (r *run) succeed(card *config.CardConfigWrapper, violations []policy.Violation) *Result {
	tel := r.s.tel
	duration := r.timer.Duration()
	deprecations := card.Deprecations()

	for _, d := range deprecations {
		tel.Metrics.RecordDeprecation(d.Field)
		_ = tel.Events.PublishConfigDeprecated(r.runID, r.source, d.Field, d.Message)
		telemetry.AddDeprecationEvent(r.span, d.Field, d.Message)
	}

	rawEntities := card.CreateRawEntitiesArray()
	statsEntities := card.CreateStatisticsEntitiesArray()
	tel.Metrics.RecordValidation(telemetry.ResultValid, duration)
	tel.Metrics.SetConfiguredEntities(len(rawEntities), len(statsEntities))
	_ = tel.Events.PublishConfigValidated(r.runID, r.source, duration, map[string]any{
		"windspeed_entities": len(card.WindspeedEntities()),
		"deprecations":       len(deprecations),
		"policy_findings":    len(violations),
	})

	r.span.SetAttributes(
		telemetry.AttrResult.String(telemetry.ResultValid),
		telemetry.AttrSpeedEntities.Int(len(card.WindspeedEntities())),
		telemetry.AttrDeprecations.Int(len(deprecations)),
		telemetry.AttrDirectionCount.Int(card.WindDirectionCount()),
	)
	telemetry.RecordSuccess(r.span)

	r.logger.WithFields(map[string]any{
		"entities":     card.FilterEntitiesQueryParameter(),
		"deprecations": len(deprecations),
	}).Info("card config valid")

	return &Result{
		RunID:      r.runID,
		Source:     r.source,
		Duration:   duration,
		Card:       card,
		Snapshot:   card.Snapshot(),
		Violations: violations,
	}
}
