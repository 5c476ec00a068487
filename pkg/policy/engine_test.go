package policy

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fishter/lovelace-windrose-card/pkg/config"
)

const baseCard = `
data_period:
  hours_to_show: 4
wind_direction_entity:
  entity: sensor.wind_direction
windspeed_entities:
  - entity: sensor.wind_speed
`

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := NewEngine(zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return eng
}

// cardInput validates a card config and builds the policy input for it.
func cardInput(t *testing.T, yaml string) *Input {
	t.Helper()

	raw, err := config.Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Failed to parse card: %v", err)
	}
	card, err := config.NewCardConfigWrapper(raw)
	if err != nil {
		t.Fatalf("Card config invalid: %v", err)
	}
	m, err := config.ParseMap([]byte(yaml))
	if err != nil {
		t.Fatalf("Failed to parse card map: %v", err)
	}

	snap := card.Snapshot()
	return &Input{Config: m, Resolved: &snap, Context: &Context{Source: "card.yaml"}}
}

func TestNewEngine(t *testing.T) {
	eng := newTestEngine(t)

	var names []string
	for _, p := range eng.ListPolicies() {
		if !p.Builtin {
			t.Errorf("policy %s should be built in", p.Name)
		}
		names = append(names, p.Name)
	}

	want := []string{"deprecated-keys", "duplicate-speed-entities", "long-period-statistics", "refresh-interval"}
	if len(names) != len(want) {
		t.Fatalf("Expected policies %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("policy[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestEvaluate_BuiltinPolicies(t *testing.T) {
	eng := newTestEngine(t)

	tests := []struct {
		name       string
		card       string
		wantPolicy string
		wantField  string
		wantSev    Severity
	}{
		{
			name: "clean card",
			card: baseCard,
		},
		{
			name:       "fast refresh",
			card:       baseCard + "refresh_interval: 10\n",
			wantPolicy: "refresh-interval",
			wantField:  "refresh_interval",
			wantSev:    SeverityWarning,
		},
		{
			name: "long raw period",
			card: `
data_period: {hours_to_show: 72}
wind_direction_entity: {entity: sensor.wind_direction, use_statistics: true}
windspeed_entities:
  - entity: sensor.wind_speed
    use_statistics: true
  - entity: sensor.wind_gust
`,
			wantPolicy: "long-period-statistics",
			wantField:  "windspeed_entities[1].use_statistics",
			wantSev:    SeverityWarning,
		},
		{
			name: "long statistics period",
			card: `
data_period: {hours_to_show: 72}
wind_direction_entity: {entity: sensor.wind_direction, use_statistics: true}
windspeed_entities: [{entity: sensor.wind_speed, use_statistics: true}]
`,
		},
		{
			name: "duplicate speed entity",
			card: `
data_period: {hours_to_show: 4}
wind_direction_entity: {entity: sensor.wind_direction}
windspeed_entities:
  - entity: sensor.wind_speed
  - entity: sensor.wind_speed
    name: Again
`,
			wantPolicy: "duplicate-speed-entities",
			wantField:  "windspeed_entities[1].entity",
			wantSev:    SeverityWarning,
		},
		{
			name: "same entity other attribute",
			card: `
data_period: {hours_to_show: 4}
wind_direction_entity: {entity: sensor.wind_direction}
windspeed_entities:
  - entity: weather.home
    attribute: wind_speed
  - entity: weather.home
    attribute: wind_gust_speed
`,
		},
		{
			name: "deprecated key",
			card: `
hours_to_show: 4
wind_direction_entity: {entity: sensor.wind_direction}
windspeed_entities: [{entity: sensor.wind_speed}]
`,
			wantPolicy: "deprecated-keys",
			wantField:  "hours_to_show",
			wantSev:    SeverityInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := eng.Evaluate(context.Background(), cardInput(t, tt.card))
			if err != nil {
				t.Fatalf("Evaluation failed: %v", err)
			}
			if len(result.Failures) > 0 {
				t.Fatalf("Policy failures: %v", result.Failures)
			}
			if !result.Allowed {
				t.Errorf("built-in policies should never block: %+v", result.Violations)
			}

			if tt.wantPolicy == "" {
				if len(result.Violations) != 0 {
					t.Errorf("Expected no violations, got %+v", result.Violations)
				}
				return
			}

			if len(result.Violations) != 1 {
				t.Fatalf("Expected 1 violation, got %+v", result.Violations)
			}
			v := result.Violations[0]
			if v.Policy != tt.wantPolicy || v.Field != tt.wantField || v.Severity != tt.wantSev {
				t.Errorf("violation = %+v, want policy=%s field=%s severity=%s",
					v, tt.wantPolicy, tt.wantField, tt.wantSev)
			}
			if v.Message == "" {
				t.Error("violation has no message")
			}
		})
	}
}

func TestEvaluate_CustomErrorPolicy(t *testing.T) {
	eng := newTestEngine(t)

	err := eng.ReplacePolicies(context.Background(), []Policy{{
		Name:     "require-title",
		Severity: SeverityError,
		Enabled:  true,
		Rego: `package house.rules

import rego.v1

deny contains "every card needs a title" if {
	not input.resolved.title
}`,
	}})
	if err != nil {
		t.Fatalf("Failed to add policy: %v", err)
	}

	result, err := eng.Evaluate(context.Background(), cardInput(t, baseCard))
	if err != nil {
		t.Fatalf("Evaluation failed: %v", err)
	}
	if result.Allowed {
		t.Error("Expected card without title to be blocked")
	}
	errs := result.Errors()
	if len(errs) != 1 || errs[0].Policy != "require-title" || errs[0].Message != "every card needs a title" {
		t.Errorf("errors = %+v", errs)
	}

	result, err = eng.Evaluate(context.Background(), cardInput(t, baseCard+"title: Garden\n"))
	if err != nil {
		t.Fatalf("Evaluation failed: %v", err)
	}
	if !result.Allowed {
		t.Errorf("Expected titled card to pass: %+v", result.Violations)
	}
}

func TestReplacePolicies(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	custom := Policy{
		Name:     "custom",
		Severity: SeverityWarning,
		Enabled:  true,
		Rego:     "package custom\n\nimport rego.v1\n\ndeny contains \"always\" if { true }",
	}
	if err := eng.ReplacePolicies(ctx, []Policy{custom}); err != nil {
		t.Fatalf("ReplacePolicies failed: %v", err)
	}
	if _, err := eng.GetPolicy("custom"); err != nil {
		t.Fatalf("custom policy missing: %v", err)
	}

	broken := Policy{Name: "broken", Severity: SeverityWarning, Enabled: true, Rego: "package broken\ndeny contains"}
	if err := eng.ReplacePolicies(ctx, []Policy{broken}); err == nil {
		t.Fatal("Expected compile error")
	}
	if _, err := eng.GetPolicy("custom"); err != nil {
		t.Error("failed replace should keep the previous set")
	}

	if err := eng.ReplacePolicies(ctx, nil); err != nil {
		t.Fatalf("ReplacePolicies failed: %v", err)
	}
	if _, err := eng.GetPolicy("custom"); err == nil {
		t.Error("custom policy should be gone")
	}
	if _, err := eng.GetPolicy("refresh-interval"); err != nil {
		t.Error("built-in policies must survive a replace")
	}
}

func TestEnableDisablePolicy(t *testing.T) {
	eng := newTestEngine(t)
	input := cardInput(t, baseCard+"refresh_interval: 10\n")

	if err := eng.DisablePolicy("refresh-interval"); err != nil {
		t.Fatalf("Failed to disable policy: %v", err)
	}
	result, err := eng.Evaluate(context.Background(), input)
	if err != nil {
		t.Fatalf("Evaluation failed: %v", err)
	}
	if len(result.Violations) != 0 {
		t.Errorf("Disabled policy still reported: %+v", result.Violations)
	}
	for _, name := range result.EvaluatedPolicies {
		if name == "refresh-interval" {
			t.Error("Disabled policy was evaluated")
		}
	}

	if err := eng.EnablePolicy("refresh-interval"); err != nil {
		t.Fatalf("Failed to enable policy: %v", err)
	}
	result, _ = eng.Evaluate(context.Background(), input)
	if len(result.Violations) != 1 {
		t.Errorf("Expected 1 violation after enabling, got %+v", result.Violations)
	}

	if err := eng.EnablePolicy("missing"); err == nil {
		t.Error("Expected error for unknown policy")
	}
}

func TestReloadPolicies(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	_ = eng.ReplacePolicies(ctx, []Policy{{
		Name: "custom", Severity: SeverityInfo, Enabled: true,
		Rego: "package custom\n\nimport rego.v1\n\ndeny contains \"x\" if { false }",
	}})

	if err := eng.ReloadPolicies(ctx); err != nil {
		t.Fatalf("Failed to reload: %v", err)
	}
	if got := len(eng.ListPolicies()); got != len(GetBuiltinPolicies()) {
		t.Errorf("Expected only built-in policies after reload, got %d", got)
	}
}

func TestEvaluate_Canceled(t *testing.T) {
	eng := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := eng.Evaluate(ctx, cardInput(t, baseCard)); err == nil {
		t.Error("Expected error for canceled context")
	}
}
