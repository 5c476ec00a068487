package config

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

func TestSchemaRegistry_RegisterAndGet(t *testing.T) {
	sr := NewSchemaRegistry()

	customSchema := `
#WindRoseCard: {
	title: string
	...
}
`
	if err := sr.RegisterSchema("titled", customSchema); err != nil {
		t.Fatalf("failed to register schema: %v", err)
	}

	schema, ok := sr.GetSchema("titled")
	if !ok {
		t.Fatal("expected to find titled schema")
	}
	if schema.Err() != nil {
		t.Errorf("schema has errors: %v", schema.Err())
	}

	if got := sr.ListSchemas(); !reflect.DeepEqual(got, []string{"titled", BuiltinSchema}) {
		t.Errorf("schemas = %v", got)
	}

	if err := sr.RegisterSchema("broken", "#WindRoseCard: {"); err == nil {
		t.Error("expected compile error for broken schema")
	}
}

func TestSchemaRegistry_ValidateBuiltin(t *testing.T) {
	sr := NewSchemaRegistry()
	ctx := context.Background()

	tests := []struct {
		name    string
		extra   string
		wantErr string
	}{
		{name: "minimal config"},
		{name: "optional settings", extra: "title: Wind\nmatching_strategy: full-time\n"},
		{name: "direction count too high", extra: "wind_direction_count: 40\n", wantErr: "wind_direction_count"},
		{name: "unknown bar location", extra: "windspeed_bar_location: left\n", wantErr: "windspeed_bar_location"},
		{name: "negative deprecated hours", extra: "hours_to_show: -2\n", wantErr: "hours_to_show"},
		{name: "negative range", extra: "speed_ranges: [{from_value: -1, color: red}]\n", wantErr: "from_value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := baseConfig + tt.extra
			data, err := ParseMap([]byte(doc))
			if err != nil {
				t.Fatalf("failed to parse config: %v", err)
			}

			err = sr.ValidateAgainstSchema(ctx, BuiltinSchema, data)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected schema error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected schema error, got none")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %s", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSchemaRegistry_RequiresWindspeedEntities(t *testing.T) {
	sr := NewSchemaRegistry()
	data, err := ParseMap([]byte("wind_direction_entity: sensor.dir\n"))
	if err != nil {
		t.Fatalf("failed to parse config: %v", err)
	}
	if err := sr.ValidateAgainstSchema(context.Background(), BuiltinSchema, data); err == nil {
		t.Error("expected schema error for missing windspeed_entities")
	}
}

func TestSchemaRegistry_UnknownSchema(t *testing.T) {
	sr := NewSchemaRegistry()
	err := sr.ValidateAgainstSchema(context.Background(), "nope", map[string]any{})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestSchemaRegistry_CanceledContext(t *testing.T) {
	sr := NewSchemaRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sr.ValidateAgainstSchema(ctx, BuiltinSchema, map[string]any{}); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
