package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParse_JSONAndYAMLAgree(t *testing.T) {
	jsonDoc := `{
	"data_period": {"hours_to_show": 4},
	"wind_direction_entity": {"entity": "sensor.wind_direction"},
	"windspeed_entities": [{"entity": "sensor.wind_speed"}]
}`

	fromJSON := mustWrap(t, mustParse(t, jsonDoc)).Snapshot()
	fromYAML := mustWrap(t, mustParse(t, baseConfig)).Snapshot()

	if fromJSON.FilterEntitiesQueryParameter != fromYAML.FilterEntitiesQueryParameter {
		t.Errorf("query parameter differs: %q vs %q",
			fromJSON.FilterEntitiesQueryParameter, fromYAML.FilterEntitiesQueryParameter)
	}
	if *fromJSON.DataPeriod.HoursToShow != *fromYAML.DataPeriod.HoursToShow {
		t.Error("hours to show differs between JSON and YAML input")
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("windspeed_entities: [unclosed"))
	if err == nil {
		t.Fatal("expected decode error")
	}
	if IsValidationError(err) {
		t.Errorf("decode failure should not be a validation error: %v", err)
	}
}

func TestParse_NonScalarNumber(t *testing.T) {
	raw := mustParse(t, baseConfig+"refresh_interval: [1, 2]\n")
	if !raw.RefreshInterval.Present() {
		t.Fatal("expected sequence value to count as present")
	}
	if _, err := NewCardConfigWrapper(raw); !errors.Is(err, ErrNotANumber) {
		t.Errorf("expected not a number error, got %v", err)
	}
}

func TestFromMap(t *testing.T) {
	raw, err := FromMap(map[string]any{
		"data_period":           map[string]any{"from_hour_of_day": 6},
		"wind_direction_entity": map[string]any{"entity": "sensor.dir"},
		"windspeed_entities":    []any{map[string]any{"entity": "sensor.speed", "speed_unit": "km/h"}},
		"wind_direction_count":  "8",
	})
	if err != nil {
		t.Fatalf("failed to convert map: %v", err)
	}

	w := mustWrap(t, raw)
	if w.WindDirectionCount() != 8 {
		t.Errorf("direction count = %d, want 8", w.WindDirectionCount())
	}
	if got := w.WindspeedEntities()[0].InputSpeedUnit; got != SpeedUnitKPH {
		t.Errorf("input unit = %s, want kph", got)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "card.yaml")
	if err := os.WriteFile(path, []byte(baseConfig), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	raw, err := LoadFile(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	mustWrap(t, raw)

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not exist error, got %v", err)
	}
}

func TestParseMap(t *testing.T) {
	m, err := ParseMap([]byte(`{"title": "Wind", "wind_direction_count": 8}`))
	if err != nil {
		t.Fatalf("failed to parse map: %v", err)
	}
	if m["title"] != "Wind" {
		t.Errorf("title = %v", m["title"])
	}
	if _, ok := m["wind_direction_count"]; !ok {
		t.Error("expected wind_direction_count key")
	}
}
