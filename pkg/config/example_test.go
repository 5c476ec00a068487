package config_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fishter/lovelace-windrose-card/pkg/config"
)

func ExampleNewCardConfigWrapper() {
	raw, err := config.Parse([]byte(`
data_period:
  hours_to_show: 4
wind_direction_entity:
  entity: sensor.wind_direction
output_speed_unit: km/h
windspeed_entities:
  - entity: sensor.wind_speed
    name: Average
  - entity: sensor.wind_gust
    name: Gust
    use_statistics: true
`))
	if err != nil {
		fmt.Println(err)
		return
	}

	card, err := config.NewCardConfigWrapper(raw)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(card.FilterEntitiesQueryParameter())
	fmt.Println(card.CreateRawEntitiesArray())
	fmt.Println(card.CreateStatisticsEntitiesArray())
	fmt.Println(card.WindspeedEntities()[1].OutputSpeedUnitLabel)
	// Output:
	// sensor.wind_direction,sensor.wind_speed,sensor.wind_gust
	// [sensor.wind_direction sensor.wind_speed]
	// [sensor.wind_gust]
	// km/h
}

func ExampleValidationError() {
	raw, _ := config.Parse([]byte(`
data_period: {hours_to_show: 4}
wind_direction_entity: {entity: sensor.wind_direction}
windspeed_entities: [{entity: sensor.wind_speed}]
windspeed_bar_location: left
`))

	_, err := config.NewCardConfigWrapper(raw)
	fmt.Println(errors.Is(err, config.ErrInvalidEnum))
	fmt.Println(err)
	// Output:
	// true
	// WindRoseCard: Invalid windspeed bar location left. Valid options: bottom, right (field=windspeed_bar_location)
}

func TestExampleConfig(t *testing.T) {
	d := config.DefaultDefaults()

	raw, err := config.FromMap(config.ExampleConfig(d))
	if err != nil {
		t.Fatalf("failed to convert example config: %v", err)
	}
	if _, err := config.NewCardConfigWrapper(raw); !errors.Is(err, config.ErrMissingRequired) {
		t.Fatalf("expected example without entity ids to be rejected, got %v", err)
	}

	example := config.ExampleConfig(d)
	example["wind_direction_entity"].(map[string]any)["entity"] = "sensor.wind_direction"
	example["windspeed_entities"].([]any)[0].(map[string]any)["entity"] = "sensor.wind_speed"

	raw, err = config.FromMap(example)
	if err != nil {
		t.Fatalf("failed to convert example config: %v", err)
	}
	card, err := config.NewCardConfigWrapper(raw)
	if err != nil {
		t.Fatalf("filled example config rejected: %v", err)
	}
	if card.WindDirectionCount() != d.WindDirectionCount || card.RefreshInterval() != d.RefreshInterval {
		t.Errorf("example config does not match defaults: %+v", card.Snapshot())
	}

	data, err := config.ParseMap([]byte(`{"windspeed_entities": [{"entity": "sensor.wind_speed"}]}`))
	if err != nil {
		t.Fatalf("failed to parse map: %v", err)
	}
	if err := config.NewSchemaRegistry().ValidateAgainstSchema(t.Context(), config.BuiltinSchema, data); err != nil {
		t.Errorf("schema rejected minimal map: %v", err)
	}
}
