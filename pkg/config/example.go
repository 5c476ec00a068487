package config

// ExampleConfig returns a canonical raw configuration with every optional
// section populated at its default, for use by a config editor. The result
// is descriptive only and is not validated.
func ExampleConfig(d Defaults) map[string]any {
	return map[string]any{
		"title": "Wind direction",
		"data_period": map[string]any{
			"hours_to_show": d.HoursToShow,
		},
		"refresh_interval":       d.RefreshInterval,
		"windspeed_bar_location": d.WindspeedBarLocation,
		"wind_direction_entity": map[string]any{
			"entity":                 "",
			"use_statistics":         false,
			"direction_compensation": 0,
		},
		"windspeed_entities": []any{
			map[string]any{
				"entity":               "",
				"name":                 "",
				"speed_unit":           string(d.InputSpeedUnit),
				"use_statistics":       false,
				"windspeed_bar_full":   d.WindspeedBarFull,
				"output_speed_unit":    string(d.OutputSpeedUnit),
				"speed_range_beaufort": d.SpeedRangeBeaufort,
			},
		},
		"direction_labels": map[string]any{
			"cardinal_direction_letters": d.CardinalLetters,
		},
		"windrose_draw_north_offset": 0,
		"current_direction": map[string]any{
			"show_arrow":         false,
			"arrow_size":         d.ArrowSize,
			"center_circle_size": d.CenterCircleSize,
		},
		"compass_direction": map[string]any{
			"auto_rotate": false,
			"entity":      "",
		},
		"wind_direction_count":   d.WindDirectionCount,
		"matching_strategy":      d.MatchingStrategy,
		"center_calm_percentage": d.CenterCalmPercentage,
		"log_level":              string(d.LogLevel),
	}
}
