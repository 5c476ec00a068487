package config

// Snapshot is a serializable copy of a validated configuration.
type Snapshot struct {
	Title                   string                 `json:"title,omitempty"`
	DataPeriod              DataPeriod             `json:"data_period"`
	RefreshInterval         float64                `json:"refresh_interval"`
	MaxWidth                float64                `json:"max_width,omitempty"`
	WindDirectionEntity     WindDirectionEntity    `json:"wind_direction_entity"`
	WindspeedEntities       []WindSpeedEntity      `json:"windspeed_entities"`
	WindspeedBarLocation    string                 `json:"windspeed_bar_location"`
	HideWindspeedBar        bool                   `json:"hide_windspeed_bar"`
	CenterCalmPercentage    bool                   `json:"center_calm_percentage"`
	DirectionLabels         DirectionLabels        `json:"direction_labels"`
	WindDirectionCount      int                    `json:"wind_direction_count"`
	WindRoseDrawNorthOffset float64                `json:"windrose_draw_north_offset"`
	CurrentDirection        CurrentDirectionConfig `json:"current_direction"`
	MatchingStrategy        string                 `json:"matching_strategy"`
	DirectionSpeedTimeDiff  float64                `json:"direction_speed_time_diff"`
	Colors                  CardColors             `json:"colors"`
	CompassDirection        CompassConfig          `json:"compass_direction"`
	CornerInfo              CornersInfo            `json:"corner_info"`
	BackgroundImage         string                 `json:"background_image,omitempty"`
	LogLevel                LogLevel               `json:"log_level"`
	Actions                 map[string]any         `json:"actions,omitempty"`

	WindBarCount                 int           `json:"wind_bar_count"`
	RawEntities                  []string      `json:"raw_entities"`
	StatisticsEntities           []string      `json:"statistics_entities"`
	AttributesConfigured         bool          `json:"attributes_configured"`
	FilterEntitiesQueryParameter string        `json:"filter_entities_query_parameter"`
	Deprecations                 []Deprecation `json:"deprecations,omitempty"`
}

// Snapshot returns the resolved model together with its derived values.
func (w *CardConfigWrapper) Snapshot() Snapshot {
	return Snapshot{
		Title:                        w.Title(),
		DataPeriod:                   w.DataPeriod(),
		RefreshInterval:              w.RefreshInterval(),
		MaxWidth:                     w.MaxWidth(),
		WindDirectionEntity:          w.WindDirectionEntity(),
		WindspeedEntities:            w.WindspeedEntities(),
		WindspeedBarLocation:         w.WindspeedBarLocation(),
		HideWindspeedBar:             w.HideWindspeedBar(),
		CenterCalmPercentage:         w.CenterCalmPercentage(),
		DirectionLabels:              w.DirectionLabels(),
		WindDirectionCount:           w.WindDirectionCount(),
		WindRoseDrawNorthOffset:      w.WindRoseDrawNorthOffset(),
		CurrentDirection:             w.CurrentDirection(),
		MatchingStrategy:             w.MatchingStrategy(),
		DirectionSpeedTimeDiff:       w.DirectionSpeedTimeDiff(),
		Colors:                       w.CardColors(),
		CompassDirection:             w.CompassConfig(),
		CornerInfo:                   w.CornersInfo(),
		BackgroundImage:              w.BackgroundImage(),
		LogLevel:                     w.LogLevel(),
		Actions:                      w.Actions(),
		WindBarCount:                 w.WindBarCount(),
		RawEntities:                  w.CreateRawEntitiesArray(),
		StatisticsEntities:           w.CreateStatisticsEntitiesArray(),
		AttributesConfigured:         w.AttributesConfigured(),
		FilterEntitiesQueryParameter: w.FilterEntitiesQueryParameter(),
		Deprecations:                 w.Deprecations(),
	}
}
