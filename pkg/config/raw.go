package config

import (
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Number is a loosely typed numeric scalar as supplied by the host config
// editor. It remembers the raw text so that a present but non-numeric value
// can be reported instead of being silently dropped.
type Number struct {
	raw   string
	value float64
	valid bool
}

// NewNumber returns a present, valid Number.
func NewNumber(v float64) *Number {
	return &Number{raw: strconv.FormatFloat(v, 'f', -1, 64), value: v, valid: true}
}

// NumberText returns a Number holding raw text, parsed the same way YAML input is.
func NumberText(s string) *Number {
	n := &Number{}
	n.parse(s)
	return n
}

func (n *Number) parse(s string) {
	n.raw = s
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	n.valid = err == nil && !math.IsNaN(v) && !math.IsInf(v, 0)
	if n.valid {
		n.value = v
	}
}

// UnmarshalYAML implements yaml.Unmarshaler. Non-scalar nodes are kept as
// present, non-numeric values.
func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		n.raw = node.Tag
		n.valid = false
		return nil
	}
	n.parse(node.Value)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (n Number) MarshalYAML() (any, error) {
	if n.valid {
		return n.value, nil
	}
	return n.raw, nil
}

// Present reports whether a non-blank value was supplied.
func (n *Number) Present() bool {
	return n != nil && strings.TrimSpace(n.raw) != ""
}

// Float64 returns the numeric value and whether the value is numeric.
func (n *Number) Float64() (float64, bool) {
	if n == nil {
		return 0, false
	}
	return n.value, n.valid
}

// String returns the raw text.
func (n *Number) String() string {
	if n == nil {
		return ""
	}
	return n.raw
}

// RawCardConfig is the untrusted top-level card configuration.
type RawCardConfig struct {
	Type  *string `yaml:"type,omitempty"`
	Title *string `yaml:"title,omitempty"`

	// HoursToShow is deprecated in favour of DataPeriod.
	HoursToShow *Number        `yaml:"hours_to_show,omitempty"`
	DataPeriod  *RawDataPeriod `yaml:"data_period,omitempty"`

	RefreshInterval *Number `yaml:"refresh_interval,omitempty"`
	MaxWidth        *Number `yaml:"max_width,omitempty"`

	WindDirectionEntity *RawWindDirectionEntity `yaml:"wind_direction_entity,omitempty"`
	WindspeedEntities   []RawWindSpeedEntity    `yaml:"windspeed_entities,omitempty"`

	// Parent defaults for every windspeed entity.
	InputSpeedUnit       *string         `yaml:"input_speed_unit,omitempty"`
	OutputSpeedUnit      *string         `yaml:"output_speed_unit,omitempty"`
	OutputSpeedUnitLabel *string         `yaml:"output_speed_unit_label,omitempty"`
	SpeedRangeBeaufort   *bool           `yaml:"speed_range_beaufort,omitempty"`
	SpeedRangeStep       *Number         `yaml:"speed_range_step,omitempty"`
	SpeedRangeMax        *Number         `yaml:"speed_range_max,omitempty"`
	SpeedRanges          []RawSpeedRange `yaml:"speed_ranges,omitempty"`
	WindspeedBarFull     *bool           `yaml:"windspeed_bar_full,omitempty"`

	WindspeedBarLocation    *string `yaml:"windspeed_bar_location,omitempty"`
	HideWindspeedBar        *bool   `yaml:"hide_windspeed_bar,omitempty"`
	CenterCalmPercentage    *bool   `yaml:"center_calm_percentage,omitempty"`
	WindroseDrawNorthOffset *Number `yaml:"windrose_draw_north_offset,omitempty"`
	WindDirectionCount      *Number `yaml:"wind_direction_count,omitempty"`
	MatchingStrategy        *string `yaml:"matching_strategy,omitempty"`
	DirectionSpeedTimeDiff  *Number `yaml:"direction_speed_time_diff,omitempty"`

	// CardinalDirectionLetters is deprecated in favour of DirectionLabels.
	CardinalDirectionLetters *string             `yaml:"cardinal_direction_letters,omitempty"`
	DirectionLabels          *RawDirectionLabels `yaml:"direction_labels,omitempty"`

	CurrentDirection *RawCurrentDirection `yaml:"current_direction,omitempty"`
	CompassDirection *RawCompass          `yaml:"compass_direction,omitempty"`
	CornerInfo       *RawCornersInfo      `yaml:"corner_info,omitempty"`
	Colors           *RawColors           `yaml:"colors,omitempty"`

	BackgroundImage *string        `yaml:"background_image,omitempty"`
	LogLevel        *string        `yaml:"log_level,omitempty"`
	Actions         map[string]any `yaml:"actions,omitempty"`
}

// RawDataPeriod selects the window of historical samples.
type RawDataPeriod struct {
	HoursToShow   *Number `yaml:"hours_to_show,omitempty"`
	FromHourOfDay *Number `yaml:"from_hour_of_day,omitempty"`
	TimeInterval  *Number `yaml:"time_interval,omitempty"`
}

// RawWindDirectionEntity describes the source of direction readings.
type RawWindDirectionEntity struct {
	Entity                *string `yaml:"entity,omitempty"`
	UseStatistics         *bool   `yaml:"use_statistics,omitempty"`
	Attribute             *string `yaml:"attribute,omitempty"`
	DirectionCompensation *Number `yaml:"direction_compensation,omitempty"`

	legacyScalar bool
}

// UnmarshalYAML accepts both the object form and the legacy plain entity id.
func (r *RawWindDirectionEntity) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		id := node.Value
		*r = RawWindDirectionEntity{Entity: &id, legacyScalar: true}
		return nil
	}
	type plain RawWindDirectionEntity
	return node.Decode((*plain)(r))
}

// RawWindSpeedEntity is one windspeed source. Unset fields fall back to the
// top-level parent values.
type RawWindSpeedEntity struct {
	Entity               *string         `yaml:"entity,omitempty"`
	Name                 *string         `yaml:"name,omitempty"`
	UseStatistics        *bool           `yaml:"use_statistics,omitempty"`
	Attribute            *string         `yaml:"attribute,omitempty"`
	RenderRelativeScale  *bool           `yaml:"render_relative_scale,omitempty"`
	WindspeedBarFull     *bool           `yaml:"windspeed_bar_full,omitempty"`
	SpeedUnit            *string         `yaml:"speed_unit,omitempty"`
	OutputSpeedUnit      *string         `yaml:"output_speed_unit,omitempty"`
	OutputSpeedUnitLabel *string         `yaml:"output_speed_unit_label,omitempty"`
	SpeedRangeBeaufort   *bool           `yaml:"speed_range_beaufort,omitempty"`
	SpeedRangeStep       *Number         `yaml:"speed_range_step,omitempty"`
	SpeedRangeMax        *Number         `yaml:"speed_range_max,omitempty"`
	SpeedRanges          []RawSpeedRange `yaml:"speed_ranges,omitempty"`
}

// RawSpeedRange is one row of a custom speed range table.
type RawSpeedRange struct {
	FromValue *Number `yaml:"from_value,omitempty"`
	Color     *string `yaml:"color,omitempty"`
}

// RawCompass configures the rotating compass overlay.
type RawCompass struct {
	AutoRotate *bool   `yaml:"auto_rotate,omitempty"`
	Entity     *string `yaml:"entity,omitempty"`
	Attribute  *string `yaml:"attribute,omitempty"`
}

// RawCurrentDirection configures the current reading indicator.
type RawCurrentDirection struct {
	ShowArrow        *bool   `yaml:"show_arrow,omitempty"`
	ArrowSize        *Number `yaml:"arrow_size,omitempty"`
	CenterCircleSize *Number `yaml:"center_circle_size,omitempty"`
}

// RawCornersInfo holds the four corner overlays.
type RawCornersInfo struct {
	TopLeft     *RawCornerInfo `yaml:"top_left,omitempty"`
	TopRight    *RawCornerInfo `yaml:"top_right,omitempty"`
	BottomLeft  *RawCornerInfo `yaml:"bottom_left,omitempty"`
	BottomRight *RawCornerInfo `yaml:"bottom_right,omitempty"`
}

// RawCornerInfo describes the content of one corner.
type RawCornerInfo struct {
	Label           *string `yaml:"label,omitempty"`
	Unit            *string `yaml:"unit,omitempty"`
	Entity          *string `yaml:"entity,omitempty"`
	Attribute       *string `yaml:"attribute,omitempty"`
	Precision       *Number `yaml:"precision,omitempty"`
	InputSpeedUnit  *string `yaml:"input_speed_unit,omitempty"`
	OutputSpeedUnit *string `yaml:"output_speed_unit,omitempty"`
}

// RawDirectionLabels configures the cardinal letter scheme.
type RawDirectionLabels struct {
	CardinalDirectionLetters *string  `yaml:"cardinal_direction_letters,omitempty"`
	CustomLabels             []string `yaml:"custom_labels,omitempty"`
}

// RawColors overrides named color slots.
type RawColors struct {
	RoseLines                 *string `yaml:"rose_lines,omitempty"`
	RoseDirectionLetters      *string `yaml:"rose_direction_letters,omitempty"`
	RoseCurrentDirectionArrow *string `yaml:"rose_current_direction_arrow,omitempty"`
	RosePercentages           *string `yaml:"rose_percentages,omitempty"`
	RoseCenterPercentage      *string `yaml:"rose_center_percentage,omitempty"`
	BarBorder                 *string `yaml:"bar_border,omitempty"`
	BarUnitName               *string `yaml:"bar_unit_name,omitempty"`
	BarName                   *string `yaml:"bar_name,omitempty"`
	BarUnitValues             *string `yaml:"bar_unit_values,omitempty"`
	BarPercentages            *string `yaml:"bar_percentages,omitempty"`
}
