package config

import (
	"slices"
	"strings"

	"github.com/rs/zerolog"
)

// Deprecation records a deprecated field that was accepted with a fallback.
type Deprecation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// scalarFields groups the top-level scalar settings so they can be asserted
// as one struct.
type scalarFields struct {
	Title                   string
	RefreshInterval         float64 `validate:"gt=0"`
	MaxWidth                float64 `validate:"gte=0"`
	WindspeedBarLocation    string  `validate:"oneof=bottom right"`
	HideWindspeedBar        bool
	CenterCalmPercentage    bool
	WindDirectionCount      int     `validate:"min=4,max=32"`
	WindRoseDrawNorthOffset float64
	MatchingStrategy        string  `validate:"oneof=direction-first speed-first time-frame full-time"`
	DirectionSpeedTimeDiff  float64 `validate:"gte=0"`
	BackgroundImage         string
	LogLevel                LogLevel `validate:"oneof=none error warn info debug trace"`
}

// CardConfigWrapper is the validated, immutable card configuration. It is
// only obtainable through NewCardConfigWrapper, which either validates every
// rule or returns an error.
type CardConfigWrapper struct {
	scalars             scalarFields
	dataPeriod          DataPeriod
	windDirectionEntity WindDirectionEntity
	windspeedEntities   []WindSpeedEntity
	currentDirection    CurrentDirectionConfig
	directionLabels     DirectionLabels
	cardColors          CardColors
	compassConfig       CompassConfig
	cornersInfo         CornersInfo
	actions             map[string]any
	deprecations        []Deprecation

	filterEntitiesQueryParameter string
}

type options struct {
	defaults Defaults
	logger   zerolog.Logger
}

// Option configures NewCardConfigWrapper.
type Option func(*options)

// WithDefaults replaces the stock defaults.
func WithDefaults(d Defaults) Option {
	return func(o *options) { o.defaults = d }
}

// WithLogger sets the logger for deprecation warnings and the final
// confirmation. The stricter of the logger's level and the configured
// log_level applies.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewCardConfigWrapper validates raw and returns the resolved model. The
// first violated rule aborts construction with a *ValidationError.
func NewCardConfigWrapper(raw *RawCardConfig, opts ...Option) (*CardConfigWrapper, error) {
	o := options{defaults: DefaultDefaults(), logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if raw == nil {
		raw = &RawCardConfig{}
	}
	d := o.defaults

	w := &CardConfigWrapper{}
	var err error

	// Log level first so deprecation warnings honour it.
	if w.scalars.LogLevel, err = CheckLogLevel(raw.LogLevel, d); err != nil {
		return nil, err
	}
	logger := o.logger.Level(max(o.logger.GetLevel(), w.scalars.LogLevel.Zerolog()))
	warn := func(field, message string) {
		w.deprecations = append(w.deprecations, Deprecation{Field: field, Message: message})
		logger.Warn().Str("field", field).Msg("WindRoseCard: " + message)
	}

	w.scalars.Title, _ = CheckString(raw.Title)
	if w.dataPeriod, err = DataPeriodFromConfig(raw.HoursToShow, raw.DataPeriod, d, warn); err != nil {
		return nil, err
	}
	if w.scalars.RefreshInterval, err = checkRefreshInterval(raw.RefreshInterval, d); err != nil {
		return nil, err
	}
	if w.windDirectionEntity, err = WindDirectionEntityFromConfig(raw.WindDirectionEntity, warn); err != nil {
		return nil, err
	}
	if w.windspeedEntities, err = WindSpeedEntitiesFromConfig(raw, d); err != nil {
		return nil, err
	}
	if w.scalars.WindRoseDrawNorthOffset, err = checkNorthOffset(raw.WindroseDrawNorthOffset); err != nil {
		return nil, err
	}
	if w.currentDirection, err = CurrentDirectionFromConfig(raw.CurrentDirection, d); err != nil {
		return nil, err
	}
	if w.scalars.WindspeedBarLocation, err = checkWindspeedBarLocation(raw.WindspeedBarLocation, d); err != nil {
		return nil, err
	}
	w.scalars.HideWindspeedBar = CheckBooleanDefaultFalse(raw.HideWindspeedBar)
	w.scalars.CenterCalmPercentage = d.CenterCalmPercentage
	if raw.CenterCalmPercentage != nil {
		w.scalars.CenterCalmPercentage = *raw.CenterCalmPercentage
	}
	if w.directionLabels, err = DirectionLabelsFromConfig(raw.DirectionLabels, raw.CardinalDirectionLetters, d, warn); err != nil {
		return nil, err
	}
	if w.scalars.WindDirectionCount, err = checkWindDirectionCount(raw.WindDirectionCount, d); err != nil {
		return nil, err
	}
	if w.scalars.MatchingStrategy, err = checkMatchingStrategy(raw.MatchingStrategy, d); err != nil {
		return nil, err
	}
	if w.scalars.DirectionSpeedTimeDiff, err = checkDirectionSpeedTimeDiff(raw.DirectionSpeedTimeDiff, d); err != nil {
		return nil, err
	}
	if w.scalars.MaxWidth, err = checkMaxWidth(raw.MaxWidth); err != nil {
		return nil, err
	}
	w.filterEntitiesQueryParameter = w.createEntitiesQueryParameter()
	w.cardColors = CardColorsFromConfig(raw.Colors, d)
	if w.compassConfig, err = CompassConfigFromConfig(raw.CompassDirection); err != nil {
		return nil, err
	}
	w.cornersInfo = CornersInfoFromConfig(raw.CornerInfo, d)
	w.scalars.BackgroundImage, _ = CheckString(raw.BackgroundImage)
	w.actions = cloneActions(raw.Actions)

	if err := assertInvariants(w); err != nil {
		return nil, err
	}

	logger.Info().
		Int("windspeed_entities", len(w.windspeedEntities)).
		Int("deprecations", len(w.deprecations)).
		Msg("Config check OK")
	return w, nil
}

func checkRefreshInterval(n *Number, d Defaults) (float64, error) {
	v, ok, err := requireNumber("refresh_interval", n, "should be a number in seconds.")
	if err != nil {
		return 0, err
	}
	if !ok || v == 0 {
		return d.RefreshInterval, nil
	}
	if v < 0 {
		return 0, outOfRange("refresh_interval", "Invalid refresh_interval %v, should be a positive number in seconds.", v)
	}
	return v, nil
}

func checkNorthOffset(n *Number) (float64, error) {
	v, _, err := requireNumber("windrose_draw_north_offset", n,
		"should be a number in degrees between 0 and 360.")
	return v, err
}

func checkMaxWidth(n *Number) (float64, error) {
	v, _, err := requireNumber("max_width", n, "should be a number of pixels.")
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, outOfRange("max_width", "Invalid max_width %v, should not be negative.", v)
	}
	return v, nil
}

func checkWindspeedBarLocation(s *string, d Defaults) (string, error) {
	v, ok := CheckString(s)
	if !ok {
		return d.WindspeedBarLocation, nil
	}
	if v != BarLocationBottom && v != BarLocationRight {
		return "", invalidEnum("windspeed_bar_location",
			"Invalid windspeed bar location %s. Valid options: bottom, right", v)
	}
	return v, nil
}

func checkWindDirectionCount(n *Number, d Defaults) (int, error) {
	v, ok, err := requireNumber("wind_direction_count", n, "should be a number between 4 and 32.")
	if err != nil {
		return 0, err
	}
	if !ok {
		return d.WindDirectionCount, nil
	}
	if v < 4 || v > 32 || !isIntegral(v) {
		return 0, outOfRange("wind_direction_count",
			"Wind direction count %v should be a number between 4 and 32.", v)
	}
	return int(v), nil
}

func checkMatchingStrategy(s *string, d Defaults) (string, error) {
	v, ok := CheckString(s)
	if !ok {
		return d.MatchingStrategy, nil
	}
	if !slices.Contains(matchingStrategies, v) {
		return "", invalidEnum("matching_strategy",
			"Invalid matching strategy %s. Valid options: %s", v, strings.Join(matchingStrategies, ", "))
	}
	return v, nil
}

func checkDirectionSpeedTimeDiff(n *Number, d Defaults) (float64, error) {
	v, ok, err := requireNumber("direction_speed_time_diff", n, "should be a number in seconds.")
	if err != nil {
		return 0, err
	}
	if !ok {
		return d.DirectionSpeedTimeDiff, nil
	}
	if v < 0 {
		return 0, outOfRange("direction_speed_time_diff",
			"Invalid direction_speed_time_diff %v, should not be negative.", v)
	}
	return v, nil
}

func (w *CardConfigWrapper) createEntitiesQueryParameter() string {
	ids := make([]string, 0, len(w.windspeedEntities)+1)
	ids = append(ids, w.windDirectionEntity.Entity)
	for _, e := range w.windspeedEntities {
		ids = append(ids, e.Entity)
	}
	return strings.Join(ids, ",")
}

// Title returns the card title, empty when not configured.
func (w *CardConfigWrapper) Title() string { return w.scalars.Title }

// DataPeriod returns the validated time window.
func (w *CardConfigWrapper) DataPeriod() DataPeriod { return w.dataPeriod }

// RefreshInterval returns the refresh interval in seconds.
func (w *CardConfigWrapper) RefreshInterval() float64 { return w.scalars.RefreshInterval }

// MaxWidth returns the maximum card width in pixels, 0 when unconstrained.
func (w *CardConfigWrapper) MaxWidth() float64 { return w.scalars.MaxWidth }

// WindDirectionEntity returns the direction source.
func (w *CardConfigWrapper) WindDirectionEntity() WindDirectionEntity { return w.windDirectionEntity }

// WindspeedEntities returns a copy of the resolved speed sources.
func (w *CardConfigWrapper) WindspeedEntities() []WindSpeedEntity {
	out := make([]WindSpeedEntity, len(w.windspeedEntities))
	for i, e := range w.windspeedEntities {
		e.SpeedRanges = slices.Clone(e.SpeedRanges)
		out[i] = e
	}
	return out
}

// WindspeedBarLocation returns bottom or right.
func (w *CardConfigWrapper) WindspeedBarLocation() string { return w.scalars.WindspeedBarLocation }

// HideWindspeedBar reports whether the speed bar is hidden.
func (w *CardConfigWrapper) HideWindspeedBar() bool { return w.scalars.HideWindspeedBar }

// CenterCalmPercentage reports whether the calm percentage is drawn in the center.
func (w *CardConfigWrapper) CenterCalmPercentage() bool { return w.scalars.CenterCalmPercentage }

// DirectionLabels returns the cardinal letter scheme.
func (w *CardConfigWrapper) DirectionLabels() DirectionLabels {
	labels := w.directionLabels
	labels.CustomLabels = slices.Clone(labels.CustomLabels)
	return labels
}

// WindDirectionCount returns the number of direction sectors.
func (w *CardConfigWrapper) WindDirectionCount() int { return w.scalars.WindDirectionCount }

// WindRoseDrawNorthOffset returns the rendering rotation in degrees.
func (w *CardConfigWrapper) WindRoseDrawNorthOffset() float64 { return w.scalars.WindRoseDrawNorthOffset }

// CurrentDirection returns the current reading indicator settings.
func (w *CardConfigWrapper) CurrentDirection() CurrentDirectionConfig { return w.currentDirection }

// MatchingStrategy returns the direction/speed correlation strategy.
func (w *CardConfigWrapper) MatchingStrategy() string { return w.scalars.MatchingStrategy }

// DirectionSpeedTimeDiff returns the allowed time difference in seconds
// between a direction and a speed sample.
func (w *CardConfigWrapper) DirectionSpeedTimeDiff() float64 { return w.scalars.DirectionSpeedTimeDiff }

// CardColors returns the resolved palette.
func (w *CardConfigWrapper) CardColors() CardColors { return w.cardColors }

// CompassConfig returns the compass overlay settings.
func (w *CardConfigWrapper) CompassConfig() CompassConfig { return w.compassConfig }

// CornersInfo returns the corner overlays.
func (w *CardConfigWrapper) CornersInfo() CornersInfo { return w.cornersInfo }

// BackgroundImage returns the background image, empty when not configured.
func (w *CardConfigWrapper) BackgroundImage() string { return w.scalars.BackgroundImage }

// Actions returns a copy of the host action configuration.
func (w *CardConfigWrapper) Actions() map[string]any { return cloneActions(w.actions) }

// cloneActions deep copies decoded action maps so no nested map or list is
// shared with the caller.
func cloneActions(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneActions(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// LogLevel returns the configured minimum log level.
func (w *CardConfigWrapper) LogLevel() LogLevel { return w.scalars.LogLevel }

// Deprecations returns the deprecated fields accepted during validation.
func (w *CardConfigWrapper) Deprecations() []Deprecation { return slices.Clone(w.deprecations) }

// FilterEntitiesQueryParameter returns the direction entity followed by all
// speed entities, comma separated.
func (w *CardConfigWrapper) FilterEntitiesQueryParameter() string { return w.filterEntitiesQueryParameter }

// WindBarCount returns the number of speed bars to draw.
func (w *CardConfigWrapper) WindBarCount() int {
	if w.scalars.HideWindspeedBar {
		return 0
	}
	return len(w.windspeedEntities)
}

// CreateRawEntitiesArray returns the live-state entities in configuration
// order: the direction entity first, then the speed entities.
func (w *CardConfigWrapper) CreateRawEntitiesArray() []string {
	return w.entities(false)
}

// CreateStatisticsEntitiesArray returns the statistics-sourced entities in
// configuration order.
func (w *CardConfigWrapper) CreateStatisticsEntitiesArray() []string {
	return w.entities(true)
}

func (w *CardConfigWrapper) entities(statistics bool) []string {
	entities := []string{}
	if w.windDirectionEntity.UseStatistics == statistics {
		entities = append(entities, w.windDirectionEntity.Entity)
	}
	for _, e := range w.windspeedEntities {
		if e.UseStatistics == statistics {
			entities = append(entities, e.Entity)
		}
	}
	return entities
}

// AttributesConfigured reports whether any entity reads an attribute
// instead of its main state.
func (w *CardConfigWrapper) AttributesConfigured() bool {
	if w.windDirectionEntity.Attribute != "" {
		return true
	}
	return slices.ContainsFunc(w.windspeedEntities, func(e WindSpeedEntity) bool {
		return e.Attribute != ""
	})
}
