package config

import "fmt"

// SpeedRangeMode selects how speed ranges are produced for an entity.
type SpeedRangeMode string

const (
	// SpeedRangeCustom uses the configured speed_ranges table.
	SpeedRangeCustom SpeedRangeMode = "custom"
	// SpeedRangeStep builds ranges from speed_range_step up to speed_range_max.
	SpeedRangeStep SpeedRangeMode = "step"
	// SpeedRangeBeaufort uses the Beaufort scale.
	SpeedRangeBeaufort SpeedRangeMode = "beaufort"
	// SpeedRangeUnitDefault leaves range selection to the output unit's stock table.
	SpeedRangeUnitDefault SpeedRangeMode = "unit-default"
)

// SpeedRange is one row of a custom speed range table.
type SpeedRange struct {
	FromValue float64 `json:"from_value" validate:"gte=0"`
	Color     string  `json:"color" validate:"required"`
}

// WindSpeedEntity is one fully resolved windspeed source.
type WindSpeedEntity struct {
	Entity               string         `json:"entity"`
	Name                 string         `json:"name,omitempty"`
	UseStatistics        bool           `json:"use_statistics"`
	Attribute            string         `json:"attribute,omitempty"`
	RenderRelativeScale  bool           `json:"render_relative_scale"`
	WindspeedBarFull     bool           `json:"windspeed_bar_full"`
	InputSpeedUnit       SpeedUnit      `json:"speed_unit" validate:"required"`
	OutputSpeedUnit      SpeedUnit      `json:"output_speed_unit" validate:"required,ne=auto"`
	OutputSpeedUnitLabel string         `json:"output_speed_unit_label" validate:"required"`
	SpeedRangeMode       SpeedRangeMode `json:"speed_range_mode" validate:"oneof=custom step beaufort unit-default"`
	SpeedRangeStep       float64        `json:"speed_range_step,omitempty"`
	SpeedRangeMax        float64        `json:"speed_range_max,omitempty"`
	SpeedRanges          []SpeedRange   `json:"speed_ranges,omitempty" validate:"dive"`
}

// parentSnapshot builds the shared fallback entity from top-level fields.
// It is taken once per wrapper and never mutated.
func parentSnapshot(raw *RawCardConfig) RawWindSpeedEntity {
	return RawWindSpeedEntity{
		WindspeedBarFull:     raw.WindspeedBarFull,
		SpeedUnit:            raw.InputSpeedUnit,
		OutputSpeedUnit:      raw.OutputSpeedUnit,
		OutputSpeedUnitLabel: raw.OutputSpeedUnitLabel,
		SpeedRangeBeaufort:   raw.SpeedRangeBeaufort,
		SpeedRangeStep:       raw.SpeedRangeStep,
		SpeedRangeMax:        raw.SpeedRangeMax,
		SpeedRanges:          raw.SpeedRanges,
	}
}

// defaultsTier expresses the stock defaults as the last merge tier.
func defaultsTier(defaults Defaults) RawWindSpeedEntity {
	input := string(defaults.InputSpeedUnit)
	output := string(defaults.OutputSpeedUnit)
	barFull := defaults.WindspeedBarFull
	beaufort := defaults.SpeedRangeBeaufort
	return RawWindSpeedEntity{
		WindspeedBarFull:   &barFull,
		SpeedUnit:          &input,
		OutputSpeedUnit:    &output,
		SpeedRangeBeaufort: &beaufort,
	}
}

// firstRanges returns the first non-empty speed range table.
func firstRanges(tables ...[]RawSpeedRange) []RawSpeedRange {
	for _, t := range tables {
		if len(t) > 0 {
			return t
		}
	}
	return nil
}

// mergeWindSpeedEntity resolves every field of one entity on its own with
// the precedence entity, then parent snapshot, then defaults. Which range
// mode wins is decided later by resolveSpeedRanges.
func mergeWindSpeedEntity(entity, parent RawWindSpeedEntity, defaults Defaults) RawWindSpeedEntity {
	stock := defaultsTier(defaults)
	return RawWindSpeedEntity{
		Entity:               entity.Entity,
		Name:                 entity.Name,
		UseStatistics:        entity.UseStatistics,
		Attribute:            entity.Attribute,
		RenderRelativeScale:  firstSet(entity.RenderRelativeScale, parent.RenderRelativeScale),
		WindspeedBarFull:     firstSet(entity.WindspeedBarFull, parent.WindspeedBarFull, stock.WindspeedBarFull),
		SpeedUnit:            firstString(entity.SpeedUnit, parent.SpeedUnit, stock.SpeedUnit),
		OutputSpeedUnit:      firstString(entity.OutputSpeedUnit, parent.OutputSpeedUnit, stock.OutputSpeedUnit),
		OutputSpeedUnitLabel: firstString(entity.OutputSpeedUnitLabel, parent.OutputSpeedUnitLabel),
		SpeedRanges:          firstRanges(entity.SpeedRanges, parent.SpeedRanges),
		SpeedRangeStep:       firstNumber(entity.SpeedRangeStep, parent.SpeedRangeStep),
		SpeedRangeMax:        firstNumber(entity.SpeedRangeMax, parent.SpeedRangeMax),
		SpeedRangeBeaufort:   firstSet(entity.SpeedRangeBeaufort, parent.SpeedRangeBeaufort, stock.SpeedRangeBeaufort),
	}
}

// WindSpeedEntitiesFromConfig validates the windspeed entity list. At least
// one entity is required.
func WindSpeedEntitiesFromConfig(raw *RawCardConfig, defaults Defaults) ([]WindSpeedEntity, error) {
	if len(raw.WindspeedEntities) == 0 {
		return nil, missingRequired("windspeed_entities",
			"No windspeed_entities configured, minimal 1 needed.")
	}

	parent := parentSnapshot(raw)
	entities := make([]WindSpeedEntity, 0, len(raw.WindspeedEntities))
	for i, entityConfig := range raw.WindspeedEntities {
		merged := mergeWindSpeedEntity(entityConfig, parent, defaults)
		entity, err := windSpeedEntityFromMerged(fmt.Sprintf("windspeed_entities[%d]", i), merged)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

func windSpeedEntityFromMerged(path string, m RawWindSpeedEntity) (WindSpeedEntity, error) {
	useStatistics := CheckBooleanDefaultFalse(m.UseStatistics)
	entity, ok := CheckString(m.Entity)
	if !ok && !useStatistics {
		return WindSpeedEntity{}, missingRequired(path+".entity", "No entity configured for %s.", path)
	}

	inputUnit, err := parseSpeedUnit(path+".speed_unit", CheckStringOrDefault(m.SpeedUnit, ""), true)
	if err != nil {
		return WindSpeedEntity{}, err
	}
	outputUnit, err := parseSpeedUnit(path+".output_speed_unit", CheckStringOrDefault(m.OutputSpeedUnit, ""), false)
	if err != nil {
		return WindSpeedEntity{}, err
	}

	name, _ := CheckString(m.Name)
	attribute, _ := CheckString(m.Attribute)
	result := WindSpeedEntity{
		Entity:               entity,
		Name:                 name,
		UseStatistics:        useStatistics,
		Attribute:            attribute,
		RenderRelativeScale:  CheckBooleanDefaultFalse(m.RenderRelativeScale),
		WindspeedBarFull:     CheckBooleanDefaultTrue(m.WindspeedBarFull),
		InputSpeedUnit:       inputUnit,
		OutputSpeedUnit:      outputUnit,
		OutputSpeedUnitLabel: CheckStringOrDefault(m.OutputSpeedUnitLabel, outputUnit.Label()),
	}

	if err := resolveSpeedRanges(path, m, &result); err != nil {
		return WindSpeedEntity{}, err
	}
	return result, nil
}

func resolveSpeedRanges(path string, m RawWindSpeedEntity, result *WindSpeedEntity) error {
	if result.OutputSpeedUnit == SpeedUnitBeaufort {
		result.SpeedRangeMode = SpeedRangeBeaufort
		return nil
	}

	if len(m.SpeedRanges) > 0 {
		ranges, err := checkSpeedRanges(path+".speed_ranges", m.SpeedRanges)
		if err != nil {
			return err
		}
		result.SpeedRangeMode = SpeedRangeCustom
		result.SpeedRanges = ranges
		return nil
	}

	if m.SpeedRangeStep.Present() || m.SpeedRangeMax.Present() {
		step, maxValue, err := checkSpeedRangeStep(path, m.SpeedRangeStep, m.SpeedRangeMax)
		if err != nil {
			return err
		}
		result.SpeedRangeMode = SpeedRangeStep
		result.SpeedRangeStep = step
		result.SpeedRangeMax = maxValue
		return nil
	}

	if CheckBooleanDefaultFalse(m.SpeedRangeBeaufort) {
		result.SpeedRangeMode = SpeedRangeBeaufort
		return nil
	}
	result.SpeedRangeMode = SpeedRangeUnitDefault
	return nil
}

func checkSpeedRangeStep(path string, stepRaw, maxRaw *Number) (float64, float64, error) {
	stepField, maxField := path+".speed_range_step", path+".speed_range_max"
	step, stepSet, err := requireNumber(stepField, stepRaw, "should be a number above 0.")
	if err != nil {
		return 0, 0, err
	}
	maxValue, maxSet, err := requireNumber(maxField, maxRaw, "should be a number above 0.")
	if err != nil {
		return 0, 0, err
	}
	if !stepSet {
		return 0, 0, missingRequired(stepField, "speed_range_max is set, speed_range_step is required as well.")
	}
	if !maxSet {
		return 0, 0, missingRequired(maxField, "speed_range_step is set, speed_range_max is required as well.")
	}
	if step <= 0 {
		return 0, 0, outOfRange(stepField, "Invalid speed_range_step %v, should be a number above 0.", step)
	}
	if maxValue <= step {
		return 0, 0, outOfRange(maxField, "Invalid speed_range_max %v, should be above speed_range_step %v.", maxValue, step)
	}
	return step, maxValue, nil
}

func checkSpeedRanges(field string, raw []RawSpeedRange) ([]SpeedRange, error) {
	ranges := make([]SpeedRange, 0, len(raw))
	for i, r := range raw {
		rowField := fmt.Sprintf("%s[%d]", field, i)
		from, ok, err := requireNumber(rowField+".from_value", r.FromValue, "should be a number.")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, missingRequired(rowField+".from_value", "Speed range %d has no from_value.", i)
		}
		color, ok := CheckString(r.Color)
		if !ok {
			return nil, missingRequired(rowField+".color", "Speed range %d has no color.", i)
		}
		if from < 0 {
			return nil, outOfRange(rowField+".from_value", "Speed range from_value %v should not be negative.", from)
		}
		if i > 0 && from <= ranges[i-1].FromValue {
			return nil, outOfRange(rowField+".from_value",
				"Speed range from_value %v should be above the previous range %v.", from, ranges[i-1].FromValue)
		}
		ranges = append(ranges, SpeedRange{FromValue: from, Color: color})
	}
	return ranges, nil
}
