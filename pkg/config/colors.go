package config

// CardColors is the resolved color palette. Every slot holds a value.
type CardColors struct {
	RoseLines                 string `json:"rose_lines" validate:"required"`
	RoseDirectionLetters      string `json:"rose_direction_letters" validate:"required"`
	RoseCurrentDirectionArrow string `json:"rose_current_direction_arrow" validate:"required"`
	RosePercentages           string `json:"rose_percentages" validate:"required"`
	RoseCenterPercentage      string `json:"rose_center_percentage" validate:"required"`
	BarBorder                 string `json:"bar_border" validate:"required"`
	BarUnitName               string `json:"bar_unit_name" validate:"required"`
	BarName                   string `json:"bar_name" validate:"required"`
	BarUnitValues             string `json:"bar_unit_values" validate:"required"`
	BarPercentages            string `json:"bar_percentages" validate:"required"`
}

// CardColorsFromConfig applies color overrides on top of the default palette.
func CardColorsFromConfig(raw *RawColors, defaults Defaults) CardColors {
	base := defaults.Colors
	if raw == nil {
		return base
	}
	return CardColors{
		RoseLines:                 CheckStringOrDefault(raw.RoseLines, base.RoseLines),
		RoseDirectionLetters:      CheckStringOrDefault(raw.RoseDirectionLetters, base.RoseDirectionLetters),
		RoseCurrentDirectionArrow: CheckStringOrDefault(raw.RoseCurrentDirectionArrow, base.RoseCurrentDirectionArrow),
		RosePercentages:           CheckStringOrDefault(raw.RosePercentages, base.RosePercentages),
		RoseCenterPercentage:      CheckStringOrDefault(raw.RoseCenterPercentage, base.RoseCenterPercentage),
		BarBorder:                 CheckStringOrDefault(raw.BarBorder, base.BarBorder),
		BarUnitName:               CheckStringOrDefault(raw.BarUnitName, base.BarUnitName),
		BarName:                   CheckStringOrDefault(raw.BarName, base.BarName),
		BarUnitValues:             CheckStringOrDefault(raw.BarUnitValues, base.BarUnitValues),
		BarPercentages:            CheckStringOrDefault(raw.BarPercentages, base.BarPercentages),
	}
}
