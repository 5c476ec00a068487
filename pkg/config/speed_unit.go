package config

import (
	"sort"
	"strings"
)

// SpeedUnit is a canonical wind speed unit id.
type SpeedUnit string

const (
	SpeedUnitAuto     SpeedUnit = "auto"
	SpeedUnitMPS      SpeedUnit = "mps"
	SpeedUnitKPH      SpeedUnit = "kph"
	SpeedUnitMPH      SpeedUnit = "mph"
	SpeedUnitFPS      SpeedUnit = "fps"
	SpeedUnitKnots    SpeedUnit = "knots"
	SpeedUnitBeaufort SpeedUnit = "bft"
)

var speedUnitAliases = map[string]SpeedUnit{
	"auto":     SpeedUnitAuto,
	"mps":      SpeedUnitMPS,
	"m/s":      SpeedUnitMPS,
	"ms":       SpeedUnitMPS,
	"kph":      SpeedUnitKPH,
	"km/h":     SpeedUnitKPH,
	"kmh":      SpeedUnitKPH,
	"mph":      SpeedUnitMPH,
	"fps":      SpeedUnitFPS,
	"ft/s":     SpeedUnitFPS,
	"knots":    SpeedUnitKnots,
	"kn":       SpeedUnitKnots,
	"kt":       SpeedUnitKnots,
	"bft":      SpeedUnitBeaufort,
	"beaufort": SpeedUnitBeaufort,
}

var speedUnitLabels = map[SpeedUnit]string{
	SpeedUnitMPS:      "m/s",
	SpeedUnitKPH:      "km/h",
	SpeedUnitMPH:      "mph",
	SpeedUnitFPS:      "ft/s",
	SpeedUnitKnots:    "knots",
	SpeedUnitBeaufort: "Bft",
}

// Label returns the display label of the unit.
func (u SpeedUnit) Label() string {
	return speedUnitLabels[u]
}

// parseSpeedUnit resolves an alias to its canonical unit. auto is only
// accepted for input units.
func parseSpeedUnit(field, value string, allowAuto bool) (SpeedUnit, error) {
	unit, ok := speedUnitAliases[strings.ToLower(strings.TrimSpace(value))]
	if ok && (allowAuto || unit != SpeedUnitAuto) {
		return unit, nil
	}
	return "", invalidEnum(field, "Invalid speed unit %s. Valid options: %s",
		value, strings.Join(speedUnitOptions(allowAuto), ", "))
}

func speedUnitOptions(allowAuto bool) []string {
	opts := make([]string, 0, len(speedUnitAliases))
	for alias, unit := range speedUnitAliases {
		if unit == SpeedUnitAuto && !allowAuto {
			continue
		}
		opts = append(opts, alias)
	}
	sort.Strings(opts)
	return opts
}
