package config

// CompassConfig configures the rotating compass overlay.
type CompassConfig struct {
	AutoRotate bool   `json:"auto_rotate"`
	Entity     string `json:"entity,omitempty" validate:"required_if=AutoRotate true"`
	Attribute  string `json:"attribute,omitempty"`
}

// CompassConfigFromConfig validates the compass overlay. Entity and
// attribute are only kept when auto rotate is on.
func CompassConfigFromConfig(raw *RawCompass) (CompassConfig, error) {
	if raw == nil {
		return CompassConfig{}, nil
	}
	if !CheckBooleanDefaultFalse(raw.AutoRotate) {
		return CompassConfig{}, nil
	}
	entity, ok := CheckString(raw.Entity)
	if !ok {
		return CompassConfig{}, missingRequired("compass_direction.entity",
			"compass direction auto rotate set to true, but no entity configured.")
	}
	attribute, _ := CheckString(raw.Attribute)
	return CompassConfig{AutoRotate: true, Entity: entity, Attribute: attribute}, nil
}
