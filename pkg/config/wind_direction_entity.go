package config

// WindDirectionEntity is the source of direction readings.
type WindDirectionEntity struct {
	Entity                string  `json:"entity"`
	UseStatistics         bool    `json:"use_statistics"`
	Attribute             string  `json:"attribute,omitempty"`
	DirectionCompensation float64 `json:"direction_compensation"`
}

// WindDirectionEntityFromConfig validates the direction entity. The entity id
// may only be omitted for a statistics-sourced entity.
func WindDirectionEntityFromConfig(raw *RawWindDirectionEntity, warn warnFunc) (WindDirectionEntity, error) {
	if raw == nil {
		raw = &RawWindDirectionEntity{}
	}
	if raw.legacyScalar {
		warn("wind_direction_entity", "wind_direction_entity as plain entity id is deprecated, use the object with an entity field.")
	}

	useStatistics := CheckBooleanDefaultFalse(raw.UseStatistics)
	entity, ok := CheckString(raw.Entity)
	if !ok && !useStatistics {
		return WindDirectionEntity{}, missingRequired("wind_direction_entity.entity",
			"No wind_direction_entity.entity configured.")
	}

	compensation, _, err := requireNumber("wind_direction_entity.direction_compensation",
		raw.DirectionCompensation, "should be a number in degrees.")
	if err != nil {
		return WindDirectionEntity{}, err
	}

	attribute, _ := CheckString(raw.Attribute)
	return WindDirectionEntity{
		Entity:                entity,
		UseStatistics:         useStatistics,
		Attribute:             attribute,
		DirectionCompensation: compensation,
	}, nil
}
