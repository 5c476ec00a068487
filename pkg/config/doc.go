// Package config validates and normalizes the configuration of the wind
// rose card.
//
// # Overview
//
// The host dashboard hands the card a loosely typed, optional-everywhere
// attribute map. This package turns it into a CardConfigWrapper: a fully
// resolved, immutable model that the renderer and the entity poller can read
// without further checks. Validation runs once per configuration load and
// either succeeds completely or fails with the first violated rule.
//
// # Components
//
// RawCardConfig: the untrusted input. Every field is a pointer, slice or
// Number so that "absent" is never confused with zero or empty.
//
// Builders: one per sub-domain (DataPeriodFromConfig,
// WindDirectionEntityFromConfig, WindSpeedEntitiesFromConfig,
// CompassConfigFromConfig, CurrentDirectionFromConfig, CornersInfoFromConfig,
// DirectionLabelsFromConfig, CardColorsFromConfig).
//
// NewCardConfigWrapper: runs the builders in a fixed order, computes derived
// values and logs a single "Config check OK" line.
//
// SchemaRegistry: optional CUE schema used for strict structural checks.
//
// # Usage Example
//
//	raw, err := config.Parse(data)
//	if err != nil {
//	    return err
//	}
//	card, err := config.NewCardConfigWrapper(raw, config.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	entities := card.CreateRawEntitiesArray()
//
// # Windspeed entity defaults
//
// Each windspeed entity resolves unset fields from the top-level fields of
// the card (the parent snapshot) and only then from Defaults:
//
//	output_speed_unit: km/h          # parent
//	windspeed_entities:
//	  - entity: sensor.gust          # inherits km/h
//	  - entity: sensor.speed
//	    output_speed_unit: m/s       # overrides
//
// # Error Handling
//
// Every failure is a *ValidationError carrying one of the kinds
// MutuallyExclusiveFields, MissingRequiredField, OutOfRangeValue,
// InvalidEnumValue or NotANumber plus the offending field path:
//
//	if errors.Is(err, config.ErrOutOfRange) {
//	    ...
//	}
//
// Deprecated fields are not errors; they are logged at warn level and
// reported through CardConfigWrapper.Deprecations.
//
// # Thread Safety
//
// Validation is pure and a CardConfigWrapper is immutable, so both are safe
// for concurrent use. SchemaRegistry serializes access to its CUE context.
package config
