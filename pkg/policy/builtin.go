package policy

// GetBuiltinPolicies returns all built-in policies.
func GetBuiltinPolicies() []Policy {
	return []Policy{
		refreshIntervalPolicy(),
		longPeriodStatisticsPolicy(),
		duplicateSpeedEntitiesPolicy(),
		deprecatedKeysPolicy(),
	}
}

// refreshIntervalPolicy flags cards that reload their history too often.
func refreshIntervalPolicy() Policy {
	return Policy{
		Name:        "refresh-interval",
		Description: "Warns when the card reloads its history more than once a minute",
		Severity:    SeverityWarning,
		Enabled:     true,
		Builtin:     true,
		Tags:        []string{"performance"},
		Rego: `package windrose.lint.refresh

import rego.v1

deny contains violation if {
	interval := input.resolved.refresh_interval
	interval < 60
	violation := {
		"field": "refresh_interval",
		"message": sprintf("refresh_interval %v reloads the history more than once a minute", [interval]),
		"remediation": "Use a refresh_interval of at least 60 seconds",
	}
}`,
	}
}

// longPeriodStatisticsPolicy flags long windows read from raw history.
func longPeriodStatisticsPolicy() Policy {
	return Policy{
		Name:        "long-period-statistics",
		Description: "Warns when more than two days of raw history are loaded",
		Severity:    SeverityWarning,
		Enabled:     true,
		Builtin:     true,
		Tags:        []string{"performance", "history"},
		Rego: `package windrose.lint.statistics

import rego.v1

max_raw_hours := 48

deny contains violation if {
	hours := input.resolved.data_period.hours_to_show
	hours > max_raw_hours
	entity := input.resolved.wind_direction_entity
	not entity.use_statistics
	violation := {
		"field": "wind_direction_entity.use_statistics",
		"message": sprintf("%s loads %v hours of raw history", [entity.entity, hours]),
		"remediation": "Set use_statistics to read long term statistics instead",
	}
}

deny contains violation if {
	hours := input.resolved.data_period.hours_to_show
	hours > max_raw_hours
	some i, entity in input.resolved.windspeed_entities
	not entity.use_statistics
	violation := {
		"field": sprintf("windspeed_entities[%d].use_statistics", [i]),
		"message": sprintf("%s loads %v hours of raw history", [entity.entity, hours]),
		"remediation": "Set use_statistics to read long term statistics instead",
	}
}`,
	}
}

// duplicateSpeedEntitiesPolicy flags speed bars drawing the same series.
func duplicateSpeedEntitiesPolicy() Policy {
	return Policy{
		Name:        "duplicate-speed-entities",
		Description: "Warns when two windspeed entities read the same entity and attribute",
		Severity:    SeverityWarning,
		Enabled:     true,
		Builtin:     true,
		Tags:        []string{"entities"},
		Rego: `package windrose.lint.duplicates

import rego.v1

deny contains violation if {
	some i, a in input.resolved.windspeed_entities
	some j, b in input.resolved.windspeed_entities
	i < j
	a.entity != ""
	a.entity == b.entity
	object.get(a, "attribute", "") == object.get(b, "attribute", "")
	a.use_statistics == b.use_statistics
	violation := {
		"field": sprintf("windspeed_entities[%d].entity", [j]),
		"message": sprintf("%s is already used by windspeed_entities[%d]", [b.entity, i]),
	}
}`,
	}
}

// deprecatedKeysPolicy reports deprecated keys with their replacement.
func deprecatedKeysPolicy() Policy {
	return Policy{
		Name:        "deprecated-keys",
		Description: "Reports deprecated top level keys and where they moved",
		Severity:    SeverityInfo,
		Enabled:     true,
		Builtin:     true,
		Tags:        []string{"deprecation"},
		Rego: `package windrose.lint.deprecated

import rego.v1

replacements := {
	"hours_to_show": "data_period.hours_to_show",
	"cardinal_direction_letters": "direction_labels.cardinal_direction_letters",
}

deny contains violation if {
	some key, replacement in replacements
	object.get(input.config, key, null) != null
	violation := {
		"field": key,
		"message": sprintf("%s is deprecated", [key]),
		"remediation": sprintf("Move the value to %s", [replacement]),
	}
}`,
	}
}
