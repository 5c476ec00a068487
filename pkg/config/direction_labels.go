package config

import "unicode/utf8"

const compassPoints = 16

// DirectionLabels is the cardinal letter scheme of the rose.
type DirectionLabels struct {
	// CardinalLetters holds the letters for north, east, south and west, in that order.
	CardinalLetters string   `json:"cardinal_direction_letters" validate:"required"`
	CustomLabels    []string `json:"custom_labels,omitempty" validate:"omitempty,len=16,dive,required"`
}

// defaultCardinalLetters is used when no letters are set.
const defaultCardinalLetters = "NESW"

// Count returns the number of cardinal letters.
func (d DirectionLabels) Count() int {
	return utf8.RuneCountInString(d.CardinalLetters)
}

// Labels returns the names of the 16 compass points starting at north,
// clockwise. Custom labels win over composed ones.
func (d DirectionLabels) Labels() []string {
	if len(d.CustomLabels) == compassPoints {
		return append([]string(nil), d.CustomLabels...)
	}
	l := []rune(d.CardinalLetters)
	if len(l) != 4 {
		l = []rune(defaultCardinalLetters)
	}
	n, e, s, w := string(l[0]), string(l[1]), string(l[2]), string(l[3])
	return []string{
		n, n + n + e, n + e, e + n + e,
		e, e + s + e, s + e, s + s + e,
		s, s + s + w, s + w, w + s + w,
		w, w + n + w, n + w, n + n + w,
	}
}

// DirectionLabelsFromConfig validates the direction labels. The nested
// direction_labels letters win; the deprecated top-level letters are only
// used when the nested ones are absent.
func DirectionLabelsFromConfig(raw *RawDirectionLabels, deprecatedLetters *string, defaults Defaults, warn warnFunc) (DirectionLabels, error) {
	if raw == nil {
		raw = &RawDirectionLabels{}
	}

	field := "direction_labels.cardinal_direction_letters"
	letters, ok := CheckString(raw.CardinalDirectionLetters)
	if old, oldOK := CheckString(deprecatedLetters); oldOK {
		warn("cardinal_direction_letters",
			"cardinal_direction_letters config is deprecated, use direction_labels.cardinal_direction_letters.")
		if !ok {
			letters, ok, field = old, true, "cardinal_direction_letters"
		}
	}
	if !ok {
		letters = defaults.CardinalLetters
	}
	if n := utf8.RuneCountInString(letters); n != 4 {
		return DirectionLabels{}, outOfRange(field,
			"Invalid cardinal direction letters %q, should be exactly 4 letters for north, east, south and west.", letters)
	}

	var custom []string
	if raw.CustomLabels != nil {
		if len(raw.CustomLabels) != compassPoints {
			return DirectionLabels{}, outOfRange("direction_labels.custom_labels",
				"Invalid custom_labels, %d labels given, exactly %d needed.", len(raw.CustomLabels), compassPoints)
		}
		custom = append(custom, raw.CustomLabels...)
	}
	return DirectionLabels{CardinalLetters: letters, CustomLabels: custom}, nil
}
