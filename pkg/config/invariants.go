package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// assertInvariants runs struct-tag validation over every resolved value
// object. A failure here means a builder produced an inconsistent model.
func assertInvariants(w *CardConfigWrapper) error {
	objects := []struct {
		field string
		value any
	}{
		{"data_period", w.dataPeriod},
		{"wind_direction_entity", w.windDirectionEntity},
		{"current_direction", w.currentDirection},
		{"compass_direction", w.compassConfig},
		{"direction_labels", w.directionLabels},
		{"colors", w.cardColors},
		{"scalars", w.scalars},
	}
	for i, e := range w.windspeedEntities {
		objects = append(objects, struct {
			field string
			value any
		}{fmt.Sprintf("windspeed_entities[%d]", i), e})
	}

	for _, obj := range objects {
		if err := structValidator.Struct(obj.value); err != nil {
			return translateValidatorError(obj.field, err)
		}
	}
	return nil
}

// translateValidatorError maps the first failed tag onto the validation
// error taxonomy.
func translateValidatorError(prefix string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate %s: %w", prefix, err)
	}
	fe := verrs[0]
	field := prefix + "." + strings.ToLower(fe.Field())

	kind := KindOutOfRange
	switch fe.Tag() {
	case "required", "required_if", "required_without":
		kind = KindMissingRequired
	case "oneof", "ne":
		kind = KindInvalidEnum
	case "excluded_with":
		kind = KindMutuallyExclusive
	}
	return newValidationError(kind, field, "Invalid %s %v, failed %s=%s check.", field, fe.Value(), fe.Tag(), fe.Param())
}
