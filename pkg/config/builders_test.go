package config

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestDataPeriodFromConfig(t *testing.T) {
	d := DefaultDefaults()
	noWarn := func(field, message string) {}

	tests := []struct {
		name       string
		deprecated *Number
		raw        *RawDataPeriod
		wantHours  *float64
		wantFrom   *int
		wantErr    error
	}{
		{
			name:      "hours to show",
			raw:       &RawDataPeriod{HoursToShow: NewNumber(12)},
			wantHours: ptr(12.0),
		},
		{
			name:     "from hour of day",
			raw:      &RawDataPeriod{FromHourOfDay: NewNumber(23)},
			wantFrom: ptr(23),
		},
		{
			name:      "blank from hour is absent",
			raw:       &RawDataPeriod{HoursToShow: NewNumber(1), FromHourOfDay: NumberText(" ")},
			wantHours: ptr(1.0),
		},
		{
			name:    "negative hours",
			raw:     &RawDataPeriod{HoursToShow: NewNumber(-1)},
			wantErr: ErrOutOfRange,
		},
		{
			name:    "zero hours",
			raw:     &RawDataPeriod{HoursToShow: NewNumber(0)},
			wantErr: ErrOutOfRange,
		},
		{
			name:    "fractional from hour",
			raw:     &RawDataPeriod{FromHourOfDay: NewNumber(6.5)},
			wantErr: ErrOutOfRange,
		},
		{
			name:    "negative time interval",
			raw:     &RawDataPeriod{HoursToShow: NewNumber(1), TimeInterval: NewNumber(-5)},
			wantErr: ErrOutOfRange,
		},
		{
			name:       "deprecated not a number",
			deprecated: NumberText("four"),
			raw:        &RawDataPeriod{HoursToShow: NewNumber(1)},
			wantErr:    ErrNotANumber,
		},
		{
			name:    "nil data period",
			wantErr: ErrMissingRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DataPeriodFromConfig(tt.deprecated, tt.raw, d, noWarn)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got.HoursToShow, tt.wantHours) {
				t.Errorf("hours to show = %v, want %v", deref(got.HoursToShow), deref(tt.wantHours))
			}
			if !reflect.DeepEqual(got.FromHourOfDay, tt.wantFrom) {
				t.Errorf("from hour of day = %v, want %v", deref(got.FromHourOfDay), deref(tt.wantFrom))
			}
			if got.TimeIntervalMinutes != d.TimeIntervalMinutes {
				t.Errorf("time interval = %v, want %v", got.TimeIntervalMinutes, d.TimeIntervalMinutes)
			}
		})
	}
}

func TestDirectionLabelsFromConfig(t *testing.T) {
	d := DefaultDefaults()

	t.Run("defaults", func(t *testing.T) {
		got, err := DirectionLabelsFromConfig(nil, nil, d, func(string, string) {})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		labels := got.Labels()
		if len(labels) != 16 || labels[0] != "N" || labels[1] != "NNE" || labels[15] != "NNW" {
			t.Errorf("labels = %v", labels)
		}
	})

	t.Run("zero value falls back to NESW", func(t *testing.T) {
		labels := DirectionLabels{}.Labels()
		if len(labels) != 16 || labels[0] != "N" || labels[4] != "E" || labels[15] != "NNW" {
			t.Errorf("labels = %v", labels)
		}
	})

	t.Run("localized letters", func(t *testing.T) {
		raw := &RawDirectionLabels{CardinalDirectionLetters: ptr("NOZW")}
		got, err := DirectionLabelsFromConfig(raw, nil, d, func(string, string) {})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if labels := got.Labels(); labels[4] != "O" || labels[6] != "ZO" {
			t.Errorf("labels = %v", labels)
		}
	})

	t.Run("deprecated letters used as fallback", func(t *testing.T) {
		var warned []string
		got, err := DirectionLabelsFromConfig(nil, ptr("NOSW"), d, func(field, _ string) {
			warned = append(warned, field)
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.CardinalLetters != "NOSW" {
			t.Errorf("letters = %q, want NOSW", got.CardinalLetters)
		}
		if !reflect.DeepEqual(warned, []string{"cardinal_direction_letters"}) {
			t.Errorf("warnings = %v", warned)
		}
	})

	t.Run("nested letters win", func(t *testing.T) {
		raw := &RawDirectionLabels{CardinalDirectionLetters: ptr("NOZW")}
		got, err := DirectionLabelsFromConfig(raw, ptr("NOSW"), d, func(string, string) {})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.CardinalLetters != "NOZW" {
			t.Errorf("letters = %q, want NOZW", got.CardinalLetters)
		}
	})

	t.Run("wrong letter count", func(t *testing.T) {
		raw := &RawDirectionLabels{CardinalDirectionLetters: ptr("NESWX")}
		_, err := DirectionLabelsFromConfig(raw, nil, d, func(string, string) {})
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("expected out of range error, got %v", err)
		}
	})

	t.Run("custom labels", func(t *testing.T) {
		custom := strings.Fields("n nne ne ene e ese se sse s ssw sw wsw w wnw nw nnw")
		raw := &RawDirectionLabels{CustomLabels: custom}
		got, err := DirectionLabelsFromConfig(raw, nil, d, func(string, string) {})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(got.Labels(), custom) {
			t.Errorf("labels = %v", got.Labels())
		}

		raw.CustomLabels = custom[:8]
		if _, err := DirectionLabelsFromConfig(raw, nil, d, func(string, string) {}); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("expected out of range error for 8 labels, got %v", err)
		}
	})
}

func TestCheckHelpers(t *testing.T) {
	if CheckBooleanDefaultFalse(nil) {
		t.Error("CheckBooleanDefaultFalse(nil) = true")
	}
	if !CheckBooleanDefaultTrue(nil) {
		t.Error("CheckBooleanDefaultTrue(nil) = false")
	}
	if CheckBooleanDefaultTrue(ptr(false)) {
		t.Error("CheckBooleanDefaultTrue(false) = true")
	}

	if v, ok := CheckString(ptr("  ")); ok || v != "" {
		t.Errorf("CheckString(blank) = %q, %v", v, ok)
	}
	if v, ok := CheckString(ptr(" x ")); !ok || v != "x" {
		t.Errorf("CheckString(x) = %q, %v", v, ok)
	}
	if got := CheckStringOrDefault(nil, "def"); got != "def" {
		t.Errorf("CheckStringOrDefault(nil) = %q", got)
	}

	numbers := []struct {
		n    *Number
		want float64
	}{
		{nil, 7},
		{NumberText(""), 7},
		{NumberText("abc"), 7},
		{NumberText("0"), 0},
		{NumberText("2.5"), 2.5},
		{NumberText("NaN"), 7},
	}
	for _, tt := range numbers {
		if got := CheckNumberOrDefault(tt.n, 7); got != tt.want {
			t.Errorf("CheckNumberOrDefault(%q) = %v, want %v", tt.n.String(), got, tt.want)
		}
	}

	if got := firstSet((*int)(nil), ptr(2), ptr(3)); got == nil || *got != 2 {
		t.Errorf("firstSet = %v, want 2", got)
	}
	if got := firstString(ptr(""), nil, ptr("b")); got == nil || *got != "b" {
		t.Errorf("firstString = %v, want b", got)
	}
}

func TestValidationError(t *testing.T) {
	err := outOfRange("wind_direction_count", "Wind direction count %d out of range.", 40)

	if !errors.Is(err, ErrOutOfRange) {
		t.Error("expected error to match ErrOutOfRange")
	}
	if errors.Is(err, ErrInvalidEnum) {
		t.Error("expected error not to match ErrInvalidEnum")
	}
	if kind, ok := KindOf(err); !ok || kind != KindOutOfRange {
		t.Errorf("KindOf = %s, %v", kind, ok)
	}
	if !IsValidationError(err) || IsValidationError(errors.New("plain")) {
		t.Error("IsValidationError mismatch")
	}

	want := "WindRoseCard: Wind direction count 40 out of range. (field=wind_direction_count)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func ptr[T any](v T) *T { return &v }

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
