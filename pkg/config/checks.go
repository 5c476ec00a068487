package config

import "strings"

// CheckBooleanDefaultFalse returns the supplied flag, or false when absent.
func CheckBooleanDefaultFalse(v *bool) bool {
	if v == nil {
		return false
	}
	return *v
}

// CheckBooleanDefaultTrue returns the supplied flag, or true when absent.
func CheckBooleanDefaultTrue(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}

// CheckNumberOrDefault returns the supplied number, or def when the value is
// absent or not numeric. It never fails; builders that must reject
// non-numeric input use requireNumber instead.
func CheckNumberOrDefault(n *Number, def float64) float64 {
	if !n.Present() {
		return def
	}
	if v, ok := n.Float64(); ok {
		return v
	}
	return def
}

// CheckString returns the trimmed string and whether a non-blank value was supplied.
func CheckString(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	v := strings.TrimSpace(*s)
	return v, v != ""
}

// CheckStringOrDefault returns the supplied string, or def when absent or blank.
func CheckStringOrDefault(s *string, def string) string {
	if v, ok := CheckString(s); ok {
		return v
	}
	return def
}

// requireNumber returns (value, true, nil) for a present numeric value,
// (0, false, nil) when absent and a NotANumber error otherwise.
func requireNumber(field string, n *Number, hint string) (float64, bool, error) {
	if !n.Present() {
		return 0, false, nil
	}
	v, ok := n.Float64()
	if !ok {
		return 0, false, notANumber(field, "Invalid %s %q, %s", field, n.String(), hint)
	}
	return v, true, nil
}

// firstSet returns the first non-nil pointer, or nil.
func firstSet[T any](vals ...*T) *T {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

// firstString returns the first non-blank string.
func firstString(vals ...*string) *string {
	for _, v := range vals {
		if _, ok := CheckString(v); ok {
			return v
		}
	}
	return nil
}

// firstNumber returns the first present number.
func firstNumber(vals ...*Number) *Number {
	for _, v := range vals {
		if v.Present() {
			return v
		}
	}
	return nil
}

func isIntegral(v float64) bool {
	return v == float64(int64(v))
}
