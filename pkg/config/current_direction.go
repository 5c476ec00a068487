package config

// CurrentDirectionConfig configures the current reading indicator. Sizes
// are only meaningful when ShowArrow is set.
type CurrentDirectionConfig struct {
	ShowArrow        bool    `json:"show_arrow"`
	ArrowSize        float64 `json:"arrow_size,omitempty" validate:"gte=0"`
	CenterCircleSize float64 `json:"center_circle_size,omitempty" validate:"gte=0"`
}

// CurrentDirectionFromConfig validates the current direction indicator.
func CurrentDirectionFromConfig(raw *RawCurrentDirection, defaults Defaults) (CurrentDirectionConfig, error) {
	if raw == nil {
		return CurrentDirectionConfig{}, nil
	}
	show := CheckBooleanDefaultFalse(raw.ShowArrow)

	arrow, err := checkIndicatorSize("current_direction.arrow_size", raw.ArrowSize, defaults.ArrowSize, show)
	if err != nil {
		return CurrentDirectionConfig{}, err
	}
	circle, err := checkIndicatorSize("current_direction.center_circle_size", raw.CenterCircleSize, defaults.CenterCircleSize, show)
	if err != nil {
		return CurrentDirectionConfig{}, err
	}
	return CurrentDirectionConfig{ShowArrow: show, ArrowSize: arrow, CenterCircleSize: circle}, nil
}

func checkIndicatorSize(field string, n *Number, def float64, show bool) (float64, error) {
	v, ok, err := requireNumber(field, n, "should be a number of pixels.")
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	if show && v <= 0 {
		return 0, outOfRange(field, "Invalid %s %v, should be a number above 0.", field, v)
	}
	if v < 0 {
		return 0, outOfRange(field, "Invalid %s %v, should not be negative.", field, v)
	}
	return v, nil
}
