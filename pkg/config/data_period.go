package config

// DataPeriod is the time window of historical samples to aggregate.
// Exactly one of HoursToShow and FromHourOfDay is set.
type DataPeriod struct {
	HoursToShow         *float64 `json:"hours_to_show,omitempty" validate:"omitempty,gt=0"`
	FromHourOfDay       *int     `json:"from_hour_of_day,omitempty" validate:"omitempty,min=0,max=23"`
	TimeIntervalMinutes float64  `json:"time_interval" validate:"gt=0"`
}

// warnFunc reports a deprecated field that was accepted with a fallback.
type warnFunc func(field, message string)

// DataPeriodFromConfig validates the data period. A deprecated top-level
// hours_to_show wins over the nested object; a deprecated value of 0 counts
// as unset.
func DataPeriodFromConfig(deprecatedHours *Number, raw *RawDataPeriod, defaults Defaults, warn warnFunc) (DataPeriod, error) {
	if raw == nil {
		raw = &RawDataPeriod{}
	}

	interval, err := checkTimeInterval(raw.TimeInterval, defaults)
	if err != nil {
		return DataPeriod{}, err
	}

	if v, ok, _ := requireNumber("hours_to_show", deprecatedHours, ""); ok && v == 0 {
		deprecatedHours = nil
	}
	oldHours, oldSet, err := checkHoursToShow("hours_to_show", deprecatedHours)
	if err != nil {
		return DataPeriod{}, err
	}
	if oldSet {
		warn("hours_to_show", "hours_to_show config is deprecated, use the data_period object.")
		return DataPeriod{HoursToShow: &oldHours, TimeIntervalMinutes: interval}, nil
	}

	hours, hoursSet, err := checkHoursToShow("data_period.hours_to_show", raw.HoursToShow)
	if err != nil {
		return DataPeriod{}, err
	}
	fromHour, fromSet, err := checkFromHourOfDay(raw.FromHourOfDay)
	if err != nil {
		return DataPeriod{}, err
	}

	switch {
	case hoursSet && fromSet:
		return DataPeriod{}, mutuallyExclusive("data_period",
			"Only one is allowed: hours_to_show or from_hour_of_day")
	case hoursSet:
		return DataPeriod{HoursToShow: &hours, TimeIntervalMinutes: interval}, nil
	case fromSet:
		return DataPeriod{FromHourOfDay: &fromHour, TimeIntervalMinutes: interval}, nil
	default:
		return DataPeriod{}, missingRequired("data_period",
			"One config option of object data_period should be filled.")
	}
}

func checkHoursToShow(field string, n *Number) (float64, bool, error) {
	v, ok, err := requireNumber(field, n, "should be a number above 0.")
	if err != nil || !ok {
		return 0, false, err
	}
	if v <= 0 {
		return 0, false, outOfRange(field, "Invalid hours_to_show %v, should be a number above 0.", v)
	}
	return v, true, nil
}

func checkFromHourOfDay(n *Number) (int, bool, error) {
	const field = "data_period.from_hour_of_day"
	v, ok, err := requireNumber(field, n, "should be a number between 0 and 23, hour of the day.")
	if err != nil || !ok {
		return 0, false, err
	}
	if v < 0 || v > 23 || !isIntegral(v) {
		return 0, false, outOfRange(field,
			"Invalid from_hour_of_day %v, should be a number between 0 and 23, hour of the day.", v)
	}
	return int(v), true, nil
}

func checkTimeInterval(n *Number, defaults Defaults) (float64, error) {
	const field = "data_period.time_interval"
	v, ok, err := requireNumber(field, n, "should be a number of minutes.")
	if err != nil {
		return 0, err
	}
	if !ok || v == 0 {
		return defaults.TimeIntervalMinutes, nil
	}
	if v < 0 {
		return 0, outOfRange(field, "Invalid time_interval %v, should be a positive number of minutes.", v)
	}
	return v, nil
}
