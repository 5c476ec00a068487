package config

// Defaults holds every fallback value the builders use. A Defaults value is
// passed to each wrapper explicitly; builders never read package state.
type Defaults struct {
	HoursToShow            float64
	TimeIntervalMinutes    float64
	RefreshInterval        float64
	WindDirectionCount     int
	WindspeedBarLocation   string
	WindspeedBarFull       bool
	MatchingStrategy       string
	DirectionSpeedTimeDiff float64
	CenterCalmPercentage   bool
	CardinalLetters        string
	InputSpeedUnit         SpeedUnit
	OutputSpeedUnit        SpeedUnit
	SpeedRangeBeaufort     bool
	ArrowSize              float64
	CenterCircleSize       float64
	CornerPrecision        int
	LogLevel               LogLevel
	Colors                 CardColors
}

// DefaultDefaults returns the stock defaults of the card.
func DefaultDefaults() Defaults {
	return Defaults{
		HoursToShow:            4,
		TimeIntervalMinutes:    60,
		RefreshInterval:        300,
		WindDirectionCount:     16,
		WindspeedBarLocation:   BarLocationBottom,
		WindspeedBarFull:       true,
		MatchingStrategy:       MatchingDirectionFirst,
		DirectionSpeedTimeDiff: 2,
		CenterCalmPercentage:   true,
		CardinalLetters:        "NESW",
		InputSpeedUnit:         SpeedUnitAuto,
		OutputSpeedUnit:        SpeedUnitMPS,
		SpeedRangeBeaufort:     true,
		ArrowSize:              50,
		CenterCircleSize:       30,
		CornerPrecision:        1,
		LogLevel:               LogLevelWarn,
		Colors: CardColors{
			RoseLines:                 "rgb(160, 160, 160)",
			RoseDirectionLetters:      "var(--primary-text-color)",
			RoseCurrentDirectionArrow: "hotpink",
			RosePercentages:           "var(--secondary-text-color)",
			RoseCenterPercentage:      "var(--primary-text-color)",
			BarBorder:                 "rgb(160, 160, 160)",
			BarUnitName:               "var(--primary-text-color)",
			BarName:                   "var(--primary-text-color)",
			BarUnitValues:             "var(--primary-text-color)",
			BarPercentages:            "black",
		},
	}
}

// Windspeed bar locations.
const (
	BarLocationBottom = "bottom"
	BarLocationRight  = "right"
)

// Matching strategies for correlating direction and speed samples.
const (
	MatchingDirectionFirst = "direction-first"
	MatchingSpeedFirst     = "speed-first"
	MatchingTimeFrame      = "time-frame"
	MatchingFullTime       = "full-time"
)

var matchingStrategies = []string{
	MatchingDirectionFirst,
	MatchingSpeedFirst,
	MatchingTimeFrame,
	MatchingFullTime,
}
