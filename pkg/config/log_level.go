package config

import (
	"strings"

	"github.com/rs/zerolog"
)

// LogLevel is the minimum level of the card's log output.
type LogLevel string

const (
	LogLevelNone  LogLevel = "none"
	LogLevelError LogLevel = "error"
	LogLevelWarn  LogLevel = "warn"
	LogLevelInfo  LogLevel = "info"
	LogLevelDebug LogLevel = "debug"
	LogLevelTrace LogLevel = "trace"
)

var logLevels = map[LogLevel]zerolog.Level{
	LogLevelNone:  zerolog.Disabled,
	LogLevelError: zerolog.ErrorLevel,
	LogLevelWarn:  zerolog.WarnLevel,
	LogLevelInfo:  zerolog.InfoLevel,
	LogLevelDebug: zerolog.DebugLevel,
	LogLevelTrace: zerolog.TraceLevel,
}

// Zerolog returns the matching zerolog level.
func (l LogLevel) Zerolog() zerolog.Level {
	if level, ok := logLevels[l]; ok {
		return level
	}
	return zerolog.WarnLevel
}

// CheckLogLevel validates log_level, case-insensitively.
func CheckLogLevel(s *string, defaults Defaults) (LogLevel, error) {
	v, ok := CheckString(s)
	if !ok {
		return defaults.LogLevel, nil
	}
	level := LogLevel(strings.ToLower(v))
	if _, known := logLevels[level]; !known {
		return "", invalidEnum("log_level",
			"Invalid log level %s. Valid options: none, error, warn, info, debug, trace", v)
	}
	return level, nil
}
