package logger

import "go.uber.org/zap/zapcore"

// Verbosity level constants for the CLI -v flag count.
const (
	VerbosityUser  = 0 // No flags: the configured level
	VerbosityInfo  = 1 // -v: + per-package progress
	VerbosityDebug = 2 // -vv: + skipped types, provider decisions
)

// VerbosityToLevel maps verbosity flags (-v, -vv) to zap log levels.
// The result is never less verbose than fallback, the configured level.
func VerbosityToLevel(verbosity int, fallback zapcore.Level) zapcore.Level {
	var lvl zapcore.Level
	switch {
	case verbosity <= VerbosityUser:
		return fallback
	case verbosity == VerbosityInfo:
		lvl = zapcore.InfoLevel
	default:
		lvl = zapcore.DebugLevel
	}
	if fallback < lvl {
		return fallback
	}
	return lvl
}

// LevelName returns a human-readable name for verbosity level
func LevelName(verbosity int) string {
	switch {
	case verbosity <= VerbosityUser:
		return "User"
	case verbosity == VerbosityInfo:
		return "Info (-v)"
	default:
		return "Debug (-vv)"
	}
}
