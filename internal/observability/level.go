package observability

import (
	"fmt"
	"strings"
)

// Level is the severity of an event. Levels are ordered from LevelDebug to
// LevelError; LevelOff is a sentinel that disables emission entirely.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelOff:   "off",
}

// LevelNames lists the accepted level names in severity order.
var LevelNames = []string{"debug", "info", "warn", "error", "off"}

// String returns the wire name of the level.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel converts a level name into a Level. Matching is
// case-insensitive and "warning" is accepted for LevelWarn.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "off":
		return LevelOff, nil
	default:
		return LevelOff, fmt.Errorf("unknown log level %q, must be one of: %s", s, strings.Join(LevelNames, ", "))
	}
}

// Enables reports whether an event at the requested level passes a minimum
// of l. Nothing passes when either side is LevelOff.
func (l Level) Enables(requested Level) bool {
	if l == LevelOff || requested == LevelOff {
		return false
	}
	if requested < LevelDebug || requested > LevelError {
		return false
	}
	return requested >= l
}
