package chirp

import (
	"errors"
	"fmt"
	"strings"
)

// Level is the severity of an [Event]. Levels are ordered by increasing
// severity.
type Level int8

const (
	// LevelDebug is for diagnostic detail.
	LevelDebug Level = iota
	// LevelLog is the default level for ordinary messages.
	LevelLog
	// LevelInfo is for notable informational messages.
	LevelInfo
	// LevelWarning is for recoverable problems.
	LevelWarning
	// LevelAssert is for failed assertions.
	LevelAssert
	// LevelError is for errors.
	LevelError
	// LevelException is for errors carrying an error value.
	LevelException
)

// ErrUnknownLevel indicates an unrecognized level string.
var ErrUnknownLevel = errors.New("unknown level")

var levelNames = [...]string{
	LevelDebug:     "debug",
	LevelLog:       "log",
	LevelInfo:      "info",
	LevelWarning:   "warning",
	LevelAssert:    "assert",
	LevelError:     "error",
	LevelException: "exception",
}

// AllLevels returns every level in order of increasing severity.
func AllLevels() []Level {
	return []Level{
		LevelDebug,
		LevelLog,
		LevelInfo,
		LevelWarning,
		LevelAssert,
		LevelError,
		LevelException,
	}
}

// GetAllLevelStrings returns the names of all levels, in order.
func GetAllLevelStrings() []string {
	return levelNames[:]
}

// ParseLevel parses a level name. Matching is case-insensitive, "warn" is
// accepted for [LevelWarning], and the digits "0" through "6" select levels
// by ordinal.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warn" {
		return LevelWarning, nil
	}

	for i, n := range levelNames {
		if name == n || name == string(rune('0'+i)) {
			return Level(i), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= LevelDebug && l <= LevelException
}

// String returns the lower-case level name.
func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("level(%d)", int(l))
	}

	return levelNames[l]
}

// MarshalText implements [encoding.TextMarshaler].
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, int(l))
	}

	return []byte(l.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}

	*l = parsed

	return nil
}
