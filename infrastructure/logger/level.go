package logger

import "strings"

// Level is a logging severity. A logger drops messages below its level.
type Level uint32

// Levels, from most to least verbose
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

type levelNames struct {
	tag  string
	long string
}

var levels = [...]levelNames{
	LevelTrace:    {"TRC", "trace"},
	LevelDebug:    {"DBG", "debug"},
	LevelInfo:     {"INF", "info"},
	LevelWarn:     {"WRN", "warn"},
	LevelError:    {"ERR", "error"},
	LevelCritical: {"CRT", "critical"},
	LevelOff:      {"OFF", "off"},
}

// LevelFromString accepts either the long name or the three letter tag of a
// level, in any case. Unknown input yields LevelInfo and false.
func LevelFromString(s string) (Level, bool) {
	s = strings.ToLower(s)
	for level, names := range levels {
		if s == names.long || s == strings.ToLower(names.tag) {
			return Level(level), true
		}
	}
	return LevelInfo, false
}

// String returns the tag written in log lines
func (l Level) String() string {
	if l >= LevelOff {
		return levels[LevelOff].tag
	}
	return levels[l].tag
}
