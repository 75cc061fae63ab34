package config

import (
	"fmt"
	"strconv"
	"strings"
)

var durationUnits = []struct {
	suffix  string
	seconds int
}{
	// longest suffixes first so "seconds" is not matched as "s"
	{"seconds", 1},
	{"second", 1},
	{"sec", 1},
	{"s", 1},
	{"minutes", 60},
	{"minute", 60},
	{"min", 60},
	{"m", 60},
	{"hours", 3600},
	{"hour", 3600},
	{"h", 3600},
}

// ToSeconds parses a human duration string like "30", "30s", "5 min",
// or "2 hours" into whole seconds.
func ToSeconds(value string) (int, error) {
	s := strings.ToLower(strings.ReplaceAll(value, " ", ""))
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n, nil
	}
	for _, unit := range durationUnits {
		if prefix, ok := strings.CutSuffix(s, unit.suffix); ok {
			n, err := strconv.Atoi(prefix)
			if err != nil || n < 0 {
				continue
			}
			return n * unit.seconds, nil
		}
	}
	return 0, fmt.Errorf("bad time: %s", value)
}
