package engine

import (
	"strconv"
	"strings"
)

// Canonical weekday tokens as used by the Schedule of Classes feed.
var dayAliases = map[string]string{
	"m":         "M",
	"mon":       "M",
	"monday":    "M",
	"tu":        "Tu",
	"tue":       "Tu",
	"tues":      "Tu",
	"tuesday":   "Tu",
	"w":         "W",
	"wed":       "W",
	"wednesday": "W",
	"th":        "Th",
	"thu":       "Th",
	"thur":      "Th",
	"thursday":  "Th",
	"f":         "F",
	"fri":       "F",
	"friday":    "F",
	"sa":        "Sa",
	"sat":       "Sa",
	"saturday":  "Sa",
	"su":        "Su",
	"sun":       "Su",
	"sunday":    "Su",
}

// NormalizeDay maps a day label in any accepted spelling to its canonical
// token. Unknown labels come back unchanged so callers can still display them.
func NormalizeDay(raw string) string {
	if canonical, ok := dayAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return canonical
	}
	return strings.TrimSpace(raw)
}

func daysIntersect(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, day := range a {
		set[NormalizeDay(day)] = struct{}{}
	}
	for _, day := range b {
		if _, ok := set[NormalizeDay(day)]; ok {
			return true
		}
	}
	return false
}

// parseClockTime converts a wall-clock string into minutes since midnight.
// Both 12-hour ("10:00am", "2:30 PM") and 24-hour ("14:00") forms are
// accepted. The boolean is false when the value is missing or unparseable;
// such sections are treated as never conflicting.
func parseClockTime(raw string) (int, bool) {
	s := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	if s == "" {
		return 0, false
	}

	meridiem := ""
	switch {
	case strings.HasSuffix(s, "am"):
		meridiem = "am"
		s = strings.TrimSuffix(s, "am")
	case strings.HasSuffix(s, "pm"):
		meridiem = "pm"
		s = strings.TrimSuffix(s, "pm")
	}

	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}

	switch meridiem {
	case "am":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour < 0 || hour > 23 {
			return 0, false
		}
	}

	return hour*60 + minute, true
}
