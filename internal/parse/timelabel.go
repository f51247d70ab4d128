package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	timeLabelRe = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))?\s*(am|pm|a\.m\.|p\.m\.)?$`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// TimeOfDay is a parsed wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeLabel accepts the free-form slot labels shown to users, such as
// "09:00 am", "9:30PM", "14:00" or "7 pm".
func ParseTimeLabel(label string) (TimeOfDay, error) {
	s := strings.TrimSpace(label)
	// Collapse inner whitespace, e.g. "09:00  am".
	s = spaceRe.ReplaceAllString(s, " ")

	m := timeLabelRe.FindStringSubmatch(s)
	if m == nil {
		return TimeOfDay{}, fmt.Errorf("unable to parse time label: %q", label)
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("unable to parse hour in %q: %w", label, err)
	}
	minute := 0
	if m[2] != "" {
		if minute, err = strconv.Atoi(m[2]); err != nil {
			return TimeOfDay{}, fmt.Errorf("unable to parse minute in %q: %w", label, err)
		}
	}
	if minute > 59 {
		return TimeOfDay{}, fmt.Errorf("minute out of range in %q", label)
	}

	meridiem := strings.ToLower(strings.ReplaceAll(m[3], ".", ""))
	switch meridiem {
	case "":
		if hour > 23 {
			return TimeOfDay{}, fmt.Errorf("hour out of range in %q", label)
		}
		if m[2] == "" {
			// A bare number without am/pm is ambiguous.
			return TimeOfDay{}, fmt.Errorf("unable to parse time label: %q", label)
		}
	case "am", "pm":
		if hour < 1 || hour > 12 {
			return TimeOfDay{}, fmt.Errorf("hour out of range in %q", label)
		}
		if hour == 12 {
			hour = 0
		}
		if meridiem == "pm" {
			hour += 12
		}
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// On places the time of day on the calendar day of date, in loc.
func (t TimeOfDay) On(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, loc)
}

// String formats as the canonical "03:04 pm" label.
func (t TimeOfDay) String() string {
	return time.Date(0, 1, 1, t.Hour, t.Minute, 0, 0, time.UTC).Format("03:04 pm")
}
