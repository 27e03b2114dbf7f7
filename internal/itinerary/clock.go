package itinerary

import (
	"regexp"
	"strconv"
	"strings"
)

// clockPattern matches an "H:MM" clock time with an optional AM/PM
// suffix anywhere inside a free-text string, so "Dinner at 7:30 PM"
// parses just as well as "7:30 PM". Times are intra-day only; there is
// no date or timezone component.
var clockPattern = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(AM|PM)?`)

// ParseClock converts a free-text time like "2:00 PM" into minutes since
// midnight. It returns ok=false for anything that does not contain a
// usable clock time; callers must treat that as "unscheduled", never as
// an error.
func ParseClock(text string) (int, bool) {
	m := clockPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	hours, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}

	switch strings.ToUpper(m[3]) {
	case "AM":
		if hours == 12 {
			hours = 0
		}
	case "PM":
		if hours != 12 {
			hours += 12
		}
	}

	return hours*60 + minutes, true
}
