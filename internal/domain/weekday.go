package domain

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

var allWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// unknownDayIndex sorts unrecognised days after every known one.
var unknownDayIndex = len(allWeekdays)

// Index returns the fixed ordering position of w (Monday=0 … Sunday=6) and
// false when w is not a known weekday.
func (w Weekday) Index() (int, bool) {
	for i, day := range allWeekdays {
		if day == w {
			return i, true
		}
	}
	return unknownDayIndex, false
}

func (w Weekday) Short() string {
	if len(w) < 3 {
		return string(w)
	}
	return string(w)[:3]
}

// WeekdayOf maps a time.Weekday onto the schedule's Monday-first week.
func WeekdayOf(day time.Weekday) Weekday {
	return allWeekdays[(int(day)+6)%7]
}

// ParseWeekday accepts full names and three-letter abbreviations in any case.
func ParseWeekday(raw string) (Weekday, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("day is required")
	}

	canonical := cases.Title(language.English).String(strings.ToLower(trimmed))
	for _, day := range allWeekdays {
		if string(day) == canonical || day.Short() == canonical {
			return day, nil
		}
	}

	return "", fmt.Errorf("unknown day %q", raw)
}

// WeekdaySet is the ordered set of days a schedule accepts.
type WeekdaySet []Weekday

var (
	WeekdaysFive  = WeekdaySet{Monday, Tuesday, Wednesday, Thursday, Friday}
	WeekdaysSeven = WeekdaySet(allWeekdays)
)

func (s WeekdaySet) Contains(day Weekday) bool {
	for _, d := range s {
		if d == day {
			return true
		}
	}
	return false
}

// WeekdaySetOf maps the configured day count to a set. Only 5 and 7 are valid.
func WeekdaySetOf(count int) (WeekdaySet, error) {
	switch count {
	case 5:
		return WeekdaysFive, nil
	case 7:
		return WeekdaysSeven, nil
	default:
		return nil, fmt.Errorf("unsupported weekday count %d (want 5 or 7)", count)
	}
}
