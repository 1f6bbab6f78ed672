package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

// TimeOfDay is a wall-clock time at minute resolution, stored as minutes
// since midnight.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("hour %d out of range", hour)
	}
	if minute < 0 || minute > 59 {
		return 0, fmt.Errorf("minute %d out of range", minute)
	}
	return TimeOfDay(hour*minutesPerHour + minute), nil
}

// ParseTimeOfDay accepts "H:MM" and "HH:MM" in 24-hour form.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	trimmed := strings.TrimSpace(raw)
	hourPart, minutePart, ok := strings.Cut(trimmed, ":")
	if !ok || len(minutePart) != 2 || len(hourPart) == 0 || len(hourPart) > 2 ||
		!allDigits(hourPart) || !allDigits(minutePart) {
		return 0, fmt.Errorf("invalid time %q (want HH:MM)", raw)
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q (want HH:MM)", raw)
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q (want HH:MM)", raw)
	}

	t, err := NewTimeOfDay(hour, minute)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", raw, err)
	}
	return t, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func MustParseTimeOfDay(raw string) TimeOfDay {
	t, err := ParseTimeOfDay(raw)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) Minutes() int { return int(t) }

func (t TimeOfDay) Hour() int { return int(t) / minutesPerHour }

func (t TimeOfDay) MinuteOfHour() int { return int(t) % minutesPerHour }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.MinuteOfHour())
}

// Duration returns the minutes from start to end. An end that is not later
// than start is read as falling on the next day.
func Duration(start, end TimeOfDay) int {
	if end > start {
		return int(end - start)
	}
	return int(end) + minutesPerDay - int(start)
}

func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}

	hours := minutes / minutesPerHour
	rest := minutes % minutesPerHour
	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", rest)
	case rest == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, rest)
	}
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
