// Package timewindow provides time-of-day parsing and calendar window arithmetic
// shared by the attendance calculators.
package timewindow

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")
var ErrInvalidWeekday = errors.New("invalid weekday, expected Mon..Sun")

var timeOfDayRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// TimeOfDay is a 24-hour wall clock time with minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Parse parses a 24-hour "HH:MM" string. A single digit hour ("8:00") is accepted.
func Parse(s string) (TimeOfDay, error) {
	m := timeOfDayRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return TimeOfDay{}, fmt.Errorf("%q: %w", s, ErrInvalidTimeFormat)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%q: %w", s, ErrInvalidTimeFormat)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// MustParse is like Parse but panics on malformed input. Only for constants.
func MustParse(s string) TimeOfDay {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) Before(u TimeOfDay) bool {
	return t.Minutes() < u.Minutes()
}

// On anchors t to the calendar date of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, day.Location())
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Between anchors two times of day to the date of day.
func Between(day time.Time, start, end TimeOfDay) Window {
	return Window{Start: start.On(day), End: end.On(day)}
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Overlaps reports whether the two half-open intervals share any instant.
func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End) && w.End.After(o.Start)
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Day returns the [midnight, next midnight) window containing t.
func Day(t time.Time) Window {
	start := StartOfDay(t)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// Days returns every calendar day from start to end inclusive, each at midnight.
// It returns nil when end is before start.
func Days(start, end time.Time) []time.Time {
	first, last := StartOfDay(start), StartOfDay(end)
	if last.Before(first) {
		return nil
	}
	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

var weekdayAbbrevs = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// ParseWeekday parses a three letter weekday code, case-insensitively.
func ParseWeekday(s string) (time.Weekday, error) {
	wd, ok := weekdayAbbrevs[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidWeekday)
	}
	return wd, nil
}

// WeekdayAbbrev returns the three letter code ("Mon") for wd.
func WeekdayAbbrev(wd time.Weekday) string {
	return wd.String()[:3]
}
