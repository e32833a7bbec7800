package settings

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/timewindow"
	"github.com/shopspring/decimal"
)

// Settings is the singleton tenant configuration row.
type Settings struct {
	Language              string
	MonthlyVacationDays   decimal.Decimal
	ProbationPeriodMonths int
	IncludeWeekends       bool
	MaxConsecutiveDays    int
	Attendance            AttendanceDocument
	UpdatedAt             time.Time
}

// AttendanceDocument is the attendance sub-object as persisted (JSONB).
type AttendanceDocument struct {
	CheckInStart    string   `json:"check_in_start"`
	CheckOutEnd     string   `json:"check_out_end"`
	LunchBreakStart string   `json:"lunch_break_start"`
	LunchBreakEnd   string   `json:"lunch_break_end"`
	WorkingDays     []string `json:"working_days"`
}

func Defaults() Settings {
	return Settings{
		Language:              "en",
		MonthlyVacationDays:   decimal.RequireFromString("2.5"),
		ProbationPeriodMonths: 3,
		IncludeWeekends:       false,
		MaxConsecutiveDays:    30,
		Attendance:            DocumentFrom(attendance.DefaultSettings()),
	}
}

// DocumentFrom renders parsed attendance settings back into their stored form.
func DocumentFrom(s attendance.Settings) AttendanceDocument {
	days := make([]string, 0, len(s.WorkingDays))
	for _, wd := range s.WorkingDays {
		days = append(days, timewindow.WeekdayAbbrev(wd))
	}
	return AttendanceDocument{
		CheckInStart:    s.CheckInStart.String(),
		CheckOutEnd:     s.CheckOutEnd.String(),
		LunchBreakStart: s.LunchBreakStart.String(),
		LunchBreakEnd:   s.LunchBreakEnd.String(),
		WorkingDays:     days,
	}
}

// Parse converts the stored document into calculator settings. Empty fields
// fall back to the defaults; malformed ones fail with timewindow errors.
func (d AttendanceDocument) Parse() (attendance.Settings, error) {
	out := attendance.DefaultSettings()

	fields := []struct {
		name string
		raw  string
		dst  *timewindow.TimeOfDay
	}{
		{"check_in_start", d.CheckInStart, &out.CheckInStart},
		{"check_out_end", d.CheckOutEnd, &out.CheckOutEnd},
		{"lunch_break_start", d.LunchBreakStart, &out.LunchBreakStart},
		{"lunch_break_end", d.LunchBreakEnd, &out.LunchBreakEnd},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.raw) == "" {
			continue
		}
		tod, err := timewindow.Parse(f.raw)
		if err != nil {
			return attendance.Settings{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = tod
	}

	if d.WorkingDays != nil {
		days, err := parseWorkingDays(d.WorkingDays)
		if err != nil {
			return attendance.Settings{}, err
		}
		out.WorkingDays = days
	}

	if !out.LunchBreakStart.Before(out.LunchBreakEnd) {
		return attendance.Settings{}, ErrInvalidLunchBreak
	}

	return out, nil
}

// parseWorkingDays parses weekday codes into an ordered, de-duplicated set (Mon..Sun).
func parseWorkingDays(codes []string) ([]time.Weekday, error) {
	seen := make(map[time.Weekday]bool, len(codes))
	for _, c := range codes {
		wd, err := timewindow.ParseWeekday(c)
		if err != nil {
			return nil, err
		}
		seen[wd] = true
	}

	days := make([]time.Weekday, 0, len(seen))
	for _, wd := range weekOrder {
		if seen[wd] {
			days = append(days, wd)
		}
	}
	return days, nil
}

var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}
