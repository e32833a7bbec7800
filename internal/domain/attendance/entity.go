package attendance

import (
	"math"
	"slices"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/timewindow"
)

type EventType string

const (
	EventCheckIn  EventType = "check_in"
	EventCheckOut EventType = "check_out"
)

func (t EventType) IsValid() bool {
	return t == EventCheckIn || t == EventCheckOut
}

const (
	DefaultDeviceID  = "desktop_terminal"
	ManualDeviceID   = "MANUAL"
	ManualMatchScore = 100
	ManualNotes      = "Manual entry"
)

// Event is one raw check-in or check-out captured by a terminal or entered manually.
// Events are append-only.
type Event struct {
	ID         string
	EmployeeID string
	EventType  EventType
	DeviceID   string
	MatchScore int
	Notes      *string
	Timestamp  time.Time
	CreatedAt  time.Time
}

// Settings is the parsed attendance configuration every calculation receives explicitly.
type Settings struct {
	CheckInStart    timewindow.TimeOfDay
	CheckOutEnd     timewindow.TimeOfDay
	LunchBreakStart timewindow.TimeOfDay
	LunchBreakEnd   timewindow.TimeOfDay
	WorkingDays     []time.Weekday
}

func DefaultSettings() Settings {
	return Settings{
		CheckInStart:    timewindow.MustParse("08:00"),
		CheckOutEnd:     timewindow.MustParse("17:00"),
		LunchBreakStart: timewindow.MustParse("12:00"),
		LunchBreakEnd:   timewindow.MustParse("13:00"),
		WorkingDays:     []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
	}
}

func (s Settings) IsWorkingDay(wd time.Weekday) bool {
	return slices.Contains(s.WorkingDays, wd)
}

// LunchWindow anchors the configured lunch break to the calendar date of day.
func (s Settings) LunchWindow(day time.Time) timewindow.Window {
	return timewindow.Between(day, s.LunchBreakStart, s.LunchBreakEnd)
}

// WorkedHours is the outcome of one check-in/check-out pair, in fractional hours.
type WorkedHours struct {
	WorkedHours     float64
	TotalHours      float64
	LunchBreakHours float64
	IsComplete      bool
}

// Rounded returns a copy rounded to two decimals for display.
func (w WorkedHours) Rounded() WorkedHours {
	return WorkedHours{
		WorkedHours:     Round2(w.WorkedHours),
		TotalHours:      Round2(w.TotalHours),
		LunchBreakHours: Round2(w.LunchBreakHours),
		IsComplete:      w.IsComplete,
	}
}

// Round2 rounds to two decimal places.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

type DayStatus string

const (
	StatusComplete DayStatus = "complete"
	StatusPartial  DayStatus = "partial"
	StatusAbsent   DayStatus = "absent"
	StatusNoData   DayStatus = "no_data"
)

// DailySummary is derived from the raw events of one calendar day. It is never persisted.
type DailySummary struct {
	EmployeeID      string
	Date            time.Time
	CheckIn         *time.Time
	CheckOut        *time.Time
	WorkedHours     float64
	TotalHours      float64
	LunchBreakHours float64
	IsComplete      bool
	Status          DayStatus
	RecordCount     int
	CheckInCount    int
	CheckOutCount   int
}

func (d DailySummary) HasRecords() bool {
	return d.RecordCount > 0
}

type RangeTotals struct {
	WorkedHours     float64
	CompleteDays    int
	DaysWithRecords int
	TotalDays       int
	AbsentDays      int
	TotalRecords    int
}

type RangeSummary struct {
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	Days       []DailySummary
	Totals     RangeTotals
}
