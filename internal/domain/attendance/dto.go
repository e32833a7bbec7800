package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/timewindow"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/validator"
)

// RecordEventRequest is submitted by the biometric terminal or an authorised operator.
type RecordEventRequest struct {
	EmployeeID string  `json:"employee_id" validate:"required,max=32"`
	EventType  string  `json:"event_type" validate:"required,oneof=check_in check_out"`
	DeviceID   string  `json:"device_id,omitempty" validate:"max=64"`
	MatchScore *int    `json:"match_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=500"`
	Timestamp  string  `json:"timestamp,omitempty"`

	// Parsed from Timestamp by Validate; zero means server time.
	At time.Time `json:"-"`
}

func (r *RecordEventRequest) Validate() error {
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	r.EventType = strings.ToLower(strings.TrimSpace(r.EventType))
	if r.DeviceID == "" {
		r.DeviceID = DefaultDeviceID
	}

	errs := validationErrors(validator.Struct(r))
	if r.Timestamp != "" {
		at, ok := validator.IsValidDateTime(r.Timestamp)
		if !ok {
			errs.Add("timestamp", "timestamp must be an RFC3339 datetime")
		}
		r.At = at
	}
	return errs.Err()
}

// ManualEntryRequest lets a supervisor record an event the terminal missed.
type ManualEntryRequest struct {
	EmployeeID string  `json:"employee_id" validate:"required,max=32"`
	EventType  string  `json:"event_type" validate:"required,oneof=check_in check_out"`
	Timestamp  string  `json:"timestamp" validate:"required"`
	DeviceID   string  `json:"device_id,omitempty" validate:"max=64"`
	MatchScore *int    `json:"match_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=500"`

	At time.Time `json:"-"`
}

func (r *ManualEntryRequest) Validate() error {
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	r.EventType = strings.ToLower(strings.TrimSpace(r.EventType))
	if r.DeviceID == "" {
		r.DeviceID = ManualDeviceID
	}
	if r.MatchScore == nil {
		score := ManualMatchScore
		r.MatchScore = &score
	}
	if r.Notes == nil {
		notes := ManualNotes
		r.Notes = &notes
	}

	errs := validationErrors(validator.Struct(r))
	if r.Timestamp != "" {
		at, ok := validator.IsValidDateTime(r.Timestamp)
		if !ok {
			errs.Add("timestamp", "timestamp must be an RFC3339 datetime")
		}
		r.At = at
	}
	return errs.Err()
}

func validationErrors(err error) validator.ValidationErrors {
	if errs, ok := err.(validator.ValidationErrors); ok {
		return errs
	}
	return nil
}

type EventResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	EventType  string  `json:"event_type"`
	DeviceID   string  `json:"device_id"`
	MatchScore int     `json:"match_score"`
	Notes      *string `json:"notes,omitempty"`
	Timestamp  string  `json:"timestamp"`
	CreatedAt  string  `json:"created_at"`
}

func ToEventResponse(e Event) EventResponse {
	return EventResponse{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		EventType:  string(e.EventType),
		DeviceID:   e.DeviceID,
		MatchScore: e.MatchScore,
		Notes:      e.Notes,
		Timestamp:  e.Timestamp.Format(time.RFC3339),
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
	}
}

// EventFilter narrows a scoped event listing. Dates accept YYYY-MM-DD or RFC3339;
// a date-only end bound includes that whole day.
type EventFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
	EventType  *string `json:"event_type,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Resolved by Validate.
	From *time.Time `json:"-"`
	To   *time.Time `json:"-"`
}

func (f *EventFilter) Validate(loc *time.Location) error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 50
	}
	if f.Limit > 500 {
		errs.Add("limit", "limit must not exceed 500")
	}

	if f.EventType != nil && !EventType(*f.EventType).IsValid() {
		errs.Add("event_type", "event_type must be one of: check_in, check_out")
	}

	if f.StartDate != nil && *f.StartDate != "" {
		from, ok := parseBound(*f.StartDate, loc, false)
		if !ok {
			errs.Add("start_date", "start_date must be YYYY-MM-DD or RFC3339")
		}
		f.From = &from
	}
	if f.EndDate != nil && *f.EndDate != "" {
		to, ok := parseBound(*f.EndDate, loc, true)
		if !ok {
			errs.Add("end_date", "end_date must be YYYY-MM-DD or RFC3339")
		}
		f.To = &to
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		errs.Add("end_date", "end_date must not be before start_date")
	}

	return errs.Err()
}

// parseBound resolves a filter bound. End bounds are exclusive: a plain date
// becomes the following midnight, a datetime is pushed forward by one nanosecond.
func parseBound(s string, loc *time.Location, end bool) (time.Time, bool) {
	if d, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		if end {
			return d.AddDate(0, 0, 1), true
		}
		return d, true
	}
	t, ok := validator.IsValidDateTime(s)
	if ok && end {
		t = t.Add(time.Nanosecond)
	}
	return t, ok
}

type ListEventResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Events     []EventResponse `json:"attendance"`
}

type EmployeeDayResponse struct {
	EmployeeID string          `json:"employee_id"`
	Date       string          `json:"date"`
	Events     []EventResponse `json:"attendance"`
	Count      int             `json:"count"`
}

type DailySummaryResponse struct {
	EmployeeID      string  `json:"employee_id"`
	Date            string  `json:"date"`
	DayOfWeek       string  `json:"day_of_week"`
	HasRecords      bool    `json:"has_records"`
	CheckIn         *string `json:"check_in"`
	CheckOut        *string `json:"check_out"`
	WorkedHours     float64 `json:"worked_hours"`
	TotalHours      float64 `json:"total_hours"`
	LunchBreakHours float64 `json:"lunch_break_hours"`
	IsComplete      bool    `json:"is_complete"`
	Status          string  `json:"status"`
	TotalRecords    int     `json:"total_records"`
	CheckInCount    int     `json:"check_in_count"`
	CheckOutCount   int     `json:"check_out_count"`
}

func ToDailySummaryResponse(d DailySummary) DailySummaryResponse {
	return DailySummaryResponse{
		EmployeeID:      d.EmployeeID,
		Date:            d.Date.Format("2006-01-02"),
		DayOfWeek:       timewindow.WeekdayAbbrev(d.Date.Weekday()),
		HasRecords:      d.HasRecords(),
		CheckIn:         formatInstant(d.CheckIn),
		CheckOut:        formatInstant(d.CheckOut),
		WorkedHours:     Round2(d.WorkedHours),
		TotalHours:      Round2(d.TotalHours),
		LunchBreakHours: Round2(d.LunchBreakHours),
		IsComplete:      d.IsComplete,
		Status:          string(d.Status),
		TotalRecords:    d.RecordCount,
		CheckInCount:    d.CheckInCount,
		CheckOutCount:   d.CheckOutCount,
	}
}

type RangeTotalsResponse struct {
	WorkedHours     float64 `json:"worked_hours"`
	CompleteDays    int     `json:"complete_days"`
	DaysWithRecords int     `json:"days_with_records"`
	TotalDays       int     `json:"total_days"`
	AbsentDays      int     `json:"absent_days"`
	TotalRecords    int     `json:"total_records"`
}

type RangeSummaryResponse struct {
	EmployeeID     string                 `json:"employee_id"`
	StartDate      string                 `json:"start_date"`
	EndDate        string                 `json:"end_date"`
	DailySummaries []DailySummaryResponse `json:"daily_summaries"`
	Totals         RangeTotalsResponse    `json:"totals"`
}

func ToRangeSummaryResponse(r RangeSummary) RangeSummaryResponse {
	days := make([]DailySummaryResponse, 0, len(r.Days))
	for _, d := range r.Days {
		days = append(days, ToDailySummaryResponse(d))
	}
	return RangeSummaryResponse{
		EmployeeID:     r.EmployeeID,
		StartDate:      r.StartDate.Format("2006-01-02"),
		EndDate:        r.EndDate.Format("2006-01-02"),
		DailySummaries: days,
		Totals: RangeTotalsResponse{
			WorkedHours:     Round2(r.Totals.WorkedHours),
			CompleteDays:    r.Totals.CompleteDays,
			DaysWithRecords: r.Totals.DaysWithRecords,
			TotalDays:       r.Totals.TotalDays,
			AbsentDays:      r.Totals.AbsentDays,
			TotalRecords:    r.Totals.TotalRecords,
		},
	}
}

func formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// SummaryRequest identifies an employee and a date range for range summarization.
type SummaryRequest struct {
	EmployeeID string
	StartDate  string
	EndDate    string

	Start time.Time
	End   time.Time
}

func (r *SummaryRequest) Validate(loc *time.Location) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(r.StartDate) {
		errs.Add("start_date", "start_date is required")
	} else if d, err := time.ParseInLocation("2006-01-02", r.StartDate, loc); err != nil {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	} else {
		r.Start = d
	}
	if validator.IsEmpty(r.EndDate) {
		errs.Add("end_date", "end_date is required")
	} else if d, err := time.ParseInLocation("2006-01-02", r.EndDate, loc); err != nil {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	} else {
		r.End = d
	}

	return errs.Err()
}
