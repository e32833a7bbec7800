package settings

import (
	"errors"
	"strings"

	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/timewindow"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type SettingsResponse struct {
	Language              string             `json:"language"`
	MonthlyVacationDays   decimal.Decimal    `json:"monthly_vacation_days"`
	ProbationPeriodMonths int                `json:"probation_period_months"`
	IncludeWeekends       bool               `json:"include_weekends"`
	MaxConsecutiveDays    int                `json:"max_consecutive_days"`
	Attendance            AttendanceDocument `json:"attendance"`
}

func ToResponse(s Settings) SettingsResponse {
	return SettingsResponse{
		Language:              s.Language,
		MonthlyVacationDays:   s.MonthlyVacationDays,
		ProbationPeriodMonths: s.ProbationPeriodMonths,
		IncludeWeekends:       s.IncludeWeekends,
		MaxConsecutiveDays:    s.MaxConsecutiveDays,
		Attendance:            s.Attendance,
	}
}

// UpdateGeneralRequest changes only the fields that are present.
type UpdateGeneralRequest struct {
	Language              *string          `json:"language,omitempty"`
	MonthlyVacationDays   *decimal.Decimal `json:"monthly_vacation_days,omitempty"`
	ProbationPeriodMonths *int             `json:"probation_period_months,omitempty"`
	IncludeWeekends       *bool            `json:"include_weekends,omitempty"`
	MaxConsecutiveDays    *int             `json:"max_consecutive_days,omitempty"`
}

func (r *UpdateGeneralRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Language != nil {
		lang := strings.ToLower(strings.TrimSpace(*r.Language))
		if !validator.IsInSlice(lang, []string{"en", "id"}) {
			errs.Add("language", "language must be one of: en, id")
		}
		r.Language = &lang
	}
	if r.MonthlyVacationDays != nil && r.MonthlyVacationDays.IsNegative() {
		errs.Add("monthly_vacation_days", "monthly_vacation_days must not be negative")
	}
	if r.ProbationPeriodMonths != nil && *r.ProbationPeriodMonths < 0 {
		errs.Add("probation_period_months", "probation_period_months must not be negative")
	}
	if r.MaxConsecutiveDays != nil && *r.MaxConsecutiveDays < 1 {
		errs.Add("max_consecutive_days", "max_consecutive_days must be at least 1")
	}

	return errs.Err()
}

// Apply copies the present fields onto s.
func (r UpdateGeneralRequest) Apply(s Settings) Settings {
	if r.Language != nil {
		s.Language = *r.Language
	}
	if r.MonthlyVacationDays != nil {
		s.MonthlyVacationDays = *r.MonthlyVacationDays
	}
	if r.ProbationPeriodMonths != nil {
		s.ProbationPeriodMonths = *r.ProbationPeriodMonths
	}
	if r.IncludeWeekends != nil {
		s.IncludeWeekends = *r.IncludeWeekends
	}
	if r.MaxConsecutiveDays != nil {
		s.MaxConsecutiveDays = *r.MaxConsecutiveDays
	}
	return s
}

// UpdateAttendanceRequest replaces the attendance document. Omitted fields keep
// their current value.
type UpdateAttendanceRequest struct {
	CheckInStart    *string  `json:"check_in_start,omitempty"`
	CheckOutEnd     *string  `json:"check_out_end,omitempty"`
	LunchBreakStart *string  `json:"lunch_break_start,omitempty"`
	LunchBreakEnd   *string  `json:"lunch_break_end,omitempty"`
	WorkingDays     []string `json:"working_days,omitempty"`
}

// Merge overlays the request onto current and validates the result as a whole.
// The returned error wraps timewindow.ErrInvalidTimeFormat for malformed times.
func (r UpdateAttendanceRequest) Merge(current AttendanceDocument) (AttendanceDocument, error) {
	next := current
	var errs validator.ValidationErrors
	var formatErr error

	times := []struct {
		name string
		val  *string
		dst  *string
	}{
		{"check_in_start", r.CheckInStart, &next.CheckInStart},
		{"check_out_end", r.CheckOutEnd, &next.CheckOutEnd},
		{"lunch_break_start", r.LunchBreakStart, &next.LunchBreakStart},
		{"lunch_break_end", r.LunchBreakEnd, &next.LunchBreakEnd},
	}
	for _, f := range times {
		if f.val == nil {
			continue
		}
		tod, err := timewindow.Parse(*f.val)
		if err != nil {
			errs.Add(f.name, f.name+" must be in HH:MM format")
			formatErr = err
			continue
		}
		*f.dst = tod.String()
	}
	if r.WorkingDays != nil {
		days, err := parseWorkingDays(r.WorkingDays)
		switch {
		case err != nil:
			errs.Add("working_days", "working_days must contain codes Mon..Sun")
		case len(days) == 0:
			errs.Add("working_days", "working_days must not be empty")
		default:
			next.WorkingDays = make([]string, 0, len(days))
			for _, wd := range days {
				next.WorkingDays = append(next.WorkingDays, timewindow.WeekdayAbbrev(wd))
			}
		}
	}

	if formatErr != nil {
		return current, errors.Join(formatErr, errs)
	}
	if len(errs) > 0 {
		return current, errs
	}

	if _, err := next.Parse(); err != nil {
		return current, err
	}
	return next, nil
}
