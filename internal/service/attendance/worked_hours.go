package attendance

import (
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/timewindow"
)

// ComputeWorkedHours derives worked hours from a check-in/check-out pair.
//
// The lunch break is anchored to the check-in's calendar date. Any overlap
// between the shift and the lunch window deducts the full configured lunch
// duration, not only the overlapping part. Worked hours never go below zero.
// Results keep full precision; use Rounded for display.
func ComputeWorkedHours(checkIn, checkOut *time.Time, settings attendance.Settings) (attendance.WorkedHours, error) {
	if checkIn == nil || checkOut == nil {
		return attendance.WorkedHours{}, attendance.ErrMissingData
	}
	if !checkOut.After(*checkIn) {
		return attendance.WorkedHours{}, attendance.ErrInvalidInterval
	}

	shift := timewindow.Window{Start: *checkIn, End: *checkOut}
	total := shift.Duration()

	lunch := settings.LunchWindow(*checkIn)
	var deduction time.Duration
	if lunch.Duration() > 0 && shift.Overlaps(lunch) {
		deduction = lunch.Duration()
	}

	worked := max(total-deduction, 0)

	return attendance.WorkedHours{
		WorkedHours:     worked.Hours(),
		TotalHours:      total.Hours(),
		LunchBreakHours: deduction.Hours(),
		IsComplete:      true,
	}, nil
}
