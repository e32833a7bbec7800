package attendance

import (
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/timewindow"
)

// DayKey is the map key used to group events by calendar day.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// GroupByDay buckets events by their calendar date in loc, preserving order.
func GroupByDay(events []attendance.Event, loc *time.Location) map[string][]attendance.Event {
	byDay := make(map[string][]attendance.Event)
	for _, e := range events {
		e.Timestamp = e.Timestamp.In(loc)
		key := DayKey(e.Timestamp)
		byDay[key] = append(byDay[key], e)
	}
	return byDay
}

// SummarizeDay classifies one employee-day from its raw events.
//
// The earliest check-in and the latest check-out are used; on equal timestamps
// the first event in slice order wins. A day with both is complete, with only
// one is partial, with rows but neither is absent, and with no rows is no_data.
// A check-out at or before the check-in counts as partial with zero hours.
func SummarizeDay(employeeID string, date time.Time, events []attendance.Event, settings attendance.Settings) attendance.DailySummary {
	summary := attendance.DailySummary{
		EmployeeID:  employeeID,
		Date:        timewindow.StartOfDay(date),
		Status:      attendance.StatusNoData,
		RecordCount: len(events),
	}
	if len(events) == 0 {
		return summary
	}

	for _, e := range events {
		ts := e.Timestamp
		switch e.EventType {
		case attendance.EventCheckIn:
			summary.CheckInCount++
			if summary.CheckIn == nil || ts.Before(*summary.CheckIn) {
				summary.CheckIn = &ts
			}
		case attendance.EventCheckOut:
			summary.CheckOutCount++
			if summary.CheckOut == nil || ts.After(*summary.CheckOut) {
				summary.CheckOut = &ts
			}
		}
	}

	switch {
	case summary.CheckIn != nil && summary.CheckOut != nil:
		hours, err := ComputeWorkedHours(summary.CheckIn, summary.CheckOut, settings)
		if err != nil {
			summary.Status = attendance.StatusPartial
			return summary
		}
		summary.WorkedHours = hours.WorkedHours
		summary.TotalHours = hours.TotalHours
		summary.LunchBreakHours = hours.LunchBreakHours
		summary.IsComplete = true
		summary.Status = attendance.StatusComplete
	case summary.CheckIn != nil || summary.CheckOut != nil:
		summary.Status = attendance.StatusPartial
	default:
		summary.Status = attendance.StatusAbsent
	}

	return summary
}

// SummarizeRange summarizes every calendar day from start to end inclusive,
// including days without records, and aggregates the totals.
func SummarizeRange(employeeID string, start, end time.Time, eventsByDay map[string][]attendance.Event, settings attendance.Settings) (attendance.RangeSummary, error) {
	first, last := timewindow.StartOfDay(start), timewindow.StartOfDay(end)
	if last.Before(first) {
		return attendance.RangeSummary{}, attendance.ErrInvalidRange
	}

	days := timewindow.Days(first, last)
	result := attendance.RangeSummary{
		EmployeeID: employeeID,
		StartDate:  first,
		EndDate:    last,
		Days:       make([]attendance.DailySummary, 0, len(days)),
	}

	for _, day := range days {
		summary := SummarizeDay(employeeID, day, eventsByDay[DayKey(day)], settings)
		result.Days = append(result.Days, summary)

		result.Totals.WorkedHours += summary.WorkedHours
		result.Totals.TotalRecords += summary.RecordCount
		if summary.IsComplete {
			result.Totals.CompleteDays++
		}
		if summary.HasRecords() {
			result.Totals.DaysWithRecords++
		}
	}

	result.Totals.TotalDays = len(days)
	result.Totals.AbsentDays = result.Totals.TotalDays - result.Totals.DaysWithRecords

	return result, nil
}
