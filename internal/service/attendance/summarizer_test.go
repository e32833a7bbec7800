package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(id string, typ attendance.EventType, ts time.Time) attendance.Event {
	return attendance.Event{ID: id, EmployeeID: "EMP0001", EventType: typ, Timestamp: ts, DeviceID: attendance.DefaultDeviceID}
}

func TestSummarizeDay_Statuses(t *testing.T) {
	settings := attendance.DefaultSettings()

	t.Run("no events", func(t *testing.T) {
		s := SummarizeDay("EMP0001", workday, nil, settings)
		assert.Equal(t, attendance.StatusNoData, s.Status)
		assert.False(t, s.HasRecords())
		assert.Nil(t, s.CheckIn)
		assert.Nil(t, s.CheckOut)
	})

	t.Run("check-in only", func(t *testing.T) {
		s := SummarizeDay("EMP0001", workday, []attendance.Event{
			event("1", attendance.EventCheckIn, *at(workday, "08:30")),
		}, settings)
		assert.Equal(t, attendance.StatusPartial, s.Status)
		assert.False(t, s.IsComplete)
		assert.Zero(t, s.WorkedHours)
		assert.Equal(t, 1, s.CheckInCount)
		assert.Nil(t, s.CheckOut)
	})

	t.Run("check-out only", func(t *testing.T) {
		s := SummarizeDay("EMP0001", workday, []attendance.Event{
			event("1", attendance.EventCheckOut, *at(workday, "17:00")),
		}, settings)
		assert.Equal(t, attendance.StatusPartial, s.Status)
		assert.Nil(t, s.CheckIn)
	})

	t.Run("rows of unknown type", func(t *testing.T) {
		s := SummarizeDay("EMP0001", workday, []attendance.Event{
			event("1", attendance.EventType("break"), *at(workday, "10:00")),
		}, settings)
		assert.Equal(t, attendance.StatusAbsent, s.Status)
		assert.Equal(t, 1, s.RecordCount)
	})

	t.Run("check-out before check-in", func(t *testing.T) {
		s := SummarizeDay("EMP0001", workday, []attendance.Event{
			event("1", attendance.EventCheckOut, *at(workday, "08:00")),
			event("2", attendance.EventCheckIn, *at(workday, "09:00")),
		}, settings)
		assert.Equal(t, attendance.StatusPartial, s.Status)
		assert.Zero(t, s.WorkedHours)
		assert.False(t, s.IsComplete)
	})
}

func TestSummarizeDay_EarliestCheckInLatestCheckOut(t *testing.T) {
	settings := attendance.DefaultSettings()
	events := []attendance.Event{
		event("1", attendance.EventCheckIn, *at(workday, "09:00")),
		event("2", attendance.EventCheckIn, *at(workday, "08:30")),
		event("3", attendance.EventCheckOut, *at(workday, "12:30")),
		event("4", attendance.EventCheckOut, *at(workday, "17:15")),
		event("5", attendance.EventCheckIn, *at(workday, "13:05")),
	}

	s := SummarizeDay("EMP0001", workday, events, settings)

	require.NotNil(t, s.CheckIn)
	require.NotNil(t, s.CheckOut)
	assert.Equal(t, *at(workday, "08:30"), *s.CheckIn)
	assert.Equal(t, *at(workday, "17:15"), *s.CheckOut)
	assert.Equal(t, attendance.StatusComplete, s.Status)
	assert.InDelta(t, 7.75, s.WorkedHours, 1e-9)
	assert.Equal(t, 5, s.RecordCount)
	assert.Equal(t, 3, s.CheckInCount)
	assert.Equal(t, 2, s.CheckOutCount)
}

func TestSummarizeRange_FillsMissingDays(t *testing.T) {
	settings := attendance.DefaultSettings()
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jan2 := jan1.AddDate(0, 0, 1)
	jan3 := jan1.AddDate(0, 0, 2)

	byDay := GroupByDay([]attendance.Event{
		event("1", attendance.EventCheckIn, *at(jan2, "08:00")),
		event("2", attendance.EventCheckOut, *at(jan2, "17:00")),
	}, time.UTC)

	got, err := SummarizeRange("EMP0001", jan1, jan3, byDay, settings)
	require.NoError(t, err)

	require.Len(t, got.Days, 3)
	assert.Equal(t, attendance.StatusNoData, got.Days[0].Status)
	assert.Equal(t, attendance.StatusComplete, got.Days[1].Status)
	assert.Equal(t, attendance.StatusNoData, got.Days[2].Status)

	assert.Equal(t, 3, got.Totals.TotalDays)
	assert.Equal(t, 1, got.Totals.DaysWithRecords)
	assert.Equal(t, 2, got.Totals.AbsentDays)
	assert.Equal(t, 1, got.Totals.CompleteDays)
	assert.Equal(t, 2, got.Totals.TotalRecords)
	assert.InDelta(t, 8.0, got.Totals.WorkedHours, 1e-9)
}

func TestSummarizeRange_SingleDayAndReversed(t *testing.T) {
	settings := attendance.DefaultSettings()

	got, err := SummarizeRange("EMP0001", workday, workday, nil, settings)
	require.NoError(t, err)
	assert.Len(t, got.Days, 1)
	assert.Equal(t, 1, got.Totals.TotalDays)
	assert.Equal(t, 1, got.Totals.AbsentDays)

	_, err = SummarizeRange("EMP0001", workday, workday.AddDate(0, 0, -1), nil, settings)
	assert.ErrorIs(t, err, attendance.ErrInvalidRange)
}

func TestSummarizeRange_Invariants(t *testing.T) {
	settings := attendance.DefaultSettings()
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	var events []attendance.Event
	for i := 0; i < 29; i += 3 {
		day := start.AddDate(0, 0, i)
		events = append(events, event("in", attendance.EventCheckIn, *at(day, "08:00")))
		if i%2 == 0 {
			events = append(events, event("out", attendance.EventCheckOut, *at(day, "16:30")))
		}
	}
	byDay := GroupByDay(events, time.UTC)

	for span := 0; span < 29; span += 4 {
		end := start.AddDate(0, 0, span)
		got, err := SummarizeRange("EMP0001", start, end, byDay, settings)
		require.NoError(t, err)

		assert.Len(t, got.Days, span+1)
		assert.Equal(t, got.Totals.TotalDays, got.Totals.DaysWithRecords+got.Totals.AbsentDays)

		records := 0
		for i, d := range got.Days {
			records += d.RecordCount
			assert.Equal(t, start.AddDate(0, 0, i), d.Date)
		}
		assert.Equal(t, records, got.Totals.TotalRecords)

		again, err := SummarizeRange("EMP0001", start, end, byDay, settings)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}
}

func TestGroupByDay_UsesLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	// 20:00 UTC on Jan 1 is 03:00 on Jan 2 in UTC+7.
	ts := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)

	byDay := GroupByDay([]attendance.Event{event("1", attendance.EventCheckIn, ts)}, jakarta)

	require.Len(t, byDay["2024-01-02"], 1)
	assert.Empty(t, byDay["2024-01-01"])
	assert.Equal(t, jakarta, byDay["2024-01-02"][0].Timestamp.Location())
}
