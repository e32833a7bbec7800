package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/timewindow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day time.Time, hhmm string) *time.Time {
	t := timewindow.MustParse(hhmm).On(day)
	return &t
}

var workday = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func TestComputeWorkedHours_Scenarios(t *testing.T) {
	settings := attendance.DefaultSettings()

	t.Run("straddles lunch", func(t *testing.T) {
		got, err := ComputeWorkedHours(at(workday, "08:30"), at(workday, "17:15"), settings)
		require.NoError(t, err)
		assert.InDelta(t, 8.75, got.TotalHours, 1e-9)
		assert.InDelta(t, 1.0, got.LunchBreakHours, 1e-9)
		assert.InDelta(t, 7.75, got.WorkedHours, 1e-9)
		assert.True(t, got.IsComplete)
	})

	t.Run("morning only", func(t *testing.T) {
		got, err := ComputeWorkedHours(at(workday, "08:00"), at(workday, "11:30"), settings)
		require.NoError(t, err)
		assert.InDelta(t, 3.5, got.WorkedHours, 1e-9)
		assert.InDelta(t, 3.5, got.TotalHours, 1e-9)
		assert.Zero(t, got.LunchBreakHours)
	})

	t.Run("one minute overlap deducts the whole break", func(t *testing.T) {
		got, err := ComputeWorkedHours(at(workday, "08:00"), at(workday, "12:01"), settings)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, got.LunchBreakHours, 1e-9)
		assert.InDelta(t, 3+1.0/60, got.WorkedHours, 1e-9)
	})

	t.Run("clamped at zero", func(t *testing.T) {
		got, err := ComputeWorkedHours(at(workday, "12:10"), at(workday, "12:40"), settings)
		require.NoError(t, err)
		assert.Zero(t, got.WorkedHours)
		assert.InDelta(t, 0.5, got.TotalHours, 1e-9)
	})

	t.Run("ends exactly at lunch start", func(t *testing.T) {
		got, err := ComputeWorkedHours(at(workday, "08:00"), at(workday, "12:00"), settings)
		require.NoError(t, err)
		assert.Zero(t, got.LunchBreakHours)
		assert.InDelta(t, 4.0, got.WorkedHours, 1e-9)
	})
}

func TestComputeWorkedHours_Errors(t *testing.T) {
	settings := attendance.DefaultSettings()

	_, err := ComputeWorkedHours(at(workday, "08:30"), nil, settings)
	assert.ErrorIs(t, err, attendance.ErrMissingData)

	_, err = ComputeWorkedHours(nil, at(workday, "17:00"), settings)
	assert.ErrorIs(t, err, attendance.ErrMissingData)

	_, err = ComputeWorkedHours(at(workday, "17:00"), at(workday, "08:00"), settings)
	assert.ErrorIs(t, err, attendance.ErrInvalidInterval)

	_, err = ComputeWorkedHours(at(workday, "09:00"), at(workday, "09:00"), settings)
	assert.ErrorIs(t, err, attendance.ErrInvalidInterval)
}

func TestComputeWorkedHours_Properties(t *testing.T) {
	settings := attendance.DefaultSettings()
	lunchHours := 1.0

	for startMin := 0; startMin < 24*60; startMin += 37 {
		for length := 1; startMin+length < 24*60; length += 53 {
			in := workday.Add(time.Duration(startMin) * time.Minute)
			out := in.Add(time.Duration(length) * time.Minute)

			got, err := ComputeWorkedHours(&in, &out, settings)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got.WorkedHours, 0.0)

			lunch := settings.LunchWindow(in)
			overlaps := in.Before(lunch.End) && out.After(lunch.Start)
			if !overlaps {
				assert.InDelta(t, got.TotalHours, got.WorkedHours, 1e-9, "no overlap keeps total for %s-%s", in, out)
			}
			if !in.After(lunch.Start) && !out.Before(lunch.End) {
				assert.InDelta(t, got.TotalHours-lunchHours, got.WorkedHours, 1e-9, "straddle deducts lunch for %s-%s", in, out)
			}
		}
	}
}

func TestComputeWorkedHours_CustomLunchAnchoredToCheckInDate(t *testing.T) {
	settings := attendance.DefaultSettings()
	settings.LunchBreakStart = timewindow.MustParse("11:30")
	settings.LunchBreakEnd = timewindow.MustParse("12:15")

	// Overnight shift: lunch is anchored to the check-in date, so the next
	// morning's lunch window is not considered.
	in := at(workday, "20:00")
	out := at(workday.AddDate(0, 0, 1), "13:00")

	got, err := ComputeWorkedHours(in, out, settings)
	require.NoError(t, err)
	assert.Zero(t, got.LunchBreakHours)
	assert.InDelta(t, 17.0, got.WorkedHours, 1e-9)

	got, err = ComputeWorkedHours(at(workday, "09:00"), at(workday, "17:00"), settings)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, got.LunchBreakHours, 1e-9)
	assert.InDelta(t, 7.25, got.WorkedHours, 1e-9)
}

func TestWorkedHoursRounded(t *testing.T) {
	w := attendance.WorkedHours{WorkedHours: 7.756, TotalHours: 8.754, LunchBreakHours: 1, IsComplete: true}
	r := w.Rounded()
	assert.Equal(t, 7.76, r.WorkedHours)
	assert.Equal(t, 8.75, r.TotalHours)
	assert.True(t, r.IsComplete)
}
