package settings

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/settings"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/timewindow"
	"github.com/stretchr/testify/assert"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeSettingsRepository struct {
	mu         sync.Mutex
	stored     *settings.Settings
	gets       atomic.Int32
	getDelay   time.Duration
	attendance int
}

func (f *fakeSettingsRepository) Get(ctx context.Context) (settings.Settings, error) {
	f.gets.Add(1)
	time.Sleep(f.getDelay)
	if err := ctx.Err(); err != nil {
		return settings.Settings{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stored == nil {
		return settings.Settings{}, settings.ErrSettingsNotFound
	}
	return *f.stored, nil
}

func (f *fakeSettingsRepository) SaveGeneral(ctx context.Context, s settings.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = &s
	return nil
}

func (f *fakeSettingsRepository) SaveAttendance(ctx context.Context, doc settings.AttendanceDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attendance++
	if f.stored == nil {
		d := settings.Defaults()
		f.stored = &d
	}
	f.stored.Attendance = doc
	return nil
}

func TestSettingsService_DefaultsWhenMissing(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsRepository{}, nil)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.5", got.MonthlyVacationDays.String())
	assert.Equal(t, 3, got.ProbationPeriodMonths)
	assert.Equal(t, "12:00", got.Attendance.LunchBreakStart)
	assert.Equal(t, []string{"Mon", "Tue", "Wed", "Thu", "Fri"}, got.Attendance.WorkingDays)
}

func TestSettingsService_UpdateAttendance(t *testing.T) {
	repo := &fakeSettingsRepository{}
	svc := NewSettingsService(repo, nil)
	ctx := context.Background()

	start, end := "11:30", "12:30"
	got, err := svc.UpdateAttendance(ctx, settings.UpdateAttendanceRequest{
		LunchBreakStart: &start,
		LunchBreakEnd:   &end,
		WorkingDays:     []string{"sat", "Mon", "mon"},
	})
	require.NoError(t, err)
	assert.Equal(t, "11:30", got.Attendance.LunchBreakStart)
	assert.Equal(t, []string{"Mon", "Sat"}, got.Attendance.WorkingDays)

	parsed, err := svc.Attendance(ctx)
	require.NoError(t, err)
	assert.Equal(t, timewindow.MustParse("12:30"), parsed.LunchBreakEnd)
	assert.True(t, parsed.IsWorkingDay(time.Saturday))
	assert.False(t, parsed.IsWorkingDay(time.Tuesday))
}

func TestSettingsService_UpdateAttendance_InvalidTimeLeavesSettingsUnchanged(t *testing.T) {
	repo := &fakeSettingsRepository{}
	svc := NewSettingsService(repo, nil)
	ctx := context.Background()

	good, bad := "11:00", "25:99"
	_, err := svc.UpdateAttendance(ctx, settings.UpdateAttendanceRequest{
		LunchBreakStart: &good,
		LunchBreakEnd:   &bad,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, timewindow.ErrInvalidTimeFormat))
	assert.Zero(t, repo.attendance)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "12:00", got.Attendance.LunchBreakStart)
	assert.Equal(t, "13:00", got.Attendance.LunchBreakEnd)
}

func TestSettingsService_UpdateAttendance_LunchOrder(t *testing.T) {
	repo := &fakeSettingsRepository{}
	svc := NewSettingsService(repo, nil)

	start, end := "13:00", "12:00"
	_, err := svc.UpdateAttendance(context.Background(), settings.UpdateAttendanceRequest{
		LunchBreakStart: &start,
		LunchBreakEnd:   &end,
	})
	assert.ErrorIs(t, err, settings.ErrInvalidLunchBreak)
	assert.Zero(t, repo.attendance)
}

func TestSettingsService_UpdateGeneral(t *testing.T) {
	repo := &fakeSettingsRepository{}
	svc := NewSettingsService(repo, nil)

	months := 6
	lang := " ID "
	got, err := svc.UpdateGeneral(context.Background(), settings.UpdateGeneralRequest{
		ProbationPeriodMonths: &months,
		Language:              &lang,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, got.ProbationPeriodMonths)
	assert.Equal(t, "id", got.Language)
	assert.Equal(t, "2.5", got.MonthlyVacationDays.String())

	negative := -1
	_, err = svc.UpdateGeneral(context.Background(), settings.UpdateGeneralRequest{ProbationPeriodMonths: &negative})
	assert.Error(t, err)
}

func TestSettingsService_ConcurrentLoadsShareOneRead(t *testing.T) {
	repo := &fakeSettingsRepository{getDelay: 50 * time.Millisecond}
	svc := NewSettingsService(repo, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Attendance(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Less(t, repo.gets.Load(), int32(10))
}

type countingRecalculator struct {
	calls int
}

func (c *countingRecalculator) RecalculateAll(ctx context.Context) (leave.RecalculateAllResponse, error) {
	c.calls++
	return leave.RecalculateAllResponse{Processed: 3}, nil
}

func TestSettingsService_UpdateGeneralRecalculatesOnAccrualChange(t *testing.T) {
	ctx := context.Background()
	rate := decimal.RequireFromString("1.75")
	months := 6
	sameMonths := settings.Defaults().ProbationPeriodMonths
	lang := "en"

	tests := []struct {
		name  string
		req   settings.UpdateGeneralRequest
		calls int
	}{
		{name: "monthly rate", req: settings.UpdateGeneralRequest{MonthlyVacationDays: &rate}, calls: 1},
		{name: "probation period", req: settings.UpdateGeneralRequest{ProbationPeriodMonths: &months}, calls: 1},
		{name: "language only", req: settings.UpdateGeneralRequest{Language: &lang}, calls: 0},
		{name: "unchanged probation", req: settings.UpdateGeneralRequest{ProbationPeriodMonths: &sameMonths}, calls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances := &countingRecalculator{}
			svc := NewSettingsService(&fakeSettingsRepository{}, balances)

			_, err := svc.UpdateGeneral(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.calls, balances.calls)
		})
	}
}

func TestSettingsService_RecalculatorFunc(t *testing.T) {
	called := false
	svc := NewSettingsService(&fakeSettingsRepository{}, RecalculatorFunc(func(ctx context.Context) (leave.RecalculateAllResponse, error) {
		called = true
		return leave.RecalculateAllResponse{}, nil
	}))

	months := 1
	_, err := svc.UpdateGeneral(context.Background(), settings.UpdateGeneralRequest{ProbationPeriodMonths: &months})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestSettingsService_CurrentIgnoresCallerCancellation(t *testing.T) {
	repo := &fakeSettingsRepository{}
	svc := NewSettingsService(repo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.Defaults().ProbationPeriodMonths, got.ProbationPeriodMonths)
}
