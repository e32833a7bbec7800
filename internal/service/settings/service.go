package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/settings"
	"golang.org/x/sync/singleflight"
)

// Recalculator refreshes every cached vacation balance.
type Recalculator interface {
	RecalculateAll(ctx context.Context) (leave.RecalculateAllResponse, error)
}

// RecalculatorFunc adapts a function to Recalculator. The balance service reads
// settings, so main wires it through a closure to break the cycle.
type RecalculatorFunc func(ctx context.Context) (leave.RecalculateAllResponse, error)

func (f RecalculatorFunc) RecalculateAll(ctx context.Context) (leave.RecalculateAllResponse, error) {
	return f(ctx)
}

type SettingsServiceImpl struct {
	settings.SettingsRepository
	balances Recalculator
	loads    singleflight.Group
}

// NewSettingsService returns the settings service. balances may be nil, in which
// case accrual changes are picked up by the next scheduled recalculation.
func NewSettingsService(repo settings.SettingsRepository, balances Recalculator) settings.SettingsService {
	return &SettingsServiceImpl{SettingsRepository: repo, balances: balances}
}

// Current implements settings.SettingsService.
// Concurrent callers share one repository read.
func (s *SettingsServiceImpl) Current(ctx context.Context) (settings.Settings, error) {
	// The flight is shared, so one caller's cancellation must not fail the others.
	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := s.loads.Do("settings", func() (interface{}, error) {
		current, err := s.SettingsRepository.Get(flightCtx)
		if errors.Is(err, settings.ErrSettingsNotFound) {
			return settings.Defaults(), nil
		}
		if err != nil {
			return settings.Settings{}, fmt.Errorf("failed to load settings: %w", err)
		}
		return current, nil
	})
	if err != nil {
		return settings.Settings{}, err
	}
	return v.(settings.Settings), nil
}

// Attendance implements settings.SettingsService.
func (s *SettingsServiceImpl) Attendance(ctx context.Context) (attendance.Settings, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return attendance.Settings{}, err
	}
	parsed, err := current.Attendance.Parse()
	if err != nil {
		slog.Warn("stored attendance settings are invalid, using defaults", "error", err)
		return attendance.DefaultSettings(), nil
	}
	return parsed, nil
}

// Get implements settings.SettingsService.
func (s *SettingsServiceImpl) Get(ctx context.Context) (settings.SettingsResponse, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}
	return settings.ToResponse(current), nil
}

// UpdateGeneral implements settings.SettingsService.
func (s *SettingsServiceImpl) UpdateGeneral(ctx context.Context, req settings.UpdateGeneralRequest) (settings.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.SettingsResponse{}, err
	}

	current, err := s.Current(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	next := req.Apply(current)
	if err := s.SettingsRepository.SaveGeneral(ctx, next); err != nil {
		return settings.SettingsResponse{}, fmt.Errorf("failed to save settings: %w", err)
	}

	slog.Info("settings updated", "language", next.Language, "monthly_vacation_days", next.MonthlyVacationDays.String())

	// Cached balances are derived from the accrual rate and probation period.
	if accrualChanged(current, next) && s.balances != nil {
		result, err := s.balances.RecalculateAll(ctx)
		if err != nil {
			slog.Error("failed to recalculate vacation balances after settings change", "error", err)
		} else {
			slog.Info("vacation balances recalculated after settings change", "processed", result.Processed, "failed", result.Failed)
		}
	}
	return settings.ToResponse(next), nil
}

func accrualChanged(prev, next settings.Settings) bool {
	return !prev.MonthlyVacationDays.Equal(next.MonthlyVacationDays) ||
		prev.ProbationPeriodMonths != next.ProbationPeriodMonths
}

// UpdateAttendance implements settings.SettingsService.
// Every field is validated before the single write; on error nothing changes.
func (s *SettingsServiceImpl) UpdateAttendance(ctx context.Context, req settings.UpdateAttendanceRequest) (settings.SettingsResponse, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	doc, err := req.Merge(current.Attendance)
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	if err := s.SettingsRepository.SaveAttendance(ctx, doc); err != nil {
		return settings.SettingsResponse{}, fmt.Errorf("failed to save attendance settings: %w", err)
	}

	current.Attendance = doc
	slog.Info("attendance settings updated",
		"lunch_break_start", doc.LunchBreakStart,
		"lunch_break_end", doc.LunchBreakEnd,
		"working_days", doc.WorkingDays,
	)
	return settings.ToResponse(current), nil
}
