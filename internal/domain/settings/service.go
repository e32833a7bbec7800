package settings

import (
	"context"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
)

type SettingsService interface {
	Get(ctx context.Context) (SettingsResponse, error)
	UpdateGeneral(ctx context.Context, req UpdateGeneralRequest) (SettingsResponse, error)
	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (SettingsResponse, error)

	// Current returns the stored settings, or the defaults when none were saved yet
	Current(ctx context.Context) (Settings, error)

	// Attendance returns the parsed attendance settings used by the calculators
	Attendance(ctx context.Context) (attendance.Settings, error)
}
