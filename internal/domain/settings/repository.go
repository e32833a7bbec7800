package settings

import "context"

type SettingsRepository interface {
	// Get returns the singleton row or ErrSettingsNotFound
	Get(ctx context.Context) (Settings, error)

	// SaveGeneral upserts every field except the attendance document
	SaveGeneral(ctx context.Context, s Settings) error

	// SaveAttendance replaces the attendance document in a single statement
	SaveAttendance(ctx context.Context, doc AttendanceDocument) error
}
