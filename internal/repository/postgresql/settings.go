package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/settings"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
)

type settingsRepositoryImpl struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

// Get implements settings.SettingsRepository.
func (r *settingsRepositoryImpl) Get(ctx context.Context) (settings.Settings, error) {
	q := GetQuerier(ctx, r.db)

	var s settings.Settings
	err := q.QueryRow(ctx, `
		SELECT language, monthly_vacation_days, probation_period_months, include_weekends,
		       max_consecutive_days, attendance, updated_at
		FROM settings
		WHERE id = 1
	`).Scan(
		&s.Language,
		&s.MonthlyVacationDays,
		&s.ProbationPeriodMonths,
		&s.IncludeWeekends,
		&s.MaxConsecutiveDays,
		&s.Attendance,
		&s.UpdatedAt,
	)
	if err != nil {
		return settings.Settings{}, notFound(err, settings.ErrSettingsNotFound)
	}
	return s, nil
}

// SaveGeneral implements settings.SettingsRepository.
func (r *settingsRepositoryImpl) SaveGeneral(ctx context.Context, s settings.Settings) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO settings (id, language, monthly_vacation_days, probation_period_months,
		                      include_weekends, max_consecutive_days, attendance)
		VALUES (1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			language                = EXCLUDED.language,
			monthly_vacation_days   = EXCLUDED.monthly_vacation_days,
			probation_period_months = EXCLUDED.probation_period_months,
			include_weekends        = EXCLUDED.include_weekends,
			max_consecutive_days    = EXCLUDED.max_consecutive_days,
			updated_at              = NOW()
	`, s.Language, s.MonthlyVacationDays, s.ProbationPeriodMonths, s.IncludeWeekends, s.MaxConsecutiveDays, s.Attendance)
	if err != nil {
		return fmt.Errorf("failed to save general settings: %w", err)
	}
	return nil
}

// SaveAttendance implements settings.SettingsRepository.
// The document is replaced whole so readers never observe a partial update.
func (r *settingsRepositoryImpl) SaveAttendance(ctx context.Context, doc settings.AttendanceDocument) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO settings (id, attendance)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET attendance = EXCLUDED.attendance, updated_at = NOW()
	`, doc)
	if err != nil {
		return fmt.Errorf("failed to save attendance settings: %w", err)
	}
	return nil
}
