package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/fingerprint"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type fingerprintRepositoryImpl struct {
	db *database.DB
}

func NewFingerprintRepository(db *database.DB) fingerprint.FingerprintRepository {
	return &fingerprintRepositoryImpl{db: db}
}

const enrollmentColumns = `
	employee_id, template_id, device_id, biometric_id, status, is_active,
	template_data, template_format, enrolled_at, updated_at`

func scanEnrollment(row pgx.Row) (fingerprint.Enrollment, error) {
	var e fingerprint.Enrollment
	err := row.Scan(
		&e.EmployeeID,
		&e.TemplateID,
		&e.DeviceID,
		&e.BiometricID,
		&e.Status,
		&e.IsActive,
		&e.TemplateData,
		&e.TemplateFormat,
		&e.EnrolledAt,
		&e.UpdatedAt,
	)
	return e, err
}

// Upsert implements fingerprint.FingerprintRepository.
// A confirm without template data keeps any backup stored earlier.
func (r *fingerprintRepositoryImpl) Upsert(ctx context.Context, e fingerprint.Enrollment) (fingerprint.Enrollment, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return fingerprint.Enrollment{}, err
	}

	query := `
		INSERT INTO fingerprint_enrollments (
			id, employee_id, template_id, device_id, biometric_id, status, is_active,
			template_data, template_format, enrolled_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (employee_id) DO UPDATE SET
			template_id     = EXCLUDED.template_id,
			device_id       = EXCLUDED.device_id,
			biometric_id    = COALESCE(EXCLUDED.biometric_id, fingerprint_enrollments.biometric_id),
			status          = EXCLUDED.status,
			is_active       = EXCLUDED.is_active,
			template_data   = COALESCE(EXCLUDED.template_data, fingerprint_enrollments.template_data),
			template_format = COALESCE(EXCLUDED.template_format, fingerprint_enrollments.template_format),
			enrolled_at     = EXCLUDED.enrolled_at,
			updated_at      = NOW()
		RETURNING ` + enrollmentColumns

	saved, err := scanEnrollment(q.QueryRow(ctx, query,
		id.String(),
		e.EmployeeID,
		e.TemplateID,
		e.DeviceID,
		e.BiometricID,
		string(e.Status),
		e.IsActive,
		e.TemplateData,
		e.TemplateFormat,
		e.EnrolledAt,
	))
	if err != nil {
		return fingerprint.Enrollment{}, fmt.Errorf("failed to upsert fingerprint enrollment: %w", err)
	}
	return saved, nil
}

// GetByEmployeeID implements fingerprint.FingerprintRepository.
func (r *fingerprintRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) (fingerprint.Enrollment, error) {
	q := GetQuerier(ctx, r.db)
	e, err := scanEnrollment(q.QueryRow(ctx, "SELECT "+enrollmentColumns+" FROM fingerprint_enrollments WHERE employee_id = $1", employeeID))
	if err != nil {
		return fingerprint.Enrollment{}, notFound(err, fingerprint.ErrEnrollmentNotFound)
	}
	return e, nil
}

// ListActive implements fingerprint.FingerprintRepository.
func (r *fingerprintRepositoryImpl) ListActive(ctx context.Context) ([]fingerprint.Enrollment, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, "SELECT "+enrollmentColumns+" FROM fingerprint_enrollments WHERE is_active ORDER BY employee_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list fingerprint enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := make([]fingerprint.Enrollment, 0)
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// Deactivate implements fingerprint.FingerprintRepository.
func (r *fingerprintRepositoryImpl) Deactivate(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE fingerprint_enrollments
		SET is_active = FALSE, updated_at = NOW()
		WHERE employee_id = $1 AND is_active
	`, employeeID)
	if err != nil {
		return fmt.Errorf("failed to deactivate fingerprint enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fingerprint.ErrEnrollmentNotFound
	}
	return nil
}

// ListPendingUsers implements fingerprint.FingerprintRepository.
func (r *fingerprintRepositoryImpl) ListPendingUsers(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE status = $1
		  AND NOT EXISTS (
			SELECT 1 FROM fingerprint_enrollments f
			WHERE f.employee_id = users.employee_id AND f.is_active AND f.status = $2
		  )
		ORDER BY created_at DESC
	`, string(user.StatusActive), string(fingerprint.StatusEnrolled))
	if err != nil {
		return nil, fmt.Errorf("failed to list users pending enrollment: %w", err)
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
