package fingerprint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/fingerprint"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/notification"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
)

type FingerprintServiceImpl struct {
	fingerprint.FingerprintRepository
	users    user.UserRepository
	notifier notification.Publisher

	now func() time.Time
}

func NewFingerprintService(repo fingerprint.FingerprintRepository, userRepo user.UserRepository, notifier notification.Publisher) fingerprint.FingerprintService {
	return &FingerprintServiceImpl{
		FingerprintRepository: repo,
		users:                 userRepo,
		notifier:              notifier,
		now:                   func() time.Time { return time.Now().UTC() },
	}
}

// Enroll implements fingerprint.FingerprintService.
func (s *FingerprintServiceImpl) Enroll(ctx context.Context, req fingerprint.EnrollRequest) (fingerprint.EnrollmentResponse, error) {
	if err := req.Validate(); err != nil {
		return fingerprint.EnrollmentResponse{}, err
	}
	u, err := s.users.GetByEmployeeID(ctx, req.EmployeeID)
	if err != nil {
		return fingerprint.EnrollmentResponse{}, err
	}

	existing, err := s.FingerprintRepository.GetByEmployeeID(ctx, req.EmployeeID)
	switch {
	case err == nil && existing.IsActive && existing.Status == fingerprint.StatusEnrolled:
		return fingerprint.EnrollmentResponse{}, fingerprint.ErrAlreadyEnrolled
	case err != nil && !errors.Is(err, fingerprint.ErrEnrollmentNotFound):
		return fingerprint.EnrollmentResponse{}, fmt.Errorf("failed to get fingerprint enrollment: %w", err)
	}

	saved, err := s.FingerprintRepository.Upsert(ctx, fingerprint.Enrollment{
		EmployeeID:  u.EmployeeID,
		TemplateID:  req.TemplateID,
		DeviceID:    req.DeviceID,
		BiometricID: u.BiometricID,
		Status:      fingerprint.StatusEnrolled,
		IsActive:    true,
		EnrolledAt:  s.now(),
	})
	if err != nil {
		return fingerprint.EnrollmentResponse{}, fmt.Errorf("failed to save fingerprint enrollment: %w", err)
	}

	slog.Info("fingerprint enrolled", "employee_id", u.EmployeeID, "device_id", req.DeviceID)
	s.notifyEnrolled(ctx, u)
	return fingerprint.ToResponse(saved), nil
}

// Check implements fingerprint.FingerprintService.
func (s *FingerprintServiceImpl) Check(ctx context.Context, employeeID string) (fingerprint.CheckResponse, error) {
	if _, err := s.users.GetByEmployeeID(ctx, employeeID); err != nil {
		return fingerprint.CheckResponse{}, err
	}

	resp := fingerprint.CheckResponse{EmployeeID: employeeID, Status: string(fingerprint.StatusPending)}
	e, err := s.FingerprintRepository.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, fingerprint.ErrEnrollmentNotFound) {
			return resp, nil
		}
		return fingerprint.CheckResponse{}, fmt.Errorf("failed to get fingerprint enrollment: %w", err)
	}
	if !e.IsActive {
		return resp, nil
	}

	resp.HasFingerprint = e.Status == fingerprint.StatusEnrolled
	resp.Status = string(e.Status)
	resp.TemplateID = &e.TemplateID
	resp.DeviceID = &e.DeviceID
	resp.EnrolledAt = &e.EnrolledAt
	return resp, nil
}

// Templates implements fingerprint.FingerprintService.
func (s *FingerprintServiceImpl) Templates(ctx context.Context) (fingerprint.TemplatesResponse, error) {
	enrollments, err := s.FingerprintRepository.ListActive(ctx)
	if err != nil {
		return fingerprint.TemplatesResponse{}, fmt.Errorf("failed to list fingerprint templates: %w", err)
	}
	templates := make(map[string]string, len(enrollments))
	for _, e := range enrollments {
		templates[e.EmployeeID] = e.TemplateID
	}
	return fingerprint.TemplatesResponse{Templates: templates, Count: len(templates)}, nil
}

// Remove implements fingerprint.FingerprintService.
func (s *FingerprintServiceImpl) Remove(ctx context.Context, employeeID string) error {
	if err := s.FingerprintRepository.Deactivate(ctx, employeeID); err != nil {
		if errors.Is(err, fingerprint.ErrEnrollmentNotFound) {
			return err
		}
		return fmt.Errorf("failed to remove fingerprint: %w", err)
	}
	slog.Info("fingerprint removed", "employee_id", employeeID)
	return nil
}

// biometricFromEmployeeID derives the terminal slot from the digits of an
// employee id ("EMP0042" -> 42).
func biometricFromEmployeeID(employeeID string) (int, bool) {
	digits := strings.TrimPrefix(strings.ToUpper(employeeID), "EMP")
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Pending implements fingerprint.FingerprintService. Users without a biometric
// id get one derived from their employee id when that slot is free.
func (s *FingerprintServiceImpl) Pending(ctx context.Context) ([]fingerprint.PendingUserResponse, error) {
	users, err := s.FingerprintRepository.ListPendingUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending users: %w", err)
	}

	pending := make([]fingerprint.PendingUserResponse, 0, len(users))
	for _, u := range users {
		biometricID, ok := s.ensureBiometricID(ctx, u)
		if !ok {
			continue
		}
		pending = append(pending, fingerprint.PendingUserResponse{
			EmployeeID:  u.EmployeeID,
			BiometricID: biometricID,
			FullName:    u.FullName(),
			Department:  u.Department,
			Position:    u.Position,
			Status:      string(fingerprint.StatusPending),
			CreatedAt:   u.CreatedAt,
		})
	}
	return pending, nil
}

func (s *FingerprintServiceImpl) ensureBiometricID(ctx context.Context, u user.User) (int, bool) {
	if u.BiometricID != nil {
		return *u.BiometricID, true
	}
	derived, ok := biometricFromEmployeeID(u.EmployeeID)
	if !ok {
		slog.Warn("cannot derive biometric id", "employee_id", u.EmployeeID)
		return 0, false
	}
	if holder, err := s.users.GetByBiometricID(ctx, derived); err == nil && holder.ID != u.ID {
		slog.Warn("derived biometric id already taken", "employee_id", u.EmployeeID, "biometric_id", derived, "holder", holder.EmployeeID)
		return 0, false
	}
	if err := s.users.Update(ctx, user.UpdateUserRequest{ID: u.ID, BiometricID: &derived}); err != nil {
		slog.Error("failed to assign biometric id", "employee_id", u.EmployeeID, "error", err)
		return 0, false
	}
	return derived, true
}

// Confirm implements fingerprint.FingerprintService.
func (s *FingerprintServiceImpl) Confirm(ctx context.Context, req fingerprint.ConfirmRequest) (fingerprint.ConfirmResponse, error) {
	if err := req.Validate(); err != nil {
		return fingerprint.ConfirmResponse{}, err
	}
	u, err := s.users.GetByBiometricID(ctx, req.BiometricID)
	if err != nil {
		return fingerprint.ConfirmResponse{}, err
	}

	biometricID := req.BiometricID
	enrollment := fingerprint.Enrollment{
		EmployeeID:  u.EmployeeID,
		TemplateID:  strconv.Itoa(biometricID),
		DeviceID:    strconv.Itoa(biometricID),
		BiometricID: &biometricID,
		Status:      fingerprint.StatusEnrolled,
		IsActive:    true,
		EnrolledAt:  s.now(),
	}
	if req.TemplateData != nil && *req.TemplateData != "" {
		format := fingerprint.TemplateFormat
		enrollment.TemplateData = req.TemplateData
		enrollment.TemplateFormat = &format
	}

	saved, err := s.FingerprintRepository.Upsert(ctx, enrollment)
	if err != nil {
		return fingerprint.ConfirmResponse{}, fmt.Errorf("failed to confirm fingerprint: %w", err)
	}

	slog.Info("fingerprint confirmed", "employee_id", u.EmployeeID, "biometric_id", biometricID, "backup", saved.HasBackup())
	s.notifyEnrolled(ctx, u)
	return fingerprint.ConfirmResponse{
		EmployeeID:        u.EmployeeID,
		BiometricID:       biometricID,
		FullName:          u.FullName(),
		HasTemplateBackup: saved.HasBackup(),
	}, nil
}

// UpdateTemplate implements fingerprint.FingerprintService.
func (s *FingerprintServiceImpl) UpdateTemplate(ctx context.Context, req fingerprint.UpdateTemplateRequest) (fingerprint.EnrollmentResponse, error) {
	if err := req.Validate(); err != nil {
		return fingerprint.EnrollmentResponse{}, err
	}
	u, err := s.users.GetByEmployeeID(ctx, req.EmployeeID)
	if err != nil {
		return fingerprint.EnrollmentResponse{}, err
	}

	saved, err := s.FingerprintRepository.Upsert(ctx, fingerprint.Enrollment{
		EmployeeID:  u.EmployeeID,
		TemplateID:  req.TemplateID,
		DeviceID:    req.DeviceID,
		BiometricID: u.BiometricID,
		Status:      fingerprint.StatusEnrolled,
		IsActive:    true,
		EnrolledAt:  s.now(),
	})
	if err != nil {
		return fingerprint.EnrollmentResponse{}, fmt.Errorf("failed to update fingerprint template: %w", err)
	}
	return fingerprint.ToResponse(saved), nil
}

func (s *FingerprintServiceImpl) notifyEnrolled(ctx context.Context, u user.User) {
	if s.notifier == nil {
		return
	}
	req := notification.Personal(u.ID, notification.KindFingerprint,
		"Fingerprint Registered",
		"Your fingerprint has been registered on the attendance terminal.",
		u.EmployeeID)
	if err := s.notifier.Publish(ctx, req); err != nil {
		slog.Error("failed to publish fingerprint notification", "user_id", u.ID, "error", err)
	}
}
