package advance

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/advance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/approval"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/notification"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
)

type SalaryAdvanceServiceImpl struct {
	advance.SalaryAdvanceRepository
	users    user.UserRepository
	notifier notification.Publisher
}

func NewSalaryAdvanceService(
	advanceRepository advance.SalaryAdvanceRepository,
	userRepository user.UserRepository,
	notifier notification.Publisher,
) advance.SalaryAdvanceService {
	return &SalaryAdvanceServiceImpl{
		SalaryAdvanceRepository: advanceRepository,
		users:                   userRepository,
		notifier:                notifier,
	}
}

func (s *SalaryAdvanceServiceImpl) notify(ctx context.Context, req notification.CreateNotificationRequest) {
	if err := s.notifier.Publish(ctx, req); err != nil {
		slog.Error("failed to publish notification", "kind", req.Kind, "error", err)
	}
}

// Create implements advance.SalaryAdvanceService.
func (s *SalaryAdvanceServiceImpl) Create(ctx context.Context, viewer access.Viewer, req advance.CreateAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	requester, err := s.users.GetByID(ctx, viewer.UserID)
	if err != nil {
		return advance.AdvanceResponse{}, fmt.Errorf("failed to get requester: %w", err)
	}
	if !requester.IsActive() {
		return advance.AdvanceResponse{}, user.ErrUserInactive
	}

	created, err := s.SalaryAdvanceRepository.Create(ctx, advance.Request{
		UserID:      requester.ID,
		CompanyID:   requester.CompanyIDValue(),
		Amount:      req.Amount,
		Reason:      req.Reason,
		RequestDate: req.Date,
		Status:      approval.StatusPending,
	})
	if err != nil {
		return advance.AdvanceResponse{}, fmt.Errorf("failed to create salary advance: %w", err)
	}

	summary := fmt.Sprintf("%s has requested a salary advance of %s", requester.FullName(), req.Amount.StringFixed(2))
	s.notify(ctx, notification.Personal(requester.ID, notification.KindSalaryAdvanceRequest,
		"Salary Advance Submitted", summary, created.ID))
	if created.CompanyID != "" {
		s.notify(ctx, notification.Broadcast(created.CompanyID,
			[]access.Role{access.RoleSupervisor, access.RoleAdmin}, notification.KindSalaryAdvanceRequest,
			"New Salary Advance Needs Review", summary, created.ID))
	}

	slog.Info("salary advance created", "advance_id", created.ID, "user_id", created.UserID, "amount", created.Amount.String())
	return advance.ToResponse(created), nil
}

// Get implements advance.SalaryAdvanceService.
func (s *SalaryAdvanceServiceImpl) Get(ctx context.Context, viewer access.Viewer, id string) (advance.AdvanceResponse, error) {
	r, err := s.SalaryAdvanceRepository.GetByID(ctx, id)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	if err := access.Authorize(viewer, access.ResourceSalaryAdvance, r.Ownership()); err != nil {
		return advance.AdvanceResponse{}, err
	}
	return advance.ToResponse(r), nil
}

// List implements advance.SalaryAdvanceService.
func (s *SalaryAdvanceServiceImpl) List(ctx context.Context, viewer access.Viewer, filter advance.AdvanceFilter) (advance.ListAdvanceResponse, error) {
	filter.Normalize()
	scope, err := access.ScopeFor(viewer, access.ResourceSalaryAdvance)
	if err != nil {
		return advance.ListAdvanceResponse{}, err
	}

	rows, total, err := s.SalaryAdvanceRepository.List(ctx, scope, filter)
	if err != nil {
		return advance.ListAdvanceResponse{}, fmt.Errorf("failed to list salary advances: %w", err)
	}

	advances := make([]advance.AdvanceResponse, 0, len(rows))
	for _, r := range rows {
		advances = append(advances, advance.ToResponse(r))
	}
	return advance.ListAdvanceResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Advances:   advances,
	}, nil
}

// Approve implements advance.SalaryAdvanceService.
func (s *SalaryAdvanceServiceImpl) Approve(ctx context.Context, viewer access.Viewer, req advance.ReviewAdvanceRequest) (advance.AdvanceResponse, error) {
	return s.review(ctx, viewer, req, approval.StatusApproved)
}

// Reject implements advance.SalaryAdvanceService.
func (s *SalaryAdvanceServiceImpl) Reject(ctx context.Context, viewer access.Viewer, req advance.ReviewAdvanceRequest) (advance.AdvanceResponse, error) {
	return s.review(ctx, viewer, req, approval.StatusRejected)
}

func (s *SalaryAdvanceServiceImpl) review(ctx context.Context, viewer access.Viewer, req advance.ReviewAdvanceRequest, decision approval.Status) (advance.AdvanceResponse, error) {
	r, err := s.SalaryAdvanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	if err := access.AuthorizeReview(viewer, r.CompanyID); err != nil {
		return advance.AdvanceResponse{}, err
	}
	next, err := r.Status.Review(decision)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	now := time.Now().UTC()
	err = s.SalaryAdvanceRepository.Review(ctx, advance.Review{
		ID:         r.ID,
		Status:     next,
		ReviewedBy: viewer.UserID,
		Comment:    req.Comment,
		ReviewedAt: now,
	})
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	r.Status = next
	r.ReviewedBy = &viewer.UserID
	r.ReviewComment = req.Comment
	r.ReviewedAt = &now

	s.notify(ctx, notification.Personal(r.UserID, notification.KindSalaryAdvanceStatus,
		"Salary Advance "+statusTitle(next),
		fmt.Sprintf("Your salary advance request of %s has been %s", r.Amount.StringFixed(2), next), r.ID))

	slog.Info("salary advance reviewed", "advance_id", r.ID, "status", next, "reviewed_by", viewer.UserID)
	return advance.ToResponse(r), nil
}

func statusTitle(s approval.Status) string {
	if s == approval.StatusApproved {
		return "Approved"
	}
	return "Rejected"
}

// Delete implements advance.SalaryAdvanceService.
func (s *SalaryAdvanceServiceImpl) Delete(ctx context.Context, viewer access.Viewer, id string) error {
	r, err := s.SalaryAdvanceRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := access.AuthorizeOwner(viewer, r.UserID); err != nil {
		return err
	}
	if err := r.Status.Withdrawable(); err != nil {
		return err
	}
	if err := s.SalaryAdvanceRepository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete salary advance: %w", err)
	}
	return nil
}

// Statistics implements advance.SalaryAdvanceService.
func (s *SalaryAdvanceServiceImpl) Statistics(ctx context.Context, viewer access.Viewer) (advance.StatisticsResponse, error) {
	scope, err := access.ScopeFor(viewer, access.ResourceSalaryAdvance)
	if err != nil {
		return advance.StatisticsResponse{}, err
	}
	stats, err := s.SalaryAdvanceRepository.Statistics(ctx, scope)
	if err != nil {
		return advance.StatisticsResponse{}, fmt.Errorf("failed to get salary advance statistics: %w", err)
	}
	return advance.StatisticsResponse{
		Total:       stats.Total,
		Pending:     stats.Pending,
		Approved:    stats.Approved,
		Rejected:    stats.Rejected,
		TotalAmount: stats.ApprovedAmount,
	}, nil
}
