package leave

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/approval"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/notification"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type LeaveServiceImpl struct {
	db database.Transactor
	leave.LeaveRequestRepository
	users    user.UserRepository
	balances leave.BalanceService
	notifier notification.Publisher
}

func NewLeaveService(
	db database.Transactor,
	leaveRequestRepository leave.LeaveRequestRepository,
	userRepository user.UserRepository,
	balances leave.BalanceService,
	notifier notification.Publisher,
) leave.LeaveService {
	return &LeaveServiceImpl{
		db:                     db,
		LeaveRequestRepository: leaveRequestRepository,
		users:                  userRepository,
		balances:               balances,
		notifier:               notifier,
	}
}

// notify publishes best-effort; a failed notification never fails the request.
func (s *LeaveServiceImpl) notify(ctx context.Context, req notification.CreateNotificationRequest) {
	if err := s.notifier.Publish(ctx, req); err != nil {
		slog.Error("failed to publish notification", "kind", req.Kind, "error", err)
	}
}

// currentBalance returns the balance a new request of type t is checked against.
// Annual leave uses the accrued vacation balance, computing it on first use.
func (s *LeaveServiceImpl) currentBalance(ctx context.Context, u user.User, t leave.Type) (decimal.Decimal, error) {
	if !t.Accrues() {
		return u.LeaveBalance.Get(string(t)), nil
	}
	if u.Vacation.CalculatedAt != nil {
		return u.Vacation.Balance, nil
	}
	acc, err := s.balances.Recompute(ctx, u.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute vacation balance: %w", err)
	}
	return acc.Balance, nil
}

// Create implements leave.LeaveService.
// An insufficient balance is recorded on the request but does not reject it.
func (s *LeaveServiceImpl) Create(ctx context.Context, viewer access.Viewer, req leave.CreateLeaveRequest) (leave.CreateLeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.CreateLeaveResponse{}, err
	}

	requester, err := s.users.GetByID(ctx, viewer.UserID)
	if err != nil {
		return leave.CreateLeaveResponse{}, fmt.Errorf("failed to get requester: %w", err)
	}
	if !requester.IsActive() {
		return leave.CreateLeaveResponse{}, user.ErrUserInactive
	}

	balance, err := s.currentBalance(ctx, requester, req.Type)
	if err != nil {
		return leave.CreateLeaveResponse{}, err
	}
	insufficient := balance.LessThan(req.Days)

	created, err := s.LeaveRequestRepository.Create(ctx, leave.Request{
		UserID:              requester.ID,
		CompanyID:           requester.CompanyIDValue(),
		Type:                req.Type,
		StartDate:           req.Start,
		EndDate:             req.End,
		Days:                req.Days,
		Reason:              req.Reason,
		Status:              approval.StatusPending,
		BalanceAtRequest:    balance,
		InsufficientBalance: insufficient,
	})
	if err != nil {
		return leave.CreateLeaveResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	summary := fmt.Sprintf("%s has requested %s days of %s leave", requester.FullName(), req.Days.String(), req.Type)
	s.notify(ctx, notification.Personal(requester.ID, notification.KindLeaveRequest,
		"Leave Request Submitted", summary, created.ID))
	if created.CompanyID != "" {
		s.notify(ctx, notification.Broadcast(created.CompanyID,
			[]access.Role{access.RoleSupervisor, access.RoleAdmin}, notification.KindLeaveRequest,
			"New Leave Request Needs Review", summary, created.ID))
	}

	slog.Info("leave request created",
		"leave_id", created.ID,
		"user_id", created.UserID,
		"type", created.Type,
		"days", created.Days.String(),
		"insufficient_balance", insufficient,
	)

	return leave.CreateLeaveResponse{
		Leave:               leave.ToResponse(created),
		InsufficientBalance: insufficient,
		CurrentBalance:      balance,
		RequestedDays:       req.Days,
	}, nil
}

// Get implements leave.LeaveService.
func (s *LeaveServiceImpl) Get(ctx context.Context, viewer access.Viewer, id string) (leave.LeaveResponse, error) {
	r, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if err := access.Authorize(viewer, access.ResourceLeave, r.Ownership()); err != nil {
		return leave.LeaveResponse{}, err
	}
	return leave.ToResponse(r), nil
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, viewer access.Viewer, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	filter.Normalize()
	scope, err := access.ScopeFor(viewer, access.ResourceLeave)
	if err != nil {
		return leave.ListLeaveResponse{}, err
	}

	rows, total, err := s.LeaveRequestRepository.List(ctx, scope, filter)
	if err != nil {
		return leave.ListLeaveResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	leaves := make([]leave.LeaveResponse, 0, len(rows))
	for _, r := range rows {
		leaves = append(leaves, leave.ToResponse(r))
	}
	return leave.ListLeaveResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Leaves:     leaves,
	}, nil
}

// Approve implements leave.LeaveService.
func (s *LeaveServiceImpl) Approve(ctx context.Context, viewer access.Viewer, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error) {
	return s.review(ctx, viewer, req, approval.StatusApproved)
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, viewer access.Viewer, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error) {
	return s.review(ctx, viewer, req, approval.StatusRejected)
}

// review applies a decision and its balance effect atomically. Approved annual
// leave triggers a full recompute; other types are deducted from the fixed balance.
func (s *LeaveServiceImpl) review(ctx context.Context, viewer access.Viewer, req leave.ReviewLeaveRequest, decision approval.Status) (leave.LeaveResponse, error) {
	r, err := s.LeaveRequestRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if err := access.AuthorizeReview(viewer, r.CompanyID); err != nil {
		return leave.LeaveResponse{}, err
	}
	next, err := r.Status.Review(decision)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	now := time.Now().UTC()
	err = s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		err := s.LeaveRequestRepository.Review(txCtx, leave.Review{
			ID:         r.ID,
			Status:     next,
			ReviewedBy: viewer.UserID,
			Comment:    req.Comment,
			ReviewedAt: now,
		})
		if err != nil {
			return err
		}
		if next != approval.StatusApproved {
			return nil
		}

		if r.Type.Accrues() {
			_, err := s.balances.Recompute(txCtx, r.UserID)
			return err
		}
		owner, err := s.users.GetByID(txCtx, r.UserID)
		if err != nil {
			return fmt.Errorf("failed to get leave owner: %w", err)
		}
		return s.users.UpdateLeaveBalance(txCtx, owner.ID, owner.LeaveBalance.Deduct(string(r.Type), r.Days))
	})
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	r.Status = next
	r.ReviewedBy = &viewer.UserID
	r.ReviewComment = req.Comment
	r.ReviewedAt = &now

	title := "Leave Request Approved"
	if next == approval.StatusRejected {
		title = "Leave Request Rejected"
	}
	s.notify(ctx, notification.Personal(r.UserID, notification.KindLeaveStatus, title,
		fmt.Sprintf("Your %s-day %s leave request has been %s", r.Days.String(), r.Type, next), r.ID))

	slog.Info("leave request reviewed", "leave_id", r.ID, "status", next, "reviewed_by", viewer.UserID)
	return leave.ToResponse(r), nil
}

// Delete implements leave.LeaveService.
// Only the owner may withdraw, and only while the request is pending.
func (s *LeaveServiceImpl) Delete(ctx context.Context, viewer access.Viewer, id string) error {
	r, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := access.AuthorizeOwner(viewer, r.UserID); err != nil {
		return err
	}
	if err := r.Status.Withdrawable(); err != nil {
		return err
	}
	if err := s.LeaveRequestRepository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	return nil
}

// Statistics implements leave.LeaveService.
func (s *LeaveServiceImpl) Statistics(ctx context.Context, viewer access.Viewer) (leave.StatisticsResponse, error) {
	scope, err := access.ScopeFor(viewer, access.ResourceLeave)
	if err != nil {
		return leave.StatisticsResponse{}, err
	}
	stats, err := s.LeaveRequestRepository.Statistics(ctx, scope)
	if err != nil {
		return leave.StatisticsResponse{}, fmt.Errorf("failed to get leave statistics: %w", err)
	}
	return leave.StatisticsResponse{
		Total:     stats.Total,
		Pending:   stats.Pending,
		Approved:  stats.Approved,
		Rejected:  stats.Rejected,
		TotalDays: stats.ApprovedDays,
	}, nil
}
