package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/settings"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// SettingsReader supplies the accrual policy (monthly rate and probation).
type SettingsReader interface {
	Current(ctx context.Context) (settings.Settings, error)
}

type BalanceServiceImpl struct {
	users       user.UserRepository
	requests    leave.LeaveRequestRepository
	settings    SettingsReader
	metrics     *metrics.Metrics
	parallelism int
	now         func() time.Time
}

func NewBalanceService(
	userRepository user.UserRepository,
	leaveRequestRepository leave.LeaveRequestRepository,
	settings SettingsReader,
	m *metrics.Metrics,
	parallelism int,
) leave.BalanceService {
	if parallelism < 1 {
		parallelism = 4
	}
	return &BalanceServiceImpl{
		users:       userRepository,
		requests:    leaveRequestRepository,
		settings:    settings,
		metrics:     m,
		parallelism: parallelism,
		now:         time.Now,
	}
}

func (s *BalanceServiceImpl) accrual(ctx context.Context, u user.User) (leave.Accrual, error) {
	used, err := s.requests.SumApprovedAnnualDays(ctx, u.ID)
	if err != nil {
		return leave.Accrual{}, fmt.Errorf("failed to sum approved annual leave: %w", err)
	}
	current, err := s.settings.Current(ctx)
	if err != nil {
		return leave.Accrual{}, err
	}

	acc, err := ComputeAccrual(AccrualInput{
		HireDate:        u.HireDate,
		Today:           s.now(),
		ProbationMonths: current.ProbationPeriodMonths,
		MonthlyRate:     current.MonthlyVacationDays,
		Used:            used,
	})
	if err != nil && !errors.Is(err, leave.ErrMissingHireDate) {
		return leave.Accrual{}, err
	}
	return acc, nil
}

// Recompute implements leave.BalanceService.
// A user without a hire date is stored with a zero accrual.
func (s *BalanceServiceImpl) Recompute(ctx context.Context, userID string) (leave.Accrual, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return leave.Accrual{}, err
	}
	acc, _, err := s.recompute(ctx, u)
	return acc, err
}

func (s *BalanceServiceImpl) recompute(ctx context.Context, u user.User) (leave.Accrual, user.VacationBalance, error) {
	acc, err := s.accrual(ctx, u)
	if err != nil {
		s.metrics.VacationRecalculated("error")
		return leave.Accrual{}, user.VacationBalance{}, err
	}

	now := s.now()
	cached := user.VacationBalance{
		Earned:       acc.Earned,
		Used:         acc.Used,
		Balance:      acc.Balance,
		CalculatedAt: &now,
	}
	if err := s.users.UpdateVacationBalance(ctx, u.ID, cached); err != nil {
		s.metrics.VacationRecalculated("error")
		return leave.Accrual{}, user.VacationBalance{}, fmt.Errorf("failed to store vacation balance: %w", err)
	}

	if u.HireDate == nil {
		s.metrics.VacationRecalculated("missing_hire_date")
		slog.Warn("vacation balance computed without hire date", "user_id", u.ID)
	} else {
		s.metrics.VacationRecalculated("ok")
	}
	if acc.Balance.IsNegative() {
		slog.Warn("vacation balance is negative", "user_id", u.ID, "balance", acc.Balance.String())
	}
	return acc, cached, nil
}

func (s *BalanceServiceImpl) authorize(ctx context.Context, viewer access.Viewer, userID string) (user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, err
	}
	err = access.Authorize(viewer, access.ResourceUser, access.Ownership{Owner: u.ID, CompanyID: u.CompanyIDValue()})
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (s *BalanceServiceImpl) response(u user.User, cached user.VacationBalance, current settings.Settings) leave.BalanceResponse {
	resp := leave.BalanceResponse{
		UserID:          u.ID,
		Earned:          cached.Earned,
		Used:            cached.Used,
		Balance:         cached.Balance,
		CalculatedAt:    cached.CalculatedAt,
		HasHireDate:     u.HireDate != nil,
		MonthlyRate:     current.MonthlyVacationDays,
		ProbationMonths: current.ProbationPeriodMonths,
	}
	if u.HireDate != nil {
		resp.MonthsOfService = monthsBetween(*u.HireDate, s.now())
		resp.MonthsAfterProbation = max(resp.MonthsOfService-current.ProbationPeriodMonths, 0)
	}
	return resp
}

// Balance implements leave.BalanceService.
func (s *BalanceServiceImpl) Balance(ctx context.Context, viewer access.Viewer, userID string) (leave.BalanceResponse, error) {
	u, err := s.authorize(ctx, viewer, userID)
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	cached := u.Vacation
	if cached.CalculatedAt == nil {
		if _, cached, err = s.recompute(ctx, u); err != nil {
			return leave.BalanceResponse{}, err
		}
	}

	current, err := s.settings.Current(ctx)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	return s.response(u, cached, current), nil
}

// RecalculateFor implements leave.BalanceService.
func (s *BalanceServiceImpl) RecalculateFor(ctx context.Context, viewer access.Viewer, userID string) (leave.BalanceResponse, error) {
	if !viewer.Role.CanReview() {
		return leave.BalanceResponse{}, access.ErrUnauthorized
	}
	u, err := s.authorize(ctx, viewer, userID)
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	_, cached, err := s.recompute(ctx, u)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	current, err := s.settings.Current(ctx)
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	slog.Info("vacation balance recalculated", "user_id", u.ID, "by", viewer.UserID, "balance", cached.Balance.String())
	return s.response(u, cached, current), nil
}

// RecalculateAll implements leave.BalanceService.
func (s *BalanceServiceImpl) RecalculateAll(ctx context.Context) (leave.RecalculateAllResponse, error) {
	ids, err := s.users.ListActiveIDs(ctx, nil)
	if err != nil {
		return leave.RecalculateAllResponse{}, fmt.Errorf("failed to list active users: %w", err)
	}
	return s.recalculate(ctx, ids)
}

// RecalculateVisible implements leave.BalanceService.
// Admins recalculate everyone; supervisors only their own company.
func (s *BalanceServiceImpl) RecalculateVisible(ctx context.Context, viewer access.Viewer) (leave.RecalculateAllResponse, error) {
	if !viewer.Role.CanReview() {
		return leave.RecalculateAllResponse{}, access.ErrUnauthorized
	}
	if viewer.Role == access.RoleAdmin {
		return s.RecalculateAll(ctx)
	}

	active := user.StatusActive
	users, err := s.scopedUsers(ctx, viewer, user.UserFilter{Status: &active})
	if err != nil {
		return leave.RecalculateAllResponse{}, err
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	slog.Info("vacation recalculation requested", "by", viewer.UserID, "company_id", viewer.CompanyID, "users", len(ids))
	return s.recalculate(ctx, ids)
}

// recalculate processes ids concurrently; one failure does not stop the others.
func (s *BalanceServiceImpl) recalculate(ctx context.Context, ids []string) (leave.RecalculateAllResponse, error) {
	var processed, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if _, err := s.Recompute(gctx, id); err != nil {
				failed.Add(1)
				slog.Error("failed to recalculate vacation balance", "user_id", id, "error", err)
				return nil
			}
			processed.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return leave.RecalculateAllResponse{}, err
	}

	resp := leave.RecalculateAllResponse{Processed: int(processed.Load()), Failed: int(failed.Load())}
	slog.Info("vacation balances recalculated", "processed", resp.Processed, "failed", resp.Failed)
	return resp, nil
}

// scopedUsers walks every page of the users viewer can see.
func (s *BalanceServiceImpl) scopedUsers(ctx context.Context, viewer access.Viewer, filter user.UserFilter) ([]user.User, error) {
	scope, err := access.ScopeFor(viewer, access.ResourceUser)
	if err != nil {
		return nil, err
	}

	filter.Limit = 100
	var all []user.User
	for filter.Page = 1; ; filter.Page++ {
		page, total, err := s.users.List(ctx, scope, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) == 0 || int64(len(all)) >= total {
			return all, nil
		}
	}
}

// ListBalances implements leave.BalanceService.
// Users never calculated are computed on the way out.
func (s *BalanceServiceImpl) ListBalances(ctx context.Context, viewer access.Viewer) ([]leave.EmployeeVacationResponse, error) {
	if !viewer.Role.CanReview() {
		return nil, access.ErrUnauthorized
	}

	role := access.RoleEmployee
	users, err := s.scopedUsers(ctx, viewer, user.UserFilter{Role: &role})
	if err != nil {
		return nil, err
	}

	result := make([]leave.EmployeeVacationResponse, 0, len(users))
	for _, u := range users {
		cached := u.Vacation
		if cached.CalculatedAt == nil {
			if _, cached, err = s.recompute(ctx, u); err != nil {
				return nil, err
			}
		}

		row := leave.EmployeeVacationResponse{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Position:  u.Position,
			Balance:   cached.Balance,
			Earned:    cached.Earned,
			Used:      cached.Used,
		}
		if u.HireDate != nil {
			hired := u.HireDate.Format("2006-01-02")
			row.HireDate = &hired
		}
		result = append(result, row)
	}
	return result, nil
}
