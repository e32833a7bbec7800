package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/advance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/approval"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/dashboard"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/project"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/timewindow"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	projects project.ProjectRepository
	leaves   leave.LeaveService
	advances advance.SalaryAdvanceService

	location *time.Location
	now      func() time.Time
}

func NewDashboardService(repo dashboard.DashboardRepository, projectRepo project.ProjectRepository, leaveService leave.LeaveService, advanceService advance.SalaryAdvanceService, location *time.Location) dashboard.DashboardService {
	if location == nil {
		location = time.UTC
	}
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		projects:            projectRepo,
		leaves:              leaveService,
		advances:            advanceService,
		location:            location,
		now:                 time.Now,
	}
}

// Statistics implements dashboard.DashboardService.
// Every counter is fetched in parallel; the first failure cancels the rest.
func (s *DashboardServiceImpl) Statistics(ctx context.Context, viewer access.Viewer) (dashboard.StatisticsResponse, error) {
	projectScope, err := access.ScopeFor(viewer, access.ResourceProject)
	if err != nil {
		return dashboard.StatisticsResponse{}, err
	}
	attendanceScope, err := access.ScopeFor(viewer, access.ResourceAttendance)
	if err != nil {
		return dashboard.StatisticsResponse{}, err
	}
	userScope, err := access.ScopeFor(viewer, access.ResourceUser)
	if err != nil {
		return dashboard.StatisticsResponse{}, err
	}

	now := s.now().In(s.location)
	today := timewindow.Day(now)
	resp := dashboard.StatisticsResponse{
		Scope:       userScope.Kind.String(),
		GeneratedAt: now.UTC(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := s.leaves.Statistics(gctx, viewer)
		if err != nil {
			return err
		}
		resp.Leaves = stats
		return nil
	})

	g.Go(func() error {
		stats, err := s.advances.Statistics(gctx, viewer)
		if err != nil {
			return err
		}
		resp.SalaryAdvances = stats
		return nil
	})

	g.Go(func() error {
		count, err := s.projects.CountActive(gctx, projectScope)
		if err != nil {
			return fmt.Errorf("failed to count active projects: %w", err)
		}
		resp.ActiveProjects = count
		return nil
	})

	g.Go(func() error {
		stats, err := s.DashboardRepository.AttendanceBetween(gctx, attendanceScope, today.Start, today.End)
		if err != nil {
			return fmt.Errorf("failed to get attendance stats: %w", err)
		}
		resp.Attendance = dashboard.AttendanceResponse{
			Date:      today.Start.Format("2006-01-02"),
			CheckIns:  stats.CheckIns,
			CheckOuts: stats.CheckOuts,
			Present:   stats.Present,
		}
		return nil
	})

	if viewer.Role.CanReview() {
		g.Go(func() error {
			summary, err := s.DashboardRepository.EmployeeSummary(gctx, userScope, now.Add(-dashboard.NewEmployeeWindow))
			if err != nil {
				return fmt.Errorf("failed to get employee summary: %w", err)
			}
			resp.Employees = &dashboard.EmployeeSummaryResponse{
				Total:       summary.Total,
				Active:      summary.Active,
				Deactivated: summary.Deactivated,
				New:         summary.New,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return dashboard.StatisticsResponse{}, err
	}
	return resp, nil
}

// PendingApprovals implements dashboard.DashboardService.
func (s *DashboardServiceImpl) PendingApprovals(ctx context.Context, viewer access.Viewer, limit int) (dashboard.PendingApprovalsResponse, error) {
	if !viewer.Role.CanReview() {
		return dashboard.PendingApprovalsResponse{}, access.ErrUnauthorized
	}
	if limit < 1 || limit > 100 {
		limit = dashboard.DefaultPendingLimit
	}
	pending := approval.StatusPending

	var (
		leaves   leave.ListLeaveResponse
		advances advance.ListAdvanceResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		leaves, err = s.leaves.List(gctx, viewer, leave.LeaveFilter{Status: &pending, Page: 1, Limit: limit})
		return err
	})
	g.Go(func() error {
		var err error
		advances, err = s.advances.List(gctx, viewer, advance.AdvanceFilter{Status: &pending, Page: 1, Limit: limit})
		return err
	})
	if err := g.Wait(); err != nil {
		return dashboard.PendingApprovalsResponse{}, err
	}

	resp := dashboard.PendingApprovalsResponse{
		Leaves:              leaves.Leaves,
		SalaryAdvances:      advances.Advances,
		TotalLeaves:         leaves.TotalCount,
		TotalSalaryAdvances: advances.TotalCount,
	}
	if resp.Leaves == nil {
		resp.Leaves = []leave.LeaveResponse{}
	}
	if resp.SalaryAdvances == nil {
		resp.SalaryAdvances = []advance.AdvanceResponse{}
	}
	return resp, nil
}
