package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/advance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/approval"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/dashboard"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/project"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	employeeViewer   = access.Viewer{UserID: "u1", EmployeeID: "EMP0001", CompanyID: "company-a", Role: access.RoleEmployee}
	supervisorViewer = access.Viewer{UserID: "s1", EmployeeID: "EMP0010", CompanyID: "company-a", Role: access.RoleSupervisor}
	adminViewer      = access.Viewer{UserID: "a1", EmployeeID: "EMP0099", Role: access.RoleAdmin}
)

type scopeLog struct {
	mu     sync.Mutex
	scopes map[string]access.Scope
}

func (l *scopeLog) record(name string, scope access.Scope) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scopes[name] = scope
}

type fakeRepo struct {
	log  *scopeLog
	from time.Time
	to   time.Time
	err  error
}

func (f *fakeRepo) EmployeeSummary(ctx context.Context, scope access.Scope, since time.Time) (dashboard.EmployeeSummary, error) {
	f.log.record("employees", scope)
	return dashboard.EmployeeSummary{Total: 12, Active: 10, Deactivated: 2, New: 1}, nil
}

func (f *fakeRepo) AttendanceBetween(ctx context.Context, scope access.Scope, from, to time.Time) (dashboard.AttendanceStats, error) {
	f.log.record("attendance", scope)
	f.from, f.to = from, to
	if f.err != nil {
		return dashboard.AttendanceStats{}, f.err
	}
	return dashboard.AttendanceStats{CheckIns: 8, CheckOuts: 6, Present: 8}, nil
}

type fakeProjects struct {
	project.ProjectRepository
	log *scopeLog
}

func (f *fakeProjects) CountActive(ctx context.Context, scope access.Scope) (int64, error) {
	f.log.record("projects", scope)
	return 3, nil
}

type fakeLeaves struct {
	leave.LeaveService
	filter leave.LeaveFilter
}

func (f *fakeLeaves) Statistics(ctx context.Context, viewer access.Viewer) (leave.StatisticsResponse, error) {
	return leave.StatisticsResponse{Total: 5, Pending: 2, Approved: 3, TotalDays: decimal.NewFromInt(6)}, nil
}

func (f *fakeLeaves) List(ctx context.Context, viewer access.Viewer, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	f.filter = filter
	return leave.ListLeaveResponse{TotalCount: 2, Leaves: []leave.LeaveResponse{{ID: "l1"}, {ID: "l2"}}}, nil
}

type fakeAdvances struct {
	advance.SalaryAdvanceService
}

func (f *fakeAdvances) Statistics(ctx context.Context, viewer access.Viewer) (advance.StatisticsResponse, error) {
	return advance.StatisticsResponse{Total: 1, Pending: 1}, nil
}

func (f *fakeAdvances) List(ctx context.Context, viewer access.Viewer, filter advance.AdvanceFilter) (advance.ListAdvanceResponse, error) {
	return advance.ListAdvanceResponse{}, nil
}

func newTestService() (*DashboardServiceImpl, *fakeRepo, *fakeLeaves, *scopeLog) {
	log := &scopeLog{scopes: map[string]access.Scope{}}
	repo := &fakeRepo{log: log}
	leaves := &fakeLeaves{}
	svc := NewDashboardService(repo, &fakeProjects{log: log}, leaves, &fakeAdvances{}, time.UTC).(*DashboardServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC) }
	return svc, repo, leaves, log
}

func TestStatistics_Admin(t *testing.T) {
	svc, repo, _, log := newTestService()

	resp, err := svc.Statistics(context.Background(), adminViewer)
	require.NoError(t, err)

	assert.Equal(t, "global", resp.Scope)
	assert.Equal(t, int64(5), resp.Leaves.Total)
	assert.Equal(t, int64(1), resp.SalaryAdvances.Pending)
	assert.Equal(t, int64(3), resp.ActiveProjects)
	assert.Equal(t, "2024-03-10", resp.Attendance.Date)
	assert.Equal(t, int64(8), resp.Attendance.Present)
	require.NotNil(t, resp.Employees)
	assert.Equal(t, int64(12), resp.Employees.Total)

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), repo.from)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), repo.to)
	assert.Equal(t, access.ScopeGlobal, log.scopes["employees"].Kind)
}

func TestStatistics_SupervisorIsCompanyScoped(t *testing.T) {
	svc, _, _, log := newTestService()

	resp, err := svc.Statistics(context.Background(), supervisorViewer)
	require.NoError(t, err)

	assert.Equal(t, "company", resp.Scope)
	require.NotNil(t, resp.Employees)
	for _, name := range []string{"employees", "attendance", "projects"} {
		assert.Equal(t, access.ScopeCompany, log.scopes[name].Kind, name)
		assert.Equal(t, "company-a", log.scopes[name].CompanyID, name)
	}
}

func TestStatistics_EmployeeSeesOwnOnly(t *testing.T) {
	svc, _, _, log := newTestService()

	resp, err := svc.Statistics(context.Background(), employeeViewer)
	require.NoError(t, err)

	assert.Equal(t, "own", resp.Scope)
	assert.Nil(t, resp.Employees)
	_, queried := log.scopes["employees"]
	assert.False(t, queried)
	assert.Equal(t, access.Scope{Kind: access.ScopeOwn, Subject: "EMP0001"}, log.scopes["attendance"])
	assert.Equal(t, access.Scope{Kind: access.ScopeMember, Subject: "u1"}, log.scopes["projects"])
}

func TestStatistics_PropagatesFailure(t *testing.T) {
	svc, repo, _, _ := newTestService()
	repo.err = errors.New("connection reset")

	_, err := svc.Statistics(context.Background(), adminViewer)
	assert.ErrorContains(t, err, "connection reset")
}

func TestPendingApprovals(t *testing.T) {
	svc, _, leaves, _ := newTestService()

	_, err := svc.PendingApprovals(context.Background(), employeeViewer, 5)
	assert.ErrorIs(t, err, access.ErrUnauthorized)

	resp, err := svc.PendingApprovals(context.Background(), supervisorViewer, 0)
	require.NoError(t, err)
	assert.Len(t, resp.Leaves, 2)
	assert.Equal(t, int64(2), resp.TotalLeaves)
	assert.NotNil(t, resp.SalaryAdvances)
	assert.Empty(t, resp.SalaryAdvances)

	require.NotNil(t, leaves.filter.Status)
	assert.Equal(t, approval.StatusPending, *leaves.filter.Status)
	assert.Equal(t, dashboard.DefaultPendingLimit, leaves.filter.Limit)
}
