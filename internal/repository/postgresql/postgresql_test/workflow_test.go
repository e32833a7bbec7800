package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/approval"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/notification"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/project"
	"github.com/cmlabs-hris/hr-admin-backend/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaveRequestRepository_ReviewOnce(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewLeaveRequestRepository(setup.DB)

	co := createTestCompany(t, setup.DB, "Acme")
	owner := createTestUser(t, setup.DB, "EMP0001", "ana@example.com", access.RoleEmployee, &co.ID)
	reviewer := createTestUser(t, setup.DB, "EMP0002", "budi@example.com", access.RoleSupervisor, &co.ID)

	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, leave.Request{
		UserID:    owner.ID,
		CompanyID: co.ID,
		Type:      leave.TypeAnnual,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 2),
		Days:      decimal.NewFromInt(3),
		Reason:    "family trip",
		Status:    approval.StatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, approval.StatusPending, created.Status)

	review := leave.Review{ID: created.ID, Status: approval.StatusApproved, ReviewedBy: reviewer.ID, ReviewedAt: time.Now().UTC()}
	require.NoError(t, repo.Review(ctx, review))
	assert.ErrorIs(t, repo.Review(ctx, review), approval.ErrAlreadyProcessed)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), approval.ErrNotPending)

	days, err := repo.SumApprovedAnnualDays(ctx, owner.ID)
	require.NoError(t, err)
	assert.True(t, days.Equal(decimal.NewFromInt(3)))

	stats, err := repo.Statistics(ctx, access.Scope{Kind: access.ScopeCompany, CompanyID: co.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Approved)

	stats, err = repo.Statistics(ctx, access.Scope{Kind: access.ScopeOwn, Subject: reviewer.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Total)
}

func TestNotificationRepository_Visibility(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewNotificationRepository(setup.DB)

	a := createTestCompany(t, setup.DB, "Company A")
	b := createTestCompany(t, setup.DB, "Company B")
	emp := createTestUser(t, setup.DB, "EMP0001", "ana@example.com", access.RoleEmployee, &a.ID)
	sup := createTestUser(t, setup.DB, "EMP0002", "budi@example.com", access.RoleSupervisor, &a.ID)
	adm := createTestUser(t, setup.DB, "EMP0003", "citra@example.com", access.RoleAdmin, nil)

	now := time.Now().UTC()
	toRows := func(reqs ...notification.CreateNotificationRequest) []notification.Notification {
		var out []notification.Notification
		for _, r := range reqs {
			out = append(out, notification.Notification{
				UserID: r.UserID, TargetRoles: r.TargetRoles, CompanyID: r.CompanyID,
				Title: r.Title, Message: r.Message, Kind: r.Kind, RelatedID: r.RelatedID, CreatedAt: now,
			})
		}
		return out
	}
	require.NoError(t, repo.CreateBatch(ctx, toRows(
		notification.Personal(emp.ID, notification.KindLeaveStatus, "Approved", "ok", ""),
		notification.Broadcast(a.ID, []access.Role{access.RoleSupervisor, access.RoleAdmin}, notification.KindLeaveRequest, "New", "pending", ""),
		notification.Broadcast(b.ID, []access.Role{access.RoleSupervisor, access.RoleAdmin}, notification.KindLeaveRequest, "New", "pending", ""),
	)))
	_, err := repo.Create(ctx, notification.Notification{Title: "System", Message: "maintenance", Kind: notification.KindSystem, CreatedAt: now})
	require.NoError(t, err)

	count := func(v access.Viewer) int64 {
		n, err := repo.CountUnread(ctx, notification.VisibilityFilter(v))
		require.NoError(t, err)
		return n
	}
	empViewer := access.Viewer{UserID: emp.ID, CompanyID: a.ID, Role: access.RoleEmployee}
	supViewer := access.Viewer{UserID: sup.ID, CompanyID: a.ID, Role: access.RoleSupervisor}
	admViewer := access.Viewer{UserID: adm.ID, Role: access.RoleAdmin}

	assert.Equal(t, int64(1), count(empViewer))
	assert.Equal(t, int64(1), count(supViewer))
	assert.Equal(t, int64(3), count(admViewer))

	changed, err := repo.MarkAllRead(ctx, notification.VisibilityFilter(supViewer), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)
	assert.Equal(t, int64(0), count(supViewer))
	assert.Equal(t, int64(2), count(admViewer))

	rows, total, err := repo.List(ctx, notification.VisibilityFilter(admViewer), notification.ListNotificationsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, rows, 3)
}

func TestProjectRepository_Membership(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewProjectRepository(setup.DB)

	co := createTestCompany(t, setup.DB, "Acme")
	sup := createTestUser(t, setup.DB, "EMP0001", "budi@example.com", access.RoleSupervisor, &co.ID)
	emp := createTestUser(t, setup.DB, "EMP0002", "ana@example.com", access.RoleEmployee, &co.ID)

	p, err := repo.Create(ctx, project.Project{CompanyID: co.ID, Name: "Payroll revamp", Status: project.StatusActive, CreatedBy: sup.ID})
	require.NoError(t, err)
	assert.Empty(t, p.AssignedUserIDs)

	require.NoError(t, repo.AddMember(ctx, p.ID, emp.ID))
	assert.ErrorIs(t, repo.AddMember(ctx, p.ID, emp.ID), project.ErrAlreadyAssigned)

	mine, total, err := repo.List(ctx, access.Scope{Kind: access.ScopeMember, Subject: emp.ID}, project.ProjectFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{emp.ID}, mine[0].AssignedUserIDs)

	active, err := repo.CountActive(ctx, access.Scope{Kind: access.ScopeCompany, CompanyID: co.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), active)

	require.NoError(t, repo.RemoveMember(ctx, p.ID, emp.ID))
	assert.ErrorIs(t, repo.RemoveMember(ctx, p.ID, emp.ID), project.ErrNotAssigned)

	_, total, err = repo.List(ctx, access.Scope{Kind: access.ScopeMember, Subject: emp.ID}, project.ProjectFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
