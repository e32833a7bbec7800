package advance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/advance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/approval"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/notification"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	employee   = access.Viewer{UserID: "u1", EmployeeID: "EMP0001", CompanyID: "company-a", Role: access.RoleEmployee}
	colleague  = access.Viewer{UserID: "u2", EmployeeID: "EMP0002", CompanyID: "company-a", Role: access.RoleEmployee}
	supervisor = access.Viewer{UserID: "s1", EmployeeID: "EMP0010", CompanyID: "company-a", Role: access.RoleSupervisor}
	outsider   = access.Viewer{UserID: "s2", EmployeeID: "EMP0020", CompanyID: "company-b", Role: access.RoleSupervisor}
)

type fakeAdvanceRepository struct {
	advance.SalaryAdvanceRepository
	rows map[string]advance.Request
	seq  int
}

func (f *fakeAdvanceRepository) Create(ctx context.Context, r advance.Request) (advance.Request, error) {
	f.seq++
	r.ID = fmt.Sprintf("adv-%d", f.seq)
	r.CreatedAt = time.Now()
	f.rows[r.ID] = r
	return r, nil
}

func (f *fakeAdvanceRepository) GetByID(ctx context.Context, id string) (advance.Request, error) {
	r, ok := f.rows[id]
	if !ok {
		return advance.Request{}, advance.ErrSalaryAdvanceNotFound
	}
	return r, nil
}

func (f *fakeAdvanceRepository) List(ctx context.Context, scope access.Scope, filter advance.AdvanceFilter) ([]advance.Request, int64, error) {
	var out []advance.Request
	for _, r := range f.rows {
		if scope.Permits(r.Ownership()) {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeAdvanceRepository) Review(ctx context.Context, rv advance.Review) error {
	r := f.rows[rv.ID]
	if !r.Status.IsPending() {
		return approval.ErrAlreadyProcessed
	}
	r.Status = rv.Status
	f.rows[rv.ID] = r
	return nil
}

func (f *fakeAdvanceRepository) Delete(ctx context.Context, id string) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeAdvanceRepository) Statistics(ctx context.Context, scope access.Scope) (advance.Statistics, error) {
	var s advance.Statistics
	for _, r := range f.rows {
		if !scope.Permits(r.Ownership()) {
			continue
		}
		s.Total++
		switch r.Status {
		case approval.StatusPending:
			s.Pending++
		case approval.StatusApproved:
			s.Approved++
			s.ApprovedAmount = s.ApprovedAmount.Add(r.Amount)
		case approval.StatusRejected:
			s.Rejected++
		}
	}
	return s, nil
}

type fakeUserRepository struct {
	user.UserRepository
	users map[string]user.User
}

func (f *fakeUserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

type fakePublisher struct {
	published []notification.CreateNotificationRequest
}

func (p *fakePublisher) Publish(ctx context.Context, req notification.CreateNotificationRequest) error {
	p.published = append(p.published, req)
	return nil
}

func newTestService() (*fakeAdvanceRepository, *fakePublisher, advance.SalaryAdvanceService) {
	company := "company-a"
	repo := &fakeAdvanceRepository{rows: map[string]advance.Request{
		"adv-approved": {
			ID: "adv-approved", UserID: "u1", CompanyID: "company-a",
			Amount: decimal.NewFromInt(500000), Status: approval.StatusApproved,
		},
	}}
	users := &fakeUserRepository{users: map[string]user.User{
		"u1": {ID: "u1", FirstName: "Ayu", LastName: "Lestari", CompanyID: &company, Status: user.StatusActive},
	}}
	publisher := &fakePublisher{}
	return repo, publisher, NewSalaryAdvanceService(repo, users, publisher)
}

func TestSalaryAdvanceService_Create(t *testing.T) {
	repo, publisher, svc := newTestService()
	date := "2024-05-02"

	resp, err := svc.Create(context.Background(), employee, advance.CreateAdvanceRequest{
		Amount:      decimal.RequireFromString("1250000.50"),
		Reason:      " medical bills ",
		RequestDate: &date,
	})
	require.NoError(t, err)

	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "company-a", resp.CompanyID)
	assert.Equal(t, "medical bills", resp.Reason)
	require.NotNil(t, resp.RequestDate)
	assert.Equal(t, date, *resp.RequestDate)
	assert.Contains(t, repo.rows, resp.ID)

	require.Len(t, publisher.published, 2)
	assert.Equal(t, notification.KindSalaryAdvanceRequest, publisher.published[0].Kind)
	assert.Contains(t, publisher.published[0].Message, "Ayu Lestari")
	assert.Contains(t, publisher.published[0].Message, "1250000.50")
}

func TestSalaryAdvanceService_CreateValidation(t *testing.T) {
	_, _, svc := newTestService()
	bad := "02/05/2024"

	tests := []struct {
		name string
		req  advance.CreateAdvanceRequest
	}{
		{"zero amount", advance.CreateAdvanceRequest{Amount: decimal.Zero, Reason: "x"}},
		{"negative amount", advance.CreateAdvanceRequest{Amount: decimal.NewFromInt(-1), Reason: "x"}},
		{"missing reason", advance.CreateAdvanceRequest{Amount: decimal.NewFromInt(1)}},
		{"bad date", advance.CreateAdvanceRequest{Amount: decimal.NewFromInt(1), Reason: "x", RequestDate: &bad}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), employee, tt.req)
			assert.Error(t, err)
		})
	}
}

func TestSalaryAdvanceService_Review(t *testing.T) {
	repo, publisher, svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, employee, advance.CreateAdvanceRequest{Amount: decimal.NewFromInt(100), Reason: "rent"})
	require.NoError(t, err)
	publisher.published = nil

	_, err = svc.Approve(ctx, employee, advance.ReviewAdvanceRequest{ID: created.ID})
	assert.ErrorIs(t, err, access.ErrUnauthorized)

	_, err = svc.Approve(ctx, outsider, advance.ReviewAdvanceRequest{ID: created.ID})
	assert.ErrorIs(t, err, access.ErrUnauthorized)

	comment := "not this month"
	resp, err := svc.Reject(ctx, supervisor, advance.ReviewAdvanceRequest{ID: created.ID, Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
	assert.Equal(t, &comment, resp.ReviewComment)
	assert.Equal(t, approval.StatusRejected, repo.rows[created.ID].Status)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, notification.KindSalaryAdvanceStatus, publisher.published[0].Kind)
	assert.Equal(t, "Salary Advance Rejected", publisher.published[0].Title)

	_, err = svc.Approve(ctx, supervisor, advance.ReviewAdvanceRequest{ID: created.ID})
	assert.ErrorIs(t, err, approval.ErrAlreadyProcessed)
}

func TestSalaryAdvanceService_Delete(t *testing.T) {
	_, _, svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, employee, advance.CreateAdvanceRequest{Amount: decimal.NewFromInt(100), Reason: "rent"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, colleague, created.ID), access.ErrUnauthorized)
	assert.ErrorIs(t, svc.Delete(ctx, employee, "adv-approved"), approval.ErrNotPending)
	assert.ErrorIs(t, svc.Delete(ctx, employee, "missing"), advance.ErrSalaryAdvanceNotFound)
	require.NoError(t, svc.Delete(ctx, employee, created.ID))
}

func TestSalaryAdvanceService_ScopedReads(t *testing.T) {
	_, _, svc := newTestService()
	ctx := context.Background()

	_, err := svc.Get(ctx, colleague, "adv-approved")
	assert.ErrorIs(t, err, access.ErrUnauthorized)

	list, err := svc.List(ctx, supervisor, advance.AdvanceFilter{})
	require.NoError(t, err)
	assert.Len(t, list.Advances, 1)

	list, err = svc.List(ctx, outsider, advance.AdvanceFilter{})
	require.NoError(t, err)
	assert.Empty(t, list.Advances)

	stats, err := svc.Statistics(ctx, employee)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Approved)
	assert.True(t, decimal.NewFromInt(500000).Equal(stats.TotalAmount))
}
