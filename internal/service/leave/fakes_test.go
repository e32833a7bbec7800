package leave

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/approval"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/notification"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/settings"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/shopspring/decimal"
)

const (
	companyA = "company-a"
	companyB = "company-b"
)

var (
	employeeViewer   = access.Viewer{UserID: "u1", EmployeeID: "EMP0001", CompanyID: companyA, Role: access.RoleEmployee}
	otherEmployee    = access.Viewer{UserID: "u2", EmployeeID: "EMP0002", CompanyID: companyA, Role: access.RoleEmployee}
	supervisorViewer = access.Viewer{UserID: "s1", EmployeeID: "EMP0010", CompanyID: companyA, Role: access.RoleSupervisor}
	foreignViewer    = access.Viewer{UserID: "s2", EmployeeID: "EMP0020", CompanyID: companyB, Role: access.RoleSupervisor}
	adminViewer      = access.Viewer{UserID: "a1", EmployeeID: "EMP0099", Role: access.RoleAdmin}
)

func datePtr(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func strPtr(s string) *string { return &s }

type memoryUsers struct {
	user.UserRepository
	mu    sync.Mutex
	users map[string]user.User
	fail  map[string]bool
}

func newMemoryUsers(users ...user.User) *memoryUsers {
	m := &memoryUsers{users: map[string]user.User{}, fail: map[string]bool{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memoryUsers) GetByID(ctx context.Context, id string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail[id] {
		return user.User{}, fmt.Errorf("storage unavailable")
	}
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (m *memoryUsers) ListActiveIDs(ctx context.Context, role *access.Role) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, u := range m.users {
		if u.IsActive() {
			ids = append(ids, id)
		}
	}
	for id := range m.fail {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memoryUsers) List(ctx context.Context, scope access.Scope, filter user.UserFilter) ([]user.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	filter.Normalize()

	var matched []user.User
	for _, u := range m.users {
		if !scope.Permits(access.Ownership{Owner: u.ID, CompanyID: u.CompanyIDValue()}) {
			continue
		}
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.Status != nil && u.Status != *filter.Status {
			continue
		}
		matched = append(matched, u)
	}
	slices.SortFunc(matched, func(a, b user.User) int { return strings.Compare(a.ID, b.ID) })

	total := int64(len(matched))
	start := min((filter.Page-1)*filter.Limit, len(matched))
	end := min(start+filter.Limit, len(matched))
	return matched[start:end], total, nil
}

func (m *memoryUsers) UpdateLeaveBalance(ctx context.Context, id string, balance user.LeaveBalance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[id]
	u.LeaveBalance = balance
	m.users[id] = u
	return nil
}

func (m *memoryUsers) UpdateVacationBalance(ctx context.Context, id string, balance user.VacationBalance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[id]
	u.Vacation = balance
	m.users[id] = u
	return nil
}

func (m *memoryUsers) get(id string) user.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id]
}

type memoryRequests struct {
	leave.LeaveRequestRepository
	mu       sync.Mutex
	requests map[string]leave.Request
	seq      int
	scopes   []access.Scope
}

func newMemoryRequests(requests ...leave.Request) *memoryRequests {
	m := &memoryRequests{requests: map[string]leave.Request{}}
	for _, r := range requests {
		m.requests[r.ID] = r
	}
	return m
}

func (m *memoryRequests) Create(ctx context.Context, r leave.Request) (leave.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	r.ID = fmt.Sprintf("leave-%d", m.seq)
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	m.requests[r.ID] = r
	return r, nil
}

func (m *memoryRequests) GetByID(ctx context.Context, id string) (leave.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return leave.Request{}, leave.ErrLeaveRequestNotFound
	}
	return r, nil
}

func (m *memoryRequests) List(ctx context.Context, scope access.Scope, filter leave.LeaveFilter) ([]leave.Request, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scopes = append(m.scopes, scope)
	var out []leave.Request
	for _, r := range m.requests {
		if scope.Permits(r.Ownership()) {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memoryRequests) Review(ctx context.Context, rv leave.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[rv.ID]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	if !r.Status.IsPending() {
		return approval.ErrAlreadyProcessed
	}
	r.Status = rv.Status
	r.ReviewedBy = &rv.ReviewedBy
	r.ReviewComment = rv.Comment
	r.ReviewedAt = &rv.ReviewedAt
	m.requests[r.ID] = r
	return nil
}

func (m *memoryRequests) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.requests, id)
	return nil
}

func (m *memoryRequests) Statistics(ctx context.Context, scope access.Scope) (leave.Statistics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scopes = append(m.scopes, scope)
	var s leave.Statistics
	for _, r := range m.requests {
		if !scope.Permits(r.Ownership()) {
			continue
		}
		s.Total++
		switch r.Status {
		case approval.StatusPending:
			s.Pending++
		case approval.StatusApproved:
			s.Approved++
			s.ApprovedDays = s.ApprovedDays.Add(r.Days)
		case approval.StatusRejected:
			s.Rejected++
		}
	}
	return s, nil
}

func (m *memoryRequests) SumApprovedAnnualDays(ctx context.Context, userID string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := decimal.Zero
	for _, r := range m.requests {
		if r.UserID == userID && r.Type == leave.TypeAnnual && r.Status == approval.StatusApproved {
			sum = sum.Add(r.Days)
		}
	}
	return sum, nil
}

func (m *memoryRequests) get(id string) leave.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[id]
}

type staticSettings struct{ s settings.Settings }

func (s staticSettings) Current(ctx context.Context) (settings.Settings, error) {
	return s.s, nil
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []notification.CreateNotificationRequest
}

func (p *recordingPublisher) Publish(ctx context.Context, req notification.CreateNotificationRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, req)
	return nil
}

func (p *recordingPublisher) kinds() []notification.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []notification.Kind
	for _, n := range p.published {
		out = append(out, n.Kind)
	}
	return out
}
