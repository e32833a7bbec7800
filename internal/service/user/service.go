package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/company"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	user.UserRepository
	companies company.CompanyRepository
	balances  leave.BalanceService
}

func NewUserService(userRepository user.UserRepository, companyRepository company.CompanyRepository, balances leave.BalanceService) user.UserService {
	return &UserServiceImpl{
		UserRepository: userRepository,
		companies:      companyRepository,
		balances:       balances,
	}
}

func (s *UserServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// leaveDefaults returns the starting per-type balance for a member of companyID.
func (s *UserServiceImpl) leaveDefaults(ctx context.Context, companyID *string) (user.LeaveBalance, error) {
	if companyID == nil {
		return user.LeaveBalance{
			Annual: company.DefaultAnnualLeaveDays,
			Sick:   company.DefaultSickLeaveDays,
			Unpaid: company.DefaultUnpaidLeaveDays,
		}, nil
	}
	c, err := s.companies.GetByID(ctx, *companyID)
	if err != nil {
		return user.LeaveBalance{}, err
	}
	return user.LeaveBalance{
		Annual: c.AnnualLeaveDays,
		Sick:   c.SickLeaveDays,
		Unpaid: c.UnpaidLeaveDays,
	}, nil
}

// ensureUnique checks the unique identifiers of a new user.
func (s *UserServiceImpl) ensureUnique(ctx context.Context, email, employeeID string, biometricID *int) error {
	if _, err := s.UserRepository.GetByEmail(ctx, email); err == nil {
		return user.ErrUserEmailExists
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	if employeeID != "" {
		if _, err := s.UserRepository.GetByEmployeeID(ctx, employeeID); err == nil {
			return user.ErrEmployeeIDExists
		} else if !errors.Is(err, user.ErrUserNotFound) {
			return fmt.Errorf("failed to check employee id: %w", err)
		}
	}

	if biometricID != nil {
		if _, err := s.UserRepository.GetByBiometricID(ctx, *biometricID); err == nil {
			return user.ErrBiometricIDExists
		} else if !errors.Is(err, user.ErrUserNotFound) {
			return fmt.Errorf("failed to check biometric id: %w", err)
		}
	}
	return nil
}

// NextEmployeeID implements user.UserService.
func (s *UserServiceImpl) NextEmployeeID(ctx context.Context) (string, error) {
	seq, err := s.UserRepository.MaxEmployeeSequence(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get employee sequence: %w", err)
	}
	return user.FormatEmployeeID(seq + 1), nil
}

// Create implements user.UserService.
// Supervisors create users inside their own company and cannot grant admin.
func (s *UserServiceImpl) Create(ctx context.Context, viewer access.Viewer, req user.CreateUserRequest) (user.UserResponse, error) {
	if !viewer.Role.CanReview() {
		return user.UserResponse{}, access.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	role, _ := access.ParseRole(req.Role)

	if viewer.Role == access.RoleSupervisor {
		if role == access.RoleAdmin {
			return user.UserResponse{}, user.ErrRoleNotAssignable
		}
		if req.CompanyID != nil && *req.CompanyID != viewer.CompanyID {
			return user.UserResponse{}, access.ErrUnauthorized
		}
		companyID := viewer.CompanyID
		req.CompanyID = &companyID
	}
	if role == access.RoleSupervisor && req.CompanyID == nil {
		return user.UserResponse{}, user.ErrCompanyIDRequired
	}

	if err := s.ensureUnique(ctx, req.Email, req.EmployeeID, req.BiometricID); err != nil {
		return user.UserResponse{}, err
	}
	if req.EmployeeID == "" {
		next, err := s.NextEmployeeID(ctx)
		if err != nil {
			return user.UserResponse{}, err
		}
		req.EmployeeID = next
	}

	balance, err := s.leaveDefaults(ctx, req.CompanyID)
	if err != nil {
		return user.UserResponse{}, err
	}
	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, err
	}

	var hireDate *time.Time
	if req.HireDate != nil {
		d, _ := time.Parse("2006-01-02", *req.HireDate)
		hireDate = &d
	}

	created, err := s.UserRepository.Create(ctx, user.User{
		EmployeeID:   req.EmployeeID,
		BiometricID:  req.BiometricID,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
		CompanyID:    req.CompanyID,
		Department:   req.Department,
		Position:     req.Position,
		LeaveBalance: balance,
		HireDate:     hireDate,
		Status:       user.StatusActive,
	})
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user created", "user_id", created.ID, "employee_id", created.EmployeeID, "role", created.Role, "by", viewer.UserID)
	return user.ToResponse(created), nil
}

// CreateFromTerminal implements user.UserService.
// Terminal-enrolled users have no password and cannot log in until one is set.
func (s *UserServiceImpl) CreateFromTerminal(ctx context.Context, req user.TerminalCreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	if err := s.ensureUnique(ctx, req.Email, req.EmployeeID, req.BiometricID); err != nil {
		return user.UserResponse{}, err
	}
	balance, err := s.leaveDefaults(ctx, req.CompanyID)
	if err != nil {
		return user.UserResponse{}, err
	}
	role, _ := access.ParseRole(req.Role)

	created, err := s.UserRepository.Create(ctx, user.User{
		EmployeeID:   req.EmployeeID,
		BiometricID:  req.BiometricID,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
		CompanyID:    req.CompanyID,
		Department:   req.Department,
		Position:     req.Position,
		LeaveBalance: balance,
		Status:       user.StatusActive,
	})
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user enrolled from terminal", "user_id", created.ID, "employee_id", created.EmployeeID)
	return user.ToResponse(created), nil
}

func (s *UserServiceImpl) authorize(ctx context.Context, viewer access.Viewer, id string) (user.User, error) {
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.User{}, err
	}
	err = access.Authorize(viewer, access.ResourceUser, access.Ownership{Owner: u.ID, CompanyID: u.CompanyIDValue()})
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

// mutable loads a user the viewer may change. Admins change anyone; everyone
// else changes only themselves, and supervisors also the employees of their company.
func (s *UserServiceImpl) mutable(ctx context.Context, viewer access.Viewer, id string) (user.User, error) {
	u, err := s.authorize(ctx, viewer, id)
	if err != nil {
		return user.User{}, err
	}
	switch {
	case viewer.Role == access.RoleAdmin, viewer.UserID == u.ID:
		return u, nil
	case viewer.Role == access.RoleSupervisor && u.Role == access.RoleEmployee:
		return u, nil
	}
	return user.User{}, access.ErrUnauthorized
}

// Get implements user.UserService.
func (s *UserServiceImpl) Get(ctx context.Context, viewer access.Viewer, id string) (user.UserResponse, error) {
	u, err := s.authorize(ctx, viewer, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(u), nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, viewer access.Viewer, filter user.UserFilter) (user.ListUserResponse, error) {
	if !viewer.Role.CanReview() {
		return user.ListUserResponse{}, access.ErrUnauthorized
	}
	filter.Normalize()
	scope, err := access.ScopeFor(viewer, access.ResourceUser)
	if err != nil {
		return user.ListUserResponse{}, err
	}

	rows, total, err := s.UserRepository.List(ctx, scope, filter)
	if err != nil {
		return user.ListUserResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.UserResponse, 0, len(rows))
	for _, u := range rows {
		users = append(users, user.ToResponse(u))
	}
	return user.ListUserResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Users:      users,
	}, nil
}

// Update implements user.UserService.
// Employees may edit their own name and password; everything else needs a reviewer.
func (s *UserServiceImpl) Update(ctx context.Context, viewer access.Viewer, req user.UpdateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	existing, err := s.mutable(ctx, viewer, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}

	if !viewer.Role.CanReview() {
		if req.Department != nil || req.Position != nil || req.HireDate != nil || req.Role != nil || req.BiometricID != nil {
			return user.UserResponse{}, access.ErrUnauthorized
		}
	}
	if req.Role != nil && viewer.Role != access.RoleAdmin {
		if role, _ := access.ParseRole(*req.Role); role == access.RoleAdmin {
			return user.UserResponse{}, user.ErrRoleNotAssignable
		}
	}
	if req.BiometricID != nil && (existing.BiometricID == nil || *existing.BiometricID != *req.BiometricID) {
		if _, err := s.UserRepository.GetByBiometricID(ctx, *req.BiometricID); err == nil {
			return user.UserResponse{}, user.ErrBiometricIDExists
		} else if !errors.Is(err, user.ErrUserNotFound) {
			return user.UserResponse{}, fmt.Errorf("failed to check biometric id: %w", err)
		}
	}
	if req.Password != nil {
		hash, err := s.hashPassword(*req.Password)
		if err != nil {
			return user.UserResponse{}, err
		}
		req.PasswordHash = &hash
	}

	if err := s.UserRepository.Update(ctx, req); err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to update user: %w", err)
	}

	// The cached vacation balance depends on the hire date.
	if req.ChangesHireDate() && s.balances != nil {
		if _, err := s.balances.Recompute(ctx, req.ID); err != nil {
			return user.UserResponse{}, err
		}
	}

	updated, err := s.UserRepository.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(updated), nil
}

func (s *UserServiceImpl) setStatus(ctx context.Context, viewer access.Viewer, id string, transition func(user.Status) (user.Status, error)) error {
	if !viewer.Role.CanReview() {
		return access.ErrUnauthorized
	}
	u, err := s.mutable(ctx, viewer, id)
	if err != nil {
		return err
	}
	next, err := transition(u.Status)
	if err != nil {
		return err
	}
	if err := s.UserRepository.UpdateStatus(ctx, id, next); err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	slog.Info("user status changed", "user_id", id, "status", next, "by", viewer.UserID)
	return nil
}

// Deactivate implements user.UserService.
func (s *UserServiceImpl) Deactivate(ctx context.Context, viewer access.Viewer, id string) error {
	if viewer.UserID == id {
		return user.ErrCannotDeactivateSelf
	}
	return s.setStatus(ctx, viewer, id, user.Status.Deactivate)
}

// Activate implements user.UserService.
func (s *UserServiceImpl) Activate(ctx context.Context, viewer access.Viewer, id string) error {
	return s.setStatus(ctx, viewer, id, user.Status.Activate)
}

// GetByEmployeeID implements user.UserService.
// Subtle: this method shadows the method (UserRepository).GetByEmployeeID of UserServiceImpl.UserRepository.
func (s *UserServiceImpl) GetByEmployeeID(ctx context.Context, employeeID string) (user.UserResponse, error) {
	u, err := s.UserRepository.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(u), nil
}

// ListActive implements user.UserService.
func (s *UserServiceImpl) ListActive(ctx context.Context) ([]user.UserResponse, error) {
	active := user.StatusActive
	filter := user.UserFilter{Status: &active, Page: 1, Limit: 100}
	global := access.Scope{Kind: access.ScopeGlobal}

	users := make([]user.UserResponse, 0)
	for {
		rows, _, err := s.UserRepository.List(ctx, global, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list active users: %w", err)
		}
		for _, u := range rows {
			users = append(users, user.ToResponse(u))
		}
		if len(rows) < filter.Limit {
			return users, nil
		}
		filter.Page++
	}
}
