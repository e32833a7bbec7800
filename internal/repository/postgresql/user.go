package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userColumns = `
	id, employee_id, biometric_id, email, password_hash, first_name, last_name, role,
	company_id::text, department, position, leave_annual, leave_sick, leave_unpaid,
	vacation_earned, vacation_used, vacation_balance, vacation_calculated_at,
	hire_date, status, created_at, updated_at`

var userScopeColumns = scopeColumns{Owner: "id::text", Company: "company_id::text"}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.EmployeeID,
		&u.BiometricID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Role,
		&u.CompanyID,
		&u.Department,
		&u.Position,
		&u.LeaveBalance.Annual,
		&u.LeaveBalance.Sick,
		&u.LeaveBalance.Unpaid,
		&u.Vacation.Earned,
		&u.Vacation.Used,
		&u.Vacation.Balance,
		&u.Vacation.CalculatedAt,
		&u.HireDate,
		&u.Status,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r *userRepositoryImpl) getBy(ctx context.Context, column string, value interface{}) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := "SELECT " + userColumns + " FROM users WHERE " + column + " = $1"
	u, err := scanUser(q.QueryRow(ctx, query, value))
	if err != nil {
		return user.User{}, notFound(err, user.ErrUserNotFound)
	}
	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return user.User{}, user.ErrUserNotFound
	}
	return r.getBy(ctx, "id", id)
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getBy(ctx, "email", strings.ToLower(email))
}

// GetByEmployeeID implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) (user.User, error) {
	return r.getBy(ctx, "employee_id", employeeID)
}

// GetByBiometricID implements user.UserRepository.
func (r *userRepositoryImpl) GetByBiometricID(ctx context.Context, biometricID int) (user.User, error) {
	return r.getBy(ctx, "biometric_id", biometricID)
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, scope access.Scope, filter user.UserFilter) ([]user.User, int64, error) {
	q := GetQuerier(ctx, r.db)
	filter.Normalize()

	var c conditions
	applyScope(&c, scope, userScopeColumns)
	if filter.Role != nil {
		c.add("role = $%d", string(*filter.Role))
	}
	if filter.Status != nil {
		c.add("status = $%d", string(*filter.Status))
	}
	if filter.Search != nil && *filter.Search != "" {
		c.add("(first_name || ' ' || last_name || ' ' || email || ' ' || employee_id) ILIKE $%d", "%"+*filter.Search+"%")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM users"+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := "SELECT " + userColumns + " FROM users" + c.where() + " ORDER BY employee_id" + c.paginate(filter.Page, filter.Limit)
	rows, err := q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// ListActiveIDs implements user.UserRepository.
func (r *userRepositoryImpl) ListActiveIDs(ctx context.Context, role *access.Role) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	var c conditions
	c.add("status = $%d", string(user.StatusActive))
	if role != nil {
		c.add("role = $%d", string(*role))
	}

	rows, err := q.Query(ctx, "SELECT id::text FROM users"+c.where()+" ORDER BY employee_id", c.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	if newUser.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return user.User{}, err
		}
		newUser.ID = id.String()
	}

	query := `
		INSERT INTO users (
			id, employee_id, biometric_id, email, password_hash, first_name, last_name, role,
			company_id, department, position, leave_annual, leave_sick, leave_unpaid, hire_date, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		newUser.ID,
		newUser.EmployeeID,
		newUser.BiometricID,
		strings.ToLower(newUser.Email),
		newUser.PasswordHash,
		newUser.FirstName,
		newUser.LastName,
		string(newUser.Role),
		nullIfEmpty(newUser.CompanyIDValue()),
		newUser.Department,
		newUser.Position,
		newUser.LeaveBalance.Annual,
		newUser.LeaveBalance.Sick,
		newUser.LeaveBalance.Unpaid,
		newUser.HireDate,
		string(newUser.Status),
	))
	if err != nil {
		switch uniqueConstraint(err) {
		case "users_email_key":
			return user.User{}, user.ErrUserEmailExists
		case "users_employee_id_key":
			return user.User{}, user.ErrEmployeeIDExists
		case "users_biometric_id_key":
			return user.User{}, user.ErrBiometricIDExists
		}
		return user.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return created, nil
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, req user.UpdateUserRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make([]string, 0)
	args := make([]interface{}, 0)
	set := func(column string, value interface{}) {
		args = append(args, value)
		updates = append(updates, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.FirstName != nil {
		set("first_name", *req.FirstName)
	}
	if req.LastName != nil {
		set("last_name", *req.LastName)
	}
	if req.Department != nil {
		set("department", *req.Department)
	}
	if req.Position != nil {
		set("position", *req.Position)
	}
	if req.HireDate != nil {
		set("hire_date", *req.HireDate)
	}
	if req.Role != nil {
		set("role", strings.ToLower(*req.Role))
	}
	if req.BiometricID != nil {
		set("biometric_id", *req.BiometricID)
	}
	if req.PasswordHash != nil {
		set("password_hash", *req.PasswordHash)
	}

	if len(updates) == 0 {
		return nil
	}
	args = append(args, req.ID)
	query := "UPDATE users SET " + strings.Join(updates, ", ") + fmt.Sprintf(", updated_at = NOW() WHERE id = $%d", len(args))

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if uniqueConstraint(err) == "users_biometric_id_key" {
			return user.ErrBiometricIDExists
		}
		return fmt.Errorf("failed to update user with id %s: %w", req.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *userRepositoryImpl) exec(ctx context.Context, query string, args ...interface{}) error {
	tag, err := GetQuerier(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdateStatus implements user.UserRepository.
func (r *userRepositoryImpl) UpdateStatus(ctx context.Context, id string, status user.Status) error {
	return r.exec(ctx, `UPDATE users SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), id)
}

// UpdateLeaveBalance implements user.UserRepository.
func (r *userRepositoryImpl) UpdateLeaveBalance(ctx context.Context, id string, balance user.LeaveBalance) error {
	return r.exec(ctx, `
		UPDATE users
		SET leave_annual = $1, leave_sick = $2, leave_unpaid = $3, updated_at = NOW()
		WHERE id = $4
	`, balance.Annual, balance.Sick, balance.Unpaid, id)
}

// UpdateVacationBalance implements user.UserRepository.
func (r *userRepositoryImpl) UpdateVacationBalance(ctx context.Context, id string, balance user.VacationBalance) error {
	return r.exec(ctx, `
		UPDATE users
		SET vacation_earned = $1, vacation_used = $2, vacation_balance = $3,
		    vacation_calculated_at = $4, updated_at = NOW()
		WHERE id = $5
	`, balance.Earned, balance.Used, balance.Balance, balance.CalculatedAt, id)
}

// MaxEmployeeSequence implements user.UserRepository.
func (r *userRepositoryImpl) MaxEmployeeSequence(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, r.db)

	var seq int
	err := q.QueryRow(ctx, `
		SELECT COALESCE(MAX(SUBSTRING(employee_id FROM 4)::int), 0)
		FROM users
		WHERE employee_id ~ '^EMP[0-9]+$'
	`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("failed to get max employee sequence: %w", err)
	}
	return seq, nil
}
