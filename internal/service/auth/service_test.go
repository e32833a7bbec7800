package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/auth"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct-horse"

type fakeUserRepository struct {
	user.UserRepository
	users []user.User
}

func (f *fakeUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

type fakeRefreshTokens struct {
	tokens  map[string]string
	revoked map[string]bool
	failOn  string
}

func (f *fakeRefreshTokens) CreateRefreshToken(ctx context.Context, userID, token string, expiresAt int64, session auth.SessionTrackingRequest) error {
	if userID == f.failOn {
		return errors.New("insert failed")
	}
	f.tokens[token] = userID
	return nil
}

func (f *fakeRefreshTokens) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	userID, ok := f.tokens[token]
	if !ok {
		return "", false, errors.New("no rows")
	}
	return userID, f.revoked[token], nil
}

func (f *fakeRefreshTokens) RevokeRefreshToken(ctx context.Context, token string) error {
	f.revoked[token] = true
	return nil
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newTestAuthService(t *testing.T) (auth.AuthService, *fakeRefreshTokens, jwt.Service) {
	company := "company-a"
	users := &fakeUserRepository{users: []user.User{
		{ID: "u1", EmployeeID: "EMP0001", Email: "ayu@example.com", PasswordHash: hash(t, testPassword),
			FirstName: "Ayu", Role: access.RoleSupervisor, CompanyID: &company, Status: user.StatusActive},
		{ID: "u2", EmployeeID: "EMP0002", Email: "terminal@example.com", Role: access.RoleEmployee, Status: user.StatusActive},
		{ID: "u3", EmployeeID: "EMP0003", Email: "gone@example.com", PasswordHash: hash(t, testPassword),
			Role: access.RoleEmployee, Status: user.StatusDeactivated},
	}}
	tokens := &fakeRefreshTokens{tokens: map[string]string{}, revoked: map[string]bool{}}
	jwtService := jwt.NewJWTService("test-secret", time.Hour, 24*time.Hour, false)
	return NewAuthService(database.NoTransaction{}, users, jwtService, tokens), tokens, jwtService
}

func TestLogin(t *testing.T) {
	svc, tokens, jwtService := newTestAuthService(t)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{Email: "ayu@example.com", Password: testPassword}, auth.SessionTrackingRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Greater(t, resp.RefreshTokenExpiresIn, resp.AccessTokenExpiresIn)
	assert.Equal(t, "u1", tokens.tokens[resp.RefreshToken])

	userID, err := jwtService.VerifyRefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestLoginFailures(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   auth.LoginRequest
		error error
	}{
		{"unknown email", auth.LoginRequest{Email: "nobody@example.com", Password: testPassword}, auth.ErrInvalidCredentials},
		{"wrong password", auth.LoginRequest{Email: "ayu@example.com", Password: "wrong-password"}, auth.ErrInvalidCredentials},
		{"no password set", auth.LoginRequest{Email: "terminal@example.com", Password: testPassword}, auth.ErrInvalidCredentials},
		{"deactivated", auth.LoginRequest{Email: "gone@example.com", Password: testPassword}, auth.ErrAccountDeactivated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.req, auth.SessionTrackingRequest{})
			assert.ErrorIs(t, err, tt.error)
		})
	}
}

func TestLoginFailsWhenRefreshTokenCannotBeStored(t *testing.T) {
	svc, tokens, _ := newTestAuthService(t)
	tokens.failOn = "u1"

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "ayu@example.com", Password: testPassword}, auth.SessionTrackingRequest{})
	assert.ErrorContains(t, err, "failed to save refresh token")
}

func TestRefreshAndLogout(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, auth.LoginRequest{Email: "ayu@example.com", Password: testPassword}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	require.NoError(t, svc.Logout(ctx, login.RefreshToken))
	require.NoError(t, svc.Logout(ctx, login.RefreshToken), "logout is idempotent")

	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestRefreshRejectsForeignTokens(t *testing.T) {
	svc, _, jwtService := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: "not-a-jwt"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	unknown, _, err := jwtService.GenerateRefreshToken("u1")
	require.NoError(t, err)
	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: unknown})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestMe(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	me, err := svc.Me(context.Background(), access.Viewer{UserID: "u1", Role: access.RoleSupervisor})
	require.NoError(t, err)
	assert.Equal(t, "EMP0001", me.EmployeeID)
	assert.Equal(t, "supervisor", me.Role)

	_, err = svc.Me(context.Background(), access.Viewer{UserID: "missing"})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
