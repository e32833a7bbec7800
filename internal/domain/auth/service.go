package auth

import (
	"context"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, viewer access.Viewer) (user.UserResponse, error)
}
