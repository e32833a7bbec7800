package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/auth"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	db database.Transactor
	user.UserRepository
	jwt.Service
	auth.RefreshTokenRepository
}

func NewAuthService(db database.Transactor, userRepository user.UserRepository, jwtService jwt.Service, refreshTokenRepository auth.RefreshTokenRepository) auth.AuthService {
	return &AuthServiceImpl{
		db:                     db,
		UserRepository:         userRepository,
		Service:                jwtService,
		RefreshTokenRepository: refreshTokenRepository,
	}
}

func claimsFor(u user.User) jwt.Claims {
	return jwt.Claims{
		UserID:     u.ID,
		Email:      u.Email,
		EmployeeID: u.EmployeeID,
		CompanyID:  u.CompanyIDValue(),
		Role:       u.Role,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse

	userData, err := a.UserRepository.GetByEmail(ctx, loginReq.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Terminal-enrolled users have no password until an admin sets one.
	if userData.PasswordHash == "" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !userData.IsActive() {
		return auth.TokenResponse{}, auth.ErrAccountDeactivated
	}

	err = a.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(claimsFor(userData))
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}
		tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(userData.ID)
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}

		err = a.CreateRefreshToken(txCtx, userData.ID, tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, sessionTrackReq)
		if err != nil {
			return fmt.Errorf("failed to save refresh token to database: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	slog.Info("user logged in", "user_id", userData.ID, "role", userData.Role)
	return tokenResponse, nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	var accessTokenResponse auth.AccessTokenResponse

	if _, err := a.Service.VerifyRefreshToken(req.RefreshToken); err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	userID, isRevoked, err := a.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	if isRevoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	if !userData.IsActive() {
		return auth.AccessTokenResponse{}, auth.ErrAccountDeactivated
	}

	accessTokenResponse.AccessToken, accessTokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(claimsFor(userData))
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessTokenResponse, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	return a.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		_, isRevoked, err := a.IsRefreshTokenRevoked(txCtx, token)
		if err != nil {
			return fmt.Errorf("failed to check if refresh token is revoked: %w", err)
		}
		if !isRevoked {
			if err := a.RevokeRefreshToken(txCtx, token); err != nil {
				return fmt.Errorf("failed to revoke refresh token: %w", err)
			}
		}
		return nil
	})
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, viewer access.Viewer) (user.UserResponse, error) {
	userData, err := a.UserRepository.GetByID(ctx, viewer.UserID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(userData), nil
}
