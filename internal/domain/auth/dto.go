package auth

import (
	"strings"

	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=255"`
}

// Validate normalizes the email before checking the tags, so lookups are
// case-insensitive.
func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validator.Struct(r)
}

// RefreshTokenRequest carries the refresh token when the cookie is absent.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (r *RefreshTokenRequest) Validate() error {
	return validator.Struct(r)
}

// SessionTrackingRequest is stored next to each issued refresh token.
type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

// TokenResponse is returned on login. Expiry values are unix seconds.
type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}
