package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountDeactivated  = errors.New("account is deactivated")
	ErrInvalidToken        = errors.New("refresh token is invalid or expired")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
)
