package auth

import "context"

// RefreshTokenRepository stores issued refresh tokens by hash so they can be revoked.
type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session SessionTrackingRequest) error
	// IsRefreshTokenRevoked reports the owning user and whether the token is revoked
	// or expired. Unknown tokens return an error.
	IsRefreshTokenRevoked(ctx context.Context, token string) (userID string, revoked bool, err error)
	RevokeRefreshToken(ctx context.Context, token string) error
}
