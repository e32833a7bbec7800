package postgresql

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/auth"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
)

type refreshTokenRepositoryImpl struct {
	db *database.DB
}

// NewRefreshTokenRepository creates a new instance of auth.RefreshTokenRepository.
func NewRefreshTokenRepository(db *database.DB) auth.RefreshTokenRepository {
	return &refreshTokenRepositoryImpl{db: db}
}

// hashToken hashes the input string using SHA256 and encodes the result in base64.
func hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

// CreateRefreshToken implements auth.RefreshTokenRepository.
func (j *refreshTokenRepositoryImpl) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	q := GetQuerier(ctx, j.db)
	query := `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := q.Exec(ctx, query, userID, hashToken(token), time.Unix(expiresAt, 0).UTC(), sessionReq.UserAgent, sessionReq.IPAddress)
	if err != nil {
		return fmt.Errorf("failed to insert refresh token: %w", err)
	}
	return nil
}

// IsRefreshTokenRevoked implements auth.RefreshTokenRepository. Expired tokens
// count as revoked.
func (j *refreshTokenRepositoryImpl) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	q := GetQuerier(ctx, j.db)

	query := `
		SELECT user_id::text, revoked_at, expires_at
		FROM refresh_tokens
		WHERE token_hash = $1
		ORDER BY expires_at DESC
		LIMIT 1
	`

	var (
		userID    string
		revokedAt *time.Time
		expiresAt time.Time
	)
	err := q.QueryRow(ctx, query, hashToken(token)).Scan(&userID, &revokedAt, &expiresAt)
	if err != nil {
		return "", false, notFound(err, auth.ErrInvalidToken)
	}

	if revokedAt != nil || !expiresAt.After(time.Now()) {
		return userID, true, nil
	}
	return userID, false, nil
}

// RevokeRefreshToken implements auth.RefreshTokenRepository.
func (j *refreshTokenRepositoryImpl) RevokeRefreshToken(ctx context.Context, token string) error {
	q := GetQuerier(ctx, j.db)

	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE token_hash = $1 AND revoked_at IS NULL
	`
	_, err := q.Exec(ctx, query, hashToken(token))
	return err
}
