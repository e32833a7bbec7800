package jwt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/access"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrInvalidClaims = errors.New("token claims are invalid")

// Claims identifies the caller an access token was issued to.
type Claims struct {
	UserID     string
	Email      string
	EmployeeID string
	CompanyID  string
	Role       access.Role
}

// Viewer converts the claims into the caller identity used for scoping.
func (c Claims) Viewer() access.Viewer {
	return access.Viewer{
		UserID:     c.UserID,
		EmployeeID: c.EmployeeID,
		CompanyID:  c.CompanyID,
		Role:       c.Role,
	}
}

type Service interface {
	GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	// VerifyRefreshToken checks signature, expiry and token type and returns the subject.
	VerifyRefreshToken(token string) (userID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
}

type JWTService struct {
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	secureCookie    bool
	tokenAuth       *jwtauth.JWTAuth
	now             func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenTTL, refreshTokenTTL time.Duration, secureCookie bool) Service {
	return &JWTService{
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		secureCookie:    secureCookie,
		tokenAuth:       jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:             time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(c Claims) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenTTL).Unix()

	claims := map[string]interface{}{
		"user_id":     c.UserID,
		"email":       c.Email,
		"employee_id": c.EmployeeID,
		"company_id":  valueOrNil(c.CompanyID),
		"role":        string(c.Role),
		"type":        TokenTypeAccess,
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(userID string) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.refreshTokenTTL).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"exp":     expiresAt,
		"type":    TokenTypeRefresh,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) VerifyRefreshToken(tokenString string) (string, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}
	if t, _ := token.Get("type"); t != TokenTypeRefresh {
		return "", ErrInvalidClaims
	}
	userID, _ := token.Get("user_id")
	id, ok := userID.(string)
	if !ok || id == "" {
		return "", ErrInvalidClaims
	}
	return id, nil
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

// ClaimsFromContext reads the access token claims placed in ctx by jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, raw, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, err
	}
	if raw["type"] != TokenTypeAccess {
		return Claims{}, ErrInvalidClaims
	}

	var c Claims
	c.UserID, _ = raw["user_id"].(string)
	c.Email, _ = raw["email"].(string)
	c.EmployeeID, _ = raw["employee_id"].(string)
	c.CompanyID, _ = raw["company_id"].(string)
	role, _ := raw["role"].(string)

	if c.UserID == "" {
		return Claims{}, fmt.Errorf("%w: missing user_id", ErrInvalidClaims)
	}
	parsed, err := access.ParseRole(role)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidClaims, err)
	}
	c.Role = parsed
	return c, nil
}

func valueOrNil(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
