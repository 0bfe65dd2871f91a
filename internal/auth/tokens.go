package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/streamtube/streamtube/internal/config"
	"github.com/streamtube/streamtube/pkg/models"
)

// ErrInvalidToken is returned when a token fails signature or expiry checks.
var ErrInvalidToken = errors.New("invalid or expired token")

// AccessClaims are embedded in short-lived access tokens.
type AccessClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}

// RefreshClaims are embedded in long-lived refresh tokens. They carry only
// the user id; everything else is looked up on refresh.
type RefreshClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies token pairs. Issuing a refresh token does
// not persist it; the caller stores it as the user's single active refresh
// token.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenService creates a token service from auth configuration.
func NewTokenService(cfg config.AuthConfig) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}
}

// IssueAccessToken signs a short-lived token identifying the user.
func (s *TokenService) IssueAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// IssueRefreshToken signs a long-lived token carrying only the user id. The
// jti makes every issued token distinct, so rotating the stored slot always
// invalidates the previous token.
func (s *TokenService) IssueRefreshToken(user *models.User) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return signed, nil
}

// IssuePair signs a fresh access+refresh pair for the user.
func (s *TokenService) IssuePair(user *models.User) (access, refresh string, err error) {
	access, err = s.IssueAccessToken(user)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.IssueRefreshToken(user)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// VerifyAccess validates an access token and returns its claims.
func (s *TokenService) VerifyAccess(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.verify(tokenString, claims, s.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefresh validates a refresh token and returns its claims.
func (s *TokenService) VerifyRefresh(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.verify(tokenString, claims, s.refreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *TokenService) verify(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
