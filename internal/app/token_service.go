package app

import (
	"context"
	"strconv"
	"time"

	"taskbook/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is how long an issued bearer token stays valid. There is no
// revocation: logout or a password change does not invalidate tokens
// already in the wild, they simply age out.
const TokenTTL = 3600 * time.Second

var (
	// ErrTokenMissing indicates that no bearer token was presented.
	ErrTokenMissing = unauthenticated("token_missing", "bearer token required")
	// ErrTokenInvalid covers malformed tokens, bad signatures, and
	// expiry; the distinction is never surfaced to the caller.
	ErrTokenInvalid = unauthenticated("invalid_token", "token invalid or expired")
	// ErrUnknownSubject indicates a well-signed token whose user no
	// longer exists.
	ErrUnknownSubject = unauthenticated("invalid_token", "token invalid or expired")
)

// TokenService issues and validates stateless signed bearer tokens for
// the API surface.
type TokenService struct {
	users  domain.UserRepository
	secret []byte
}

// NewTokenService creates a TokenService signing with the given
// process-wide secret.
func NewTokenService(users domain.UserRepository, secret []byte) *TokenService {
	return &TokenService{users: users, secret: secret}
}

// Issue signs a token for user and returns it with its TTL in seconds.
func (s *TokenService) Issue(user *domain.User) (string, int, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", 0, err
	}
	return signed, int(TokenTTL.Seconds()), nil
}

// Validate checks signature and expiry, then resolves the subject to a
// live user.
func (s *TokenService) Validate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrTokenMissing
	}

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnknownSubject
	}
	return user, nil
}
