package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskbook/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

func tokenUsers(user *domain.User) *mockUserRepo {
	return &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
			if user != nil && user.ID == id {
				return user, nil
			}
			return nil, nil
		},
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	user := &domain.User{ID: 7, Username: "meg"}
	svc := NewTokenService(tokenUsers(user), []byte("test-secret"))

	token, expiresIn, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if expiresIn != 3600 {
		t.Errorf("expected expires_in 3600, got %d", expiresIn)
	}

	got, err := svc.Validate(context.Background(), token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %d, got %d", user.ID, got.ID)
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService(tokenUsers(&domain.User{ID: 7}), []byte("test-secret"))

	// Sign an already-expired token with the service's own secret.
	claims := jwt.RegisteredClaims{
		Subject:   "7",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.Validate(context.Background(), token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_BadSignature(t *testing.T) {
	user := &domain.User{ID: 7}
	issuer := NewTokenService(tokenUsers(user), []byte("secret-a"))
	verifier := NewTokenService(tokenUsers(user), []byte("secret-b"))

	token, _, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifier.Validate(context.Background(), token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_UnknownSubject(t *testing.T) {
	user := &domain.User{ID: 7}
	svc := NewTokenService(tokenUsers(nil), []byte("test-secret"))

	token, _, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := svc.Validate(context.Background(), token); !errors.Is(err, ErrUnknownSubject) {
		t.Fatalf("expected ErrUnknownSubject, got %v", err)
	}
}

func TestTokenService_Missing(t *testing.T) {
	svc := NewTokenService(tokenUsers(nil), []byte("test-secret"))
	if _, err := svc.Validate(context.Background(), ""); !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing, got %v", err)
	}
}

func TestTokenService_Garbage(t *testing.T) {
	svc := NewTokenService(tokenUsers(nil), []byte("test-secret"))
	if _, err := svc.Validate(context.Background(), "not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
