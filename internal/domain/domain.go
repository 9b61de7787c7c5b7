// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// User represents a registered account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Locale       string
	CreatedAt    time.Time
}

// Item is a single to-do entry. OwnerID is set at creation and never
// changes afterwards.
type Item struct {
	ID        int64
	Body      string
	Done      bool
	OwnerID   int64
	CreatedAt time.Time
}

// Session represents an active browser session bound to a user.
type Session struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ItemFilter selects which items a listing returns.
type ItemFilter int

const (
	// FilterAll returns every item regardless of completion state.
	FilterAll ItemFilter = iota
	// FilterActive returns items with done=false.
	FilterActive
	// FilterCompleted returns items with done=true.
	FilterCompleted
)

// UserRepository defines the port for user persistence operations.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, username, passwordHash string) (*User, error)
	SetLocale(ctx context.Context, id int64, locale string) error
	Count(ctx context.Context) (int, error)
}

// ItemRepository defines the port for item persistence operations.
// Queries scoped by ownerID only see that owner's rows; GetByID is
// deliberately unscoped so callers can distinguish "absent" from
// "owned by someone else".
type ItemRepository interface {
	Create(ctx context.Context, ownerID int64, body string) (*Item, error)
	GetByID(ctx context.Context, id int64) (*Item, error)
	UpdateBody(ctx context.Context, id int64, body string) error
	SetDone(ctx context.Context, id int64, done bool) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, ownerID int64, filter ItemFilter, offset, limit int) ([]Item, error)
	Count(ctx context.Context, ownerID int64, filter ItemFilter) (int, error)
	DeleteCompleted(ctx context.Context, ownerID int64) (int64, error)
}

// SessionRepository defines the port for session persistence operations.
type SessionRepository interface {
	Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}
