// Package memory implements in-memory repositories for development and
// testing.
package memory

import (
	"context"
	"sync"
	"time"

	"taskbook/internal/domain"
)

// DB holds all state behind one mutex; the per-entity repos share it.
type DB struct {
	mu       sync.Mutex
	users    []*domain.User
	items    []*domain.Item
	sessions map[string]*domain.Session

	userIDCounter int64
	itemIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
	}
}

// Users wraps the DB as a UserRepository.
func (db *DB) Users() *UserRepo { return &UserRepo{db: db} }

// Items wraps the DB as an ItemRepository.
func (db *DB) Items() *ItemRepo { return &ItemRepo{db: db} }

// Sessions wraps the DB as a SessionRepository.
func (db *DB) Sessions() *SessionRepo { return &SessionRepo{db: db} }

// Ensure interfaces are met.
var _ domain.UserRepository = (*UserRepo)(nil)
var _ domain.ItemRepository = (*ItemRepo)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- UserRepository ---

// UserRepo implements user operations on DB.
type UserRepo struct {
	db *DB
}

// GetByUsername retrieves a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.userIDCounter++
	u := &domain.User{
		ID:           r.db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	r.db.users = append(r.db.users, u)
	cp := *u
	return &cp, nil
}

// SetLocale updates a user's locale preference.
func (r *UserRepo) SetLocale(ctx context.Context, id int64, locale string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.ID == id {
			u.Locale = locale
			return nil
		}
	}
	return nil
}

// Count returns the total number of users.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.users), nil
}

// --- ItemRepository ---

// ItemRepo implements item operations on DB.
type ItemRepo struct {
	db *DB
}

func matches(it *domain.Item, filter domain.ItemFilter) bool {
	switch filter {
	case domain.FilterActive:
		return !it.Done
	case domain.FilterCompleted:
		return it.Done
	}
	return true
}

// Create inserts a new item owned by ownerID.
func (r *ItemRepo) Create(ctx context.Context, ownerID int64, body string) (*domain.Item, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.itemIDCounter++
	it := &domain.Item{
		ID:        r.db.itemIDCounter,
		Body:      body,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
	}
	r.db.items = append(r.db.items, it)
	cp := *it
	return &cp, nil
}

// GetByID retrieves an item regardless of owner.
func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, it := range r.db.items {
		if it.ID == id {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

// UpdateBody replaces an item's body.
func (r *ItemRepo) UpdateBody(ctx context.Context, id int64, body string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, it := range r.db.items {
		if it.ID == id {
			it.Body = body
			return nil
		}
	}
	return nil
}

// SetDone sets an item's done flag.
func (r *ItemRepo) SetDone(ctx context.Context, id int64, done bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, it := range r.db.items {
		if it.ID == id {
			it.Done = done
			return nil
		}
	}
	return nil
}

// Delete removes an item permanently.
func (r *ItemRepo) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, it := range r.db.items {
		if it.ID == id {
			r.db.items = append(r.db.items[:i], r.db.items[i+1:]...)
			return nil
		}
	}
	return nil
}

// List returns ownerID's items under filter in creation order.
func (r *ItemRepo) List(ctx context.Context, ownerID int64, filter domain.ItemFilter, offset, limit int) ([]domain.Item, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	all := make([]domain.Item, 0)
	for _, it := range r.db.items {
		if it.OwnerID == ownerID && matches(it, filter) {
			all = append(all, *it)
		}
	}
	if offset >= len(all) {
		return []domain.Item{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// Count returns the number of ownerID's items under filter.
func (r *ItemRepo) Count(ctx context.Context, ownerID int64, filter domain.ItemFilter) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	count := 0
	for _, it := range r.db.items {
		if it.OwnerID == ownerID && matches(it, filter) {
			count++
		}
	}
	return count, nil
}

// DeleteCompleted removes all of ownerID's done items.
func (r *ItemRepo) DeleteCompleted(ctx context.Context, ownerID int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	kept := r.db.items[:0]
	var removed int64
	for _, it := range r.db.items {
		if it.OwnerID == ownerID && it.Done {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	r.db.items = kept
	return removed, nil
}

// --- SessionRepository ---

// SessionRepo implements session operations on DB.
type SessionRepo struct {
	db *DB
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	s, ok := r.db.sessions[token]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// Delete deletes a session by token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now()
	for token, s := range r.db.sessions {
		if now.After(s.ExpiresAt) {
			delete(r.db.sessions, token)
		}
	}
	return nil
}
