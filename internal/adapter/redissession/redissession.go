// Package redissession implements the session repository on Redis, for
// deployments where several processes must share session state.
package redissession

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taskbook/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Store is a Redis-backed SessionRepository. Expiry is delegated to
// Redis key TTLs, so DeleteExpired is a no-op.
type Store struct {
	client *redis.Client
}

var _ domain.SessionRepository = (*Store)(nil)

// New connects to Redis and pings it.
func New(addr, password string) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Store{client: client}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func key(token string) string {
	return keyPrefix + token
}

// Create stores a session with a TTL matching its expiry.
func (s *Store) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("redissession: expires_at must be in the future")
	}

	sess := domain.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("redissession: marshal: %w", err)
	}
	return s.client.Set(ctx, key(token), data, ttl).Err()
}

// GetByToken retrieves a session, or nil if absent or expired.
func (s *Store) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	val, err := s.client.Get(ctx, key(token)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("redissession: unmarshal: %w", err)
	}
	return &sess, nil
}

// Delete removes a session. Deleting an absent token is not an error.
func (s *Store) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, key(token)).Err()
}

// DeleteExpired is a no-op: Redis evicts expired keys itself.
func (s *Store) DeleteExpired(ctx context.Context) error {
	return nil
}
