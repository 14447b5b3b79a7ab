package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/AriadnaNaya/BDD2/internal/domain"
)

var ErrUnauthenticated = errors.New("session has no authenticated identity")

const DefaultTTL = 24 * time.Hour

// Store binds opaque session tokens to an optional authenticated identity.
// Records live in a Redis hash and expire after ttl; every access slides
// the window. The observed system never expired sessions, the TTL here is
// a deliberate deviation.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Ensure returns the presented token when it is a well-formed session id,
// otherwise it mints a fresh random 128-bit one. No record is written:
// anonymous sessions exist only as an identifier until authentication.
func (s *Store) Ensure(ctx context.Context, presented string) (string, error) {
	if presented != "" {
		if _, err := uuid.Parse(presented); err == nil {
			// Slide the window on the record if one exists.
			if err := s.client.Expire(ctx, sessionKey(presented), s.ttl).Err(); err != nil {
				return "", fmt.Errorf("redis expire failed: %w", err)
			}
			return presented, nil
		}
	}
	return uuid.NewString(), nil
}

// Authenticate binds user_id and user_email into the session record,
// overwriting any prior binding. Re-login is allowed.
func (s *Store) Authenticate(ctx context.Context, sessionID string, user domain.User) error {
	key := sessionKey(sessionID)
	if err := s.client.HSet(ctx, key, "user_id", user.ID, "user_email", user.Email).Err(); err != nil {
		return fmt.Errorf("redis hset failed: %w", err)
	}
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis expire failed: %w", err)
	}
	return nil
}

// Identity returns the bound identity or ErrUnauthenticated. Reading
// refreshes the expiration window.
func (s *Store) Identity(ctx context.Context, sessionID string) (domain.Identity, error) {
	key := sessionKey(sessionID)
	vals, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return domain.Identity{}, fmt.Errorf("redis hgetall failed: %w", err)
	}
	if vals["user_id"] == "" {
		return domain.Identity{}, ErrUnauthenticated
	}
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return domain.Identity{}, fmt.Errorf("redis expire failed: %w", err)
	}
	return domain.Identity{
		UserID: vals["user_id"],
		Email:  vals["user_email"],
	}, nil
}

// Clear removes the identity binding. Clearing an unknown or already
// cleared session is not an error.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}
