package cart

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

const DefaultTTL = 30 * time.Minute

// Store holds per-session quantity accumulations in a Redis hash keyed
// cart:{session_id}. Quantities accumulate through HINCRBY so concurrent
// additions for the same session serialize inside Redis; there is no
// client-side read-modify-write anywhere in this package.
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

// AddItem increments the stored quantity for productID and returns the new
// running total for that product. The cart's expiration window restarts on
// every call.
func (s *Store) AddItem(ctx context.Context, sessionID, productID string, quantity int64) (int64, error) {
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}

	key := cartKey(sessionID)
	newQty, err := s.client.HIncrBy(ctx, key, productID, quantity).Result()
	if err != nil {
		return 0, fmt.Errorf("redis hincrby failed: %w", err)
	}

	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return 0, fmt.Errorf("redis expire failed: %w", err)
	}

	return newQty, nil
}

// GetCart returns the current snapshot. An expired or never-written cart
// reads as an empty mapping, indistinguishable from one that was cleared.
// Reading refreshes the expiration window (sliding TTL, by policy).
func (s *Store) GetCart(ctx context.Context, sessionID string) (map[string]int64, error) {
	key := cartKey(sessionID)
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}

	items := make(map[string]int64, len(fields))
	for productID, raw := range fields {
		qty, convErr := strconv.ParseInt(raw, 10, 64)
		if convErr != nil {
			return nil, fmt.Errorf("malformed quantity for product %s: %w", productID, convErr)
		}
		items[productID] = qty
	}

	if len(items) > 0 {
		if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
			return nil, fmt.Errorf("redis expire failed: %w", err)
		}
	}

	return items, nil
}

// RemoveItem drops a single product from the cart. Removing a product that
// is not in the cart is not an error.
func (s *Store) RemoveItem(ctx context.Context, sessionID, productID string) error {
	if err := s.client.HDel(ctx, cartKey(sessionID), productID).Err(); err != nil {
		return fmt.Errorf("redis hdel failed: %w", err)
	}
	return nil
}

// Clear deletes the whole mapping. Used by successful checkout.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
