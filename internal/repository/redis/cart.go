// Package redis provides the Redis-backed cart store.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/BookingGo/internal/domain"
	apperrors "github.com/utafrali/BookingGo/pkg/errors"
)

const keyPrefix = "cart:"

// CartStore implements repository.CartStore using Redis.
type CartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartStore creates a new Redis-backed cart store. Carts expire after the
// given TTL; zero means no expiry.
func NewCartStore(client *redis.Client, ttl time.Duration) *CartStore {
	return &CartStore{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the cart for a guest from Redis.
func (s *CartStore) Get(ctx context.Context, guestID string) (*domain.Cart, error) {
	key := keyPrefix + guestID

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("cart", guestID)
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}

	return &cart, nil
}

// Save persists a cart to Redis with the configured TTL.
func (s *CartStore) Save(ctx context.Context, cart *domain.Cart) error {
	key := keyPrefix + cart.GuestID

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

// Delete removes the cart for a guest from Redis.
func (s *CartStore) Delete(ctx context.Context, guestID string) error {
	key := keyPrefix + guestID

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}

	return nil
}
