package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/lumenshop/storefront/internal/domain/model"
)

// Cmdable is the subset of the go-redis client used by the guest cart store.
type Cmdable interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
	Ping(ctx context.Context) *goredis.StatusCmd
	Close() error
}

// GuestCartStore keeps unauthenticated carts as JSON documents with a TTL.
// A missing key reads as an empty cart; guest carts are created implicitly on
// the first add and expire on their own if never merged.
type GuestCartStore struct {
	client Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

// New connects to Redis and verifies connectivity.
func New(ctx context.Context, addr string, ttl time.Duration, logger *slog.Logger) (*GuestCartStore, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return NewWithClient(client, ttl, logger), nil
}

// NewWithClient builds a store over an existing client.
func NewWithClient(client Cmdable, ttl time.Duration, logger *slog.Logger) *GuestCartStore {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &GuestCartStore{client: client, ttl: ttl, logger: logger}
}

// Close releases the underlying client.
func (s *GuestCartStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func guestCartKey(token string) string {
	return "cart:guest:" + token
}

// Get returns the guest cart for token, empty when absent or expired.
func (s *GuestCartStore) Get(ctx context.Context, token string) (model.Cart, error) {
	raw, err := s.client.Get(ctx, guestCartKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return model.Cart{}, nil
		}
		return model.Cart{}, err
	}

	var items []model.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		// Malformed documents are dropped rather than optional-chained around.
		s.logger.Warn("discarding malformed guest cart", slog.String("token", token), slog.String("error", err.Error()))
		_ = s.client.Del(ctx, guestCartKey(token)).Err()
		return model.Cart{}, nil
	}
	return model.Cart{Items: items}, nil
}

// Save writes the guest cart and refreshes its TTL.
func (s *GuestCartStore) Save(ctx context.Context, token string, cart model.Cart) error {
	raw, err := json.Marshal(cart.Items)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, guestCartKey(token), raw, s.ttl).Err()
}

// Delete removes the guest cart, typically after a merge on login.
func (s *GuestCartStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, guestCartKey(token)).Err()
}

// HealthCheck verifies Redis connectivity.
func (s *GuestCartStore) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err()
}
