package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/irsalhamdi/learner-portal/config"
)

// ErrMiss is returned when a key is absent or the layer is disabled.
var ErrMiss = errors.New("cache miss")

// NewRedis connects and pings the configured server.
func NewRedis(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", client.Options().Addr, err)
	}

	return client, nil
}

// Shared is the cross-instance layer. A nil client disables it: reads miss
// and writes are dropped.
type Shared struct {
	client *redis.Client
	prefix string
}

func NewShared(client *redis.Client, prefix string) *Shared {
	return &Shared{client: client, prefix: prefix}
}

func (s *Shared) Enabled() bool {
	return s != nil && s.client != nil
}

// Get unmarshals the value under key into dest.
func (s *Shared) Get(ctx context.Context, key string, dest any) error {
	if !s.Enabled() {
		return ErrMiss
	}

	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}
	return nil
}

// Set marshals value and stores it for ttl.
func (s *Shared) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}

	if err := s.client.Set(ctx, s.prefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes keys.
func (s *Shared) Delete(ctx context.Context, keys ...string) error {
	if !s.Enabled() || len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis delete %v: %w", keys, err)
	}
	return nil
}

func (s *Shared) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Close()
}
