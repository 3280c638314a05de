package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RequestThrottle enforces a per-(contact, purpose) cooldown between code
// requests, backed by Redis. Key format: otp:cooldown:<purpose>:<contact>
type RequestThrottle struct {
	client   *redis.Client
	cooldown time.Duration
}

// NewRequestThrottle creates a RequestThrottle wrapping the given Redis client.
func NewRequestThrottle(client *redis.Client, cooldown time.Duration) *RequestThrottle {
	return &RequestThrottle{client: client, cooldown: cooldown}
}

// Allow reports whether a new code may be issued. The first call for a key
// claims the cooldown window; calls within the window are denied.
func (t *RequestThrottle) Allow(ctx context.Context, contact, purpose string) (bool, error) {
	if t.cooldown <= 0 {
		return true, nil
	}
	ok, err := t.client.SetNX(ctx, t.key(contact, purpose), "1", t.cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return ok, nil
}

func (t *RequestThrottle) key(contact, purpose string) string {
	return fmt.Sprintf("otp:cooldown:%s:%s", purpose, contact)
}
