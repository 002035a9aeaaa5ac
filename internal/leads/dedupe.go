package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/impyreal/realty-ai-platform/pkg/logging"
)

// SubmissionGuard suppresses repeated submissions of the same enquiry. A nil
// guard (redis not configured) lets everything through.
type SubmissionGuard interface {
	// Reserve returns false when an identical submission was already seen
	// inside the window.
	Reserve(ctx context.Context, phone, source string) (bool, error)
}

// RedisDeduper implements SubmissionGuard with a redis SETNX key per
// phone+source pair. Redis faults fail open: a broken cache must never block
// an enquiry.
type RedisDeduper struct {
	client *redis.Client
	window time.Duration
	logger *logging.Logger
}

// NewRedisDeduper creates a guard over the given client and window. Callers
// that run without redis leave the SubmissionGuard nil instead.
func NewRedisDeduper(client *redis.Client, window time.Duration, logger *logging.Logger) *RedisDeduper {
	if client == nil {
		panic("leads: redis client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if window <= 0 {
		window = 2 * time.Minute
	}
	return &RedisDeduper{client: client, window: window, logger: logger}
}

// Reserve claims the dedupe slot for this phone+source pair.
func (d *RedisDeduper) Reserve(ctx context.Context, phone, source string) (bool, error) {
	key := fmt.Sprintf("lead:dedupe:%s:%s", source, phone)
	ok, err := d.client.SetNX(ctx, key, 1, d.window).Result()
	if err != nil {
		d.logger.Error("dedupe guard unavailable, failing open", "error", err)
		return true, nil
	}
	return ok, nil
}
