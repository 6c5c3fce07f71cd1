package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ValidationBudget implements domain.ValidationBudget as a per-day counter.
// The key expires 48h after first use so stale days clean themselves up.
//
// Key schema:
//
//	venuelink:validator:budget:{yyyy-mm-dd} - integer units spent today
type ValidationBudget struct {
	rdb   *redis.Client
	daily int64
	now   func() time.Time
}

// NewValidationBudget creates a budget allowing daily units per UTC day.
func NewValidationBudget(c *Client, daily int) *ValidationBudget {
	return &ValidationBudget{
		rdb:   c.Underlying(),
		daily: int64(daily),
		now:   time.Now,
	}
}

func (b *ValidationBudget) key() string {
	return Key("validator", "budget", b.now().UTC().Format("2006-01-02"))
}

// Spend consumes n units and reports whether budget remained. The increment
// is applied before the check, so a rejected spend still burns the units; the
// budget is a hard daily stop, not a precise meter.
func (b *ValidationBudget) Spend(ctx context.Context, n int) (bool, error) {
	key := b.key()
	total, err := b.rdb.IncrBy(ctx, key, int64(n)).Result()
	if err != nil {
		return false, fmt.Errorf("redis: spend validation budget: %w", err)
	}
	if total == int64(n) {
		if err := b.rdb.Expire(ctx, key, 48*time.Hour).Err(); err != nil {
			return false, fmt.Errorf("redis: expire validation budget: %w", err)
		}
	}
	return total <= b.daily, nil
}
