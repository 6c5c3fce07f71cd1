package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pmxlabs/venuelink/internal/domain"
)

const marketListTTL = 5 * time.Minute

// MarketListCache implements domain.MarketListCache so repeated runs within
// the TTL skip the database.
//
// Key schema:
//
//	venuelink:markets:{venue}:{topic} - JSON array of Market
type MarketListCache struct {
	rdb *redis.Client
}

// NewMarketListCache creates a MarketListCache backed by the given Client.
func NewMarketListCache(c *Client) *MarketListCache {
	return &MarketListCache{rdb: c.Underlying()}
}

func marketListKey(venue domain.Venue, topic domain.Topic) string {
	return Key("markets", string(venue), string(topic))
}

// Get retrieves a cached eligible-market list. It returns domain.ErrNotFound
// when the key does not exist.
func (mc *MarketListCache) Get(ctx context.Context, venue domain.Venue, topic domain.Topic) ([]domain.Market, error) {
	data, err := mc.rdb.Get(ctx, marketListKey(venue, topic)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get market list %s/%s: %w", venue, topic, err)
	}

	var markets []domain.Market
	if err := json.Unmarshal(data, &markets); err != nil {
		return nil, fmt.Errorf("redis: unmarshal market list %s/%s: %w", venue, topic, err)
	}
	return markets, nil
}

// Set stores an eligible-market list with a 5-minute TTL.
func (mc *MarketListCache) Set(ctx context.Context, venue domain.Venue, topic domain.Topic, markets []domain.Market) error {
	data, err := json.Marshal(markets)
	if err != nil {
		return fmt.Errorf("redis: marshal market list %s/%s: %w", venue, topic, err)
	}
	if err := mc.rdb.Set(ctx, marketListKey(venue, topic), data, marketListTTL).Err(); err != nil {
		return fmt.Errorf("redis: set market list %s/%s: %w", venue, topic, err)
	}
	return nil
}
