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

const seriesTTL = 6 * time.Hour

// SeriesCache implements domain.SeriesCache with JSON values.
//
// Key schema:
//
//	venuelink:series:{venue}:{ticker} - JSON-serialized Series
type SeriesCache struct {
	rdb *redis.Client
}

// NewSeriesCache creates a SeriesCache backed by the given Client.
func NewSeriesCache(c *Client) *SeriesCache {
	return &SeriesCache{rdb: c.Underlying()}
}

func seriesKey(venue domain.Venue, ticker string) string {
	return Key("series", string(venue), ticker)
}

// Get retrieves a series record. It returns domain.ErrNotFound when the key
// does not exist, which callers treat as a plain cache miss.
func (sc *SeriesCache) Get(ctx context.Context, venue domain.Venue, ticker string) (domain.Series, error) {
	data, err := sc.rdb.Get(ctx, seriesKey(venue, ticker)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Series{}, domain.ErrNotFound
		}
		return domain.Series{}, fmt.Errorf("redis: get series %s:%s: %w", venue, ticker, err)
	}

	var s domain.Series
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.Series{}, fmt.Errorf("redis: unmarshal series %s:%s: %w", venue, ticker, err)
	}
	return s, nil
}

// Set stores a series record with a 6-hour TTL.
func (sc *SeriesCache) Set(ctx context.Context, s domain.Series) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("redis: marshal series %s:%s: %w", s.Venue, s.Ticker, err)
	}
	if err := sc.rdb.Set(ctx, seriesKey(s.Venue, s.Ticker), data, seriesTTL).Err(); err != nil {
		return fmt.Errorf("redis: set series %s:%s: %w", s.Venue, s.Ticker, err)
	}
	return nil
}
