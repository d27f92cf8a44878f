package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"travelmarket/internal/domain"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// RangeCache keeps the non-cancelled reservation set per listing so
// availability checks skip the database on hot listings. Every
// reservation write must invalidate the listing's entry.
type RangeCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRangeCache(client *redis.Client) *RangeCache {
	return &RangeCache{
		client:  client,
		baseTTL: 5 * time.Minute,
	}
}

func (c *RangeCache) Get(ctx context.Context, listingID int64) ([]domain.Reservation, error) {
	data, err := c.client.Get(ctx, rangeKey(listingID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var reservations []domain.Reservation
	if err := json.Unmarshal(data, &reservations); err != nil {
		return nil, fmt.Errorf("unmarshal reservations failed: %w", err)
	}
	return reservations, nil
}

func (c *RangeCache) Set(ctx context.Context, listingID int64, reservations []domain.Reservation) error {
	data, err := json.Marshal(reservations)
	if err != nil {
		return fmt.Errorf("marshal reservations failed: %w", err)
	}

	// jitter spreads expiry so hot listings don't refill at once
	ttl := c.baseTTL + time.Duration(rand.Intn(60))*time.Second
	if err := c.client.Set(ctx, rangeKey(listingID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *RangeCache) Invalidate(ctx context.Context, listingID int64) error {
	if err := c.client.Del(ctx, rangeKey(listingID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func rangeKey(listingID int64) string {
	return fmt.Sprintf("availability:ranges:%d", listingID)
}
