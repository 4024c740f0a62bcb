package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"projectchart-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

const historyPrefix = "projectchart:history:"

// HistoryCache is a read-through cache in front of the history repository.
type HistoryCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewHistoryCache(client *redis.Client, ttl time.Duration) *HistoryCache {
	return &HistoryCache{Client: client, TTL: ttl}
}

func historyKey(ticker domain.Ticker, r domain.TimeRange) string {
	return historyPrefix + string(ticker) + ":" + string(r)
}

func (c *HistoryCache) Get(ctx context.Context, ticker domain.Ticker, r domain.TimeRange) ([]domain.HistoryRecord, bool, error) {
	raw, err := c.Client.Get(ctx, historyKey(ticker, r)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var recs []domain.HistoryRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, false, err
	}
	return recs, true, nil
}

func (c *HistoryCache) Set(ctx context.Context, ticker domain.Ticker, r domain.TimeRange, recs []domain.HistoryRecord) error {
	if recs == nil {
		recs = []domain.HistoryRecord{}
	}
	raw, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, historyKey(ticker, r), raw, c.TTL).Err()
}

// Invalidate drops the cached history of ticker for every time range.
func (c *HistoryCache) Invalidate(ctx context.Context, ticker domain.Ticker) error {
	keys := make([]string, 0, len(domain.TimeRanges))
	for _, r := range domain.TimeRanges {
		keys = append(keys, historyKey(ticker, r))
	}
	return c.Client.Del(ctx, keys...).Err()
}
