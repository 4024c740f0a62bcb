package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SyncLock keeps two workers from syncing the same history at once.
type SyncLock struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewSyncLock(client *redis.Client, ttl time.Duration) *SyncLock {
	return &SyncLock{Client: client, TTL: ttl}
}

func (l *SyncLock) TryLock(ctx context.Context, key string) (bool, error) {
	return l.Client.SetNX(ctx, "projectchart:lock:"+key, "1", l.TTL).Result()
}

func (l *SyncLock) Unlock(ctx context.Context, key string) error {
	return l.Client.Del(ctx, "projectchart:lock:"+key).Err()
}

// NoopLock always grants the lock; used when Redis is disabled.
type NoopLock struct{}

func (NoopLock) TryLock(context.Context, string) (bool, error) { return true, nil }
func (NoopLock) Unlock(context.Context, string) error          { return nil }
