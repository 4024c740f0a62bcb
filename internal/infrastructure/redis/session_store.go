package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"projectchart-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "projectchart:session:"

// SessionStore keeps chart sessions as JSON values with a sliding TTL.
type SessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{Client: client, TTL: ttl}
}

func (s *SessionStore) Load(ctx context.Context, id string) (domain.SessionState, bool, error) {
	raw, err := s.Client.Get(ctx, sessionPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.SessionState{}, false, nil
	}
	if err != nil {
		return domain.SessionState{}, false, err
	}
	var st domain.SessionState
	if err := json.Unmarshal(raw, &st); err != nil {
		// unreadable sessions start over
		return domain.SessionState{}, false, nil
	}
	if s.TTL > 0 {
		_ = s.Client.Expire(ctx, sessionPrefix+id, s.TTL).Err()
	}
	return st, true, nil
}

func (s *SessionStore) Save(ctx context.Context, id string, st domain.SessionState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, sessionPrefix+id, raw, s.TTL).Err()
}
