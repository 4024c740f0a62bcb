// Package memcache provides process-local session and history storage for
// single-instance deployments without Redis.
package memcache

import (
	"context"
	"time"

	"projectchart-service/internal/domain"

	gocache "github.com/patrickmn/go-cache"
)

type SessionStore struct {
	c   *gocache.Cache
	ttl time.Duration
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{c: gocache.New(ttl, 10*time.Minute), ttl: ttl}
}

func (s *SessionStore) Load(_ context.Context, id string) (domain.SessionState, bool, error) {
	v, ok := s.c.Get(id)
	if !ok {
		return domain.SessionState{}, false, nil
	}
	st := v.(domain.SessionState)
	s.c.Set(id, st, s.ttl)
	return cloneState(st), true, nil
}

func (s *SessionStore) Save(_ context.Context, id string, st domain.SessionState) error {
	s.c.Set(id, cloneState(st), s.ttl)
	return nil
}

func cloneState(st domain.SessionState) domain.SessionState {
	if st.Selection != nil {
		i := *st.Selection
		st.Selection = &i
	}
	return st
}

type HistoryCache struct {
	c *gocache.Cache
}

func NewHistoryCache(ttl time.Duration) *HistoryCache {
	return &HistoryCache{c: gocache.New(ttl, time.Minute)}
}

func historyKey(ticker domain.Ticker, r domain.TimeRange) string {
	return string(ticker) + ":" + string(r)
}

func (h *HistoryCache) Get(_ context.Context, ticker domain.Ticker, r domain.TimeRange) ([]domain.HistoryRecord, bool, error) {
	v, ok := h.c.Get(historyKey(ticker, r))
	if !ok {
		return nil, false, nil
	}
	recs := v.([]domain.HistoryRecord)
	return append([]domain.HistoryRecord(nil), recs...), true, nil
}

func (h *HistoryCache) Set(_ context.Context, ticker domain.Ticker, r domain.TimeRange, recs []domain.HistoryRecord) error {
	h.c.SetDefault(historyKey(ticker, r), append([]domain.HistoryRecord(nil), recs...))
	return nil
}

func (h *HistoryCache) Invalidate(_ context.Context, ticker domain.Ticker) error {
	for _, r := range domain.TimeRanges {
		h.c.Delete(historyKey(ticker, r))
	}
	return nil
}
