package memcache

import (
	"context"
	"sync"
	"time"

	"projectchart-service/internal/domain"
)

type histKey struct {
	ticker domain.Ticker
	r      domain.TimeRange
}

// HistoryRepo keeps history in process memory (STORAGE=memory). Data does not
// survive a restart.
type HistoryRepo struct {
	mu   sync.RWMutex
	sets map[histKey][]domain.HistoryRecord
}

func NewHistoryRepo() *HistoryRepo {
	return &HistoryRepo{sets: map[histKey][]domain.HistoryRecord{}}
}

func (h *HistoryRepo) List(_ context.Context, ticker domain.Ticker, r domain.TimeRange, from, to time.Time) ([]domain.HistoryRecord, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []domain.HistoryRecord
	for _, rec := range h.sets[histKey{ticker, r}] {
		if rec.Datetime.Before(from) || rec.Datetime.After(to) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (h *HistoryRepo) Replace(_ context.Context, ticker domain.Ticker, r domain.TimeRange, recs []domain.HistoryRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sets[histKey{ticker, r}] = append([]domain.HistoryRecord(nil), recs...)
	return nil
}

func (h *HistoryRepo) Ping(context.Context) error { return nil }
