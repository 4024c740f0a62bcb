package application

import (
	"context"
	"io"
	"time"

	"projectchart-service/internal/chart"
	"projectchart-service/internal/domain"
)

// HistoryRepo stores one history set per ticker and time range.
type HistoryRepo interface {
	// List returns the records of (ticker, r) inside [from, to], ascending.
	List(ctx context.Context, ticker domain.Ticker, r domain.TimeRange, from, to time.Time) ([]domain.HistoryRecord, error)
	// Replace drops the stored set of (ticker, r) and stores recs instead.
	Replace(ctx context.Context, ticker domain.Ticker, r domain.TimeRange, recs []domain.HistoryRecord) error
}

type HistoryProvider interface {
	Fetch(ctx context.Context, ticker domain.Ticker, from, to time.Time, interval string) ([]domain.HistoryRecord, error)
}

// HistoryCache is a short-lived read-through cache in front of HistoryRepo.
type HistoryCache interface {
	Get(ctx context.Context, ticker domain.Ticker, r domain.TimeRange) ([]domain.HistoryRecord, bool, error)
	Set(ctx context.Context, ticker domain.Ticker, r domain.TimeRange, recs []domain.HistoryRecord) error
	Invalidate(ctx context.Context, ticker domain.Ticker) error
}

type SessionStore interface {
	Load(ctx context.Context, id string) (domain.SessionState, bool, error)
	Save(ctx context.Context, id string, st domain.SessionState) error
}

type SnapshotRenderer interface {
	Render(w io.Writer, spec chart.RenderSpec) error
}

// UnitOfWork scopes the repository calls made with the derived context to a
// single transaction.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoopUoW runs fn directly, for stores whose writes are already atomic.
type NoopUoW struct{}

func (NoopUoW) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
