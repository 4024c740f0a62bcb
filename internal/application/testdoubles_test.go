package application

import (
	"context"
	"errors"
	"io"
	"time"

	"projectchart-service/internal/chart"
	"projectchart-service/internal/domain"
)

var (
	ErrRepo = errors.New("repo error")
)

type histKey struct {
	ticker domain.Ticker
	r      domain.TimeRange
}

type fakeHistoryRepo struct {
	sets    map[histKey][]domain.HistoryRecord
	err     error
	listed  int
	windows [][2]time.Time
}

func (f *fakeHistoryRepo) List(_ context.Context, ticker domain.Ticker, r domain.TimeRange, from, to time.Time) ([]domain.HistoryRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.listed++
	f.windows = append(f.windows, [2]time.Time{from, to})
	var out []domain.HistoryRecord
	for _, rec := range f.sets[histKey{ticker, r}] {
		if rec.Datetime.Before(from) || rec.Datetime.After(to) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeHistoryRepo) Replace(_ context.Context, ticker domain.Ticker, r domain.TimeRange, recs []domain.HistoryRecord) error {
	if f.err != nil {
		return f.err
	}
	if f.sets == nil {
		f.sets = map[histKey][]domain.HistoryRecord{}
	}
	f.sets[histKey{ticker, r}] = append([]domain.HistoryRecord(nil), recs...)
	return nil
}

type fakeProvider struct {
	out      []domain.HistoryRecord
	err      error
	interval string
}

func (f *fakeProvider) Fetch(_ context.Context, _ domain.Ticker, _, _ time.Time, interval string) ([]domain.HistoryRecord, error) {
	f.interval = interval
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.HistoryRecord(nil), f.out...), nil
}

type fakeSessions struct {
	store map[string]domain.SessionState
	saves int
	err   error
}

func (f *fakeSessions) Load(_ context.Context, id string) (domain.SessionState, bool, error) {
	if f.err != nil {
		return domain.SessionState{}, false, f.err
	}
	st, ok := f.store[id]
	return st, ok, nil
}

func (f *fakeSessions) Save(_ context.Context, id string, st domain.SessionState) error {
	if f.err != nil {
		return f.err
	}
	if f.store == nil {
		f.store = map[string]domain.SessionState{}
	}
	f.saves++
	f.store[id] = st
	return nil
}

type fakeCache struct {
	sets        map[histKey][]domain.HistoryRecord
	invalidated []domain.Ticker
	getErr      error
}

func (f *fakeCache) Get(_ context.Context, ticker domain.Ticker, r domain.TimeRange) ([]domain.HistoryRecord, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	recs, ok := f.sets[histKey{ticker, r}]
	return recs, ok, nil
}

func (f *fakeCache) Set(_ context.Context, ticker domain.Ticker, r domain.TimeRange, recs []domain.HistoryRecord) error {
	if f.sets == nil {
		f.sets = map[histKey][]domain.HistoryRecord{}
	}
	f.sets[histKey{ticker, r}] = recs
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, ticker domain.Ticker) error {
	f.invalidated = append(f.invalidated, ticker)
	for k := range f.sets {
		if k.ticker == ticker {
			delete(f.sets, k)
		}
	}
	return nil
}

type fakeRenderer struct{ got *chart.RenderSpec }

func (f *fakeRenderer) Render(w io.Writer, spec chart.RenderSpec) error {
	f.got = &spec
	_, err := w.Write([]byte("png"))
	return err
}

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

type seqIDGen struct{ n int }

func (g *seqIDGen) New() string {
	g.n++
	return "session-" + string(rune('0'+g.n))
}
