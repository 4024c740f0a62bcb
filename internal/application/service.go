package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"projectchart-service/internal/chart"
	"projectchart-service/internal/domain"

	"go.uber.org/zap"
)

// ChartView is everything a client needs to draw one project chart.
type ChartView struct {
	SessionID string              `json:"sessionId"`
	Ticker    domain.Ticker       `json:"ticker"`
	State     domain.SessionState `json:"state"`
	Render    chart.RenderSpec    `json:"render"`
	Controls  chart.Controls      `json:"controls"`
	Empty     bool                `json:"empty"`
}

type ChartService struct {
	historyRepo HistoryRepo
	provider    HistoryProvider
	sessions    SessionStore
	cache       HistoryCache
	renderer    SnapshotRenderer
	uow         UnitOfWork
	clock       Clock
	idgen       IDGen
	log         *zap.Logger
}

type Option func(*ChartService)

func WithClock(c Clock) Option { return func(s *ChartService) { s.clock = c } }
func WithIDGen(g IDGen) Option { return func(s *ChartService) { s.idgen = g } }
func WithCache(c HistoryCache) Option { return func(s *ChartService) { s.cache = c } }
func WithRenderer(r SnapshotRenderer) Option { return func(s *ChartService) { s.renderer = r } }
func WithUnitOfWork(u UnitOfWork) Option { return func(s *ChartService) { s.uow = u } }
func WithLogger(l *zap.Logger) Option { return func(s *ChartService) { s.log = l } }

func NewChartService(historyRepo HistoryRepo, provider HistoryProvider, sessions SessionStore, opts ...Option) *ChartService {
	s := &ChartService{
		historyRepo: historyRepo,
		provider:    provider,
		sessions:    sessions,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.idgen == nil {
		s.idgen = defaultIDGen{}
	}
	if s.uow == nil {
		s.uow = NoopUoW{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// GetChart builds the chart of ticker for the session. An empty sessionID
// starts a new session with the initial state.
func (s *ChartService) GetChart(ctx context.Context, rawTicker, sessionID string) (ChartView, error) {
	ticker, err := domain.NormalizeTicker(rawTicker)
	if err != nil {
		return ChartView{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if sessionID == "" {
		sessionID = s.idgen.New()
	}
	st, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return ChartView{}, err
	}
	history, err := s.loadHistory(ctx, ticker, st.TimeRange)
	if err != nil {
		return ChartView{}, err
	}

	state := chart.Restore(st, len(history))
	mode := state.Mode()
	res := chart.Transform(history, mode.Unit, mode.ShowMarketCap)

	var selection *int
	if i, ok := state.Selection(); ok {
		selection = &i
	}
	snap := state.Snapshot()
	if !sameSelection(snap.Selection, st.Selection) {
		// the stored selection no longer fits the history that arrived
		if err := s.sessions.Save(ctx, sessionID, snap); err != nil {
			return ChartView{}, fmt.Errorf("save session: %w", err)
		}
	}

	s.log.Debug("chart.get",
		zap.String("ticker", string(ticker)),
		zap.String("session_id", sessionID),
		zap.String("unit", string(mode.Unit)),
		zap.String("range", string(mode.TimeRange)),
		zap.Int("points", len(history)),
	)
	return ChartView{
		SessionID: sessionID,
		Ticker:    ticker,
		State:     snap,
		Render:    chart.Present(res, selection, mode.Unit, mode.TimeRange),
		Controls:  chart.BuildControls(mode, false),
		Empty:     len(history) == 0,
	}, nil
}

// ApplyAction applies one user event to the session and persists the result.
// A selection outside the current history is ignored, not an error.
func (s *ChartService) ApplyAction(ctx context.Context, sessionID, rawTicker string, a Action) (domain.SessionState, error) {
	if sessionID == "" {
		return domain.SessionState{}, fmt.Errorf("%w: session is required", ErrBadRequest)
	}
	ticker, err := domain.NormalizeTicker(rawTicker)
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	st, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	history, err := s.loadHistory(ctx, ticker, st.TimeRange)
	if err != nil {
		return domain.SessionState{}, err
	}

	state := chart.Restore(st, len(history))
	if err := a.apply(state); err != nil {
		return domain.SessionState{}, err
	}
	snap := state.Snapshot()
	if err := s.sessions.Save(ctx, sessionID, snap); err != nil {
		return domain.SessionState{}, fmt.Errorf("save session: %w", err)
	}
	s.log.Info("chart.action",
		zap.String("session_id", sessionID),
		zap.String("ticker", string(ticker)),
		zap.String("kind", string(a.Kind)),
		zap.String("value", a.Value),
	)
	return snap, nil
}

// SyncHistory fetches the current window of (ticker, r) from the provider and
// replaces the stored set with it.
func (s *ChartService) SyncHistory(ctx context.Context, rawTicker string, r domain.TimeRange) (int, error) {
	ticker, err := domain.NormalizeTicker(rawTicker)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if s.provider == nil {
		return 0, errors.New("history provider not configured")
	}
	from, to := r.Window(s.clock.Now())
	recs, err := s.provider.Fetch(ctx, ticker, from, to, r.Interval())
	if err != nil {
		return 0, fmt.Errorf("fetch history: %w", err)
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Datetime.Before(recs[j].Datetime) })

	err = s.uow.Do(ctx, func(ctx context.Context) error {
		return s.historyRepo.Replace(ctx, ticker, r, recs)
	})
	if err != nil {
		return 0, fmt.Errorf("replace history: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, ticker); err != nil {
			s.log.Warn("history.cache_invalidate_failed", zap.String("ticker", string(ticker)), zap.Error(err))
		}
	}
	s.log.Info("history.sync_done",
		zap.String("ticker", string(ticker)),
		zap.String("range", string(r)),
		zap.Int("records", len(recs)),
	)
	return len(recs), nil
}

// RenderSnapshot draws the session's current chart of ticker as an image.
func (s *ChartService) RenderSnapshot(ctx context.Context, rawTicker, sessionID string, w io.Writer) error {
	if s.renderer == nil {
		return errors.New("snapshot renderer not configured")
	}
	view, err := s.GetChart(ctx, rawTicker, sessionID)
	if err != nil {
		return err
	}
	if view.Empty {
		return fmt.Errorf("%w: no history for %s", ErrNotFound, view.Ticker)
	}
	return s.renderer.Render(w, view.Render)
}

func (s *ChartService) loadSession(ctx context.Context, id string) (domain.SessionState, error) {
	st, ok, err := s.sessions.Load(ctx, id)
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return domain.DefaultSessionState(), nil
	}
	if _, err := domain.ParseTimeRange(string(st.TimeRange)); err != nil {
		st.TimeRange = domain.TimeRange1D
	}
	return st, nil
}

func (s *ChartService) loadHistory(ctx context.Context, ticker domain.Ticker, r domain.TimeRange) ([]domain.HistoryRecord, error) {
	log := s.log.With(zap.String("ticker", string(ticker)), zap.String("range", string(r)))
	if s.cache != nil {
		recs, ok, err := s.cache.Get(ctx, ticker, r)
		if err != nil {
			log.Warn("history.cache_get_failed", zap.Error(err))
		} else if ok {
			return recs, nil
		}
	}
	from, to := r.Window(s.clock.Now())
	recs, err := s.historyRepo.List(ctx, ticker, r, from, to)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, ticker, r, recs); err != nil {
			log.Warn("history.cache_set_failed", zap.Error(err))
		}
	}
	return recs, nil
}

func sameSelection(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
