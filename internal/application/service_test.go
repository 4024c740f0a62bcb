package application

import (
	"bytes"
	"context"
	"testing"
	"time"

	"projectchart-service/internal/chart"
	"projectchart-service/internal/domain"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2018, 1, 10, 12, 0, 0, 0, time.UTC)

func history(n int) []domain.HistoryRecord {
	out := make([]domain.HistoryRecord, n)
	for i := range out {
		out[i] = domain.HistoryRecord{
			Datetime:  now.Add(-time.Duration(n-i) * time.Hour),
			PriceUSD:  domain.Some(100 + float64(i)),
			PriceBTC:  domain.Some(0.01),
			Volume:    domain.Some(1000 * float64(i+1)),
			Marketcap: domain.Some(1e6),
		}
	}
	return out
}

func newService(repo *fakeHistoryRepo, sessions *fakeSessions, opts ...Option) *ChartService {
	opts = append([]Option{WithClock(fakeClock{t: now}), WithIDGen(&seqIDGen{})}, opts...)
	return NewChartService(repo, &fakeProvider{}, sessions, opts...)
}

func Test_GetChart_NewSession(t *testing.T) {
	t.Parallel()
	repo := &fakeHistoryRepo{sets: map[histKey][]domain.HistoryRecord{{"SAN", domain.TimeRange1D}: history(3)}}
	svc := newService(repo, &fakeSessions{})

	view, err := svc.GetChart(context.Background(), "san", "")
	require.NoError(t, err)
	require.Equal(t, "session-1", view.SessionID)
	require.Equal(t, domain.Ticker("SAN"), view.Ticker)
	require.Equal(t, domain.DefaultSessionState(), view.State)
	require.False(t, view.Empty)
	require.Len(t, view.Render.Labels, 3)
	require.Len(t, view.Render.Datasets, 2)
	require.Nil(t, view.Render.Highlight)
	require.Equal(t, [2]time.Time{now.Add(-24 * time.Hour), now}, repo.windows[0])
}

func Test_GetChart_BadTicker(t *testing.T) {
	t.Parallel()
	svc := newService(&fakeHistoryRepo{}, &fakeSessions{})
	_, err := svc.GetChart(context.Background(), "not/a/ticker", "s")
	require.ErrorIs(t, err, ErrBadRequest)
}

func Test_GetChart_EmptyHistory(t *testing.T) {
	t.Parallel()
	svc := newService(&fakeHistoryRepo{}, &fakeSessions{})
	view, err := svc.GetChart(context.Background(), "SAN", "s1")
	require.NoError(t, err)
	require.True(t, view.Empty)
	require.Empty(t, view.Render.Labels)
	for _, ds := range view.Render.Datasets {
		require.Empty(t, ds.Data)
	}
}

func Test_GetChart_ResetsSelectionForShorterHistory(t *testing.T) {
	t.Parallel()
	sel := 5
	sessions := &fakeSessions{store: map[string]domain.SessionState{
		"s1": {ViewMode: domain.ViewMode{Unit: domain.UnitUSD, TimeRange: domain.TimeRange1D}, Selection: &sel},
	}}
	repo := &fakeHistoryRepo{sets: map[histKey][]domain.HistoryRecord{{"SAN", domain.TimeRange1D}: history(3)}}
	svc := newService(repo, sessions)

	view, err := svc.GetChart(context.Background(), "SAN", "s1")
	require.NoError(t, err)
	require.Nil(t, view.State.Selection)
	require.Nil(t, view.Render.Highlight)
	require.Nil(t, sessions.store["s1"].Selection)
	require.Equal(t, 1, sessions.saves)
}

func Test_ApplyAction_Sequence(t *testing.T) {
	t.Parallel()
	repo := &fakeHistoryRepo{sets: map[histKey][]domain.HistoryRecord{
		{"SAN", domain.TimeRange1D}: history(4),
		{"SAN", domain.TimeRange1W}: history(4),
	}}
	sessions := &fakeSessions{}
	svc := newService(repo, sessions)
	ctx := context.Background()

	st, err := svc.ApplyAction(ctx, "s1", "SAN", Action{Kind: ActionSelect, Elements: []int{2}})
	require.NoError(t, err)
	require.Equal(t, 2, *st.Selection)

	st, err = svc.ApplyAction(ctx, "s1", "SAN", Action{Kind: ActionUnit, Value: "btc"})
	require.NoError(t, err)
	require.Equal(t, domain.UnitBTC, st.Unit)
	require.Equal(t, 2, *st.Selection)

	st, err = svc.ApplyAction(ctx, "s1", "SAN", Action{Kind: ActionMarketcap, Value: "true"})
	require.NoError(t, err)
	require.True(t, st.ShowMarketCap)

	st, err = svc.ApplyAction(ctx, "s1", "SAN", Action{Kind: ActionTimeRange, Value: "1w"})
	require.NoError(t, err)
	require.Equal(t, domain.TimeRange1W, st.TimeRange)
	require.Equal(t, 2, *st.Selection)

	st, err = svc.ApplyAction(ctx, "s1", "SAN", Action{Kind: ActionSelect, Value: "9"})
	require.NoError(t, err)
	require.Equal(t, 2, *st.Selection)

	st, err = svc.ApplyAction(ctx, "s1", "SAN", Action{Kind: ActionSelect, Value: "none"})
	require.NoError(t, err)
	require.Nil(t, st.Selection)

	view, err := svc.GetChart(ctx, "SAN", "s1")
	require.NoError(t, err)
	require.Len(t, view.Render.Datasets, 3)
	require.Equal(t, domain.UnitBTC, view.Render.Unit)
	require.Equal(t, "D MMM", view.Render.XAxis.TickFormat)
}

func Test_ApplyAction_Invalid(t *testing.T) {
	t.Parallel()
	svc := newService(&fakeHistoryRepo{}, &fakeSessions{})
	ctx := context.Background()

	cases := []Action{
		{Kind: "zoom", Value: "1"},
		{Kind: ActionUnit, Value: "EUR"},
		{Kind: ActionMarketcap, Value: "maybe"},
		{Kind: ActionTimeRange, Value: "1y"},
		{Kind: ActionSelect, Value: "x"},
	}
	for _, a := range cases {
		_, err := svc.ApplyAction(ctx, "s1", "SAN", a)
		require.ErrorIs(t, err, ErrBadRequest, "%+v", a)
	}
	_, err := svc.ApplyAction(ctx, "", "SAN", Action{Kind: ActionUnit, Value: "USD"})
	require.ErrorIs(t, err, ErrBadRequest)
}

func Test_SyncHistory_ReplacesAndInvalidates(t *testing.T) {
	t.Parallel()
	h := history(3)
	// provider returns out of order
	provider := &fakeProvider{out: []domain.HistoryRecord{h[2], h[0], h[1]}}
	repo := &fakeHistoryRepo{}
	cache := &fakeCache{}
	svc := NewChartService(repo, provider, &fakeSessions{}, WithClock(fakeClock{t: now}), WithCache(cache))
	ctx := context.Background()

	_, err := svc.GetChart(ctx, "SAN", "s1")
	require.NoError(t, err)
	require.Contains(t, cache.sets, histKey{"SAN", domain.TimeRange1D})

	n, err := svc.SyncHistory(ctx, "san", domain.TimeRange1D)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, "5m", provider.interval)
	require.Equal(t, h, repo.sets[histKey{"SAN", domain.TimeRange1D}])
	require.Equal(t, []domain.Ticker{"SAN"}, cache.invalidated)
	require.NotContains(t, cache.sets, histKey{"SAN", domain.TimeRange1D})

	view, err := svc.GetChart(ctx, "SAN", "s1")
	require.NoError(t, err)
	require.Len(t, view.Render.Labels, 3)
}

func Test_SyncHistory_ProviderError(t *testing.T) {
	t.Parallel()
	svc := NewChartService(&fakeHistoryRepo{}, &fakeProvider{err: ErrRepo}, &fakeSessions{})
	_, err := svc.SyncHistory(context.Background(), "SAN", domain.TimeRange1W)
	require.ErrorIs(t, err, ErrRepo)
}

func Test_LoadHistory_CacheFailureFallsBackToRepo(t *testing.T) {
	t.Parallel()
	repo := &fakeHistoryRepo{sets: map[histKey][]domain.HistoryRecord{{"SAN", domain.TimeRange1D}: history(2)}}
	svc := newService(repo, &fakeSessions{}, WithCache(&fakeCache{getErr: ErrRepo}))
	view, err := svc.GetChart(context.Background(), "SAN", "s1")
	require.NoError(t, err)
	require.Len(t, view.Render.Labels, 2)
	require.Equal(t, 1, repo.listed)
}

func Test_GetChart_RepoError(t *testing.T) {
	t.Parallel()
	svc := newService(&fakeHistoryRepo{err: ErrRepo}, &fakeSessions{})
	_, err := svc.GetChart(context.Background(), "SAN", "s1")
	require.ErrorIs(t, err, ErrRepo)
}

func Test_RenderSnapshot(t *testing.T) {
	t.Parallel()
	repo := &fakeHistoryRepo{sets: map[histKey][]domain.HistoryRecord{{"SAN", domain.TimeRange1D}: history(3)}}
	r := &fakeRenderer{}
	svc := newService(repo, &fakeSessions{}, WithRenderer(r))

	var buf bytes.Buffer
	require.NoError(t, svc.RenderSnapshot(context.Background(), "SAN", "s1", &buf))
	require.Equal(t, "png", buf.String())
	require.NotNil(t, r.got)
	require.Len(t, r.got.Datasets, 2)

	err := svc.RenderSnapshot(context.Background(), "BTC", "s1", &buf)
	require.ErrorIs(t, err, ErrNotFound)
}

func Test_ChartType_RegisteredForDatasets(t *testing.T) {
	chart.RegisterChartTypes()
	repo := &fakeHistoryRepo{sets: map[histKey][]domain.HistoryRecord{{"SAN", domain.TimeRange1D}: history(1)}}
	svc := newService(repo, &fakeSessions{})
	view, err := svc.GetChart(context.Background(), "SAN", "s1")
	require.NoError(t, err)
	for _, ds := range view.Render.Datasets {
		_, ok := chart.LookupChartType(ds.Type)
		require.True(t, ok, ds.Type)
	}
}
