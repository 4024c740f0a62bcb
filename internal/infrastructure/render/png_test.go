package render

import (
	"bytes"
	"testing"
	"time"

	"projectchart-service/internal/chart"
	"projectchart-service/internal/domain"

	"github.com/stretchr/testify/require"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func history(n int) []domain.HistoryRecord {
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	out := make([]domain.HistoryRecord, n)
	for i := range out {
		p := 100 + float64(i)
		out[i] = domain.HistoryRecord{
			Datetime:  start.Add(time.Duration(i) * time.Hour),
			PriceUSD:  domain.Some(p),
			PriceBTC:  domain.Some(p / 50000),
			Volume:    domain.Some(1000 + float64(i*10)),
			Marketcap: domain.Some(p * 1e6),
		}
	}
	return out
}

func TestRender_PNG(t *testing.T) {
	chart.RegisterChartTypes()
	cases := []struct {
		name      string
		n         int
		unit      domain.Unit
		marketcap bool
		selection *int
	}{
		{name: "usd", n: 24, unit: domain.UnitUSD},
		{name: "btc with marketcap", n: 24, unit: domain.UnitBTC, marketcap: true},
		{name: "single point", n: 1, unit: domain.UnitUSD},
		{name: "selection", n: 5, unit: domain.UnitUSD, selection: intp(2)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := chart.Transform(history(tc.n), tc.unit, tc.marketcap)
			spec := chart.Present(res, tc.selection, tc.unit, domain.TimeRange1D)

			var buf bytes.Buffer
			require.NoError(t, NewPNGRenderer(0, 0).Render(&buf, spec))
			require.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
		})
	}
}

func TestRender_Empty(t *testing.T) {
	spec := chart.Present(chart.Transform(nil, domain.UnitUSD, false), nil, domain.UnitUSD, domain.TimeRange1D)
	var buf bytes.Buffer
	require.ErrorIs(t, NewPNGRenderer(0, 0).Render(&buf, spec), ErrNoData)
}

func TestRender_AllPricesMissing(t *testing.T) {
	h := history(3)
	for i := range h {
		h[i].PriceUSD = domain.None()
		h[i].Volume = domain.None()
	}
	spec := chart.Present(chart.Transform(h, domain.UnitUSD, false), nil, domain.UnitUSD, domain.TimeRange1D)
	var buf bytes.Buffer
	require.ErrorIs(t, NewPNGRenderer(0, 0).Render(&buf, spec), ErrNoData)
}

func TestParseColor(t *testing.T) {
	require.Equal(t, drawing.Color{R: 0x7a, G: 0x9d, B: 0x83, A: 0xeb}, parseColor("#7a9d83eb"))
	require.Equal(t, drawing.Color{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, parseColor("#102030"))
	require.Equal(t, drawing.Color{R: 200, G: 47, B: 63, A: 255}, parseColor("rgb(200, 47, 63)"))
	require.Equal(t, drawing.Color{R: 49, G: 107, B: 174, A: 127}, parseColor("rgba(49, 107, 174, 0.5)"))
	require.Equal(t, drawing.ColorRed, parseColor("Red"))
	require.Equal(t, drawing.Color{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff}, parseColor("#abc"))
}

func TestParseColor_FallsBackToBlue(t *testing.T) {
	for _, in := range []string{"", "#12", "#zzzzzz", "#7a9d83zz", "chartreuse-ish"} {
		require.Equal(t, gochart.ColorBlue, parseColor(in), in)
	}
}

func intp(i int) *int { return &i }
