package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"projectchart-service/internal/application"
	"projectchart-service/internal/chart"
	"projectchart-service/internal/domain"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var _ application.SnapshotRenderer = (*PNGRenderer)(nil)

var ErrNoData = errors.New("render: nothing to draw")

// PNGRenderer draws a RenderSpec as a static PNG. Price uses the left axis,
// market cap the right one. Volume bars are scaled onto the price axis using
// the volume axis maximum so they keep their relative height.
type PNGRenderer struct {
	Width  int
	Height int
}

func NewPNGRenderer(width, height int) *PNGRenderer {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 400
	}
	chart.RegisterChartTypes()
	return &PNGRenderer{Width: width, Height: height}
}

type points struct {
	xs []time.Time
	ys []float64
}

func collect(labels []time.Time, data []domain.Num, scale float64) points {
	var p points
	for i, v := range data {
		if i >= len(labels) || !v.Valid {
			continue
		}
		p.xs = append(p.xs, labels[i])
		p.ys = append(p.ys, v.Value*scale)
	}
	return p
}

func maxOf(ys []float64) float64 {
	var m float64
	for _, y := range ys {
		if y > m {
			m = y
		}
	}
	return m
}

func (r *PNGRenderer) Render(w io.Writer, spec chart.RenderSpec) error {
	if len(spec.Labels) == 0 {
		return ErrNoData
	}

	var (
		series   []gochart.Series
		priceMax float64
		volume   *chart.PlotSeries
		mcap     *chart.PlotSeries
	)
	for i := range spec.Datasets {
		ds := spec.Datasets[i]
		switch ds.AxisID {
		case chart.AxisPrice:
			p := collect(spec.Labels, ds.Data, 1)
			if len(p.xs) == 0 {
				continue
			}
			priceMax = maxOf(p.ys)
			style := gochart.Style{StrokeColor: parseColor(ds.BorderColor), StrokeWidth: float64(ds.BorderWidth)}
			if ds.Fill {
				style.FillColor = parseColor(ds.BackgroundColor)
			}
			series = append(series, gochart.TimeSeries{Name: ds.Label, XValues: p.xs, YValues: p.ys, Style: style})
		case chart.AxisVolume:
			volume = &spec.Datasets[i]
		case chart.AxisMarketcap:
			mcap = &spec.Datasets[i]
		}
	}
	if priceMax <= 0 {
		priceMax = 1
	}

	if volume != nil {
		if ax, ok := spec.YAxis(chart.AxisVolume); ok && ax.Max != nil && *ax.Max > 0 {
			p := collect(spec.Labels, volume.Data, priceMax/(*ax.Max))
			if len(p.xs) > 0 {
				col := parseColor(volume.BorderColor)
				series = append(series, gochart.TimeSeries{
					Name: volume.Label, XValues: p.xs, YValues: p.ys,
					Style: gochart.Style{StrokeColor: col, FillColor: col, StrokeWidth: float64(volume.BorderWidth)},
				})
			}
		}
	}

	var secondary gochart.YAxis
	if mcap != nil {
		p := collect(spec.Labels, mcap.Data, 1)
		if len(p.xs) > 0 {
			series = append(series, gochart.TimeSeries{
				Name: mcap.Label, XValues: p.xs, YValues: p.ys, YAxis: gochart.YAxisSecondary,
				Style: gochart.Style{StrokeColor: parseColor(mcap.BorderColor), StrokeWidth: float64(mcap.BorderWidth)},
			})
			hi := maxOf(p.ys)
			if hi <= 0 {
				hi = 1
			}
			secondary = gochart.YAxis{
				Range:          &gochart.ContinuousRange{Min: 0, Max: hi * 1.05},
				ValueFormatter: r.valueFormatter(spec.Unit),
			}
		}
	}
	if len(series) == 0 {
		return ErrNoData
	}

	if rule := hoverRule(spec, priceMax*1.05); rule != nil {
		series = append(series, *rule)
	}

	first, last := spec.Labels[0], spec.Labels[len(spec.Labels)-1]
	if !last.After(first) {
		first, last = first.Add(-time.Hour), first.Add(time.Hour)
	}
	layout := spec.XAxis.Layout()
	ch := gochart.Chart{
		Width:      r.Width,
		Height:     r.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 16, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: float64(first.UnixNano()), Max: float64(last.UnixNano())},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return time.Unix(0, int64(f)).UTC().Format(layout)
				}
				return ""
			},
		},
		YAxis: gochart.YAxis{
			Range:          &gochart.ContinuousRange{Min: 0, Max: priceMax * 1.05},
			ValueFormatter: r.valueFormatter(spec.Unit),
		},
		YAxisSecondary: secondary,
		Series:         series,
	}
	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	return nil
}

func (r *PNGRenderer) valueFormatter(unit domain.Unit) gochart.ValueFormatter {
	return func(v interface{}) string {
		if f, ok := v.(float64); ok {
			return chart.FormatValue(unit, domain.Some(f))
		}
		return ""
	}
}

// hoverRule draws the selected point's vertical rule when the price series
// type defines one.
func hoverRule(spec chart.RenderSpec, top float64) *gochart.TimeSeries {
	if spec.Highlight == nil {
		return nil
	}
	i := spec.Highlight.Index
	if i < 0 || i >= len(spec.Labels) {
		return nil
	}
	for _, ds := range spec.Datasets {
		def, ok := chart.LookupChartType(ds.Type)
		if !ok || def.HoverRule == nil {
			continue
		}
		t := spec.Labels[i]
		return &gochart.TimeSeries{
			Name:    "selection",
			XValues: []time.Time{t, t},
			YValues: []float64{0, top},
			Style:   gochart.Style{StrokeColor: parseColor(def.HoverRule.Color), StrokeWidth: def.HoverRule.Width},
		}
	}
	return nil
}

// parseColor reads the dataset colour notations. drawing.ParseColor drops
// the alpha byte of "#rrggbbaa", so that form is decoded here.
func parseColor(s string) drawing.Color {
	s = strings.TrimSpace(strings.ToLower(s))
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		switch len(hex) {
		case 8:
			v, err := strconv.ParseUint(hex, 16, 32)
			if err != nil {
				return gochart.ColorBlue
			}
			return drawing.Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
		case 3, 6:
			if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
				return gochart.ColorBlue
			}
		default:
			return gochart.ColorBlue
		}
	}
	c := drawing.ParseColor(s)
	if c.IsZero() {
		return gochart.ColorBlue
	}
	return c
}
