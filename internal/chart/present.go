package chart

import (
	"time"

	"projectchart-service/internal/domain"
)

// volumeHeadroom keeps the volume bars in the lower half of the plot.
const volumeHeadroom = 2.2

type Axis struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Position    string   `json:"position,omitempty"`
	Display     bool     `json:"display"`
	BeginAtZero bool     `json:"beginAtZero,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Mirror      bool     `json:"mirror,omitempty"`
	Grid        bool     `json:"grid"`
}

type TimeAxis struct {
	Type       string   `json:"type"`
	TickFormat string   `json:"tickFormat"`
	TickLabels []string `json:"tickLabels"`
	layout     string
}

// Layout is the Go time layout matching TickFormat.
func (a TimeAxis) Layout() string { return a.layout }

// Highlight is the "selected value" payload shown above the chart.
type Highlight struct {
	Index    int    `json:"index"`
	Datetime string `json:"datetime"`
	Price    string `json:"price"`
	Volume   string `json:"volume"`
}

type RenderSpec struct {
	Type      string       `json:"type"`
	Labels    []time.Time  `json:"labels"`
	Datasets  []PlotSeries `json:"datasets"`
	XAxis     TimeAxis     `json:"xAxis"`
	YAxes     []Axis       `json:"yAxes"`
	Unit      domain.Unit  `json:"unit"`
	Highlight *Highlight   `json:"highlight"`
}

// FormatTooltip formats a hovered value in the chart's unit.
func (r RenderSpec) FormatTooltip(v float64) string {
	return FormatValue(r.Unit, domain.Some(v))
}

// YAxis returns the axis with the given id.
func (r RenderSpec) YAxis(id string) (Axis, bool) {
	for _, a := range r.YAxes {
		if a.ID == id {
			return a, true
		}
	}
	return Axis{}, false
}

// Present maps transformed series and the current selection to a renderer
// configuration. A nil selection, or one outside res, yields no highlight.
func Present(res Result, selection *int, unit domain.Unit, timeRange domain.TimeRange) RenderSpec {
	layout := TickLayout(timeRange)
	ticks := make([]string, len(res.Labels))
	for i, t := range res.Labels {
		ticks[i] = t.UTC().Format(layout)
	}

	spec := RenderSpec{
		Type:     ChartTypeBar,
		Labels:   res.Labels,
		Datasets: res.Series,
		XAxis: TimeAxis{
			Type:       "time",
			TickFormat: tickPattern(timeRange),
			TickLabels: ticks,
			layout:     layout,
		},
		Unit: unit,
	}

	for _, s := range res.Series {
		switch s.AxisID {
		case AxisPrice:
			spec.YAxes = append(spec.YAxes, Axis{
				ID: AxisPrice, Type: "linear", Position: "left",
				Display: true, BeginAtZero: true, Grid: true,
			})
		case AxisVolume:
			spec.YAxes = append(spec.YAxes, Axis{
				ID: AxisVolume, Type: "linear", Position: "right",
				Display: false, Max: volumeAxisMax(s.Data),
			})
		case AxisMarketcap:
			spec.YAxes = append(spec.YAxes, Axis{
				ID: AxisMarketcap, Type: "linear", Position: "right",
				Display: true, Mirror: true,
			})
		}
	}

	if selection != nil {
		spec.Highlight = highlight(res, *selection, unit)
	}
	return spec
}

func volumeAxisMax(data []domain.Num) *float64 {
	var peak float64
	found := false
	for _, v := range data {
		if !v.Valid {
			continue
		}
		if !found || v.Value > peak {
			peak = v.Value
			found = true
		}
	}
	if !found {
		return nil
	}
	m := peak * volumeHeadroom
	return &m
}

func highlight(res Result, i int, unit domain.Unit) *Highlight {
	if i < 0 || i >= len(res.Labels) {
		return nil
	}
	h := &Highlight{Index: i, Datetime: FormatHighlightDate(res.Labels[i])}
	if s, ok := res.SeriesByLabel(LabelPrice); ok {
		h.Price = FormatValue(unit, s.Data[i])
	}
	if s, ok := res.SeriesByLabel(LabelVolume); ok {
		h.Volume = FormatValue(unit, s.Data[i])
	}
	return h
}
