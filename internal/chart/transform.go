package chart

import (
	"time"

	"projectchart-service/internal/domain"
)

const (
	LabelPrice     = "price"
	LabelVolume    = "volume"
	LabelMarketcap = "marketcap"

	AxisPrice     = "y-axis-1"
	AxisVolume    = "y-axis-2"
	AxisMarketcap = "y-axis-3"
)

// PlotSeries is one dataset handed to the renderer. Data is aligned
// index-for-index with the history the series was built from.
type PlotSeries struct {
	Label            string       `json:"label"`
	Type             string       `json:"type"`
	AxisID           string       `json:"yAxisID"`
	Fill             bool         `json:"fill"`
	BorderColor      string       `json:"borderColor"`
	BackgroundColor  string       `json:"backgroundColor,omitempty"`
	BorderWidth      int          `json:"borderWidth"`
	PointBorderWidth int          `json:"pointBorderWidth"`
	Data             []domain.Num `json:"data"`
}

type Result struct {
	Labels []time.Time  `json:"labels"`
	Series []PlotSeries `json:"datasets"`
}

// SeriesByLabel returns the dataset with the given label.
func (r Result) SeriesByLabel(label string) (PlotSeries, bool) {
	for _, s := range r.Series {
		if s.Label == label {
			return s, true
		}
	}
	return PlotSeries{}, false
}

type converter func(rec domain.HistoryRecord, v domain.Num) domain.Num

func usdValue(_ domain.HistoryRecord, v domain.Num) domain.Num { return v }

// referenceValue converts a USD amount with the record's own BTC/USD rate.
func referenceValue(rec domain.HistoryRecord, v domain.Num) domain.Num {
	if !v.Valid || !rec.PriceUSD.Valid || !rec.PriceBTC.Valid || rec.PriceUSD.Value == 0 {
		return domain.None()
	}
	return domain.Some(v.Value / rec.PriceUSD.Value * rec.PriceBTC.Value)
}

func converterFor(u domain.Unit) converter {
	if u.IsReference() {
		return referenceValue
	}
	return usdValue
}

// Transform builds the price and volume series, plus market cap when
// showMarketCap is set, from history in the requested unit.
func Transform(history []domain.HistoryRecord, unit domain.Unit, showMarketCap bool) Result {
	conv := converterFor(unit)
	n := len(history)

	labels := make([]time.Time, n)
	price := make([]domain.Num, n)
	volume := make([]domain.Num, n)
	var marketcap []domain.Num
	if showMarketCap {
		marketcap = make([]domain.Num, n)
	}

	for i, rec := range history {
		labels[i] = rec.Datetime.UTC()
		price[i] = conv(rec, rec.PriceUSD)
		volume[i] = conv(rec, rec.Volume)
		if showMarketCap {
			marketcap[i] = conv(rec, rec.Marketcap)
		}
	}

	series := []PlotSeries{
		{
			Label:            LabelPrice,
			Type:             ChartTypeLineWithLine,
			AxisID:           AxisPrice,
			Fill:             !showMarketCap,
			BorderColor:      "#7a9d83eb",
			BackgroundColor:  "rgba(239, 242, 236, 0.5)",
			BorderWidth:      1,
			PointBorderWidth: 2,
			Data:             price,
		},
		{
			Label:            LabelVolume,
			Type:             ChartTypeBar,
			AxisID:           AxisVolume,
			BorderColor:      "rgba(49, 107, 174, 0.5)",
			BorderWidth:      1,
			PointBorderWidth: 2,
			Data:             volume,
		},
	}
	if showMarketCap {
		series = append(series, PlotSeries{
			Label:            LabelMarketcap,
			Type:             ChartTypeLine,
			AxisID:           AxisMarketcap,
			BorderColor:      "rgb(200, 47, 63)",
			BorderWidth:      1,
			PointBorderWidth: 2,
			Data:             marketcap,
		})
	}
	return Result{Labels: labels, Series: series}
}
