package chart

import (
	"math"
	"time"

	"projectchart-service/internal/domain"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const (
	btcDecimals = 8
	// highlightDateLayout renders e.g. "January 02, 2018".
	highlightDateLayout = "January 02, 2006"
)

// FormatUSD renders a fiat amount as "$1,234.56". Amounts that stay below
// one dollar after rounding keep six decimals so sub-cent prices stay
// readable. Non-finite input renders as "-".
func FormatUSD(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	d := decimal.NewFromFloat(v).Abs()
	var digits int32 = 6
	r := d.Round(digits)
	if !r.IsPositive() || !r.LessThan(decimal.New(1, 0)) {
		digits = 2
		r = d.Round(digits)
	}
	sign := ""
	if v < 0 && !r.IsZero() {
		sign = "-"
	}
	whole := r.Truncate(0)
	frac := r.Sub(whole).StringFixed(digits)
	return sign + "$" + humanize.BigComma(whole.BigInt()) + frac[1:]
}

// FormatBTC renders a reference-currency amount with fixed precision.
func FormatBTC(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(btcDecimals) + " BTC"
}

// FormatValue formats n in unit u; absent values render as "-".
func FormatValue(u domain.Unit, n domain.Num) string {
	if !n.Valid {
		return "-"
	}
	if u.IsReference() {
		return FormatBTC(n.Value)
	}
	return FormatUSD(n.Value)
}

// TickLayout is the time-axis label layout for r: intraday ranges get
// hour:minute, longer ranges day-month.
func TickLayout(r domain.TimeRange) string {
	if r == domain.TimeRange1D {
		return "15:04"
	}
	return "2 Jan"
}

// tickPattern is the same layout in the notation chart front ends use.
func tickPattern(r domain.TimeRange) string {
	if r == domain.TimeRange1D {
		return "HH:mm"
	}
	return "D MMM"
}

func FormatHighlightDate(t time.Time) string {
	return t.UTC().Format(highlightDateLayout)
}
