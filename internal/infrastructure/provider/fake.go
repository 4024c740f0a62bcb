package provider

import (
	"context"
	"hash/fnv"
	"math"
	"time"

	"projectchart-service/internal/application"
	"projectchart-service/internal/domain"
)

var _ application.HistoryProvider = (*Fake)(nil)

// Fake produces a deterministic synthetic series per ticker, for local runs.
type Fake struct {
	btcUSD float64
}

func NewFake(btcUSD float64) *Fake { return &Fake{btcUSD: btcUSD} }

func (f *Fake) Fetch(_ context.Context, ticker domain.Ticker, from, to time.Time, interval string) ([]domain.HistoryRecord, error) {
	step, err := time.ParseDuration(interval)
	if err != nil || step <= 0 {
		step = time.Hour
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(ticker))
	seed := float64(h.Sum32()%1000) / 10

	base := 1 + seed
	supply := 1e6 * (1 + seed)
	var out []domain.HistoryRecord
	for t := from.UTC().Truncate(step); !t.After(to); t = t.Add(step) {
		x := float64(t.Unix()) / 86400
		price := base * (1 + 0.1*math.Sin(x*2*math.Pi+seed))
		out = append(out, domain.HistoryRecord{
			Datetime:  t,
			PriceUSD:  domain.Some(price),
			PriceBTC:  domain.Some(price / f.btcUSD),
			Volume:    domain.Some(supply * 0.01 * (1.5 + math.Cos(x*4*math.Pi))),
			Marketcap: domain.Some(price * supply),
		})
	}
	return out, nil
}
