package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"projectchart-service/internal/application"
	"projectchart-service/internal/domain"
	"projectchart-service/internal/infrastructure/httpx"
)

var _ application.HistoryProvider = (*HistoryAPIProvider)(nil)

// HistoryAPIProvider reads project history from the upstream REST API.
type HistoryAPIProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Log     httpx.Logger
}

func (p *HistoryAPIProvider) Fetch(ctx context.Context, ticker domain.Ticker, from, to time.Time, interval string) ([]domain.HistoryRecord, error) {
	if p.BaseURL == "" {
		return nil, errors.New("history api: missing base url")
	}
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("history api: invalid base url: %w", err)
	}
	u = u.JoinPath("v1", "projects", string(ticker), "history")
	q := u.Query()
	q.Set("from", from.UTC().Format(time.RFC3339))
	q.Set("to", to.UTC().Format(time.RFC3339))
	q.Set("interval", interval)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("history api: create request: %w", err)
	}
	client := &httpx.Client{HTTP: p.Client, Token: p.APIKey}
	var out []domain.HistoryRecord
	if err := client.DoJSON(ctx, req, &out, p.Log); err != nil {
		return nil, fmt.Errorf("history api: %w", err)
	}

	// points without a timestamp cannot be placed on the axis
	recs := out[:0]
	for _, r := range out {
		if r.Datetime.IsZero() {
			continue
		}
		r.Datetime = r.Datetime.UTC()
		recs = append(recs, r)
	}
	return recs, nil
}
