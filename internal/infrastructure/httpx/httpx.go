package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Logger is the narrow logging surface DoJSON reports retries to.
type Logger interface {
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
}

// ZapLogger adapts a zap logger to Logger.
type ZapLogger struct{ L *zap.Logger }

func (z ZapLogger) Info(msg string, kv ...any) { z.L.Sugar().Infow(msg, kv...) }
func (z ZapLogger) Warn(msg string, kv ...any) { z.L.Sugar().Warnw(msg, kv...) }

type nopLogger struct{}

func (nopLogger) Info(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}

type Client struct {
	HTTP  *http.Client
	Token string
}

// DoJSON sends req and decodes a 200 response into out. Transport errors and
// 5xx responses are retried with exponential backoff; other statuses and
// decode errors are not.
func (c *Client) DoJSON(ctx context.Context, req *http.Request, out any, log Logger) error {
	if log == nil {
		log = nopLogger{}
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	req.Header.Set("Accept", "application/json")
	if c.HTTP == nil {
		c.HTTP = http.DefaultClient
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 200 * time.Millisecond
	exp.MaxInterval = 1 * time.Second
	exp.MaxElapsedTime = 3 * time.Second

	attempt := 0
	op := func() error {
		attempt++
		resp, err := c.HTTP.Do(req.WithContext(ctx))
		if err != nil {
			log.Warn("httpx.request_failed", "url", req.URL.String(), "attempt", attempt, "error", err.Error())
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			log.Warn("httpx.server_error", "url", req.URL.String(), "attempt", attempt, "status", resp.StatusCode)
			return fmt.Errorf("server error %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode: %w", err))
		}
		log.Info("httpx.request_done", "url", req.URL.String(), "attempt", attempt)
		return nil
	}
	return backoff.Retry(op, backoff.WithContext(exp, ctx))
}
