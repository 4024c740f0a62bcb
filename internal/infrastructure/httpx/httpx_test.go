package httpx

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

type memLogger struct {
	mu    sync.Mutex
	infos []string
	warns []string
}

func (m *memLogger) Info(msg string, _ ...any) {
	m.mu.Lock()
	m.infos = append(m.infos, msg)
	m.mu.Unlock()
}
func (m *memLogger) Warn(msg string, _ ...any) {
	m.mu.Lock()
	m.warns = append(m.warns, msg)
	m.mu.Unlock()
}

func httpClientRT(rt http.RoundTripper) *http.Client {
	return &http.Client{Transport: rt, Timeout: 2 * time.Second}
}

func respond(r *http.Request, code int, body string) *http.Response {
	return &http.Response{StatusCode: code, Body: io.NopCloser(strings.NewReader(body)), Header: make(http.Header), Request: r}
}

type okResp struct {
	OK bool `json:"ok"`
}

func TestDoJSON_Retry500Then200(t *testing.T) {
	var calls int
	c := &Client{HTTP: httpClientRT(rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			return respond(r, 500, "err"), nil
		}
		return respond(r, 200, `{"ok": true}`), nil
	}))}
	var out okResp
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	log := &memLogger{}
	require.NoError(t, c.DoJSON(ctx, req, &out, log))
	require.True(t, out.OK)
	require.Equal(t, 2, calls)
	require.Equal(t, []string{"httpx.server_error"}, log.warns)
	require.Equal(t, []string{"httpx.request_done"}, log.infos)
}

type tempTimeoutErr struct{}

func (tempTimeoutErr) Error() string   { return "timeout" }
func (tempTimeoutErr) Timeout() bool   { return true }
func (tempTimeoutErr) Temporary() bool { return true }

func TestDoJSON_RetryNetTimeoutThen200(t *testing.T) {
	var calls int
	c := &Client{HTTP: httpClientRT(rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			var ne net.Error = tempTimeoutErr{}
			return nil, ne
		}
		return respond(r, 200, `{"ok": true}`), nil
	}))}
	var out okResp
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.DoJSON(ctx, req, &out, nil))
	require.True(t, out.OK)
}

func TestDoJSON_NoRetryOn400(t *testing.T) {
	var calls int
	c := &Client{HTTP: httpClientRT(rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return respond(r, 400, "bad"), nil
	}))}
	var out any
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	err := c.DoJSON(context.Background(), req, &out, nil)
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestDoJSON_DecodeError_NoRetry(t *testing.T) {
	var calls int
	c := &Client{HTTP: httpClientRT(rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewBufferString("{x")), Header: make(http.Header), Request: r}, nil
	}))}
	var out map[string]any
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	err := c.DoJSON(context.Background(), req, &out, nil)
	require.ErrorContains(t, err, "decode")
	require.Equal(t, 1, calls)
}

func TestDoJSON_SetsToken(t *testing.T) {
	var auth string
	c := &Client{Token: "secret", HTTP: httpClientRT(rtFunc(func(r *http.Request) (*http.Response, error) {
		auth = r.Header.Get("Authorization")
		return respond(r, 200, `{"ok": true}`), nil
	}))}
	var out okResp
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	require.NoError(t, c.DoJSON(context.Background(), req, &out, nil))
	require.Equal(t, "Bearer secret", auth)
}
