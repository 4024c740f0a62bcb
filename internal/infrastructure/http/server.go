package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"projectchart-service/internal/application"
	"projectchart-service/internal/domain"
	"projectchart-service/internal/infrastructure/logx"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
	"go.uber.org/zap"
)

// ChartAPI is the application surface the handlers call.
type ChartAPI interface {
	GetChart(ctx context.Context, ticker, sessionID string) (application.ChartView, error)
	ApplyAction(ctx context.Context, sessionID, ticker string, a application.Action) (domain.SessionState, error)
	SyncHistory(ctx context.Context, ticker string, r domain.TimeRange) (int, error)
	RenderSnapshot(ctx context.Context, ticker, sessionID string, w io.Writer) error
}

type Server struct {
	svc         ChartAPI
	ping        func(context.Context) error
	corsOrigins []string
	timeout     time.Duration
	decoder     *schema.Decoder
}

func NewServer(svc ChartAPI) *Server {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return &Server{svc: svc, corsOrigins: []string{"*"}, decoder: dec}
}

// SetReadyCheck installs the /readyz check.
func (s *Server) SetReadyCheck(fn func(context.Context) error) { s.ping = fn }

func (s *Server) SetCORSOrigins(origins []string) {
	if len(origins) > 0 {
		s.corsOrigins = origins
	}
}

func (s *Server) SetRequestTimeout(d time.Duration) { s.timeout = d }

type sessionQuery struct {
	Session string `schema:"session"`
}

type syncQuery struct {
	Range string `schema:"range"`
}

type actionBody struct {
	Kind     string `json:"kind"`
	Value    string `json:"value"`
	Elements []int  `json:"elements,omitempty"`
}

type syncResponse struct {
	Ticker  string `json:"ticker"`
	Range   string `json:"range"`
	Records int    `json:"records"`
}

func (s *Server) GetChart(w http.ResponseWriter, r *http.Request) {
	var q sessionQuery
	if err := s.decoder.Decode(&q, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, "invalid query")
		return
	}
	view, err := s.svc.GetChart(r.Context(), chi.URLParam(r, "ticker"), q.Session)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("X-Session-ID", view.SessionID)
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) GetChartPNG(w http.ResponseWriter, r *http.Request) {
	var q sessionQuery
	if err := s.decoder.Decode(&q, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, "invalid query")
		return
	}
	var buf bytes.Buffer
	if err := s.svc.RenderSnapshot(r.Context(), chi.URLParam(r, "ticker"), q.Session, &buf); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) ApplyAction(w http.ResponseWriter, r *http.Request) {
	var q sessionQuery
	if err := s.decoder.Decode(&q, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, "invalid query")
		return
	}
	var body actionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	st, err := s.svc.ApplyAction(r.Context(), q.Session, chi.URLParam(r, "ticker"), application.Action{
		Kind:     application.ActionKind(body.Kind),
		Value:    body.Value,
		Elements: body.Elements,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) SyncHistory(w http.ResponseWriter, r *http.Request) {
	var q syncQuery
	if err := s.decoder.Decode(&q, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, "invalid query")
		return
	}
	tr := domain.TimeRange1D
	if q.Range != "" {
		parsed, err := domain.ParseTimeRange(q.Range)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		tr = parsed
	}
	ticker := chi.URLParam(r, "ticker")
	n, err := s.svc.SyncHistory(r.Context(), ticker, tr)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{Ticker: ticker, Range: string(tr), Records: n})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, application.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		logx.FromContext(r.Context()).Error("http.handler_failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Code: status, Message: msg})
}
