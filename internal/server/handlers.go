package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"stockDashboard/internal/catalog"
	"stockDashboard/internal/chart"
	"stockDashboard/internal/dashboard"
	"stockDashboard/internal/finance"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMarkets(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"markets": s.catalog.Markets()})
}

func (s *Server) handleSectors(w http.ResponseWriter, r *http.Request) {
	market := pathParam(r, "market")
	sectors, err := s.catalog.Sectors(market)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"market": market, "sectors": sectors})
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"market":    q.Get("market"),
		"sector":    q.Get("sector"),
		"companies": s.catalog.Companies(q.Get("market"), q.Get("sector")),
	})
}

func (s *Server) handleAddCompany(w http.ResponseWriter, r *http.Request) {
	var e catalog.Entry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "invalid company: "+err.Error())
		return
	}
	added, err := s.catalog.Add(r.Context(), e)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	a, ok := s.analyze(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, a.Report())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind, err := chart.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.writeMessage(w, http.StatusNotFound, err.Error())
		return
	}
	a, ok := s.analyze(w, r)
	if !ok {
		return
	}
	img, err := s.charts.Render(kind, a)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img); err != nil {
		s.log.Error().Err(err).Msg("failed to write chart")
	}
}

// analyze decodes a dashboard.State from the body and runs it. On failure the
// response has been written.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (*dashboard.Analysis, bool) {
	var st dashboard.State
	if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return nil, false
	}
	if st.Period == "" && st.Start == nil {
		st.Period = s.period
	}
	a, err := s.dash.Analyze(r.Context(), st)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return a, true
}

// statusFor maps the finance sentinels to HTTP statuses; other errors come
// from input validation.
func statusFor(err error) int {
	switch {
	case errors.Is(err, finance.ErrInvalidWeights), errors.Is(err, finance.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, finance.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, finance.ErrDataUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusBadRequest
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	ev := s.log.Warn()
	if status >= http.StatusInternalServerError {
		ev = s.log.Error()
	}
	ev.Err(err).Int("status", status).Msg("request failed")
	s.writeMessage(w, status, err.Error())
}

func (s *Server) writeMessage(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}
