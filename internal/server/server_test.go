package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockDashboard/internal/catalog"
	"stockDashboard/internal/chart"
	"stockDashboard/internal/dashboard"
	"stockDashboard/internal/finance"
	"stockDashboard/internal/market"
)

const us = "US Market 🇺🇸"

type fakeCatalog struct {
	added []catalog.Entry
}

func (f *fakeCatalog) Markets() []string { return []string{"Indian Market 🇮🇳", us} }

func (f *fakeCatalog) Sectors(m string) ([]string, error) {
	if m != us {
		return nil, fmt.Errorf("market %q: %w", m, finance.ErrNotFound)
	}
	return []string{"Finance", "Technology"}, nil
}

func (f *fakeCatalog) Companies(m, s string) map[string]string {
	if m == us && s == "Technology" {
		return map[string]string{"Apple": "AAPL"}
	}
	return map[string]string{}
}

func (f *fakeCatalog) Add(_ context.Context, e catalog.Entry) (catalog.Entry, error) {
	if e.Ticker == "" {
		return catalog.Entry{}, fmt.Errorf("ticker is required")
	}
	e.Ticker = strings.ToUpper(e.Ticker)
	f.added = append(f.added, e)
	return e, nil
}

type fakeAnalyzer struct {
	got dashboard.State
	err error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, st dashboard.State) (*dashboard.Analysis, error) {
	f.got = st
	if f.err != nil {
		return nil, f.err
	}
	dates := make([]time.Time, 4)
	for i := range dates {
		dates[i] = time.Date(2024, 5, 1+i, 0, 0, 0, 0, time.UTC)
	}
	pt, err := finance.NewPriceTable(dates, []string{"AAPL", "MSFT"}, [][]float64{
		{100, 102, 101, 104},
		{200, 199, 203, 205},
	})
	if err != nil {
		return nil, err
	}
	returns, err := finance.ComputeReturns(pt)
	if err != nil {
		return nil, err
	}
	stats, err := finance.ComputeSymbolStats(pt, 0)
	if err != nil {
		return nil, err
	}
	weights := []float64{0.5, 0.5}
	pstats, series, err := finance.PortfolioFromReturns(returns, weights, 0)
	if err != nil {
		return nil, err
	}
	corr, err := finance.Correlation(returns)
	if err != nil {
		return nil, err
	}
	return &dashboard.Analysis{
		Symbols: pt.Symbols, Range: market.Range{Period: st.Period}, Prices: pt, Returns: returns,
		Stats: stats, Weights: weights, Portfolio: pstats, Series: series, Correlation: corr,
	}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeCatalog, *fakeAnalyzer) {
	t.Helper()
	cat := &fakeCatalog{}
	an := &fakeAnalyzer{}
	s := New(Config{
		Log:           zerolog.Nop(),
		Catalog:       cat,
		Dashboard:     an,
		Charts:        chart.NewRenderer(chart.NewCache(chart.DefaultTTL)),
		DefaultPeriod: "6mo",
		Webhook:       func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) },
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, cat, an
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestCatalogRoutes(t *testing.T) {
	ts, cat, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/markets")
	require.NoError(t, err)
	var markets map[string][]string
	decode(t, resp, &markets)
	assert.Equal(t, []string{"Indian Market 🇮🇳", us}, markets["markets"])

	resp, err = http.Get(ts.URL + "/api/markets/US%20Market%20%F0%9F%87%BA%F0%9F%87%B8/sectors")
	require.NoError(t, err)
	var sectors struct {
		Market  string   `json:"market"`
		Sectors []string `json:"sectors"`
	}
	decode(t, resp, &sectors)
	assert.Equal(t, us, sectors.Market)
	assert.Equal(t, []string{"Finance", "Technology"}, sectors.Sectors)

	resp, err = http.Get(ts.URL + "/api/markets/Mars/sectors")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/companies?market=US%20Market%20%F0%9F%87%BA%F0%9F%87%B8&sector=Technology")
	require.NoError(t, err)
	var companies struct {
		Companies map[string]string `json:"companies"`
	}
	decode(t, resp, &companies)
	assert.Equal(t, map[string]string{"Apple": "AAPL"}, companies.Companies)

	resp, err = http.Post(ts.URL+"/api/companies", "application/json",
		strings.NewReader(`{"name":"Palantir","ticker":"pltr","market":"US Market 🇺🇸","sector":"Defense"}`))
	require.NoError(t, err)
	var added catalog.Entry
	decode(t, resp, &added)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "PLTR", added.Ticker)
	assert.Len(t, cat.added, 1)

	resp, err = http.Post(ts.URL+"/api/companies", "application/json", strings.NewReader(`{"name":"Nameless"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalysisRoute(t *testing.T) {
	ts, _, an := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/analysis", "application/json",
		strings.NewReader(`{"market":"US Market 🇺🇸","sector":"Technology","names":["Apple","Microsoft"]}`))
	require.NoError(t, err)
	var rep dashboard.Report
	decode(t, resp, &rep)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "6mo", an.got.Period, "default period fills an empty request")
	assert.Equal(t, []string{"AAPL", "MSFT"}, rep.Symbols)
	require.NotNil(t, rep.Portfolio)
	assert.Len(t, rep.Portfolio.Cumulative, 3)
	assert.Len(t, rep.Correlation, 2)

	resp, err = http.Post(ts.URL+"/api/analysis", "application/json", strings.NewReader(`{"names":`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("weights: %w", finance.ErrInvalidWeights), http.StatusUnprocessableEntity},
		{fmt.Errorf("short: %w", finance.ErrInsufficientData), http.StatusUnprocessableEntity},
		{fmt.Errorf("who: %w", finance.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: AAPL: timeout", finance.ErrDataUnavailable), http.StatusBadGateway},
		{fmt.Errorf("bad period"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			ts, _, an := newTestServer(t)
			an.err = tt.err
			resp, err := http.Post(ts.URL+"/api/analysis", "application/json", strings.NewReader(`{"names":["Apple"]}`))
			require.NoError(t, err)
			var body map[string]string
			decode(t, resp, &body)
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.Equal(t, tt.err.Error(), body["error"])
		})
	}
}

func TestChartRoute(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/charts/returns.png", "application/json", strings.NewReader(`{"names":["Apple","Microsoft"]}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	resp2, err := http.Post(ts.URL+"/api/charts/candles.png", "application/json", strings.NewReader(`{"names":["Apple"]}`))
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)

	resp3, err := http.Post(ts.URL+"/telegram/webhook", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp3.Body.Close()
	assert.Equal(t, http.StatusOK, resp3.StatusCode)
}
