package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"stockDashboard/internal/finance"
)

// DefaultYahooHosts are tried in order; the second is only used when the first fails.
var DefaultYahooHosts = []string{"https://query1.finance.yahoo.com", "https://query2.finance.yahoo.com"}

const (
	userAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15"
	previewBytes = 120
)

// YahooClient reads daily closes from the Yahoo v8 chart endpoint.
type YahooClient struct {
	hosts []string
	http  *http.Client
	log   zerolog.Logger
	now   func() time.Time
}

// NewYahooClient returns a client. A nil httpClient uses a 15s timeout client;
// no hosts means DefaultYahooHosts.
func NewYahooClient(httpClient *http.Client, log zerolog.Logger, hosts ...string) *YahooClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if len(hosts) == 0 {
		hosts = DefaultYahooHosts
	}
	return &YahooClient{
		hosts: hosts,
		http:  httpClient,
		log:   log.With().Str("component", "yahoo").Logger(),
		now:   time.Now,
	}
}

// Fetch implements PriceStore. Symbols are fetched one after another; the first
// failure aborts the whole fetch.
func (c *YahooClient) Fetch(ctx context.Context, symbols []string, r Range) (*finance.PriceTable, error) {
	symbols = normalizeSymbols(symbols)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols requested: %w", finance.ErrDataUnavailable)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", finance.ErrDataUnavailable, err)
	}

	all := make([]series, 0, len(symbols))
	for _, sym := range symbols {
		s, err := c.fetchDaily(ctx, sym, r)
		if err != nil {
			c.log.Warn().Err(err).Str("symbol", sym).Str("range", r.Key()).Msg("price fetch failed")
			return nil, fmt.Errorf("%w: %s: %w", finance.ErrDataUnavailable, sym, err)
		}
		all = append(all, s)
	}
	return buildTable(symbols, all, r)
}

func (c *YahooClient) chartQuery(r Range) url.Values {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("events", "div,splits")
	q.Set("includeAdjustedClose", "true")
	if r.Explicit() {
		end := r.End
		if end.IsZero() {
			end = c.now()
		}
		q.Set("period1", strconv.FormatInt(truncateDay(r.Start).Unix(), 10))
		q.Set("period2", strconv.FormatInt(truncateDay(end).AddDate(0, 0, 1).Unix(), 10))
	} else {
		q.Set("range", r.covering(c.now()))
	}
	return q
}

// fetchDaily tries each host once. There is no backoff and no second pass.
func (c *YahooClient) fetchDaily(ctx context.Context, symbol string, r Range) (series, error) {
	query := c.chartQuery(r).Encode()
	var lastErr error
	for _, host := range c.hosts {
		endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", strings.TrimSuffix(host, "/"), url.PathEscape(symbol), query)
		yc, err := c.get(ctx, endpoint, symbol)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			c.log.Debug().Err(err).Str("host", host).Str("symbol", symbol).Msg("yahoo host failed")
			continue
		}
		return parseChart(symbol, yc)
	}
	return series{}, lastErr
}

func (c *YahooClient) get(ctx context.Context, endpoint, symbol string) (*yahooChartResp, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", fmt.Sprintf("https://finance.yahoo.com/quote/%s/history", symbol))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("failed to read yahoo response: %w", readErr)
	}
	if resp.StatusCode == http.StatusTooManyRequests || strings.HasPrefix(string(body), "Edge: Too Many Requests") {
		return nil, fmt.Errorf("yahoo returned 429: Edge: Too Many Requests")
	}

	var yc yahooChartResp
	// Unknown symbols come back as 404 with a chart.error body.
	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(body, &yc) == nil && yc.Chart.Error != nil {
			return nil, yc.Chart.Error
		}
		return nil, fmt.Errorf("yahoo returned %d: %s", resp.StatusCode, preview(body))
	}
	if strings.HasPrefix(string(body), "<") || strings.HasPrefix(string(body), "Edge:") {
		return nil, fmt.Errorf("yahoo returned non-json body: %s", preview(body))
	}
	if err := json.Unmarshal(body, &yc); err != nil {
		return nil, fmt.Errorf("failed to parse yahoo json: %v; body: %s", err, preview(body))
	}
	return &yc, nil
}

// parseChart turns a chart response into one close per exchange-local trading day.
// Adjusted closes are preferred when Yahoo sends a full column of them.
func parseChart(symbol string, yc *yahooChartResp) (series, error) {
	if yc.Chart.Error != nil {
		return series{}, yc.Chart.Error
	}
	if len(yc.Chart.Result) == 0 || len(yc.Chart.Result[0].Indicators.Quote) == 0 {
		return series{}, errors.New("no data")
	}
	res := yc.Chart.Result[0]
	closes := res.Indicators.Quote[0].Close
	if len(res.Indicators.AdjClose) > 0 && len(res.Indicators.AdjClose[0].AdjClose) == len(res.Timestamp) {
		closes = res.Indicators.AdjClose[0].AdjClose
	}
	if len(res.Timestamp) == 0 || len(closes) == 0 {
		return series{}, errors.New("no data")
	}

	// Yahoo can repeat the current day as a live bar; the last one wins.
	byDay := make(map[time.Time]float64, len(res.Timestamp))
	offset := int64(res.Meta.GmtOffset)
	for i, ts := range res.Timestamp {
		if i >= len(closes) {
			break
		}
		day := truncateDay(time.Unix(ts+offset, 0).UTC())
		byDay[day] = closes[i]
	}

	s := series{Symbol: symbol, Dates: make([]time.Time, 0, len(byDay))}
	for d := range byDay {
		s.Dates = append(s.Dates, d)
	}
	sort.Slice(s.Dates, func(i, j int) bool { return s.Dates[i].Before(s.Dates[j]) })
	s.Closes = make([]float64, len(s.Dates))
	for i, d := range s.Dates {
		s.Closes[i] = byDay[d]
	}
	return s, nil
}

func preview(body []byte) string {
	p := string(body)
	if len(p) > previewBytes {
		p = p[:previewBytes]
	}
	return p
}
