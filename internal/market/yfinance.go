package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"

	"stockDashboard/internal/finance"
)

// YFinanceStore is a PriceStore backed by go-yfinance. Explicit windows are
// served by fetching the covering period and trimming it.
type YFinanceStore struct {
	log zerolog.Logger
	now func() time.Time
	// history is swapped out in tests
	history func(symbol, period string) ([]models.Bar, error)
}

// NewYFinanceStore returns a store using go-yfinance tickers.
func NewYFinanceStore(log zerolog.Logger) *YFinanceStore {
	return &YFinanceStore{
		log:     log.With().Str("component", "yfinance").Logger(),
		now:     time.Now,
		history: tickerHistory,
	}
}

func tickerHistory(symbol, period string) ([]models.Bar, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	bars, err := t.History(models.HistoryParams{
		Period:     period,
		Interval:   "1d",
		AutoAdjust: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get historical prices: %w", err)
	}
	return bars, nil
}

// Fetch implements PriceStore.
func (s *YFinanceStore) Fetch(ctx context.Context, symbols []string, r Range) (*finance.PriceTable, error) {
	symbols = normalizeSymbols(symbols)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols requested: %w", finance.ErrDataUnavailable)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", finance.ErrDataUnavailable, err)
	}
	period := r.covering(s.now())

	all := make([]series, 0, len(symbols))
	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", finance.ErrDataUnavailable, err)
		}
		bars, err := s.history(sym, period)
		if err == nil && len(bars) == 0 {
			err = errors.New("no data")
		}
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", sym).Str("period", period).Msg("price fetch failed")
			return nil, fmt.Errorf("%w: %s: %w", finance.ErrDataUnavailable, sym, err)
		}
		all = append(all, barsToSeries(sym, bars))
	}
	return buildTable(symbols, all, r)
}

// barsToSeries keeps one close per calendar day, preferring the adjusted close.
func barsToSeries(symbol string, bars []models.Bar) series {
	s := series{Symbol: symbol}
	for _, b := range bars {
		day := truncateDay(b.Date)
		price := b.AdjClose
		if price <= 0 {
			price = b.Close
		}
		if n := len(s.Dates); n > 0 && !day.After(s.Dates[n-1]) {
			if day.Equal(s.Dates[n-1]) {
				s.Closes[n-1] = price
			}
			continue
		}
		s.Dates = append(s.Dates, day)
		s.Closes = append(s.Closes, price)
	}
	return s
}
