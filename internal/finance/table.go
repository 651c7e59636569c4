package finance

import (
	"fmt"
	"math"
	"time"
)

// PriceTable holds daily closing prices, one column per symbol.
// Dates are strictly increasing; a missing observation is NaN.
type PriceTable struct {
	Dates   []time.Time
	Symbols []string
	Closes  [][]float64 // Closes[col][row]
}

// NewPriceTable validates shape and date ordering and returns the table.
func NewPriceTable(dates []time.Time, symbols []string, closes [][]float64) (*PriceTable, error) {
	if len(symbols) != len(closes) {
		return nil, fmt.Errorf("symbols (%d) don't match columns (%d)", len(symbols), len(closes))
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return nil, fmt.Errorf("dates not strictly increasing at row %d (%s after %s)",
				i, dates[i].Format("2006-01-02"), dates[i-1].Format("2006-01-02"))
		}
	}
	seen := make(map[string]bool, len(symbols))
	for i, sym := range symbols {
		if seen[sym] {
			return nil, fmt.Errorf("duplicate symbol: %s", sym)
		}
		seen[sym] = true
		if len(closes[i]) != len(dates) {
			return nil, fmt.Errorf("column %s has %d rows, expected %d", sym, len(closes[i]), len(dates))
		}
	}
	return &PriceTable{Dates: dates, Symbols: symbols, Closes: closes}, nil
}

// Len returns the number of rows.
func (t *PriceTable) Len() int { return len(t.Dates) }

// ColIndex returns the column of symbol or -1.
func (t *PriceTable) ColIndex(symbol string) int {
	for i, s := range t.Symbols {
		if s == symbol {
			return i
		}
	}
	return -1
}

// Column returns the raw column of symbol, including missing values.
func (t *PriceTable) Column(symbol string) ([]float64, bool) {
	idx := t.ColIndex(symbol)
	if idx == -1 {
		return nil, false
	}
	return t.Closes[idx], true
}

// Valid returns the dates and prices of a column with missing observations dropped.
func (t *PriceTable) Valid(col int) ([]time.Time, []float64) {
	dates := make([]time.Time, 0, len(t.Dates))
	prices := make([]float64, 0, len(t.Dates))
	for row, p := range t.Closes[col] {
		if isMissing(p) {
			continue
		}
		dates = append(dates, t.Dates[row])
		prices = append(prices, p)
	}
	return dates, prices
}

// Select returns a table restricted to the given symbols, in that order.
func (t *PriceTable) Select(symbols ...string) (*PriceTable, error) {
	closes := make([][]float64, 0, len(symbols))
	for _, sym := range symbols {
		col, ok := t.Column(sym)
		if !ok {
			return nil, fmt.Errorf("symbol %s: %w", sym, ErrNotFound)
		}
		closes = append(closes, col)
	}
	return NewPriceTable(t.Dates, symbols, closes)
}

// ForwardFill returns a copy in which every missing price that follows a valid one
// is replaced by the last valid price. Leading gaps stay missing.
func (t *PriceTable) ForwardFill() *PriceTable {
	out := &PriceTable{
		Dates:   t.Dates,
		Symbols: t.Symbols,
		Closes:  make([][]float64, len(t.Closes)),
	}
	for col, prices := range t.Closes {
		filled := make([]float64, len(prices))
		last := math.NaN()
		for row, p := range prices {
			if isMissing(p) {
				filled[row] = last
				continue
			}
			last = p
			filled[row] = p
		}
		out.Closes[col] = filled
	}
	return out
}

// isMissing reports whether a cell holds no usable price. Non-positive closes
// have no logarithm and count as missing.
func isMissing(p float64) bool {
	return math.IsNaN(p) || math.IsInf(p, 0) || p <= 0
}
