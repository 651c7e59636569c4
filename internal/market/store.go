// Package market fetches daily closing prices and assembles them into a
// finance.PriceTable.
package market

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"stockDashboard/internal/finance"
)

// PriceStore fetches daily closes for a set of symbols. Every failure is
// reported as finance.ErrDataUnavailable wrapping the cause.
type PriceStore interface {
	Fetch(ctx context.Context, symbols []string, r Range) (*finance.PriceTable, error)
}

// Range selects the dates to fetch: either a Yahoo period (1mo, 1y, max...)
// or an explicit Start/End window. An explicit window wins when Start is set.
type Range struct {
	Period string    `json:"period,omitempty"`
	Start  time.Time `json:"start,omitempty"`
	End    time.Time `json:"end,omitempty"`
}

// Explicit reports whether r is a date window rather than a period.
func (r Range) Explicit() bool { return !r.Start.IsZero() }

// Key is a stable string for caching.
func (r Range) Key() string {
	if r.Explicit() {
		end := "now"
		if !r.End.IsZero() {
			end = r.End.Format("2006-01-02")
		}
		return r.Start.Format("2006-01-02") + ".." + end
	}
	if r.Period == "" {
		return "1y"
	}
	return r.Period
}

// Validate rejects an unknown period or an inverted window.
func (r Range) Validate() error {
	if r.Explicit() {
		if !r.End.IsZero() && r.End.Before(r.Start) {
			return fmt.Errorf("end %s before start %s", r.End.Format("2006-01-02"), r.Start.Format("2006-01-02"))
		}
		return nil
	}
	_, err := finance.ParsePeriod(r.Period)
	return err
}

// covering returns the Yahoo period that reaches back to r's first date.
func (r Range) covering(now time.Time) string {
	if r.Explicit() {
		return finance.RangeCovering(r.Start, now)
	}
	p, err := finance.ParsePeriod(r.Period)
	if err != nil {
		return "1y"
	}
	return p
}

// contains reports whether a trading day falls inside an explicit window.
func (r Range) contains(day time.Time) bool {
	if !r.Explicit() {
		return true
	}
	if day.Before(truncateDay(r.Start)) {
		return false
	}
	return r.End.IsZero() || !day.After(truncateDay(r.End))
}

var nan = math.NaN()

// series is one symbol's daily closes keyed by trading day (UTC midnight).
type series struct {
	Symbol string
	Dates  []time.Time
	Closes []float64
}

// truncateDay drops the clock, keeping the calendar date as UTC midnight.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// buildTable aligns per-symbol series on the union of their trading days.
// A symbol without a close on a given day gets NaN there. Days outside r are
// dropped.
func buildTable(symbols []string, all []series, r Range) (*finance.PriceTable, error) {
	index := make(map[time.Time]bool)
	for _, s := range all {
		for _, d := range s.Dates {
			if r.contains(d) {
				index[d] = true
			}
		}
	}
	if len(index) == 0 {
		return nil, fmt.Errorf("no prices for %s in %s: %w", strings.Join(symbols, ","), r.Key(), finance.ErrDataUnavailable)
	}

	dates := make([]time.Time, 0, len(index))
	for d := range index {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	row := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		row[d] = i
	}

	closes := make([][]float64, len(all))
	for col, s := range all {
		closes[col] = make([]float64, len(dates))
		for i := range closes[col] {
			closes[col][i] = nan
		}
		for i, d := range s.Dates {
			if at, ok := row[d]; ok && i < len(s.Closes) {
				closes[col][at] = s.Closes[i]
			}
		}
	}
	return finance.NewPriceTable(dates, symbols, closes)
}

// normalizeSymbols upper-cases, trims and de-duplicates, preserving order.
func normalizeSymbols(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
