// Package dashboard holds the user's selections and recomputes every
// statistic from them in one synchronous pass.
package dashboard

import (
	"fmt"
	"strings"
	"time"

	"stockDashboard/internal/finance"
	"stockDashboard/internal/market"
)

// State is everything one dashboard view depends on. It is passed in full on
// each recompute; nothing is remembered between calls.
type State struct {
	Market       string     `json:"market"`
	Sector       string     `json:"sector"`
	Period       string     `json:"period,omitempty"`
	Start        *time.Time `json:"start,omitempty"`
	End          *time.Time `json:"end,omitempty"`
	Names        []string   `json:"names"`
	Symbols      []string   `json:"symbols,omitempty"` // tickers used as given, after the resolved names
	Weights      []float64  `json:"weights,omitempty"` // raw, one per resolved symbol; empty means equal weights
	RiskFreeRate *float64   `json:"risk_free_rate,omitempty"`
}

// Range converts the period or date window into a market.Range.
func (s State) Range() (market.Range, error) {
	if s.Start != nil {
		r := market.Range{Start: *s.Start}
		if s.End != nil {
			r.End = *s.End
		}
		return r, r.Validate()
	}
	if s.End != nil {
		return market.Range{}, fmt.Errorf("end date without a start date")
	}
	p, err := finance.ParsePeriod(s.Period)
	if err != nil {
		return market.Range{}, err
	}
	return market.Range{Period: p}, nil
}

// Validate checks the parts of the state that don't need the catalog.
func (s State) Validate() error {
	if countNonEmpty(s.Names)+countNonEmpty(s.Symbols) == 0 {
		return fmt.Errorf("select at least one company: %w", finance.ErrInsufficientData)
	}
	if _, err := s.Range(); err != nil {
		return err
	}
	if len(s.Weights) > 0 {
		if _, err := finance.NormalizeWeights(s.Weights); err != nil {
			return err
		}
	}
	return nil
}

func countNonEmpty(xs []string) int {
	n := 0
	for _, x := range xs {
		if strings.TrimSpace(x) != "" {
			n++
		}
	}
	return n
}
