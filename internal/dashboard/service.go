package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"stockDashboard/internal/finance"
	"stockDashboard/internal/market"
)

// Resolver maps company names to tickers; *catalog.Catalog satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, names []string, market, sector string) ([]string, error)
}

// Service recomputes an Analysis from a State.
type Service struct {
	resolver Resolver
	prices   market.PriceStore
	riskFree float64
	log      zerolog.Logger
}

// NewService wires the collaborators. riskFree is the annual rate used when a
// State doesn't carry one.
func NewService(resolver Resolver, prices market.PriceStore, riskFree float64, log zerolog.Logger) *Service {
	return &Service{
		resolver: resolver,
		prices:   prices,
		riskFree: riskFree,
		log:      log.With().Str("component", "dashboard").Logger(),
	}
}

// Analysis is the full result of one recompute. Prices are forward-filled.
type Analysis struct {
	Symbols      []string
	Range        market.Range
	RiskFreeRate float64
	Prices       *finance.PriceTable
	Returns      *finance.ReturnTable
	Stats        []finance.SymbolStats
	Weights      []float64 // normalised, aligned with Symbols
	Portfolio    *finance.PortfolioStats
	Series       *finance.PortfolioReturns
	Correlation  *finance.CorrelationMatrix // nil for a single symbol
}

// Analyze resolves the selected names, fetches prices and computes statistics,
// the weighted portfolio and the correlation matrix. Any failure aborts the
// whole analysis; there are no partial results.
func (s *Service) Analyze(ctx context.Context, st State) (*Analysis, error) {
	started := time.Now()
	if err := st.Validate(); err != nil {
		return nil, err
	}
	r, err := st.Range()
	if err != nil {
		return nil, err
	}
	rf := s.riskFree
	if st.RiskFreeRate != nil {
		rf = *st.RiskFreeRate
	}

	symbols, err := s.symbolsFor(ctx, st)
	if err != nil {
		return nil, err
	}
	weights, err := weightsFor(symbols, st.Weights)
	if err != nil {
		return nil, err
	}

	raw, err := s.prices.Fetch(ctx, symbols, r)
	if err != nil {
		return nil, err
	}
	prices := raw.ForwardFill()

	a, err := analyze(prices, weights, rf)
	if err != nil {
		return nil, err
	}
	a.Range = r

	s.log.Info().
		Strs("symbols", a.Symbols).
		Str("range", r.Key()).
		Int("rows", prices.Len()).
		Dur("took", time.Since(started)).
		Msg("analysis computed")
	return a, nil
}

// symbolsFor resolves the selected names and appends the tickers given
// directly, skipping duplicates.
func (s *Service) symbolsFor(ctx context.Context, st State) ([]string, error) {
	var out []string
	if countNonEmpty(st.Names) > 0 {
		resolved, err := s.resolver.Resolve(ctx, st.Names, st.Market, st.Sector)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved...)
	}
	seen := make(map[string]bool, len(out)+len(st.Symbols))
	for _, sym := range out {
		seen[sym] = true
	}
	for _, raw := range st.Symbols {
		sym := strings.ToUpper(strings.TrimSpace(raw))
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no companies selected: %w", finance.ErrInsufficientData)
	}
	return out, nil
}

// analyze runs the pure part of the pipeline on an already fetched table.
func analyze(prices *finance.PriceTable, weights []float64, rf float64) (*Analysis, error) {
	returns, err := finance.ComputeReturns(prices)
	if err != nil {
		return nil, err
	}
	stats, err := finance.ComputeSymbolStats(prices, rf)
	if err != nil {
		return nil, err
	}
	normalized, err := finance.NormalizeWeights(weights)
	if err != nil {
		return nil, err
	}
	pstats, series, err := finance.PortfolioFromReturns(returns, normalized, rf)
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		Symbols:      prices.Symbols,
		RiskFreeRate: rf,
		Prices:       prices,
		Returns:      returns,
		Stats:        stats,
		Weights:      normalized,
		Portfolio:    pstats,
		Series:       series,
	}
	if len(prices.Symbols) > 1 {
		corr, err := finance.Correlation(returns)
		if err != nil {
			return nil, err
		}
		a.Correlation = corr
	}
	return a, nil
}

func weightsFor(symbols []string, raw []float64) ([]float64, error) {
	if len(raw) == 0 {
		return finance.EqualWeights(len(symbols)), nil
	}
	if len(raw) != len(symbols) {
		return nil, fmt.Errorf("%d weights for %d companies: %w", len(raw), len(symbols), finance.ErrInvalidWeights)
	}
	return raw, nil
}
