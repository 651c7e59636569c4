package finance

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

// NormalizeWeights scales raw weights so they sum to 1.
func NormalizeWeights(raw []float64) ([]float64, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty weight vector: %w", ErrInvalidWeights)
	}
	for i, w := range raw {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("weight %d is not finite: %w", i, ErrInvalidWeights)
		}
		if w < 0 {
			return nil, fmt.Errorf("weight %d is negative (%g): %w", i, w, ErrInvalidWeights)
		}
	}
	total := floats.Sum(raw)
	if total == 0 {
		return nil, fmt.Errorf("weights sum to zero: %w", ErrInvalidWeights)
	}
	out := make([]float64, len(raw))
	copy(out, raw)
	floats.Scale(1/total, out)
	return out, nil
}

// EqualWeights returns n weights of 1/n.
func EqualWeights(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1 / float64(n)
	}
	return out
}

// ComputePortfolio combines the log returns of prices with weights into a single
// daily series and its statistics. The risk-free rate is applied exactly as in
// ComputeSymbolStats.
func ComputePortfolio(prices *PriceTable, weights []float64, riskFreeRate float64) (*PortfolioStats, *PortfolioReturns, error) {
	if prices == nil {
		return nil, nil, fmt.Errorf("price table is nil: %w", ErrInsufficientData)
	}
	if len(weights) != len(prices.Symbols) {
		return nil, nil, fmt.Errorf("weights (%d) don't match symbols (%d): %w", len(weights), len(prices.Symbols), ErrInvalidWeights)
	}
	returns, err := ComputeReturns(prices)
	if err != nil {
		return nil, nil, err
	}
	return PortfolioFromReturns(returns, weights, riskFreeRate)
}

// PortfolioFromReturns is ComputePortfolio for callers that already hold returns.
// Dates on which any symbol has no return are skipped.
func PortfolioFromReturns(returns *ReturnTable, weights []float64, riskFreeRate float64) (*PortfolioStats, *PortfolioReturns, error) {
	if len(weights) != len(returns.Symbols) {
		return nil, nil, fmt.Errorf("weights (%d) don't match symbols (%d): %w", len(weights), len(returns.Symbols), ErrInvalidWeights)
	}
	w, err := NormalizeWeights(weights)
	if err != nil {
		return nil, nil, err
	}

	rows := returns.CompleteRows()
	series := &PortfolioReturns{
		Dates:   make([]time.Time, 0, len(rows)),
		Returns: make([]float64, 0, len(rows)),
	}
	day := make([]float64, len(w))
	for _, row := range rows {
		for col := range w {
			day[col] = returns.Values[col][row]
		}
		series.Dates = append(series.Dates, returns.Dates[row])
		series.Returns = append(series.Returns, floats.Dot(w, day))
	}
	if len(series.Returns) == 0 {
		return nil, nil, fmt.Errorf("no dates with a return for every symbol: %w", ErrInsufficientData)
	}
	series.Cumulative = cumulativeGrowth(series.Returns)

	stats := calculatePortfolioStats(series, riskFreeRate)
	return stats, series, nil
}

// calculatePortfolioStats computes aggregate statistics of the weighted series
func calculatePortfolioStats(series *PortfolioReturns, riskFreeRate float64) *PortfolioStats {
	m := mean(series.Returns)
	sd := sampleStdDev(series.Returns)

	n := len(series.Returns)
	totalReturn := series.Cumulative[n-1] - 1
	// n returns span n+1 price observations
	annualReturn := math.Pow(1+totalReturn, TradingDaysPerYear/float64(n+1)) - 1

	return &PortfolioStats{
		Mean:         m,
		StdDev:       sd,
		SharpeRatio:  sharpe(m, sd, riskFreeRate),
		TotalReturn:  totalReturn,
		AnnualReturn: annualReturn,
		MaxDrawdown:  maxDrawdown(series.Returns),
		Observations: n,
	}
}
