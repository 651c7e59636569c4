package finance

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ComputeSymbolStats computes descriptive statistics for every column of prices,
// in column order. riskFreeRate is an annual rate; it is converted to a daily rate
// by dividing by TradingDaysPerYear.
func ComputeSymbolStats(prices *PriceTable, riskFreeRate float64) ([]SymbolStats, error) {
	returns, err := ComputeReturns(prices)
	if err != nil {
		return nil, err
	}

	out := make([]SymbolStats, 0, len(prices.Symbols))
	for col, sym := range prices.Symbols {
		_, valid := prices.Valid(col)
		if len(valid) < 2 {
			return nil, fmt.Errorf("%s has %d valid prices, need 2: %w", sym, len(valid), ErrInsufficientData)
		}

		start, end := valid[0], valid[len(valid)-1]
		totalReturn := (end - start) / start
		days := float64(len(valid))
		annualReturn := math.Pow(1+totalReturn, TradingDaysPerYear/days) - 1

		series := returns.Series(col)
		volatility := sampleStdDev(series)

		out = append(out, SymbolStats{
			Symbol:       sym,
			StartPrice:   start,
			EndPrice:     end,
			TotalReturn:  totalReturn,
			AnnualReturn: annualReturn,
			Volatility:   volatility,
			SharpeRatio:  sharpe(mean(series), volatility, riskFreeRate),
			MaxDrawdown:  maxDrawdown(series),
			Observations: len(valid),
		})
	}
	return out, nil
}

// mean is the arithmetic mean; NaN for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// sampleStdDev is the n-1 standard deviation; NaN for fewer than two values.
func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.StdDev(xs, nil)
}

// sharpe returns the daily Sharpe ratio. A zero volatility gives +Inf, -Inf or NaN
// following the sign of the excess return.
func sharpe(mean, volatility, riskFreeRate float64) float64 {
	excess := mean - riskFreeRate/TradingDaysPerYear
	if volatility == 0 {
		switch {
		case excess > 0:
			return math.Inf(1)
		case excess < 0:
			return math.Inf(-1)
		default:
			return math.NaN()
		}
	}
	return excess / volatility
}

// cumulativeGrowth is the running product of (1 + r).
func cumulativeGrowth(returns []float64) []float64 {
	growth := make([]float64, len(returns))
	for i, r := range returns {
		growth[i] = 1 + r
	}
	return floats.CumProd(make([]float64, len(growth)), growth)
}

// maxDrawdown is the lowest value of wealth/peak - 1 over the compounded series.
// It is 0 for an empty or never-falling series.
func maxDrawdown(returns []float64) float64 {
	wealth := cumulativeGrowth(returns)
	if len(wealth) == 0 {
		return 0
	}
	worst := 0.0
	peak := wealth[0]
	for _, w := range wealth {
		if w > peak {
			peak = w
		}
		if dd := w/peak - 1; dd < worst {
			worst = dd
		}
	}
	return worst
}
