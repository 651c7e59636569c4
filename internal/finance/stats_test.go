package finance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSymbolStatsGrowthExample(t *testing.T) {
	pt := table(t, map[string][]float64{"INFY.NS": {100, 110, 121}}, "INFY.NS")

	stats, err := ComputeSymbolStats(pt, 0)
	require.NoError(t, err)
	require.Len(t, stats, 1)

	s := stats[0]
	assert.Equal(t, "INFY.NS", s.Symbol)
	assert.Equal(t, 100.0, s.StartPrice)
	assert.Equal(t, 121.0, s.EndPrice)
	assert.InDelta(t, 0.21, s.TotalReturn, 1e-12)
	assert.InDelta(t, math.Pow(1.21, 252.0/3)-1, s.AnnualReturn, 1e-6)
	assert.Equal(t, 0.0, s.Volatility)
	assert.True(t, math.IsInf(s.SharpeRatio, 1), "zero volatility with positive mean is +Inf")
	assert.Equal(t, 0.0, s.MaxDrawdown)
	assert.Equal(t, 3, s.Observations)
}

func TestComputeSymbolStatsConstantPrice(t *testing.T) {
	pt := table(t, map[string][]float64{"KO": {60, 60, 60, 60}}, "KO")

	stats, err := ComputeSymbolStats(pt, 0)
	require.NoError(t, err)

	s := stats[0]
	assert.Equal(t, 0.0, s.TotalReturn)
	assert.Equal(t, 0.0, s.Volatility)
	assert.True(t, math.IsNaN(s.SharpeRatio), "0/0 Sharpe is NaN")
	assert.Equal(t, 0.0, s.MaxDrawdown)
}

func TestComputeSymbolStatsFallingSeries(t *testing.T) {
	pt := table(t, map[string][]float64{"F": {10, 9, 8.1}}, "F")

	stats, err := ComputeSymbolStats(pt, 0)
	require.NoError(t, err)
	assert.True(t, math.IsInf(stats[0].SharpeRatio, -1))
	assert.Less(t, stats[0].MaxDrawdown, 0.0)
}

func TestComputeSymbolStatsRiskFreeAndDrawdown(t *testing.T) {
	prices := []float64{100, 102, 99, 101, 95, 97}
	pt := table(t, map[string][]float64{"T": prices}, "T")

	stats, err := ComputeSymbolStats(pt, 0.0504)
	require.NoError(t, err)
	s := stats[0]

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns[i-1] = math.Log(prices[i] / prices[i-1])
	}
	var sum float64
	for _, r := range returns {
		sum += r
	}
	m := sum / float64(len(returns))
	var ss float64
	for _, r := range returns {
		ss += (r - m) * (r - m)
	}
	sd := math.Sqrt(ss / float64(len(returns)-1))

	assert.InDelta(t, sd, s.Volatility, 1e-12)
	assert.InDelta(t, (m-0.0504/252)/sd, s.SharpeRatio, 1e-9)

	// wealth = cumprod(1+r); trough after the 4th return against the peak after the 1st
	wealth := 1.0
	peak, worst := math.Inf(-1), 0.0
	for _, r := range returns {
		wealth *= 1 + r
		peak = math.Max(peak, wealth)
		worst = math.Min(worst, wealth/peak-1)
	}
	assert.InDelta(t, worst, s.MaxDrawdown, 1e-12)
}

func TestComputeSymbolStatsKeepsColumnOrder(t *testing.T) {
	pt := table(t, map[string][]float64{
		"MSFT": {1, 2, 3},
		"AAPL": {3, 2, 1},
	}, "MSFT", "AAPL")

	stats, err := ComputeSymbolStats(pt, 0)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "MSFT", stats[0].Symbol)
	assert.Equal(t, "AAPL", stats[1].Symbol)
}

func TestComputeSymbolStatsInsufficientData(t *testing.T) {
	nan := math.NaN()
	pt := table(t, map[string][]float64{
		"A": {1, 2, 3},
		"B": {nan, nan, 3},
	}, "A", "B")

	_, err := ComputeSymbolStats(pt, 0)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestComputeSymbolStatsSingleReturnHasNaNVolatility(t *testing.T) {
	pt := table(t, map[string][]float64{"X": {10, 11}}, "X")

	stats, err := ComputeSymbolStats(pt, 0)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(stats[0].Volatility))
	assert.True(t, math.IsNaN(stats[0].SharpeRatio))
}

func TestCumulativeGrowthFlatSeries(t *testing.T) {
	for _, n := range []int{1, 5, 250} {
		growth := cumulativeGrowth(make([]float64, n))
		require.Len(t, growth, n)
		for _, g := range growth {
			assert.Equal(t, 1.0, g)
		}
	}
}

func TestRounded(t *testing.T) {
	s := SymbolStats{
		Symbol:       "X",
		StartPrice:   100.123456,
		EndPrice:     121.987654,
		TotalReturn:  0.218641,
		AnnualReturn: -0.123456,
		Volatility:   0.0123456,
		SharpeRatio:  math.Inf(1),
		MaxDrawdown:  -0.054321,
		Observations: 3,
	}
	r := s.Rounded()

	assert.Equal(t, 100.1235, r.StartPrice)
	assert.Equal(t, 121.9877, r.EndPrice)
	assert.Equal(t, 21.86, r.TotalReturn)
	assert.Equal(t, -12.35, r.AnnualReturn)
	assert.Equal(t, 0.0123, r.Volatility)
	assert.True(t, math.IsInf(r.SharpeRatio, 1))
	assert.Equal(t, -5.43, r.MaxDrawdown)
	assert.Equal(t, 3, r.Observations)
}
