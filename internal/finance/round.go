package finance

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	ratioPlaces   = 4
	percentPlaces = 2
)

// Round rounds x half away from zero to places decimals. NaN and ±Inf pass through.
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

// Percent converts a fraction to a percentage rounded to two decimals.
func Percent(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Shift(2).Round(percentPlaces).InexactFloat64()
}

// Rounded returns the presentation copy of s: return and drawdown fields become
// percentages with two decimals, every other float keeps four decimals.
func (s SymbolStats) Rounded() SymbolStats {
	return SymbolStats{
		Symbol:       s.Symbol,
		StartPrice:   Round(s.StartPrice, ratioPlaces),
		EndPrice:     Round(s.EndPrice, ratioPlaces),
		TotalReturn:  Percent(s.TotalReturn),
		AnnualReturn: Percent(s.AnnualReturn),
		Volatility:   Round(s.Volatility, ratioPlaces),
		SharpeRatio:  Round(s.SharpeRatio, ratioPlaces),
		MaxDrawdown:  Percent(s.MaxDrawdown),
		Observations: s.Observations,
	}
}

// Rounded returns the presentation copy of s, following SymbolStats.Rounded.
func (s PortfolioStats) Rounded() PortfolioStats {
	return PortfolioStats{
		Mean:         Round(s.Mean, ratioPlaces),
		StdDev:       Round(s.StdDev, ratioPlaces),
		SharpeRatio:  Round(s.SharpeRatio, ratioPlaces),
		TotalReturn:  Percent(s.TotalReturn),
		AnnualReturn: Percent(s.AnnualReturn),
		MaxDrawdown:  Percent(s.MaxDrawdown),
		Observations: s.Observations,
	}
}
