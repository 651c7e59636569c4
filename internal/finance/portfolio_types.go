package finance

import "time"

// TradingDaysPerYear is the annualisation convention used by every statistic.
const TradingDaysPerYear = 252.0

// SymbolStats holds the descriptive statistics of a single symbol
type SymbolStats struct {
	Symbol       string  `json:"symbol"`
	StartPrice   float64 `json:"start_price"`
	EndPrice     float64 `json:"end_price"`
	TotalReturn  float64 `json:"total_return"`  // fraction, 0.21 = 21%
	AnnualReturn float64 `json:"annual_return"` // fraction, 252-day compounding
	Volatility   float64 `json:"volatility"`    // sample stdev of daily log returns
	SharpeRatio  float64 `json:"sharpe_ratio"`  // daily, +Inf/-Inf/NaN when volatility is 0
	MaxDrawdown  float64 `json:"max_drawdown"`  // fraction, <= 0
	Observations int     `json:"observations"`  // valid prices
}

// PortfolioReturns is the weighted daily return series of a portfolio
type PortfolioReturns struct {
	Dates      []time.Time `json:"dates"`
	Returns    []float64   `json:"returns"`
	Cumulative []float64   `json:"cumulative"` // running product of (1 + return)
}

// PortfolioStats represents calculated portfolio statistics
type PortfolioStats struct {
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
	SharpeRatio  float64 `json:"sharpe_ratio"`
	TotalReturn  float64 `json:"total_return"`
	AnnualReturn float64 `json:"annual_return"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	Observations int     `json:"observations"` // return observations
}

// CorrelationMatrix is a symmetric Pearson correlation matrix over return columns
type CorrelationMatrix struct {
	Symbols []string    `json:"symbols"`
	Values  [][]float64 `json:"values"`
}
