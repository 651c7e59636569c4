package dashboard

import (
	"encoding/json"
	"math"
	"time"

	"stockDashboard/internal/finance"
)

// Float is a float64 that survives JSON: NaN encodes as null and the
// infinities as the strings "Infinity" and "-Infinity".
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte("null"), nil
	case math.IsInf(v, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Infinity"`), nil
	}
	return json.Marshal(v)
}

func (f *Float) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "null":
		*f = Float(math.NaN())
		return nil
	case `"Infinity"`:
		*f = Float(math.Inf(1))
		return nil
	case `"-Infinity"`:
		*f = Float(math.Inf(-1))
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// SymbolRow is the rounded presentation of finance.SymbolStats. Returns and
// drawdown are percentages.
type SymbolRow struct {
	Symbol          string `json:"symbol"`
	StartPrice      Float  `json:"start_price"`
	EndPrice        Float  `json:"end_price"`
	TotalReturnPct  Float  `json:"total_return_pct"`
	AnnualReturnPct Float  `json:"annual_return_pct"`
	Volatility      Float  `json:"volatility"`
	SharpeRatio     Float  `json:"sharpe_ratio"`
	MaxDrawdownPct  Float  `json:"max_drawdown_pct"`
	Observations    int    `json:"observations"`
}

// PortfolioSummary is the rounded presentation of the portfolio analysis.
type PortfolioSummary struct {
	Weights         map[string]Float `json:"weights"`
	Mean            Float            `json:"mean"`
	StdDev          Float            `json:"std_dev"`
	SharpeRatio     Float            `json:"sharpe_ratio"`
	TotalReturnPct  Float            `json:"total_return_pct"`
	AnnualReturnPct Float            `json:"annual_return_pct"`
	MaxDrawdownPct  Float            `json:"max_drawdown_pct"`
	Observations    int              `json:"observations"`
	Dates           []string         `json:"dates"`
	Cumulative      []Float          `json:"cumulative"`
}

// Report is the JSON body of an analysis.
type Report struct {
	Symbols      []string          `json:"symbols"`
	Range        string            `json:"range"`
	From         string            `json:"from"`
	To           string            `json:"to"`
	RiskFreeRate float64           `json:"risk_free_rate"`
	Stats        []SymbolRow       `json:"stats"`
	Portfolio    *PortfolioSummary `json:"portfolio,omitempty"`
	Correlation  [][]Float         `json:"correlation,omitempty"`
}

// Report builds the presentation record of a.
func (a *Analysis) Report() Report {
	rep := Report{
		Symbols:      a.Symbols,
		Range:        a.Range.Key(),
		RiskFreeRate: a.RiskFreeRate,
		Stats:        make([]SymbolRow, 0, len(a.Stats)),
	}
	if n := a.Prices.Len(); n > 0 {
		rep.From = a.Prices.Dates[0].Format(time.DateOnly)
		rep.To = a.Prices.Dates[n-1].Format(time.DateOnly)
	}
	for _, s := range a.Stats {
		r := s.Rounded()
		rep.Stats = append(rep.Stats, SymbolRow{
			Symbol:          r.Symbol,
			StartPrice:      Float(r.StartPrice),
			EndPrice:        Float(r.EndPrice),
			TotalReturnPct:  Float(r.TotalReturn),
			AnnualReturnPct: Float(r.AnnualReturn),
			Volatility:      Float(r.Volatility),
			SharpeRatio:     Float(r.SharpeRatio),
			MaxDrawdownPct:  Float(r.MaxDrawdown),
			Observations:    r.Observations,
		})
	}

	if a.Portfolio != nil {
		p := a.Portfolio.Rounded()
		sum := &PortfolioSummary{
			Weights:         make(map[string]Float, len(a.Weights)),
			Mean:            Float(p.Mean),
			StdDev:          Float(p.StdDev),
			SharpeRatio:     Float(p.SharpeRatio),
			TotalReturnPct:  Float(p.TotalReturn),
			AnnualReturnPct: Float(p.AnnualReturn),
			MaxDrawdownPct:  Float(p.MaxDrawdown),
			Observations:    p.Observations,
			Dates:           make([]string, len(a.Series.Dates)),
			Cumulative:      make([]Float, len(a.Series.Cumulative)),
		}
		for i, sym := range a.Symbols {
			sum.Weights[sym] = Float(finance.Round(a.Weights[i], 4))
		}
		for i, d := range a.Series.Dates {
			sum.Dates[i] = d.Format(time.DateOnly)
		}
		for i, c := range a.Series.Cumulative {
			sum.Cumulative[i] = Float(finance.Round(c, 4))
		}
		rep.Portfolio = sum
	}

	if a.Correlation != nil {
		rep.Correlation = make([][]Float, len(a.Correlation.Values))
		for i, row := range a.Correlation.Values {
			rep.Correlation[i] = make([]Float, len(row))
			for j, v := range row {
				rep.Correlation[i][j] = Float(finance.Round(v, 4))
			}
		}
	}
	return rep
}
