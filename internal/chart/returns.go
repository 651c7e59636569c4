package chart

import (
	"fmt"
	"math"

	"github.com/vicanso/go-charts/v2"

	"stockDashboard/internal/finance"
)

// Returns renders the total return of each symbol over the window as bars.
// Symbols without a defined return are drawn at zero.
func Returns(stats []finance.SymbolStats) ([]byte, error) {
	if len(stats) == 0 {
		return nil, fmt.Errorf("no statistics: %w", finance.ErrInsufficientData)
	}

	names := make([]string, len(stats))
	values := make([]float64, len(stats))
	for i, s := range stats {
		names[i] = s.Symbol
		if v := finance.Percent(s.TotalReturn); !math.IsNaN(v) && !math.IsInf(v, 0) {
			values[i] = v
		}
	}

	p, err := charts.BarRender(
		[][]float64{values},
		charts.TitleTextOptionFunc("Total return %"),
		charts.XAxisDataOptionFunc(names),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return p.Bytes()
}
