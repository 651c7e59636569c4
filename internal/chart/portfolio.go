package chart

import (
	"fmt"
	"strings"

	"github.com/vicanso/go-charts/v2"

	"stockDashboard/internal/finance"
)

// Portfolio renders the cumulative growth of one unit invested in the
// weighted portfolio.
func Portfolio(series *finance.PortfolioReturns, stats *finance.PortfolioStats, symbols []string) ([]byte, error) {
	if series == nil || len(series.Cumulative) < 2 {
		return nil, fmt.Errorf("portfolio series too short: %w", finance.ErrInsufficientData)
	}

	values := make([]float64, len(series.Cumulative))
	copy(values, series.Cumulative)
	yMin, yMax := paddedRange(values)

	title := "Portfolio • " + strings.Join(symbols, ", ")
	subtitle := ""
	if stats != nil {
		r := stats.Rounded()
		subtitle = fmt.Sprintf("Return: %.2f%% | Sharpe: %.2f | Vol: %.4f | MaxDD: %.2f%%",
			r.TotalReturn, r.SharpeRatio, r.StdDev, r.MaxDrawdown)
	}

	p, err := charts.LineRender(
		[][]float64{values},
		charts.TitleTextOptionFunc(title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        dateLabels(series.Dates),
			SplitNumber: splitFor(len(values)),
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

// Allocation renders the normalised weights as a pie.
func Allocation(symbols []string, weights []float64) ([]byte, error) {
	if len(symbols) == 0 || len(symbols) != len(weights) {
		return nil, fmt.Errorf("%d weights for %d symbols: %w", len(weights), len(symbols), finance.ErrInvalidWeights)
	}

	labels := make([]string, len(symbols))
	for i, sym := range symbols {
		labels[i] = fmt.Sprintf("%s (%.1f%%)", sym, weights[i]*100)
	}

	p, err := charts.PieRender(
		weights,
		charts.TitleTextOptionFunc("Allocation"),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: labels,
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(800),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, err
	}
	return p.Bytes()
}
