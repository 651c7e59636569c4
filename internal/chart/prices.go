// Package chart renders analysis results as PNG images.
package chart

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vicanso/go-charts/v2"

	"stockDashboard/internal/finance"
)

// commonRows returns the dates on which every column has a price and the
// aligned values, one slice per column.
func commonRows(pt *finance.PriceTable) ([]time.Time, [][]float64) {
	var dates []time.Time
	values := make([][]float64, len(pt.Symbols))
	for row, d := range pt.Dates {
		complete := true
		for col := range pt.Symbols {
			if p := pt.Closes[col][row]; math.IsNaN(p) || p <= 0 {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		dates = append(dates, d)
		for col := range pt.Symbols {
			values[col] = append(values[col], pt.Closes[col][row])
		}
	}
	return dates, values
}

// Prices renders a price comparison with subtitle under the title. One or two symbols are drawn in price
// terms, the second on its own right axis; more than two are normalised to %
// change from the first common day so they share one axis.
func Prices(pt *finance.PriceTable, subtitle string) ([]byte, error) {
	if len(pt.Symbols) == 0 {
		return nil, fmt.Errorf("no symbols provided")
	}
	dates, values := commonRows(pt)
	if len(dates) < 2 {
		return nil, fmt.Errorf("not enough overlapping trading days: %w", finance.ErrInsufficientData)
	}

	names := pt.Symbols
	normalized := len(names) > 2
	title := "Prices • " + strings.Join(names, ", ")
	if normalized {
		for _, col := range values {
			base := col[0]
			for j, v := range col {
				col[j] = (v/base - 1.0) * 100.0
			}
		}
		subtitle = strings.TrimSpace(subtitle + " • normalized %")
	}

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
		if !normalized {
			seriesList[i].AxisIndex = i % 2
		}
	}

	var yAxes []charts.YAxisOption
	if normalized || len(values) == 1 {
		yMin, yMax := paddedRange(values...)
		yAxes = []charts.YAxisOption{{Min: &yMin, Max: &yMax, DivideCount: 5}}
	} else {
		leftMin, leftMax := paddedRange(values[0])
		rightMin, rightMax := paddedRange(values[1])
		yAxes = []charts.YAxisOption{
			{Min: &leftMin, Max: &leftMax, DivideCount: 5},
			{Min: &rightMin, Max: &rightMax, DivideCount: 5, Position: charts.PositionRight},
		}
	}

	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: dateLabels(dates), BoundaryGap: charts.FalseFlag(), SplitNumber: splitFor(len(dates))}),
		charts.YAxisOptionFunc(yAxes...),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return painter.Bytes()
}
