package chart

import (
	"fmt"
	"math"

	"github.com/vicanso/go-charts/v2"

	"stockDashboard/internal/finance"
)

// Correlation renders the matrix as a table with one row per symbol.
func Correlation(m *finance.CorrelationMatrix) ([]byte, error) {
	if m == nil || len(m.Symbols) < 2 {
		return nil, fmt.Errorf("correlation needs two symbols: %w", finance.ErrInsufficientData)
	}

	header := append([]string{""}, m.Symbols...)
	data := make([][]string, len(m.Symbols))
	for i, sym := range m.Symbols {
		row := make([]string, 0, len(m.Symbols)+1)
		row = append(row, sym)
		for _, v := range m.Values[i] {
			row = append(row, formatCell(v))
		}
		data[i] = row
	}

	p, err := charts.TableRender(header, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render table: %w", err)
	}
	return p.Bytes()
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", finance.Round(v, 4))
}
