package finance

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Correlation computes the Pearson correlation of every pair of return columns over
// the dates on which all symbols have a return.
func Correlation(returns *ReturnTable) (*CorrelationMatrix, error) {
	rows := returns.CompleteRows()
	if len(rows) < 2 {
		return nil, fmt.Errorf("%d complete return rows, need 2: %w", len(rows), ErrInsufficientData)
	}

	cols := make([][]float64, len(returns.Symbols))
	for col := range cols {
		cols[col] = make([]float64, len(rows))
		for i, row := range rows {
			cols[col][i] = returns.Values[col][row]
		}
	}

	m := &CorrelationMatrix{
		Symbols: returns.Symbols,
		Values:  make([][]float64, len(cols)),
	}
	for i := range cols {
		m.Values[i] = make([]float64, len(cols))
		m.Values[i][i] = 1
	}
	for i := range cols {
		for j := i + 1; j < len(cols); j++ {
			c := stat.Correlation(cols[i], cols[j], nil)
			m.Values[i][j] = c
			m.Values[j][i] = c
		}
	}
	return m, nil
}

// At returns the correlation between two symbols.
func (m *CorrelationMatrix) At(a, b string) (float64, bool) {
	ia, ib := -1, -1
	for i, s := range m.Symbols {
		if s == a {
			ia = i
		}
		if s == b {
			ib = i
		}
	}
	if ia == -1 || ib == -1 {
		return 0, false
	}
	return m.Values[ia][ib], true
}
