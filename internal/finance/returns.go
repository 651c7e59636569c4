package finance

import (
	"fmt"
	"math"
	"time"
)

// ReturnTable holds daily log returns. Dates[t] is the later date of each price pair,
// so a ReturnTable has one row less than the PriceTable it came from. A NaN cell
// means the pair had a missing price on either side and carries no value.
type ReturnTable struct {
	Dates   []time.Time
	Symbols []string
	Values  [][]float64 // Values[col][row]
}

// ComputeReturns converts a price table into log returns, column by column.
func ComputeReturns(prices *PriceTable) (*ReturnTable, error) {
	if prices == nil {
		return nil, fmt.Errorf("price table is nil: %w", ErrInsufficientData)
	}
	n := prices.Len()
	rt := &ReturnTable{
		Symbols: prices.Symbols,
		Values:  make([][]float64, len(prices.Symbols)),
	}
	if n > 1 {
		rt.Dates = prices.Dates[1:]
	}

	for col, sym := range prices.Symbols {
		closes := prices.Closes[col]
		valid := 0
		for _, p := range closes {
			if !isMissing(p) {
				valid++
			}
		}
		if valid < 2 {
			return nil, fmt.Errorf("%s has %d valid prices, need 2: %w", sym, valid, ErrInsufficientData)
		}

		out := make([]float64, n-1)
		for t := 1; t < n; t++ {
			prev, cur := closes[t-1], closes[t]
			if isMissing(prev) || isMissing(cur) {
				out[t-1] = math.NaN()
				continue
			}
			out[t-1] = math.Log(cur / prev)
		}
		rt.Values[col] = out
	}
	return rt, nil
}

// Len returns the number of rows.
func (rt *ReturnTable) Len() int { return len(rt.Dates) }

// Series returns the present returns of one column, in date order.
func (rt *ReturnTable) Series(col int) []float64 {
	out := make([]float64, 0, len(rt.Values[col]))
	for _, r := range rt.Values[col] {
		if !math.IsNaN(r) {
			out = append(out, r)
		}
	}
	return out
}

// CompleteRows returns the row indexes where every column has a return.
func (rt *ReturnTable) CompleteRows() []int {
	rows := make([]int, 0, rt.Len())
	for row := range rt.Dates {
		complete := true
		for col := range rt.Values {
			if math.IsNaN(rt.Values[col][row]) {
				complete = false
				break
			}
		}
		if complete {
			rows = append(rows, row)
		}
	}
	return rows
}
