package chart

import (
	"math"
	"time"
)

// dateLabels formats trading days for the x axis; long spans show month and year.
func dateLabels(dates []time.Time) []string {
	layout := "Jan 02"
	if len(dates) > 60 {
		layout = "Jan '06"
	}
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(layout)
	}
	return out
}

// splitFor picks how many x labels to show.
func splitFor(n int) int {
	if n > 30 {
		return 6
	}
	split := n / 3
	if split < 3 {
		split = 3
	}
	return split
}

// paddedRange returns the min and max of values widened by 5% of the span,
// or 0.2% of the max for a flat series.
func paddedRange(values ...[]float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, vs := range values {
		for _, v := range vs {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0, 1
	}
	pad := (hi - lo) * 0.05
	if floor := math.Abs(hi) * 0.002; pad < floor {
		pad = floor
	}
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}
