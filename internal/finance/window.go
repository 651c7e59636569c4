package finance

import (
	"fmt"
	"strings"
	"time"
)

// Yahoo range strings accepted for daily data, shortest first.
var periods = []string{"5d", "1mo", "3mo", "6mo", "ytd", "1y", "2y", "5y", "10y", "max"}

// ParsePeriod maps user input to a Yahoo range string. Both Yahoo forms (1mo, 3mo)
// and short forms (1m, 3m, 1w, 12m) are accepted; empty input means 1y.
func ParsePeriod(window string) (string, error) {
	w := strings.ToLower(strings.TrimSpace(window))
	if w == "" {
		return "1y", nil
	}
	for _, p := range periods {
		if w == p {
			return p, nil
		}
	}

	var n int
	var unit string
	if _, err := fmt.Sscanf(w, "%d%s", &n, &unit); err != nil || n <= 0 {
		return "", fmt.Errorf("invalid period: %s (use 1mo, 3mo, 6mo, 1y, 5y)", window)
	}

	switch unit {
	case "d":
		return rangeForDays(n), nil
	case "w", "wk":
		return rangeForDays(n * 7), nil
	case "m", "mo", "mon":
		return rangeForDays(n * 30), nil
	case "y", "yr":
		return rangeForDays(n * 365), nil
	default:
		return "", fmt.Errorf("invalid period: %s (use 1mo, 3mo, 6mo, 1y, 5y)", window)
	}
}

// rangeForDays returns the smallest Yahoo range covering days calendar days.
func rangeForDays(days int) string {
	switch {
	case days <= 5:
		return "5d"
	case days <= 31:
		return "1mo"
	case days <= 92:
		return "3mo"
	case days <= 183:
		return "6mo"
	case days <= 366:
		return "1y"
	case days <= 731:
		return "2y"
	case days <= 1827:
		return "5y"
	case days <= 3653:
		return "10y"
	default:
		return "max"
	}
}

// RangeCovering returns the smallest Yahoo range that reaches back to start from now.
func RangeCovering(start, now time.Time) string {
	days := int(now.Sub(start).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return rangeForDays(days)
}

// PeriodStart returns the first calendar day a Yahoo range covers, ending at now.
// "max" returns the zero time.
func PeriodStart(period string, now time.Time) time.Time {
	switch period {
	case "5d":
		return now.AddDate(0, 0, -5)
	case "1mo":
		return now.AddDate(0, -1, 0)
	case "3mo":
		return now.AddDate(0, -3, 0)
	case "6mo":
		return now.AddDate(0, -6, 0)
	case "ytd":
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	case "1y":
		return now.AddDate(-1, 0, 0)
	case "2y":
		return now.AddDate(-2, 0, 0)
	case "5y":
		return now.AddDate(-5, 0, 0)
	case "10y":
		return now.AddDate(-10, 0, 0)
	default:
		return time.Time{}
	}
}
