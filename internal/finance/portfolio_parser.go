package finance

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseWeightedPortfolio parses a weighted portfolio command string
// Format: /port SPY 0.5 AAPL 0.25 [1y]
// Returns: symbols, raw weights, period (empty when omitted), error
func ParseWeightedPortfolio(input string) ([]string, []float64, string, error) {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "/port") {
		input = strings.TrimSpace(input[len("/port"):])
		// drop a @botname suffix on the command
		if strings.HasPrefix(input, "@") {
			if i := strings.IndexAny(input, " \t"); i >= 0 {
				input = strings.TrimSpace(input[i:])
			} else {
				input = ""
			}
		}
	}

	parts := strings.Fields(input)
	if len(parts) < 2 {
		return nil, nil, "", fmt.Errorf("insufficient arguments: need at least symbol weight")
	}

	// An odd count means the last token is the period
	period := ""
	if len(parts)%2 != 0 {
		period = parts[len(parts)-1]
		parts = parts[:len(parts)-1]
		if _, err := ParsePeriod(period); err != nil {
			return nil, nil, "", err
		}
	}

	var symbols []string
	var weights []float64
	seen := make(map[string]bool)

	for i := 0; i < len(parts); i += 2 {
		symbol := strings.ToUpper(strings.TrimSpace(parts[i]))
		weightStr := strings.TrimSuffix(strings.TrimSpace(parts[i+1]), "%")

		weight, err := strconv.ParseFloat(weightStr, 64)
		if err != nil {
			return nil, nil, "", fmt.Errorf("invalid weight '%s' for symbol %s: %w", parts[i+1], symbol, err)
		}
		if weight < 0 {
			return nil, nil, "", fmt.Errorf("negative weight %g for symbol %s: %w", weight, symbol, ErrInvalidWeights)
		}
		if seen[symbol] {
			return nil, nil, "", fmt.Errorf("duplicate symbol: %s", symbol)
		}
		seen[symbol] = true

		symbols = append(symbols, symbol)
		weights = append(weights, weight)
	}

	return symbols, weights, period, nil
}
