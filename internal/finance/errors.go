package finance

import "errors"

var (
	// ErrInsufficientData is returned when a symbol has fewer than two valid observations.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidWeights is returned for a zero-sum, negative or mismatched weight vector.
	ErrInvalidWeights = errors.New("invalid weights")
	// ErrDataUnavailable is returned when a price fetch failed or came back empty.
	ErrDataUnavailable = errors.New("price data unavailable")
	// ErrNotFound is returned when a company name could not be resolved to a ticker.
	ErrNotFound = errors.New("not found")
)
