package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wnjoon/go-yfinance/pkg/lookup"
)

// Match is a search hit for a free-text company name.
type Match struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}

// Searcher resolves a name the catalog doesn't know. ok is false when there
// is no hit.
type Searcher interface {
	Search(ctx context.Context, name string) (m Match, ok bool, err error)
}

// SearcherFunc adapts a function to Searcher.
type SearcherFunc func(ctx context.Context, name string) (Match, bool, error)

func (f SearcherFunc) Search(ctx context.Context, name string) (Match, bool, error) {
	return f(ctx, name)
}

// Chain asks each searcher in turn and returns the first hit. Errors are
// only reported when no searcher had a hit.
type Chain []Searcher

func (c Chain) Search(ctx context.Context, name string) (Match, bool, error) {
	var errs []error
	for _, s := range c {
		if s == nil {
			continue
		}
		m, ok, err := s.Search(ctx, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			return m, true, nil
		}
	}
	return Match{}, false, errors.Join(errs...)
}

// YahooLookup searches Yahoo's equity lookup with go-yfinance and takes the
// first result.
type YahooLookup struct {
	// stock is swapped out in tests
	stock func(query string) (string, error)
}

func NewYahooLookup() *YahooLookup {
	return &YahooLookup{stock: lookupFirstStock}
}

func lookupFirstStock(query string) (string, error) {
	l, err := lookup.New(query)
	if err != nil {
		return "", fmt.Errorf("failed to create lookup client: %w", err)
	}
	defer l.Close()

	results, err := l.Stock(1)
	if err != nil {
		return "", fmt.Errorf("failed to lookup %q: %w", query, err)
	}
	if len(results) == 0 {
		return "", nil
	}
	return results[0].Symbol, nil
}

// Search checks ctx before querying. The go-yfinance lookup takes no
// context, so a request already in flight runs to completion.
func (y *YahooLookup) Search(ctx context.Context, name string) (Match, bool, error) {
	if err := ctx.Err(); err != nil {
		return Match{}, false, err
	}
	symbol, err := y.stock(name)
	if err != nil {
		return Match{}, false, err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Match{}, false, nil
	}
	return Match{Name: name, Ticker: symbol}, true, nil
}
