package chart

import (
	"fmt"
	"strconv"
	"strings"

	"stockDashboard/internal/dashboard"
	"stockDashboard/internal/finance"
)

// Kind names one of the charts an analysis can be drawn as.
type Kind string

const (
	KindPrices      Kind = "prices"
	KindPortfolio   Kind = "portfolio"
	KindCorrelation Kind = "correlation"
	KindAllocation  Kind = "allocation"
	KindReturns     Kind = "returns"
)

// Kinds lists every supported chart kind.
var Kinds = []Kind{KindPrices, KindPortfolio, KindCorrelation, KindAllocation, KindReturns}

// ParseKind accepts a kind name in any case; empty means prices.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KindPrices, nil
	}
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	if s == "corr" {
		return KindCorrelation, nil
	}
	return "", fmt.Errorf("unknown chart %q", s)
}

// Renderer draws analyses and reuses recent images.
type Renderer struct {
	cache *Cache
}

// NewRenderer returns a Renderer backed by cache; a nil cache disables reuse.
func NewRenderer(cache *Cache) *Renderer {
	return &Renderer{cache: cache}
}

// Render draws a as kind and returns PNG bytes.
func (r *Renderer) Render(kind Kind, a *dashboard.Analysis) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("no analysis: %w", finance.ErrInsufficientData)
	}
	key := cacheKey(kind, a)
	if r.cache != nil {
		if img, ok := r.cache.Get(key); ok {
			return img, nil
		}
	}

	var (
		img []byte
		err error
	)
	switch kind {
	case KindPrices:
		img, err = Prices(a.Prices, a.Range.Key())
	case KindPortfolio:
		img, err = Portfolio(a.Series, a.Portfolio, a.Symbols)
	case KindCorrelation:
		img, err = Correlation(a.Correlation)
	case KindAllocation:
		img, err = Allocation(a.Symbols, a.Weights)
	case KindReturns:
		img, err = Returns(a.Stats)
	default:
		return nil, fmt.Errorf("unknown chart %q", kind)
	}
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.Set(key, img)
	}
	return img, nil
}

// cacheKey identifies an image by everything it is drawn from: kind, symbols,
// weights, range, risk-free rate and the last trading day in the table.
func cacheKey(kind Kind, a *dashboard.Analysis) string {
	var b strings.Builder
	b.WriteString(string(kind))
	b.WriteByte('|')
	b.WriteString(strings.Join(a.Symbols, ","))
	b.WriteByte('|')
	for i, w := range a.Weights {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(w, 'g', 6, 64))
	}
	b.WriteByte('|')
	b.WriteString(a.Range.Key())
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(a.RiskFreeRate, 'g', -1, 64))
	if a.Prices != nil && a.Prices.Len() > 0 {
		b.WriteByte('|')
		b.WriteString(a.Prices.Dates[a.Prices.Len()-1].Format("20060102"))
	}
	return b.String()
}
