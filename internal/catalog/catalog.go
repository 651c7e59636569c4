// Package catalog maps company names to tickers. It merges a built-in table
// with companies the user added, and falls back to a name search.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"stockDashboard/internal/finance"
)

// Catalog is the company directory behind every selection. Safe for
// concurrent use within one process.
type Catalog struct {
	static   map[string]map[string]map[string]string
	repo     Repository
	searcher Searcher
	log      zerolog.Logger

	mu        sync.RWMutex
	persisted []Entry
}

// New loads the persisted entries once. searcher may be nil.
func New(ctx context.Context, repo Repository, searcher Searcher, log zerolog.Logger) (*Catalog, error) {
	entries, err := repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load companies: %w", err)
	}
	log = log.With().Str("component", "catalog").Logger()
	log.Info().Int("persisted", len(entries)).Msg("catalog loaded")
	return &Catalog{
		static:    Markets,
		repo:      repo,
		searcher:  searcher,
		log:       log,
		persisted: entries,
	}, nil
}

// Markets lists every market, built-in or user-added, sorted.
func (c *Catalog) Markets() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	set := make(map[string]bool)
	for m := range c.static {
		set[m] = true
	}
	for _, e := range c.persisted {
		if e.Market != "" {
			set[e.Market] = true
		}
	}
	return sortedKeys(set)
}

// Sectors lists the sectors of market, sorted. An unknown market is ErrNotFound.
func (c *Catalog) Sectors(market string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	set := make(map[string]bool)
	for s := range c.static[market] {
		set[s] = true
	}
	for _, e := range c.persisted {
		if e.Market == market && e.Sector != "" {
			set[e.Sector] = true
		}
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("market %q: %w", market, finance.ErrNotFound)
	}
	return sortedKeys(set), nil
}

// Companies returns name → ticker for one market and sector: the built-in
// companies overlaid with persisted entries placed in that market and sector.
func (c *Catalog) Companies(market, sector string) map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.companiesLocked(market, sector)
}

func (c *Catalog) companiesLocked(market, sector string) map[string]string {
	if market == "" && sector == "" {
		return c.everyCompanyLocked()
	}
	out := make(map[string]string)
	for name, ticker := range c.static[market][sector] {
		out[name] = ticker
	}
	for _, e := range c.persisted {
		if e.Market == market && e.Sector == sector {
			out[e.Name] = e.Ticker
		}
	}
	return out
}

// everyCompanyLocked is the view used when no market or sector is selected:
// every built-in company plus every persisted entry, persisted winning.
func (c *Catalog) everyCompanyLocked() map[string]string {
	out := make(map[string]string)
	for _, m := range sortedKeys(keySet(c.static)) {
		for _, s := range sortedKeys(keySet(c.static[m])) {
			for name, ticker := range c.static[m][s] {
				out[name] = ticker
			}
		}
	}
	for _, e := range c.persisted {
		out[e.Name] = e.Ticker
	}
	return out
}

// Add persists e and makes it visible immediately. The file is rewritten
// before Add returns.
func (c *Catalog) Add(ctx context.Context, e Entry) (Entry, error) {
	e = e.normalize()
	if err := e.validate(); err != nil {
		return Entry{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.repo.AppendAndSave(ctx, e); err != nil {
		return Entry{}, fmt.Errorf("save company %s: %w", e.Name, err)
	}
	c.persisted = upsert(c.persisted, e)
	c.log.Info().Str("name", e.Name).Str("ticker", e.Ticker).Str("market", e.Market).Str("sector", e.Sector).Msg("company added")
	return e, nil
}

// Resolve maps names to tickers, de-duplicated in first-seen order. Each name
// is looked up in the market/sector view (exact, then case-insensitive), then
// among legacy entries that carry no placement, then handed to the searcher.
// Entries placed in another market or sector are never used. With no market
// and no sector the view is the whole catalog. A name nobody knows is
// ErrNotFound.
func (c *Catalog) Resolve(ctx context.Context, names []string, market, sector string) ([]string, error) {
	c.mu.RLock()
	view := c.companiesLocked(market, sector)
	var legacy []Entry
	for _, e := range c.persisted {
		if e.Legacy() {
			legacy = append(legacy, e)
		}
	}
	c.mu.RUnlock()

	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		ticker, ok := lookupName(view, legacy, name)
		if !ok {
			var err error
			ticker, err = c.search(ctx, name)
			if err != nil {
				return nil, err
			}
		}
		if !seen[ticker] {
			seen[ticker] = true
			out = append(out, ticker)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no companies selected: %w", finance.ErrNotFound)
	}
	return out, nil
}

func (c *Catalog) search(ctx context.Context, name string) (string, error) {
	if c.searcher == nil {
		return "", fmt.Errorf("company %q: %w", name, finance.ErrNotFound)
	}
	m, ok, err := c.searcher.Search(ctx, name)
	if err != nil {
		c.log.Warn().Err(err).Str("name", name).Msg("name search failed")
		return "", fmt.Errorf("company %q: %w: %w", name, finance.ErrNotFound, err)
	}
	if !ok || m.Ticker == "" {
		return "", fmt.Errorf("company %q: %w", name, finance.ErrNotFound)
	}
	c.log.Debug().Str("name", name).Str("ticker", m.Ticker).Msg("resolved by search")
	return strings.ToUpper(m.Ticker), nil
}

func lookupName(view map[string]string, legacy []Entry, name string) (string, bool) {
	if t, ok := view[name]; ok {
		return t, true
	}
	// sorted so names differing only by case resolve the same way every time
	names := make([]string, 0, len(view))
	for n := range view {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return view[n], true
		}
	}
	for _, e := range legacy {
		if strings.EqualFold(e.Name, name) {
			return e.Ticker, true
		}
	}
	return "", false
}

func keySet[V any](m map[string]V) map[string]bool {
	set := make(map[string]bool, len(m))
	for k := range m {
		set[k] = true
	}
	return set
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
