package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockDashboard/internal/finance"
)

const (
	us = "US Market 🇺🇸"
	in = "Indian Market 🇮🇳"
)

func newCatalog(t *testing.T, repo Repository, s Searcher) *Catalog {
	t.Helper()
	c, err := New(context.Background(), repo, s, zerolog.Nop())
	require.NoError(t, err)
	return c
}

func TestMarketsAndSectors(t *testing.T) {
	c := newCatalog(t, NewMemoryRepository(Entry{Name: "Palantir", Ticker: "PLTR", Market: us, Sector: "Defense"}), nil)

	assert.Equal(t, []string{in, us}, c.Markets())

	sectors, err := c.Sectors(us)
	require.NoError(t, err)
	assert.Contains(t, sectors, "Technology")
	assert.Contains(t, sectors, "Defense")

	_, err = c.Sectors("Mars Market")
	assert.ErrorIs(t, err, finance.ErrNotFound)
}

func TestCompaniesMergeVisibility(t *testing.T) {
	repo := NewMemoryRepository(
		Entry{Name: "Apple", Ticker: "AAPL.MX", Market: us, Sector: "Technology"},
		Entry{Name: "Nvidia", Ticker: "NVDA", Market: us, Sector: "Technology"},
		Entry{Name: "Zomato", Ticker: "ZOMATO.NS", Market: in, Sector: "Consumer"},
		Entry{Name: "Legacy Co", Ticker: "LEG"},
	)
	c := newCatalog(t, repo, nil)

	tech := c.Companies(us, "Technology")
	assert.Equal(t, "NVDA", tech["Nvidia"], "persisted entry in this market+sector is visible")
	assert.Equal(t, "AAPL.MX", tech["Apple"], "persisted entry overrides the built-in one")
	assert.Equal(t, "MSFT", tech["Microsoft"])
	assert.NotContains(t, tech, "Zomato", "other market stays invisible")
	assert.NotContains(t, tech, "Legacy Co", "legacy entries have no placement")

	assert.NotContains(t, c.Companies(us, "Finance"), "Nvidia", "other sector stays invisible")
	assert.Equal(t, "ZOMATO.NS", c.Companies(in, "Consumer")["Zomato"])
	assert.Equal(t, "AAPL", Markets[us]["Technology"]["Apple"], "built-in table is untouched")
}

func TestResolve(t *testing.T) {
	searched := []string{}
	search := SearcherFunc(func(ctx context.Context, name string) (Match, bool, error) {
		searched = append(searched, name)
		switch name {
		case "Netflix":
			return Match{Name: name, Ticker: "nflx"}, true, nil
		case "AAPL":
			return Match{Name: name, Ticker: "AAPL"}, true, nil
		case "broken":
			return Match{}, false, errors.New("timeout")
		}
		return Match{}, false, nil
	})
	c := newCatalog(t, NewMemoryRepository(Entry{Name: "Legacy Co", Ticker: "LEG"}), search)
	ctx := context.Background()

	got, err := c.Resolve(ctx, []string{"Apple", "microsoft", " Apple ", "Netflix", "legacy co", "AAPL"}, us, "Technology")
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "NFLX", "LEG"}, got)
	assert.Equal(t, []string{"Netflix", "AAPL"}, searched, "known names never reach the searcher")

	_, err = c.Resolve(ctx, []string{"Apple", "Nobody Inc"}, us, "Technology")
	assert.ErrorIs(t, err, finance.ErrNotFound)

	_, err = c.Resolve(ctx, []string{"broken"}, us, "Technology")
	assert.ErrorIs(t, err, finance.ErrNotFound)

	_, err = c.Resolve(ctx, []string{"", "  "}, us, "Technology")
	assert.ErrorIs(t, err, finance.ErrNotFound)
}

func TestResolveRespectsPlacement(t *testing.T) {
	repo := NewMemoryRepository(Entry{Name: "Zomato", Ticker: "ZOMATO.NS", Market: in, Sector: "Consumer"})
	c := newCatalog(t, repo, nil)
	ctx := context.Background()

	got, err := c.Resolve(ctx, []string{"Zomato"}, in, "Consumer")
	require.NoError(t, err)
	assert.Equal(t, []string{"ZOMATO.NS"}, got)

	_, err = c.Resolve(ctx, []string{"Zomato"}, us, "Consumer")
	assert.ErrorIs(t, err, finance.ErrNotFound, "placed entries stay in their own market")

	_, err = c.Resolve(ctx, []string{"zomato"}, in, "Technology")
	assert.ErrorIs(t, err, finance.ErrNotFound, "placed entries stay in their own sector")
}

func TestResolveWholeCatalog(t *testing.T) {
	repo := NewMemoryRepository(Entry{Name: "Zomato", Ticker: "ZOMATO.NS", Market: in, Sector: "Consumer"})
	c := newCatalog(t, repo, nil)

	got, err := c.Resolve(context.Background(), []string{"Infosys", "apple", "Zomato"}, "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"INFY.NS", "AAPL", "ZOMATO.NS"}, got)
}

func TestLookupNameCaseCollision(t *testing.T) {
	view := map[string]string{"ACME": "ACM1", "Acme": "ACM2", "acme": "ACM3"}
	for i := 0; i < 20; i++ {
		got, ok := lookupName(view, nil, "aCmE")
		require.True(t, ok)
		assert.Equal(t, "ACM1", got)
	}
}

func TestResolveWithoutSearcher(t *testing.T) {
	c := newCatalog(t, NewMemoryRepository(), nil)
	_, err := c.Resolve(context.Background(), []string{"Apple"}, in, "Technology")
	assert.ErrorIs(t, err, finance.ErrNotFound, "Apple is not in the Indian technology view")
}

func TestAddPersistsAndIsVisible(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "companies.json")
	ctx := context.Background()
	c := newCatalog(t, NewFileRepository(path), nil)

	e, err := c.Add(ctx, Entry{Name: " Zomato ", Ticker: "zomato.ns", Market: in, Sector: "Consumer"})
	require.NoError(t, err)
	assert.Equal(t, Entry{Name: "Zomato", Ticker: "ZOMATO.NS", Market: in, Sector: "Consumer"}, e)
	assert.Equal(t, "ZOMATO.NS", c.Companies(in, "Consumer")["Zomato"])

	// a fresh process sees the entry
	reloaded := newCatalog(t, NewFileRepository(path), nil)
	assert.Equal(t, "ZOMATO.NS", reloaded.Companies(in, "Consumer")["Zomato"])

	_, err = c.Add(ctx, Entry{Name: "", Ticker: "X"})
	assert.Error(t, err)
	_, err = c.Add(ctx, Entry{Name: "X", Ticker: " "})
	assert.Error(t, err)
}

type failingRepo struct{ MemoryRepository }

func (f *failingRepo) AppendAndSave(context.Context, Entry) error { return os.ErrPermission }

func TestAddFailureLeavesCatalogUnchanged(t *testing.T) {
	c := newCatalog(t, &failingRepo{}, nil)
	_, err := c.Add(context.Background(), Entry{Name: "Zomato", Ticker: "ZOMATO.NS", Market: in, Sector: "Consumer"})
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.NotContains(t, c.Companies(in, "Consumer"), "Zomato")
}

func TestChain(t *testing.T) {
	miss := SearcherFunc(func(context.Context, string) (Match, bool, error) { return Match{}, false, nil })
	fail := SearcherFunc(func(context.Context, string) (Match, bool, error) { return Match{}, false, errors.New("down") })
	hit := SearcherFunc(func(_ context.Context, n string) (Match, bool, error) { return Match{Name: n, Ticker: "HIT"}, true, nil })

	m, ok, err := Chain{miss, fail, hit}.Search(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "HIT", m.Ticker)

	_, ok, err = Chain{miss, fail}.Search(context.Background(), "x")
	assert.False(t, ok)
	assert.EqualError(t, err, "down")

	_, ok, err = Chain{nil, miss}.Search(context.Background(), "x")
	assert.False(t, ok)
	assert.NoError(t, err)
}

func TestYahooLookup(t *testing.T) {
	y := &YahooLookup{stock: func(q string) (string, error) {
		if q == "Netflix" {
			return "nflx", nil
		}
		return "", nil
	}}
	m, ok, err := y.Search(context.Background(), "Netflix")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Match{Name: "Netflix", Ticker: "NFLX"}, m)

	_, ok, err = y.Search(context.Background(), "Nobody")
	require.NoError(t, err)
	assert.False(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = y.Search(ctx, "Netflix")
	assert.ErrorIs(t, err, context.Canceled)
}
