package market

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wnjoon/go-yfinance/pkg/models"

	"stockDashboard/internal/finance"
)

func TestRangeKey(t *testing.T) {
	assert.Equal(t, "1y", Range{}.Key())
	assert.Equal(t, "6mo", Range{Period: "6mo"}.Key())
	assert.Equal(t, "2024-01-02..now", Range{Start: day(2024, 1, 2)}.Key())
	assert.Equal(t, "2024-01-02..2024-02-01", Range{Start: day(2024, 1, 2), End: day(2024, 2, 1), Period: "1y"}.Key())
}

func TestBuildTableUnionOfDates(t *testing.T) {
	all := []series{
		{Symbol: "A", Dates: []time.Time{day(2024, 1, 2), day(2024, 1, 3)}, Closes: []float64{1, 2}},
		{Symbol: "B", Dates: []time.Time{day(2024, 1, 1), day(2024, 1, 3)}, Closes: []float64{10, 30}},
	}
	pt, err := buildTable([]string{"A", "B"}, all, Range{Period: "1mo"})
	require.NoError(t, err)

	assert.Equal(t, []time.Time{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3)}, pt.Dates)
	assert.True(t, math.IsNaN(pt.Closes[0][0]))
	assert.Equal(t, []float64{1, 2}, pt.Closes[0][1:])
	assert.Equal(t, 10.0, pt.Closes[1][0])
	assert.True(t, math.IsNaN(pt.Closes[1][1]))
}

func TestBuildTableEmptyWindow(t *testing.T) {
	all := []series{{Symbol: "A", Dates: []time.Time{day(2024, 1, 2)}, Closes: []float64{1}}}
	_, err := buildTable([]string{"A"}, all, Range{Start: day(2025, 1, 1)})
	assert.ErrorIs(t, err, finance.ErrDataUnavailable)
}

func TestYFinanceStoreFetch(t *testing.T) {
	s := NewYFinanceStore(zerolog.Nop())
	s.now = func() time.Time { return day(2024, 3, 10) }
	var periods []string
	s.history = func(symbol, period string) ([]models.Bar, error) {
		periods = append(periods, period)
		if symbol == "BAD" {
			return nil, errors.New("404")
		}
		return []models.Bar{
			{Date: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), Close: 10, AdjClose: 9.5},
			{Date: time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC), Close: 11},
			{Date: time.Date(2024, 3, 4, 15, 59, 0, 0, time.UTC), Close: 11.5, AdjClose: 11.4},
			{Date: time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC), Close: 12, AdjClose: 12},
		}, nil
	}

	pt, err := s.Fetch(context.Background(), []string{"spy"}, Range{Start: day(2024, 3, 4)})
	require.NoError(t, err)
	assert.Equal(t, []string{"1mo"}, periods, "explicit window fetches the covering period")
	assert.Equal(t, []time.Time{day(2024, 3, 4), day(2024, 3, 5)}, pt.Dates)
	assert.Equal(t, []float64{11.4, 12}, pt.Closes[0])

	_, err = s.Fetch(context.Background(), []string{"SPY", "BAD"}, Range{Period: "1y"})
	assert.ErrorIs(t, err, finance.ErrDataUnavailable)

	s.history = func(string, string) ([]models.Bar, error) { return nil, nil }
	_, err = s.Fetch(context.Background(), []string{"SPY"}, Range{})
	assert.ErrorIs(t, err, finance.ErrDataUnavailable)
}

type fakeStore struct {
	calls int
	table *finance.PriceTable
	err   error
}

func (f *fakeStore) Fetch(context.Context, []string, Range) (*finance.PriceTable, error) {
	f.calls++
	return f.table, f.err
}

type memCache struct {
	tables  map[string]*finance.PriceTable
	at      map[string]time.Time
	loadErr error
}

func (m *memCache) LoadPrices(_ context.Context, key string, maxAge time.Duration, now time.Time) (*finance.PriceTable, bool, error) {
	if m.loadErr != nil {
		return nil, false, m.loadErr
	}
	t, ok := m.tables[key]
	if !ok || now.Sub(m.at[key]) > maxAge {
		return nil, false, nil
	}
	return t, true, nil
}

func (m *memCache) SavePrices(_ context.Context, key string, t *finance.PriceTable, fetchedAt time.Time) error {
	m.tables[key] = t
	m.at[key] = fetchedAt
	return nil
}

func TestCachedStore(t *testing.T) {
	pt, err := finance.NewPriceTable([]time.Time{day(2024, 1, 2)}, []string{"A"}, [][]float64{{1}})
	require.NoError(t, err)
	next := &fakeStore{table: pt}
	cache := &memCache{tables: map[string]*finance.PriceTable{}, at: map[string]time.Time{}}
	now := day(2024, 1, 3)
	cs := NewCachedStore(next, cache, time.Hour, zerolog.Nop())
	cs.now = func() time.Time { return now }

	ctx := context.Background()
	_, err = cs.Fetch(ctx, []string{"a"}, Range{Period: "1y"})
	require.NoError(t, err)
	got, err := cs.Fetch(ctx, []string{"A"}, Range{Period: "1y"})
	require.NoError(t, err)
	assert.Same(t, pt, got)
	assert.Equal(t, 1, next.calls, "second fetch is served from the cache")
	assert.Contains(t, cache.tables, "A|1y")

	now = now.Add(2 * time.Hour)
	_, err = cs.Fetch(ctx, []string{"A"}, Range{Period: "1y"})
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls, "expired entry is refetched")

	cache.loadErr = errors.New("disk gone")
	_, err = cs.Fetch(ctx, []string{"A"}, Range{Period: "1y"})
	require.NoError(t, err, "cache failures don't fail the fetch")

	next.err = finance.ErrDataUnavailable
	cache.loadErr = nil
	_, err = cs.Fetch(ctx, []string{"B"}, Range{Period: "1y"})
	assert.ErrorIs(t, err, finance.ErrDataUnavailable)
}
