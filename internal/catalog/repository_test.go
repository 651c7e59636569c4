package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRepositoryMissingFileIsEmpty(t *testing.T) {
	r := NewFileRepository(filepath.Join(t.TempDir(), "companies.json"))
	entries, err := r.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileRepositoryReadsBothForms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "companies.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"Old Corp": "old",
		"New Corp": {"ticker": "NEW.NS", "market": "Indian Market 🇮🇳", "sector": "Energy"}
	}`), 0o644))

	entries, err := NewFileRepository(path).LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Name: "New Corp", Ticker: "NEW.NS", Market: "Indian Market 🇮🇳", Sector: "Energy"},
		{Name: "Old Corp", Ticker: "OLD"},
	}, entries)
	assert.True(t, entries[1].Legacy())
}

func TestFileRepositoryRejectsBadFile(t *testing.T) {
	tests := map[string]string{
		"not an object": `["AAPL"]`,
		"number value":  `{"Apple": 1}`,
		"empty ticker":  `{"Apple": {"ticker": ""}}`,
		"broken json":   `{"Apple": `,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "companies.json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := NewFileRepository(path).LoadAll(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestFileRepositoryAppendRewritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "companies.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Old Corp": "OLD"}`), 0o644))
	ctx := context.Background()

	r := NewFileRepository(path)
	require.NoError(t, r.AppendAndSave(ctx, Entry{Name: "New Corp", Ticker: "NEW", Market: "M", Sector: "S"}))
	require.NoError(t, r.AppendAndSave(ctx, Entry{Name: "New Corp", Ticker: "NEW2", Market: "M", Sector: "S"}))

	entries, err := NewFileRepository(path).LoadAll(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Entry{
		{Name: "Old Corp", Ticker: "OLD"},
		{Name: "New Corp", Ticker: "NEW2", Market: "M", Sector: "S"},
	}, entries)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Old Corp": "OLD"`, "legacy entries keep the bare form")

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1, "no temp files left behind")
}
