// Package app assembles the collaborators shared by the binaries.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"stockDashboard/internal/catalog"
	"stockDashboard/internal/chart"
	"stockDashboard/internal/config"
	"stockDashboard/internal/dashboard"
	"stockDashboard/internal/market"
	"stockDashboard/internal/openai"
	"stockDashboard/internal/storage"
)

type App struct {
	Config    *config.Config
	Log       zerolog.Logger
	DB        *sql.DB
	Prices    *storage.Store
	Catalog   *catalog.Catalog
	Dashboard *dashboard.Service
	Charts    *chart.Renderer
}

// New opens the price cache database, loads the catalog and wires the
// dashboard service. Close releases the database.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := storage.OpenSQLite("file:" + cfg.DBPath + "?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open price cache: %w", err)
	}
	if err := storage.InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init price cache: %w", err)
	}
	log.Info().Str("path", cfg.DBPath).Msg("db: price cache ready")

	cat, err := catalog.New(ctx, catalog.NewFileRepository(cfg.CatalogPath), Searcher(cfg, log), log)
	if err != nil {
		db.Close()
		return nil, err
	}

	store := storage.NewStore(db)
	svc := dashboard.NewService(cat, PriceStore(cfg, store, log), cfg.RiskFreeRate, log)

	return &App{
		Config:    cfg,
		Log:       log,
		DB:        db,
		Prices:    store,
		Catalog:   cat,
		Dashboard: svc,
		Charts:    chart.NewRenderer(chart.NewCache(chart.DefaultTTL)),
	}, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}

// PriceStore picks the configured provider and puts the sqlite cache in
// front of it unless the TTL is zero.
func PriceStore(cfg *config.Config, cache market.PriceCache, log zerolog.Logger) market.PriceStore {
	var provider market.PriceStore
	switch cfg.PriceProvider {
	case config.ProviderYFinance:
		provider = market.NewYFinanceStore(log)
	default:
		provider = market.NewYahooClient(nil, log)
	}
	if cfg.PriceCacheTTL == 0 || cache == nil {
		return provider
	}
	return market.NewCachedStore(provider, cache, cfg.PriceCacheTTL, log)
}

// Searcher returns the name search chain: Yahoo lookup first, then OpenAI
// when a key is configured.
func Searcher(cfg *config.Config, log zerolog.Logger) catalog.Searcher {
	chain := catalog.Chain{catalog.NewYahooLookup()}
	if cfg.OpenAIKey != "" {
		chain = append(chain, openai.NewTickerResolver(cfg.OpenAIKey))
		log.Info().Msg("catalog: OpenAI name search enabled")
	}
	return chain
}
