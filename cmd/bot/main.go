package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockDashboard/internal/app"
	"stockDashboard/internal/config"
	"stockDashboard/internal/logger"
	"stockDashboard/internal/server"
	"stockDashboard/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	boot := logger.New(logger.Config{Level: "info"})
	if err != nil {
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := cfg.RequireBot(); err != nil {
		boot.Fatal().Err(err).Msg("bot configuration incomplete")
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise")
	}
	defer a.Close()

	tg, err := telegram.NewBot(cfg.TelegramToken, cfg.WebhookPublicURL, telegram.Deps{
		Catalog:       a.Catalog,
		Dashboard:     a.Dashboard,
		Charts:        a.Charts,
		DefaultPeriod: cfg.DefaultPeriod,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram: init failed")
	}

	// the bot process also serves the JSON API next to the webhook
	srv := server.New(server.Config{
		Addr:          ":" + cfg.Port,
		Log:           log,
		Catalog:       a.Catalog,
		Dashboard:     a.Dashboard,
		Charts:        a.Charts,
		DefaultPeriod: cfg.DefaultPeriod,
		Webhook:       tg.WebhookHandler,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
