package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/salestream/server/internal/config"
	"github.com/salestream/server/internal/database"
	salestreamHttp "github.com/salestream/server/internal/http"
	importHandler "github.com/salestream/server/internal/http/importcsv"
	channelHandler "github.com/salestream/server/internal/http/realtime"
	saleHandler "github.com/salestream/server/internal/http/sale"
	"github.com/salestream/server/internal/importer"
	"github.com/salestream/server/internal/realtime"
	"github.com/salestream/server/internal/sale"
	saleStore "github.com/salestream/server/internal/sale/store"
)

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	hub := realtime.NewHub()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	var (
		saleService   = sale.NewService(saleStore.New(db), hub)
		importService = importer.NewService()
	)

	var (
		saleH    = saleHandler.NewHandler(saleService)
		importH  = importHandler.NewHandler(importService, saleService)
		channelH = channelHandler.NewHandler(hub, cfg.HTTP.AllowedOrigin)
	)

	router := salestreamHttp.New(saleH, importH, channelH, cfg.HTTP.AllowedOrigin, cfg.Server.Timeout)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port, "origin", cfg.HTTP.AllowedOrigin)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
