package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/soundgraph/soundgraph/internal/app"
	"github.com/soundgraph/soundgraph/internal/cache"
	"github.com/soundgraph/soundgraph/internal/config"
	"github.com/soundgraph/soundgraph/internal/logger"
	"github.com/soundgraph/soundgraph/internal/seed"
	"github.com/soundgraph/soundgraph/internal/server"
	"github.com/soundgraph/soundgraph/internal/service/graph"
	"github.com/soundgraph/soundgraph/internal/store"
	"github.com/soundgraph/soundgraph/internal/store/badgerstore"
	"github.com/soundgraph/soundgraph/internal/store/sqlstore"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.Init(cfg)
	log := logger.L()

	// Init ledger store
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Backend {
	case "sql":
		st, err = sqlstore.Open(cfg.DB.Driver, cfg.DB.DSN)
	default:
		st, err = badgerstore.Open(badgerstore.Config{
			Path:       cfg.Store.BadgerPath,
			InMemory:   cfg.Store.BadgerInMemory,
			SyncWrites: true,
			Logger:     log,
		})
	}
	if err != nil {
		log.Error("failed to open store", "backend", cfg.Store.Backend, "err", err)
		return
	}
	defer st.Close()

	// Init Redis counter cache
	counters := cache.NewCounters(cfg)
	if err := counters.Ping(context.Background()); err != nil {
		log.Warn("redis unavailable, counter caching disabled", "err", err)
		counters = nil
	}

	appCtx := app.New(st, counters, log)
	svc := graph.NewService(appCtx)

	if cfg.App.ENV == "development" {
		if err := seed.Run(context.Background(), svc); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(cfg, appCtx, svc)
	if err := srv.Run(ctx); err != nil {
		log.Error("http server failed", "err", err)
	}
}
