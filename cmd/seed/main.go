package main

import (
	"context"
	"log"

	"github.com/soundgraph/soundgraph/internal/app"
	"github.com/soundgraph/soundgraph/internal/config"
	"github.com/soundgraph/soundgraph/internal/logger"
	"github.com/soundgraph/soundgraph/internal/seed"
	"github.com/soundgraph/soundgraph/internal/service/graph"
	"github.com/soundgraph/soundgraph/internal/store"
	"github.com/soundgraph/soundgraph/internal/store/badgerstore"
	"github.com/soundgraph/soundgraph/internal/store/sqlstore"
)

func main() {
	cfg := config.New()
	logger.Init(cfg)

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
			SyncWrites: true,
		})
	}
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	svc := graph.NewService(app.New(st, nil, logger.L()))
	if err := seed.Run(context.Background(), svc); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	log.Println("Seeding completed.")
}
