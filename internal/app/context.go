// Package app holds the shared dependencies wired at startup.
package app

import (
	"log/slog"

	"github.com/soundgraph/soundgraph/internal/cache"
	"github.com/soundgraph/soundgraph/internal/store"
)

// AppContext bundles the ledger store, the optional counter cache and the
// logger for injection into services.
type AppContext struct {
	Store    store.Store
	Counters *cache.Counters // nil disables caching
	Logger   *slog.Logger
}

// New creates a new AppContext.
func New(st store.Store, counters *cache.Counters, logger *slog.Logger) *AppContext {
	return &AppContext{
		Store:    st,
		Counters: counters,
		Logger:   logger,
	}
}
