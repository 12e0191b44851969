// Package badgerstore backs the ledger with BadgerDB, an embedded
// transactional key-value store. Badger's serializable transactions give the
// commit-fully-or-not-at-all semantics the operations rely on; its in-memory
// mode keeps tests free of disk I/O.
package badgerstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/soundgraph/soundgraph/internal/addr"
	apperr "github.com/soundgraph/soundgraph/internal/errors"
	"github.com/soundgraph/soundgraph/internal/store"
)

// Config holds the knobs we expose for a Badger instance.
type Config struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string
	// InMemory disables disk persistence. Used by tests and dev runs.
	InMemory bool
	// SyncWrites forces fsync on commit. On by default in production config.
	SyncWrites bool
	// Logger receives Badger's internal logging. Nil silences it.
	Logger *slog.Logger
}

// InMemoryConfig returns a config suitable for tests: no disk, no fsync.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

type Store struct {
	db *badger.DB
}

var _ store.Store = (*Store)(nil)

// Open creates or opens a Badger-backed ledger.
func Open(cfg Config) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", cfg.Path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) View(ctx context.Context, fn func(store.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(t *badger.Txn) error {
		return fn(&txn{t: t})
	})
}

func (s *Store) Update(ctx context.Context, fn func(store.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(t *badger.Txn) error {
		return fn(&txn{t: t})
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}

type txn struct {
	t *badger.Txn
}

func (x *txn) Get(a addr.Address) ([]byte, error) {
	item, err := x.t.Get(a[:])
	if err == badger.ErrKeyNotFound {
		return nil, apperr.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (x *txn) Put(a addr.Address, data []byte) error {
	return x.t.Set(a[:], data)
}

func (x *txn) Insert(a addr.Address, data []byte) error {
	_, err := x.t.Get(a[:])
	if err == nil {
		return apperr.ErrRecordExists
	}
	if err != badger.ErrKeyNotFound {
		return err
	}
	return x.t.Set(a[:], data)
}

func (x *txn) Delete(a addr.Address) error {
	if _, err := x.t.Get(a[:]); err != nil {
		if err == badger.ErrKeyNotFound {
			return apperr.ErrRecordNotFound
		}
		return err
	}
	return x.t.Delete(a[:])
}

// badgerLogger adapts slog to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
