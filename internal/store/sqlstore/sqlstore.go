// Package sqlstore backs the ledger with a relational database through gorm.
// Records are rows in a single table keyed by address; the ON CONFLICT DO
// NOTHING insert gives the same occupied-address semantics as the embedded
// backend, and gorm transactions provide operation atomicity.
package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/soundgraph/soundgraph/internal/addr"
	apperr "github.com/soundgraph/soundgraph/internal/errors"
	"github.com/soundgraph/soundgraph/internal/store"
)

// Record is one ledger slot.
type Record struct {
	Address []byte `gorm:"primaryKey;size:32"`
	Data    []byte `gorm:"not null"`
}

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// Open connects using the given driver ("mysql" or "sqlite") and DSN, and
// migrates the records table.
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) View(ctx context.Context, fn func(store.Txn) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txn{tx: tx})
	})
}

func (s *Store) Update(ctx context.Context, fn func(store.Txn) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txn{tx: tx})
	})
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type txn struct {
	tx *gorm.DB
}

func (x *txn) Get(a addr.Address) ([]byte, error) {
	var rec Record
	err := x.tx.First(&rec, "address = ?", a[:]).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.Data, nil
}

func (x *txn) Put(a addr.Address, data []byte) error {
	rec := Record{Address: a[:], Data: data}
	return x.tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"data"}),
	}).Create(&rec).Error
}

func (x *txn) Insert(a addr.Address, data []byte) error {
	rec := Record{Address: a[:], Data: data}
	res := x.tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrRecordExists
	}
	return nil
}

func (x *txn) Delete(a addr.Address) error {
	res := x.tx.Delete(&Record{}, "address = ?", a[:])
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrRecordNotFound
	}
	return nil
}
