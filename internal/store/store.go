// Package store defines the key-addressed ledger interface every component
// writes through. A record lives at exactly one derived address; Insert is
// the uniqueness lock (occupied address means the entity or edge already
// exists). Update runs its function as one atomic unit: either every write
// commits or none do, which is what makes paired counter updates safe.
package store

import "context"

import "github.com/soundgraph/soundgraph/internal/addr"

// Txn is the view of the ledger inside one transaction.
type Txn interface {
	// Get returns the record bytes at a, or ErrRecordNotFound.
	Get(a addr.Address) ([]byte, error)
	// Put writes data at a, creating or overwriting.
	Put(a addr.Address, data []byte) error
	// Insert writes data at a only if the address is unoccupied, otherwise
	// ErrRecordExists.
	Insert(a addr.Address, data []byte) error
	// Delete removes the record at a, or ErrRecordNotFound if absent.
	Delete(a addr.Address) error
}

// Store is the host ledger. Implementations serialize conflicting updates;
// callers never observe another operation's partial writes.
type Store interface {
	View(ctx context.Context, fn func(Txn) error) error
	Update(ctx context.Context, fn func(Txn) error) error
	Close() error
}
