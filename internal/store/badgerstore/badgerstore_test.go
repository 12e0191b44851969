package badgerstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundgraph/soundgraph/internal/addr"
	apperr "github.com/soundgraph/soundgraph/internal/errors"
	"github.com/soundgraph/soundgraph/internal/store"
	"github.com/soundgraph/soundgraph/internal/store/badgerstore"
)

func setupStore(t *testing.T) *badgerstore.Store {
	t.Helper()
	st, err := badgerstore.Open(badgerstore.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestPutGet(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	a := addr.Derive("test", []byte("k"))

	require.NoError(t, st.Update(ctx, func(tx store.Txn) error {
		return tx.Put(a, []byte("v1"))
	}))

	var got []byte
	require.NoError(t, st.View(ctx, func(tx store.Txn) error {
		var err error
		got, err = tx.Get(a)
		return err
	}))
	assert.Equal(t, []byte("v1"), got)
}

func TestGetMissing(t *testing.T) {
	st := setupStore(t)
	err := st.View(context.Background(), func(tx store.Txn) error {
		_, err := tx.Get(addr.Derive("test", []byte("missing")))
		return err
	})
	assert.ErrorIs(t, err, apperr.ErrRecordNotFound)
}

func TestInsertRejectsOccupiedAddress(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	a := addr.Derive("test", []byte("k"))

	require.NoError(t, st.Update(ctx, func(tx store.Txn) error {
		return tx.Insert(a, []byte("v1"))
	}))

	err := st.Update(ctx, func(tx store.Txn) error {
		return tx.Insert(a, []byte("v2"))
	})
	assert.ErrorIs(t, err, apperr.ErrRecordExists)

	// The original value survives the failed insert.
	require.NoError(t, st.View(ctx, func(tx store.Txn) error {
		got, err := tx.Get(a)
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), got)
		return nil
	}))
}

func TestDeleteMissing(t *testing.T) {
	st := setupStore(t)
	err := st.Update(context.Background(), func(tx store.Txn) error {
		return tx.Delete(addr.Derive("test", []byte("missing")))
	})
	assert.ErrorIs(t, err, apperr.ErrRecordNotFound)
}

func TestUpdateRollsBackOnError(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	a := addr.Derive("test", []byte("k"))
	b := addr.Derive("test", []byte("k2"))

	sentinel := apperr.New("abort")
	err := st.Update(ctx, func(tx store.Txn) error {
		if err := tx.Put(a, []byte("v")); err != nil {
			return err
		}
		if err := tx.Put(b, []byte("v")); err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	// Neither write committed.
	require.NoError(t, st.View(ctx, func(tx store.Txn) error {
		_, errA := tx.Get(a)
		_, errB := tx.Get(b)
		assert.ErrorIs(t, errA, apperr.ErrRecordNotFound)
		assert.ErrorIs(t, errB, apperr.ErrRecordNotFound)
		return nil
	}))
}

func TestCancelledContext(t *testing.T) {
	st := setupStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := st.Update(ctx, func(tx store.Txn) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
