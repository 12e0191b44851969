// Package graph implements the platform's operations on top of the
// key-addressed ledger. Every mutation validates its inputs first, then runs
// as a single store.Update: the edge inserts, the paired counter deltas and
// the activity entry commit together or not at all.
package graph

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/soundgraph/soundgraph/internal/addr"
	"github.com/soundgraph/soundgraph/internal/app"
	"github.com/soundgraph/soundgraph/internal/counter"
	apperr "github.com/soundgraph/soundgraph/internal/errors"
	"github.com/soundgraph/soundgraph/internal/record"
	"github.com/soundgraph/soundgraph/internal/store"
)

// storeTxn keeps operation bodies free of the package qualifier.
type storeTxn = store.Txn

// Service exposes the graph operations. It is safe for concurrent use; the
// store serializes conflicting updates.
type Service struct {
	appCtx *app.AppContext
}

// NewService creates the graph service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{appCtx: appCtx}
}

func (s *Service) now() int64 { return time.Now().Unix() }

// --- shared helpers ---

func validateLen(v string, max int, tooLong error) error {
	if len(v) > max {
		return tooLong
	}
	return nil
}

func validateRequired(v string, max int, empty, tooLong error) error {
	if v == "" {
		return empty
	}
	return validateLen(v, max, tooLong)
}

func requireIdentity(id addr.Identity) error {
	if id.IsZero() {
		return apperr.ErrInvalidAccount
	}
	return nil
}

// clip bounds free-form activity metadata to its field width, backing off to
// a rune boundary so the cut never leaves invalid UTF-8.
func clip(v string, max int) string {
	if len(v) <= max {
		return v
	}
	for max > 0 && !utf8.RuneStart(v[max]) {
		max--
	}
	return v[:max]
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// encodable lets the insert/put helpers work across all record types.
type encodable interface {
	Encode() ([]byte, error)
}

// insertRec encodes and inserts at a, translating an occupied address into
// existsErr (the edge-specific AlreadyX error) when provided.
func insertRec(tx store.Txn, a addr.Address, rec encodable, existsErr error) error {
	b, err := rec.Encode()
	if err != nil {
		return err
	}
	if err := tx.Insert(a, b); err != nil {
		if existsErr != nil && apperr.Is(err, apperr.ErrRecordExists) {
			return existsErr
		}
		return err
	}
	return nil
}

// putRec encodes and writes at a, creating or overwriting.
func putRec(tx store.Txn, a addr.Address, rec encodable) error {
	b, err := rec.Encode()
	if err != nil {
		return err
	}
	return tx.Put(a, b)
}

// loadProfile fetches a profile that must already exist. A missing profile
// means the caller referenced an identity that never signed up.
func loadProfile(tx store.Txn, owner addr.Identity) (*record.UserProfile, error) {
	b, err := tx.Get(addr.UserProfile(owner))
	if apperr.Is(err, apperr.ErrRecordNotFound) {
		return nil, apperr.ErrInvalidAccount
	}
	if err != nil {
		return nil, err
	}
	return record.DecodeUserProfile(b)
}

func loadStats(tx store.Txn, owner addr.Identity) (*record.UserStats, error) {
	b, err := tx.Get(addr.UserStats(owner))
	if apperr.Is(err, apperr.ErrRecordNotFound) {
		return nil, apperr.ErrInvalidAccount
	}
	if err != nil {
		return nil, err
	}
	return record.DecodeUserStats(b)
}

func loadTrack(tx store.Txn, a addr.Address) (*record.Track, error) {
	b, err := tx.Get(a)
	if err != nil {
		return nil, err
	}
	return record.DecodeTrack(b)
}

func loadPlaylist(tx store.Txn, a addr.Address) (*record.Playlist, error) {
	b, err := tx.Get(a)
	if err != nil {
		return nil, err
	}
	return record.DecodePlaylist(b)
}

// recordActivity appends a feed entry at the owner's current activity
// sequence, then advances the sequence. The checked increment makes the
// sequence collision-free for the lifetime of the account.
func recordActivity(tx store.Txn, stats *record.UserStats, activityType uint8, target addr.Address, metadata string, now int64) error {
	entry := &record.ActivityFeed{
		User:         stats.Owner,
		ActivityType: activityType,
		Target:       target,
		Metadata:     clip(metadata, record.MaxMetadataLen),
		CreatedAt:    now,
	}
	if err := insertRec(tx, addr.ActivityFeed(stats.Owner, stats.ActivityCount), entry, nil); err != nil {
		return err
	}
	return counter.Inc(&stats.ActivityCount)
}

// view/update shorthands so operations read as one transaction each.

func (s *Service) view(ctx context.Context, fn func(store.Txn) error) error {
	return s.appCtx.Store.View(ctx, fn)
}

func (s *Service) update(ctx context.Context, fn func(store.Txn) error) error {
	return s.appCtx.Store.Update(ctx, fn)
}

// lowerTerm normalizes a search term the way the index addresses it.
func lowerTerm(term string) string { return strings.ToLower(term) }
