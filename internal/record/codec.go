package record

import (
	"encoding/binary"
	"math"

	"github.com/soundgraph/soundgraph/internal/addr"
	apperr "github.com/soundgraph/soundgraph/internal/errors"
)

// Kind is the one-byte discriminant stored at the front of every record.
type Kind uint8

const (
	KindUserProfile Kind = iota + 1
	KindUserStats
	KindTrack
	KindTrackPlay
	KindPlaylist
	KindPlaylistTrack
	KindPlaylistCollaborator
	KindTrackLike
	KindPlaylistLike
	KindUserFollow
	KindActivityFeed
	KindSearchIndex
	KindUserInsights
	KindRecommendation
)

// layoutVersion is bumped whenever a field layout changes. Decode rejects
// records written under a different version.
const layoutVersion = 1

// writer builds a record image: kind byte, version byte, then fields in
// declaration order. The first failed bound check sticks and bytes() returns
// it; nothing is ever written to the store from a failed writer.
type writer struct {
	buf []byte
	err error
}

func newWriter(kind Kind) *writer {
	w := &writer{buf: make([]byte, 0, 128)}
	w.buf = append(w.buf, byte(kind), layoutVersion)
	return w
}

// str appends a length-prefixed string, failing with tooLong when the field
// exceeds its declared maximum byte width.
func (w *writer) str(s string, max int, tooLong error) {
	if w.err != nil {
		return
	}
	if len(s) > max {
		w.err = tooLong
		return
	}
	w.buf = binary.LittleEndian.AppendUint16(w.buf, uint16(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *writer) u64(v uint64) {
	if w.err == nil {
		w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
	}
}

func (w *writer) i64(v int64) { w.u64(uint64(v)) }

func (w *writer) u8(v uint8) {
	if w.err == nil {
		w.buf = append(w.buf, v)
	}
}

func (w *writer) bool(v bool) {
	b := uint8(0)
	if v {
		b = 1
	}
	w.u8(b)
}

func (w *writer) f32(v float32) {
	if w.err == nil {
		w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(v))
	}
}

func (w *writer) id(v addr.Identity) {
	if w.err == nil {
		w.buf = append(w.buf, v[:]...)
	}
}

func (w *writer) addr(v addr.Address) {
	if w.err == nil {
		w.buf = append(w.buf, v[:]...)
	}
}

func (w *writer) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf, nil
}

// reader walks a stored record image. Any mismatch — wrong kind, wrong
// version, truncated field, oversized string, trailing garbage — collapses
// into ErrCorruptRecord via done().
type reader struct {
	buf []byte
	off int
	err error
}

func newReader(b []byte, kind Kind) *reader {
	r := &reader{buf: b}
	if len(b) < 2 || Kind(b[0]) != kind || b[1] != layoutVersion {
		r.err = apperr.ErrCorruptRecord
		return r
	}
	r.off = 2
	return r
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.buf) {
		r.err = apperr.ErrCorruptRecord
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) str(max int) string {
	b := r.take(2)
	if r.err != nil {
		return ""
	}
	n := int(binary.LittleEndian.Uint16(b))
	if n > max {
		r.err = apperr.ErrCorruptRecord
		return ""
	}
	return string(r.take(n))
}

func (r *reader) u64() uint64 {
	b := r.take(8)
	if r.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *reader) i64() int64 { return int64(r.u64()) }

func (r *reader) u8() uint8 {
	b := r.take(1)
	if r.err != nil {
		return 0
	}
	return b[0]
}

func (r *reader) bool() bool { return r.u8() != 0 }

func (r *reader) f32() float32 {
	b := r.take(4)
	if r.err != nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func (r *reader) id() addr.Identity {
	var v addr.Identity
	copy(v[:], r.take(addr.Size))
	return v
}

func (r *reader) addr() addr.Address {
	var v addr.Address
	copy(v[:], r.take(addr.Size))
	return v
}

func (r *reader) done() error {
	if r.err != nil {
		return r.err
	}
	if r.off != len(r.buf) {
		return apperr.ErrCorruptRecord
	}
	return nil
}
