package record

import (
	"github.com/soundgraph/soundgraph/internal/addr"
	apperr "github.com/soundgraph/soundgraph/internal/errors"
)

// Track is addressed by (creator, title, artist); a creator cannot publish
// the same title/artist pair twice.
type Track struct {
	Title      string
	Artist     string
	Album      string
	Genre      string
	Duration   uint64 // seconds, must be > 0
	AudioURL   string
	CoverURL   string
	LikesCount uint64
	PlaysCount uint64
	CreatedBy  addr.Identity
	CreatedAt  int64
}

func (t *Track) Encode() ([]byte, error) {
	w := newWriter(KindTrack)
	w.str(t.Title, MaxTrackTitleLen, apperr.ErrTrackTitleTooLong)
	w.str(t.Artist, MaxArtistLen, apperr.ErrArtistNameTooLong)
	w.str(t.Album, MaxAlbumLen, apperr.ErrAlbumNameTooLong)
	w.str(t.Genre, MaxGenreLen, apperr.ErrGenreTooLong)
	w.u64(t.Duration)
	w.str(t.AudioURL, MaxAudioURLLen, apperr.ErrAudioURLTooLong)
	w.str(t.CoverURL, MaxImageURLLen, apperr.ErrCoverImageURLTooLong)
	w.u64(t.LikesCount)
	w.u64(t.PlaysCount)
	w.id(t.CreatedBy)
	w.i64(t.CreatedAt)
	return w.bytes()
}

func DecodeTrack(b []byte) (*Track, error) {
	r := newReader(b, KindTrack)
	t := &Track{
		Title:  r.str(MaxTrackTitleLen),
		Artist: r.str(MaxArtistLen),
		Album:  r.str(MaxAlbumLen),
		Genre:  r.str(MaxGenreLen),
	}
	t.Duration = r.u64()
	t.AudioURL = r.str(MaxAudioURLLen)
	t.CoverURL = r.str(MaxImageURLLen)
	t.LikesCount = r.u64()
	t.PlaysCount = r.u64()
	t.CreatedBy = r.id()
	t.CreatedAt = r.i64()
	if err := r.done(); err != nil {
		return nil, err
	}
	return t, nil
}

// TrackPlay aggregates all plays of one track by one user: a single record
// per (track, user) pair, not one row per play.
type TrackPlay struct {
	Track         addr.Address
	User          addr.Identity
	PlayCount     uint64
	TotalDuration uint64
	FirstPlayedAt int64
	LastPlayedAt  int64
}

func (p *TrackPlay) Encode() ([]byte, error) {
	w := newWriter(KindTrackPlay)
	w.addr(p.Track)
	w.id(p.User)
	w.u64(p.PlayCount)
	w.u64(p.TotalDuration)
	w.i64(p.FirstPlayedAt)
	w.i64(p.LastPlayedAt)
	return w.bytes()
}

func DecodeTrackPlay(b []byte) (*TrackPlay, error) {
	r := newReader(b, KindTrackPlay)
	p := &TrackPlay{Track: r.addr(), User: r.id()}
	p.PlayCount = r.u64()
	p.TotalDuration = r.u64()
	p.FirstPlayedAt = r.i64()
	p.LastPlayedAt = r.i64()
	if err := r.done(); err != nil {
		return nil, err
	}
	return p, nil
}
