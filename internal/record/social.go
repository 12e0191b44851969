package record

import (
	"github.com/soundgraph/soundgraph/internal/addr"
	apperr "github.com/soundgraph/soundgraph/internal/errors"
)

// Activity types recorded in the feed.
const (
	ActivityTrackLiked      uint8 = 1
	ActivityPlaylistLiked   uint8 = 2
	ActivityUserFollowed    uint8 = 3
	ActivityTrackCreated    uint8 = 4
	ActivityPlaylistCreated uint8 = 5
	ActivityTrackPlayed     uint8 = 6
)

// TrackLike exists at derive(user, track) while the like stands; existence
// is the whole signal.
type TrackLike struct {
	User      addr.Identity
	Track     addr.Address
	CreatedAt int64
}

func (l *TrackLike) Encode() ([]byte, error) {
	w := newWriter(KindTrackLike)
	w.id(l.User)
	w.addr(l.Track)
	w.i64(l.CreatedAt)
	return w.bytes()
}

func DecodeTrackLike(b []byte) (*TrackLike, error) {
	r := newReader(b, KindTrackLike)
	l := &TrackLike{User: r.id(), Track: r.addr()}
	l.CreatedAt = r.i64()
	if err := r.done(); err != nil {
		return nil, err
	}
	return l, nil
}

type PlaylistLike struct {
	User      addr.Identity
	Playlist  addr.Address
	CreatedAt int64
}

func (l *PlaylistLike) Encode() ([]byte, error) {
	w := newWriter(KindPlaylistLike)
	w.id(l.User)
	w.addr(l.Playlist)
	w.i64(l.CreatedAt)
	return w.bytes()
}

func DecodePlaylistLike(b []byte) (*PlaylistLike, error) {
	r := newReader(b, KindPlaylistLike)
	l := &PlaylistLike{User: r.id(), Playlist: r.addr()}
	l.CreatedAt = r.i64()
	if err := r.done(); err != nil {
		return nil, err
	}
	return l, nil
}

// UserFollow is the follower -> following edge; follower == following is
// rejected before the edge is ever derived.
type UserFollow struct {
	Follower  addr.Identity
	Following addr.Identity
	CreatedAt int64
}

func (f *UserFollow) Encode() ([]byte, error) {
	w := newWriter(KindUserFollow)
	w.id(f.Follower)
	w.id(f.Following)
	w.i64(f.CreatedAt)
	return w.bytes()
}

func DecodeUserFollow(b []byte) (*UserFollow, error) {
	r := newReader(b, KindUserFollow)
	f := &UserFollow{Follower: r.id(), Following: r.id()}
	f.CreatedAt = r.i64()
	if err := r.done(); err != nil {
		return nil, err
	}
	return f, nil
}

// ActivityFeed is an append-only log entry addressed by the owner's
// monotonic activity sequence.
type ActivityFeed struct {
	User         addr.Identity
	ActivityType uint8
	Target       addr.Address
	Metadata     string
	CreatedAt    int64
}

func (a *ActivityFeed) Encode() ([]byte, error) {
	w := newWriter(KindActivityFeed)
	w.id(a.User)
	w.u8(a.ActivityType)
	w.addr(a.Target)
	w.str(a.Metadata, MaxMetadataLen, apperr.ErrMetadataTooLong)
	w.i64(a.CreatedAt)
	return w.bytes()
}

func DecodeActivityFeed(b []byte) (*ActivityFeed, error) {
	r := newReader(b, KindActivityFeed)
	a := &ActivityFeed{User: r.id()}
	a.ActivityType = r.u8()
	a.Target = r.addr()
	a.Metadata = r.str(MaxMetadataLen)
	a.CreatedAt = r.i64()
	if err := r.done(); err != nil {
		return nil, err
	}
	return a, nil
}
