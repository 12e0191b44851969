// Package record defines the fixed-layout, versioned serialization for every
// entity in the graph. Encode enforces the declared maximum byte width of
// each variable-length field before any storage is touched; Decode rejects
// bytes that do not match the expected discriminant and layout version.
package record

import (
	"github.com/soundgraph/soundgraph/internal/addr"
	apperr "github.com/soundgraph/soundgraph/internal/errors"
)

// Field width bounds, in bytes.
const (
	MaxUsernameLen     = 32
	MaxDisplayNameLen  = 64
	MaxBioLen          = 256
	MaxImageURLLen     = 256
	MaxTrackTitleLen   = 128
	MaxArtistLen       = 64
	MaxAlbumLen        = 64
	MaxGenreLen        = 32
	MaxAudioURLLen     = 256
	MaxPlaylistNameLen = 64
	MaxPlaylistDescLen = 256
	MaxMetadataLen     = 64
	MaxSearchTermLen   = 64
	MaxReasonLen       = 128
)

// UserProfile is created once per identity at signup. The username is
// immutable after creation; only display name, bio and image may change.
type UserProfile struct {
	Owner          addr.Identity
	Username       string
	DisplayName    string
	Bio            string
	ImageURL       string
	FollowersCount uint64
	FollowingCount uint64
	CreatedAt      int64
}

func (p *UserProfile) Encode() ([]byte, error) {
	w := newWriter(KindUserProfile)
	w.id(p.Owner)
	w.str(p.Username, MaxUsernameLen, apperr.ErrUsernameTooLong)
	w.str(p.DisplayName, MaxDisplayNameLen, apperr.ErrDisplayNameTooLong)
	w.str(p.Bio, MaxBioLen, apperr.ErrBioTooLong)
	w.str(p.ImageURL, MaxImageURLLen, apperr.ErrProfileImageURLTooLong)
	w.u64(p.FollowersCount)
	w.u64(p.FollowingCount)
	w.i64(p.CreatedAt)
	return w.bytes()
}

func DecodeUserProfile(b []byte) (*UserProfile, error) {
	r := newReader(b, KindUserProfile)
	p := &UserProfile{
		Owner:       r.id(),
		Username:    r.str(MaxUsernameLen),
		DisplayName: r.str(MaxDisplayNameLen),
		Bio:         r.str(MaxBioLen),
		ImageURL:    r.str(MaxImageURLLen),
	}
	p.FollowersCount = r.u64()
	p.FollowingCount = r.u64()
	p.CreatedAt = r.i64()
	if err := r.done(); err != nil {
		return nil, err
	}
	return p, nil
}

// UserStats is co-created with the profile and mutated by most other
// operations. ActivityCount doubles as the monotonic sequence used to
// address activity feed entries; TotalListenTime accumulates the played
// duration reported to playTrack.
type UserStats struct {
	Owner              addr.Identity
	TracksCreated      uint64
	PlaylistsCreated   uint64
	TotalLikesReceived uint64
	TotalPlays         uint64
	TotalListenTime    uint64
	ActivityCount      uint64
	LastActive         int64
}

func (s *UserStats) Encode() ([]byte, error) {
	w := newWriter(KindUserStats)
	w.id(s.Owner)
	w.u64(s.TracksCreated)
	w.u64(s.PlaylistsCreated)
	w.u64(s.TotalLikesReceived)
	w.u64(s.TotalPlays)
	w.u64(s.TotalListenTime)
	w.u64(s.ActivityCount)
	w.i64(s.LastActive)
	return w.bytes()
}

func DecodeUserStats(b []byte) (*UserStats, error) {
	r := newReader(b, KindUserStats)
	s := &UserStats{Owner: r.id()}
	s.TracksCreated = r.u64()
	s.PlaylistsCreated = r.u64()
	s.TotalLikesReceived = r.u64()
	s.TotalPlays = r.u64()
	s.TotalListenTime = r.u64()
	s.ActivityCount = r.u64()
	s.LastActive = r.i64()
	if err := r.done(); err != nil {
		return nil, err
	}
	return s, nil
}
