package record

import (
	"github.com/soundgraph/soundgraph/internal/addr"
	apperr "github.com/soundgraph/soundgraph/internal/errors"
)

// Playlist is addressed by (owner, name). TracksCount doubles as the next
// insertion position for PlaylistTrack records; both are updated inside the
// same transaction so the invariant survives concurrent additions.
type Playlist struct {
	Owner           addr.Identity
	Name            string
	Description     string
	IsPublic        bool
	IsCollaborative bool
	TracksCount     uint64
	LikesCount      uint64
	PlaysCount      uint64
	CreatedAt       int64
	UpdatedAt       int64
}

func (p *Playlist) Encode() ([]byte, error) {
	w := newWriter(KindPlaylist)
	w.id(p.Owner)
	w.str(p.Name, MaxPlaylistNameLen, apperr.ErrPlaylistNameTooLong)
	w.str(p.Description, MaxPlaylistDescLen, apperr.ErrPlaylistDescriptionTooLong)
	w.bool(p.IsPublic)
	w.bool(p.IsCollaborative)
	w.u64(p.TracksCount)
	w.u64(p.LikesCount)
	w.u64(p.PlaysCount)
	w.i64(p.CreatedAt)
	w.i64(p.UpdatedAt)
	return w.bytes()
}

func DecodePlaylist(b []byte) (*Playlist, error) {
	r := newReader(b, KindPlaylist)
	p := &Playlist{
		Owner:       r.id(),
		Name:        r.str(MaxPlaylistNameLen),
		Description: r.str(MaxPlaylistDescLen),
	}
	p.IsPublic = r.bool()
	p.IsCollaborative = r.bool()
	p.TracksCount = r.u64()
	p.LikesCount = r.u64()
	p.PlaysCount = r.u64()
	p.CreatedAt = r.i64()
	p.UpdatedAt = r.i64()
	if err := r.done(); err != nil {
		return nil, err
	}
	return p, nil
}

// PlaylistTrack is the membership edge for one track in one playlist.
// Position is assigned from the playlist's TracksCount at insertion time,
// giving append-only ordering.
type PlaylistTrack struct {
	Playlist addr.Address
	Track    addr.Address
	AddedBy  addr.Identity
	AddedAt  int64
	Position uint64
}

func (p *PlaylistTrack) Encode() ([]byte, error) {
	w := newWriter(KindPlaylistTrack)
	w.addr(p.Playlist)
	w.addr(p.Track)
	w.id(p.AddedBy)
	w.i64(p.AddedAt)
	w.u64(p.Position)
	return w.bytes()
}

func DecodePlaylistTrack(b []byte) (*PlaylistTrack, error) {
	r := newReader(b, KindPlaylistTrack)
	p := &PlaylistTrack{Playlist: r.addr(), Track: r.addr(), AddedBy: r.id()}
	p.AddedAt = r.i64()
	p.Position = r.u64()
	if err := r.done(); err != nil {
		return nil, err
	}
	return p, nil
}

// PlaylistCollaborator grants a capability bitmask over one playlist to one
// user. The bitmask semantics live in the perm package.
type PlaylistCollaborator struct {
	Playlist    addr.Address
	User        addr.Identity
	Permissions uint8
	AddedAt     int64
}

func (c *PlaylistCollaborator) Encode() ([]byte, error) {
	w := newWriter(KindPlaylistCollaborator)
	w.addr(c.Playlist)
	w.id(c.User)
	w.u8(c.Permissions)
	w.i64(c.AddedAt)
	return w.bytes()
}

func DecodePlaylistCollaborator(b []byte) (*PlaylistCollaborator, error) {
	r := newReader(b, KindPlaylistCollaborator)
	c := &PlaylistCollaborator{Playlist: r.addr(), User: r.id()}
	c.Permissions = r.u8()
	c.AddedAt = r.i64()
	if err := r.done(); err != nil {
		return nil, err
	}
	return c, nil
}
