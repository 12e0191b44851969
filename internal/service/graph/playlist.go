package graph

import (
	"context"

	"github.com/soundgraph/soundgraph/internal/addr"
	"github.com/soundgraph/soundgraph/internal/counter"
	apperr "github.com/soundgraph/soundgraph/internal/errors"
	"github.com/soundgraph/soundgraph/internal/perm"
	"github.com/soundgraph/soundgraph/internal/record"
)

type CreatePlaylistParams struct {
	Name            string
	Description     string
	IsPublic        bool
	IsCollaborative bool
}

// CreatePlaylist creates a playlist addressed by (owner, name); an owner
// cannot reuse a playlist name.
func (s *Service) CreatePlaylist(ctx context.Context, owner addr.Identity, p CreatePlaylistParams) (addr.Address, *record.Playlist, error) {
	var zero addr.Address
	if err := firstErr(
		requireIdentity(owner),
		validateRequired(p.Name, record.MaxPlaylistNameLen, apperr.ErrPlaylistNameEmpty, apperr.ErrPlaylistNameTooLong),
		validateLen(p.Description, record.MaxPlaylistDescLen, apperr.ErrPlaylistDescriptionTooLong),
	); err != nil {
		return zero, nil, err
	}

	now := s.now()
	playlistAddr := addr.Playlist(owner, p.Name)
	playlist := &record.Playlist{
		Owner:           owner,
		Name:            p.Name,
		Description:     p.Description,
		IsPublic:        p.IsPublic,
		IsCollaborative: p.IsCollaborative,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.update(ctx, func(tx storeTxn) error {
		stats, err := loadStats(tx, owner)
		if err != nil {
			return err
		}
		if err := insertRec(tx, playlistAddr, playlist, nil); err != nil {
			return err
		}
		if err := counter.Inc(&stats.PlaylistsCreated); err != nil {
			return err
		}
		stats.LastActive = now
		if err := recordActivity(tx, stats, record.ActivityPlaylistCreated, playlistAddr, "Created playlist: "+p.Name, now); err != nil {
			return err
		}
		if err := putRec(tx, addr.UserStats(owner), stats); err != nil {
			return err
		}

		idx := &record.SearchIndex{
			Term:       lowerTerm(p.Name),
			TargetType: record.TargetPlaylist,
			Target:     playlistAddr,
			CreatedAt:  now,
		}
		return putRec(tx, addr.SearchIndex(idx.Term, idx.TargetType), idx)
	})
	if err != nil {
		return zero, nil, err
	}

	s.appCtx.Logger.Info("playlist created", "name", p.Name, "addr", playlistAddr)
	return playlistAddr, playlist, nil
}

// grantFor returns the actor's collaborator capability mask on the playlist,
// or zero when no collaborator record exists. Collaborator grants are only
// honored on playlists flagged collaborative.
func grantFor(tx storeTxn, playlist *record.Playlist, playlistAddr addr.Address, actor addr.Identity) (perm.Capability, error) {
	if !playlist.IsCollaborative {
		return 0, nil
	}
	b, err := tx.Get(addr.PlaylistCollaborator(playlistAddr, actor))
	if apperr.Is(err, apperr.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	collab, err := record.DecodePlaylistCollaborator(b)
	if err != nil {
		return 0, err
	}
	return perm.Capability(collab.Permissions), nil
}

// authorize resolves the uniform permission rule: the owner always may, a
// non-owner needs a collaborator grant covering the required capability.
func authorize(tx storeTxn, playlist *record.Playlist, playlistAddr addr.Address, actor addr.Identity, required perm.Capability, denied error) error {
	grant, err := grantFor(tx, playlist, playlistAddr, actor)
	if err != nil {
		return err
	}
	if !perm.Allowed(playlist.Owner == actor, grant, required) {
		return denied
	}
	return nil
}

// AddTrackToPlaylist appends a track. The membership record's position is
// the playlist's tracks_count at insertion time; count and position move
// together inside the transaction, which is what keeps the append-only
// ordering gap-free under concurrent adds.
func (s *Service) AddTrackToPlaylist(ctx context.Context, actor addr.Identity, playlistAddr, trackAddr addr.Address) (*record.PlaylistTrack, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}

	now := s.now()
	var entry *record.PlaylistTrack
	err := s.update(ctx, func(tx storeTxn) error {
		playlist, err := loadPlaylist(tx, playlistAddr)
		if err != nil {
			return err
		}
		if _, err := loadTrack(tx, trackAddr); err != nil {
			return err
		}
		if err := authorize(tx, playlist, playlistAddr, actor, perm.CapAddTracks, apperr.ErrNoPermissionToAddTrack); err != nil {
			return err
		}

		entry = &record.PlaylistTrack{
			Playlist: playlistAddr,
			Track:    trackAddr,
			AddedBy:  actor,
			AddedAt:  now,
			Position: playlist.TracksCount,
		}
		if err := insertRec(tx, addr.PlaylistTrack(playlistAddr, trackAddr), entry, apperr.ErrTrackAlreadyInPlaylist); err != nil {
			return err
		}

		if err := counter.Inc(&playlist.TracksCount); err != nil {
			return err
		}
		playlist.UpdatedAt = now
		return putRec(tx, playlistAddr, playlist)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RemoveTrackFromPlaylist deletes the membership record and reverses the
// count. Positions of remaining tracks are not compacted; ordering is
// append-only and removal leaves a gap.
func (s *Service) RemoveTrackFromPlaylist(ctx context.Context, actor addr.Identity, playlistAddr, trackAddr addr.Address) error {
	if err := requireIdentity(actor); err != nil {
		return err
	}

	now := s.now()
	return s.update(ctx, func(tx storeTxn) error {
		playlist, err := loadPlaylist(tx, playlistAddr)
		if err != nil {
			return err
		}
		if err := authorize(tx, playlist, playlistAddr, actor, perm.CapRemoveTracks, apperr.ErrNoPermissionToRemoveTrack); err != nil {
			return err
		}

		if err := tx.Delete(addr.PlaylistTrack(playlistAddr, trackAddr)); err != nil {
			if apperr.Is(err, apperr.ErrRecordNotFound) {
				return apperr.ErrTrackNotInPlaylist
			}
			return err
		}

		if err := counter.Dec(&playlist.TracksCount); err != nil {
			return err
		}
		playlist.UpdatedAt = now
		return putRec(tx, playlistAddr, playlist)
	})
}

type UpdatePlaylistParams struct {
	Description     *string
	IsPublic        *bool
	IsCollaborative *bool
}

// UpdatePlaylist edits playlist metadata. The name is immutable: the address
// is derived from it.
func (s *Service) UpdatePlaylist(ctx context.Context, actor addr.Identity, playlistAddr addr.Address, p UpdatePlaylistParams) (*record.Playlist, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	if p.Description != nil {
		if err := validateLen(*p.Description, record.MaxPlaylistDescLen, apperr.ErrPlaylistDescriptionTooLong); err != nil {
			return nil, err
		}
	}

	now := s.now()
	var playlist *record.Playlist
	err := s.update(ctx, func(tx storeTxn) error {
		var err error
		playlist, err = loadPlaylist(tx, playlistAddr)
		if err != nil {
			return err
		}
		if err := authorize(tx, playlist, playlistAddr, actor, perm.CapEditInfo, apperr.ErrNoPermissionToEditPlaylist); err != nil {
			return err
		}
		if p.Description != nil {
			playlist.Description = *p.Description
		}
		if p.IsPublic != nil {
			playlist.IsPublic = *p.IsPublic
		}
		if p.IsCollaborative != nil {
			playlist.IsCollaborative = *p.IsCollaborative
		}
		playlist.UpdatedAt = now
		return putRec(tx, playlistAddr, playlist)
	})
	if err != nil {
		return nil, err
	}
	return playlist, nil
}

// AddCollaborator installs a capability grant for a user on a playlist.
// Owner-only, and only on playlists flagged collaborative — the flag decides
// whether grants exist, the bitmask decides what each grant allows.
func (s *Service) AddCollaborator(ctx context.Context, owner addr.Identity, playlistAddr addr.Address, collaborator addr.Identity, mask perm.Capability) (*record.PlaylistCollaborator, error) {
	if err := firstErr(requireIdentity(owner), requireIdentity(collaborator)); err != nil {
		return nil, err
	}
	if err := perm.Validate(mask); err != nil {
		return nil, err
	}

	now := s.now()
	var collab *record.PlaylistCollaborator
	err := s.update(ctx, func(tx storeTxn) error {
		playlist, err := loadPlaylist(tx, playlistAddr)
		if err != nil {
			return err
		}
		if playlist.Owner != owner {
			return apperr.ErrUnauthorized
		}
		if !playlist.IsCollaborative {
			return apperr.ErrNotCollaborative
		}
		if _, err := loadProfile(tx, collaborator); err != nil {
			return err
		}

		collab = &record.PlaylistCollaborator{
			Playlist:    playlistAddr,
			User:        collaborator,
			Permissions: uint8(mask),
			AddedAt:     now,
		}
		return insertRec(tx, addr.PlaylistCollaborator(playlistAddr, collaborator), collab, apperr.ErrAlreadyCollaborator)
	})
	if err != nil {
		return nil, err
	}
	return collab, nil
}
