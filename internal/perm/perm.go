// Package perm models the capability bitmask that gates mutation of shared
// playlists. The rule is uniform for every capability: the owner always may;
// anyone else needs a collaborator grant whose mask includes the required
// bit. The playlist's collaborative flag only controls whether collaborators
// can be installed, it is never a blanket grant by itself.
package perm

import apperr "github.com/soundgraph/soundgraph/internal/errors"

// Capability is a set of discrete mutation rights over a playlist.
type Capability uint8

const (
	CapAddTracks    Capability = 1
	CapRemoveTracks Capability = 2
	CapEditInfo     Capability = 4
	CapAll          Capability = CapAddTracks | CapRemoveTracks | CapEditInfo
)

// Validate rejects bitmasks with bits outside the defined set.
func Validate(mask Capability) error {
	if mask > CapAll {
		return apperr.ErrInvalidPermissions
	}
	return nil
}

// Has reports whether the mask includes every bit of required.
func (c Capability) Has(required Capability) bool {
	return c&required == required
}

// Allowed decides whether an actor may exercise the required capability on a
// resource. isOwner is whether the actor owns the resource; grant is the
// actor's collaborator mask, or zero when no collaborator record exists.
func Allowed(isOwner bool, grant, required Capability) bool {
	return isOwner || grant.Has(required)
}
