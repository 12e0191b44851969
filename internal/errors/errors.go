// Package errors defines the domain error taxonomy and centralizes the
// mapping to HTTP status codes. Keeps the service layer clean: handlers call
// errors.HTTPStatus instead of switching on sentinels themselves.
package errors

import "errors"

// Validation errors. Checked before any state is touched; an operation that
// fails validation never writes a record.
var (
	ErrUsernameTooLong            = errors.New("username cannot be longer than 32 bytes")
	ErrUsernameEmpty              = errors.New("username cannot be empty")
	ErrDisplayNameTooLong         = errors.New("display name cannot be longer than 64 bytes")
	ErrBioTooLong                 = errors.New("bio cannot be longer than 256 bytes")
	ErrProfileImageURLTooLong     = errors.New("profile image URL cannot be longer than 256 bytes")
	ErrPlaylistNameTooLong        = errors.New("playlist name cannot be longer than 64 bytes")
	ErrPlaylistNameEmpty          = errors.New("playlist name cannot be empty")
	ErrPlaylistDescriptionTooLong = errors.New("playlist description cannot be longer than 256 bytes")
	ErrTrackTitleTooLong          = errors.New("track title cannot be longer than 128 bytes")
	ErrTrackTitleEmpty            = errors.New("track title cannot be empty")
	ErrArtistNameTooLong          = errors.New("artist name cannot be longer than 64 bytes")
	ErrAlbumNameTooLong           = errors.New("album name cannot be longer than 64 bytes")
	ErrGenreTooLong               = errors.New("genre cannot be longer than 32 bytes")
	ErrAudioURLTooLong            = errors.New("audio URL cannot be longer than 256 bytes")
	ErrCoverImageURLTooLong       = errors.New("cover image URL cannot be longer than 256 bytes")
	ErrInvalidDuration            = errors.New("duration must be greater than 0")
	ErrMetadataTooLong            = errors.New("activity metadata cannot be longer than 64 bytes")
	ErrSearchTermTooLong          = errors.New("search term cannot be longer than 64 bytes")
	ErrSearchTermEmpty            = errors.New("search term cannot be empty")
	ErrReasonTooLong              = errors.New("reason cannot be longer than 128 bytes")
	ErrInvalidScore               = errors.New("score must be between 0.0 and 1.0")
	ErrInvalidPermissions         = errors.New("invalid permission bitmask")
	ErrInvalidTargetType          = errors.New("invalid target type")
	ErrInvalidAccount             = errors.New("invalid account provided")
)

// Arithmetic errors abort the whole operation; no counter is ever left
// half-updated.
var (
	ErrArithmeticOverflow  = errors.New("arithmetic overflow")
	ErrArithmeticUnderflow = errors.New("arithmetic underflow")
)

// Relationship and record errors. Uniqueness of an edge is a property of its
// derived address, so a duplicate edge surfaces as ErrRecordExists from the
// store and is translated to the edge-specific error by the service layer.
var (
	ErrRecordExists   = errors.New("record already exists at address")
	ErrRecordNotFound = errors.New("record not found")
	ErrCorruptRecord  = errors.New("stored bytes do not match record layout")

	ErrCannotFollowSelf       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing       = errors.New("already following this user")
	ErrNotFollowing           = errors.New("not following this user")
	ErrAlreadyLikedTrack      = errors.New("already liked this track")
	ErrTrackNotLiked          = errors.New("track not liked")
	ErrAlreadyLikedPlaylist   = errors.New("already liked this playlist")
	ErrPlaylistNotLiked       = errors.New("playlist not liked")
	ErrTrackAlreadyInPlaylist = errors.New("track is already in this playlist")
	ErrTrackNotInPlaylist     = errors.New("track is not in this playlist")
	ErrAlreadyCollaborator    = errors.New("user is already a collaborator")
)

// Permission errors.
var (
	ErrUnauthorized               = errors.New("unauthorized action")
	ErrNotCollaborative           = errors.New("playlist is not collaborative")
	ErrNoPermissionToAddTrack     = errors.New("no permission to add track to this playlist")
	ErrNoPermissionToRemoveTrack  = errors.New("no permission to remove track from this playlist")
	ErrNoPermissionToEditPlaylist = errors.New("no permission to edit this playlist")
)

var ErrNotImplemented = errors.New("feature not implemented")

var badRequest = []error{
	ErrUsernameTooLong, ErrUsernameEmpty, ErrDisplayNameTooLong, ErrBioTooLong,
	ErrProfileImageURLTooLong, ErrPlaylistNameTooLong, ErrPlaylistNameEmpty,
	ErrPlaylistDescriptionTooLong, ErrTrackTitleTooLong, ErrTrackTitleEmpty,
	ErrArtistNameTooLong, ErrAlbumNameTooLong, ErrGenreTooLong,
	ErrAudioURLTooLong, ErrCoverImageURLTooLong, ErrInvalidDuration,
	ErrMetadataTooLong, ErrSearchTermTooLong, ErrSearchTermEmpty,
	ErrReasonTooLong, ErrInvalidScore, ErrInvalidPermissions,
	ErrInvalidTargetType, ErrInvalidAccount, ErrCannotFollowSelf,
}

var conflict = []error{
	ErrRecordExists, ErrAlreadyFollowing, ErrAlreadyLikedTrack,
	ErrAlreadyLikedPlaylist, ErrTrackAlreadyInPlaylist, ErrAlreadyCollaborator,
	ErrArithmeticOverflow, ErrArithmeticUnderflow,
}

var notFound = []error{
	ErrRecordNotFound, ErrNotFollowing, ErrTrackNotLiked, ErrPlaylistNotLiked,
	ErrTrackNotInPlaylist,
}

var forbidden = []error{
	ErrUnauthorized, ErrNotCollaborative, ErrNoPermissionToAddTrack,
	ErrNoPermissionToRemoveTrack, ErrNoPermissionToEditPlaylist,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// HTTPStatus converts a domain error into an HTTP status code.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return 200
	case isAny(err, badRequest):
		return 400
	case isAny(err, forbidden):
		return 403
	case isAny(err, notFound):
		return 404
	case isAny(err, conflict):
		return 409
	case errors.Is(err, ErrNotImplemented):
		return 501
	default:
		return 500
	}
}

// IsValidation reports whether err belongs to the validation class.
func IsValidation(err error) bool { return isAny(err, badRequest) }

// Is, As and New re-exports so callers don't need both packages.
var (
	Is  = errors.Is
	As  = errors.As
	New = errors.New
)
