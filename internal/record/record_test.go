package record_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundgraph/soundgraph/internal/addr"
	apperr "github.com/soundgraph/soundgraph/internal/errors"
	"github.com/soundgraph/soundgraph/internal/record"
)

var (
	alice = addr.IdentityFromSeed("alice")
	bob   = addr.IdentityFromSeed("bob")
)

func TestUserProfileRoundTrip(t *testing.T) {
	p := &record.UserProfile{
		Owner:          alice,
		Username:       "alice",
		DisplayName:    "Alice",
		Bio:            "likes long walks through dependency graphs",
		ImageURL:       "https://img.example/alice.png",
		FollowersCount: 7,
		FollowingCount: 3,
		CreatedAt:      1700000000,
	}
	b, err := p.Encode()
	require.NoError(t, err)

	got, err := record.DecodeUserProfile(b)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestUsernameBoundary(t *testing.T) {
	// 32 bytes is accepted, 33 is not.
	p := &record.UserProfile{Owner: alice, Username: strings.Repeat("a", record.MaxUsernameLen)}
	_, err := p.Encode()
	require.NoError(t, err)

	p.Username = strings.Repeat("a", record.MaxUsernameLen+1)
	_, err = p.Encode()
	assert.ErrorIs(t, err, apperr.ErrUsernameTooLong)
}

func TestUserStatsRoundTrip(t *testing.T) {
	s := &record.UserStats{
		Owner:              alice,
		TracksCreated:      2,
		PlaylistsCreated:   1,
		TotalLikesReceived: 12,
		TotalPlays:         300,
		TotalListenTime:    86400,
		ActivityCount:      9,
		LastActive:         1700000001,
	}
	b, err := s.Encode()
	require.NoError(t, err)

	got, err := record.DecodeUserStats(b)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestTrackRoundTrip(t *testing.T) {
	tr := &record.Track{
		Title:      "Difference Engine",
		Artist:     "Ada L.",
		Album:      "Analytical",
		Genre:      "electronic",
		Duration:   214,
		AudioURL:   "https://audio.example/de.ogg",
		CoverURL:   "https://img.example/de.png",
		LikesCount: 4,
		PlaysCount: 99,
		CreatedBy:  alice,
		CreatedAt:  1700000002,
	}
	b, err := tr.Encode()
	require.NoError(t, err)

	got, err := record.DecodeTrack(b)
	require.NoError(t, err)
	assert.Equal(t, tr, got)
}

func TestTrackTitleBound(t *testing.T) {
	tr := &record.Track{Title: strings.Repeat("x", record.MaxTrackTitleLen+1), CreatedBy: alice}
	_, err := tr.Encode()
	assert.ErrorIs(t, err, apperr.ErrTrackTitleTooLong)
}

func TestPlaylistRoundTrip(t *testing.T) {
	p := &record.Playlist{
		Owner:           alice,
		Name:            "late night graphs",
		Description:     "for debugging after midnight",
		IsPublic:        true,
		IsCollaborative: true,
		TracksCount:     3,
		LikesCount:      1,
		CreatedAt:       1700000003,
		UpdatedAt:       1700000004,
	}
	b, err := p.Encode()
	require.NoError(t, err)

	got, err := record.DecodePlaylist(b)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestPlaylistCollaboratorRoundTrip(t *testing.T) {
	c := &record.PlaylistCollaborator{
		Playlist:    addr.Playlist(alice, "shared"),
		User:        bob,
		Permissions: 3,
		AddedAt:     1700000005,
	}
	b, err := c.Encode()
	require.NoError(t, err)

	got, err := record.DecodePlaylistCollaborator(b)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestActivityFeedRoundTrip(t *testing.T) {
	a := &record.ActivityFeed{
		User:         alice,
		ActivityType: record.ActivityTrackLiked,
		Target:       addr.Track(bob, "Song", "Bob"),
		Metadata:     "Liked track: Song",
		CreatedAt:    1700000006,
	}
	b, err := a.Encode()
	require.NoError(t, err)

	got, err := record.DecodeActivityFeed(b)
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestUserInsightsRoundTrip(t *testing.T) {
	i := &record.UserInsights{
		User:               alice,
		TotalListeningTime: 12345,
		FavoriteGenre:      record.InsightGenreUnavailable,
		DiscoveryScore:     0.25,
		SocialEngagement:   0.5,
		GeneratedAt:        1700000007,
	}
	b, err := i.Encode()
	require.NoError(t, err)

	got, err := record.DecodeUserInsights(b)
	require.NoError(t, err)
	assert.Equal(t, i, got)
}

func TestRecommendationRoundTrip(t *testing.T) {
	c := &record.Recommendation{
		User:      alice,
		Type:      record.TargetTrack,
		Target:    addr.Track(bob, "Song", "Bob"),
		Score:     0.91,
		Reason:    "because you played Kernel Panic on repeat",
		CreatedAt: 1700000008,
		IsViewed:  true,
	}
	b, err := c.Encode()
	require.NoError(t, err)

	got, err := record.DecodeRecommendation(b)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestDecodeRejectsWrongKind(t *testing.T) {
	p := &record.UserProfile{Owner: alice, Username: "alice"}
	b, err := p.Encode()
	require.NoError(t, err)

	_, err = record.DecodeTrack(b)
	assert.ErrorIs(t, err, apperr.ErrCorruptRecord)
}

func TestDecodeRejectsTruncated(t *testing.T) {
	s := &record.UserStats{Owner: alice, TracksCreated: 1}
	b, err := s.Encode()
	require.NoError(t, err)

	_, err = record.DecodeUserStats(b[:len(b)-3])
	assert.ErrorIs(t, err, apperr.ErrCorruptRecord)
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	l := &record.TrackLike{User: alice, Track: addr.Track(bob, "Song", "Bob"), CreatedAt: 1}
	b, err := l.Encode()
	require.NoError(t, err)

	_, err = record.DecodeTrackLike(append(b, 0xFF))
	assert.ErrorIs(t, err, apperr.ErrCorruptRecord)
}

func TestDecodeRejectsWrongVersion(t *testing.T) {
	f := &record.UserFollow{Follower: alice, Following: bob, CreatedAt: 1}
	b, err := f.Encode()
	require.NoError(t, err)

	b[1] = 99
	_, err = record.DecodeUserFollow(b)
	assert.ErrorIs(t, err, apperr.ErrCorruptRecord)
}

func TestDecodeRejectsEmpty(t *testing.T) {
	_, err := record.DecodeUserProfile(nil)
	assert.ErrorIs(t, err, apperr.ErrCorruptRecord)
}

func TestValidTargetType(t *testing.T) {
	assert.True(t, record.ValidTargetType(record.TargetTrack))
	assert.True(t, record.ValidTargetType(record.TargetPlaylist))
	assert.True(t, record.ValidTargetType(record.TargetUser))
	assert.False(t, record.ValidTargetType(0))
	assert.False(t, record.ValidTargetType(4))
}
