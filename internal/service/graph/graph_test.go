package graph_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundgraph/soundgraph/internal/addr"
	"github.com/soundgraph/soundgraph/internal/app"
	"github.com/soundgraph/soundgraph/internal/cache"
	"github.com/soundgraph/soundgraph/internal/config"
	apperr "github.com/soundgraph/soundgraph/internal/errors"
	"github.com/soundgraph/soundgraph/internal/perm"
	"github.com/soundgraph/soundgraph/internal/record"
	"github.com/soundgraph/soundgraph/internal/service/graph"
	"github.com/soundgraph/soundgraph/internal/store/badgerstore"
)

var (
	alice = addr.IdentityFromSeed("alice")
	bob   = addr.IdentityFromSeed("bob")
	carol = addr.IdentityFromSeed("carol")
)

// setupService wires an in-memory ledger, a miniredis counter cache and a
// discard logger into a fresh service. Each test gets its own isolated state.
func setupService(t *testing.T) *graph.Service {
	t.Helper()

	st, err := badgerstore.Open(badgerstore.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	counters := cache.NewCounters(cfg)
	t.Cleanup(func() { counters.Client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return graph.NewService(app.New(st, counters, logger))
}

func mustUser(t *testing.T, svc *graph.Service, id addr.Identity, username string) {
	t.Helper()
	_, err := svc.CreateUserProfile(context.Background(), id, graph.CreateUserProfileParams{Username: username})
	require.NoError(t, err)
}

func mustTrack(t *testing.T, svc *graph.Service, creator addr.Identity, title string) addr.Address {
	t.Helper()
	a, _, err := svc.CreateTrack(context.Background(), creator, graph.CreateTrackParams{
		Title:    title,
		Artist:   "Artist",
		Duration: 180,
	})
	require.NoError(t, err)
	return a
}

//
// Users
//

func TestCreateUserProfile(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	profile, err := svc.CreateUserProfile(ctx, alice, graph.CreateUserProfileParams{
		Username:    "alice",
		DisplayName: "Alice",
		Bio:         "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.NotZero(t, profile.CreatedAt)

	// Stats record created alongside.
	stats, err := svc.GetUserStats(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, alice, stats.Owner)
	assert.Zero(t, stats.TracksCreated)
}

func TestCreateUserProfileDuplicate(t *testing.T) {
	svc := setupService(t)
	mustUser(t, svc, alice, "alice")

	_, err := svc.CreateUserProfile(context.Background(), alice, graph.CreateUserProfileParams{Username: "alice2"})
	assert.ErrorIs(t, err, apperr.ErrRecordExists)
}

func TestCreateUserProfileValidation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.CreateUserProfile(ctx, alice, graph.CreateUserProfileParams{Username: ""})
	assert.ErrorIs(t, err, apperr.ErrUsernameEmpty)

	// 32 bytes passes, 33 fails.
	_, err = svc.CreateUserProfile(ctx, alice, graph.CreateUserProfileParams{Username: strings.Repeat("a", 32)})
	assert.NoError(t, err)
	_, err = svc.CreateUserProfile(ctx, bob, graph.CreateUserProfileParams{Username: strings.Repeat("a", 33)})
	assert.ErrorIs(t, err, apperr.ErrUsernameTooLong)

	var zero addr.Identity
	_, err = svc.CreateUserProfile(ctx, zero, graph.CreateUserProfileParams{Username: "z"})
	assert.ErrorIs(t, err, apperr.ErrInvalidAccount)
}

func TestUpdateUserProfilePartial(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")

	bio := "new bio"
	profile, err := svc.UpdateUserProfile(ctx, alice, graph.UpdateUserProfileParams{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "new bio", profile.Bio)
	assert.Equal(t, "alice", profile.Username)

	_, err = svc.UpdateUserProfile(ctx, bob, graph.UpdateUserProfileParams{Bio: &bio})
	assert.ErrorIs(t, err, apperr.ErrInvalidAccount)
}

//
// Tracks
//

func TestCreateTrack(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")

	trackAddr, track, err := svc.CreateTrack(ctx, alice, graph.CreateTrackParams{
		Title:    "Difference Engine",
		Artist:   "Ada L.",
		Genre:    "electronic",
		Duration: 214,
	})
	require.NoError(t, err)
	assert.Equal(t, alice, track.CreatedBy)

	stats, err := svc.GetUserStats(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.TracksCreated)
	assert.Equal(t, uint64(1), stats.ActivityCount)

	got, err := svc.GetTrack(ctx, trackAddr)
	require.NoError(t, err)
	assert.Equal(t, track.Title, got.Title)
}

func TestCreateTrackDuplicatePerOwner(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")
	mustUser(t, svc, bob, "bob")

	params := graph.CreateTrackParams{Title: "Song", Artist: "Artist", Duration: 100}
	_, _, err := svc.CreateTrack(ctx, alice, params)
	require.NoError(t, err)

	// Same creator, same (title, artist): occupied address.
	_, _, err = svc.CreateTrack(ctx, alice, params)
	assert.ErrorIs(t, err, apperr.ErrRecordExists)

	// A different creator may publish the same pair.
	_, _, err = svc.CreateTrack(ctx, bob, params)
	assert.NoError(t, err)
}

func TestCreateTrackValidation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")

	_, _, err := svc.CreateTrack(ctx, alice, graph.CreateTrackParams{Title: "", Duration: 1})
	assert.ErrorIs(t, err, apperr.ErrTrackTitleEmpty)

	_, _, err = svc.CreateTrack(ctx, alice, graph.CreateTrackParams{Title: "t", Duration: 0})
	assert.ErrorIs(t, err, apperr.ErrInvalidDuration)
}

func TestPlayTrackAggregates(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")
	mustUser(t, svc, bob, "bob")
	trackAddr := mustTrack(t, svc, alice, "Song")

	for i := 0; i < 3; i++ {
		_, err := svc.PlayTrack(ctx, bob, trackAddr, 60)
		require.NoError(t, err)
	}

	play, err := svc.GetTrackPlay(ctx, trackAddr, bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), play.PlayCount)
	assert.Equal(t, uint64(180), play.TotalDuration)
	assert.NotZero(t, play.FirstPlayedAt)

	track, err := svc.GetTrack(ctx, trackAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), track.PlaysCount)

	// Creator's mirror and listener's accumulation.
	creatorStats, err := svc.GetUserStats(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), creatorStats.TotalPlays)

	listenerStats, err := svc.GetUserStats(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(180), listenerStats.TotalListenTime)
}

func TestPlayOwnTrack(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")
	trackAddr := mustTrack(t, svc, alice, "Song")

	_, err := svc.PlayTrack(ctx, alice, trackAddr, 30)
	require.NoError(t, err)

	stats, err := svc.GetUserStats(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.TotalPlays)
	assert.Equal(t, uint64(30), stats.TotalListenTime)
}

//
// Likes
//

func TestLikeTrack(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")
	mustUser(t, svc, bob, "bob")
	trackAddr := mustTrack(t, svc, alice, "Song")

	require.NoError(t, svc.LikeTrack(ctx, bob, trackAddr))

	liked, err := svc.HasLikedTrack(ctx, bob, trackAddr)
	require.NoError(t, err)
	assert.True(t, liked)

	track, err := svc.GetTrack(ctx, trackAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), track.LikesCount)

	stats, err := svc.GetUserStats(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.TotalLikesReceived)
}

func TestLikeTrackTwiceFails(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")
	mustUser(t, svc, bob, "bob")
	trackAddr := mustTrack(t, svc, alice, "Song")

	require.NoError(t, svc.LikeTrack(ctx, bob, trackAddr))
	err := svc.LikeTrack(ctx, bob, trackAddr)
	assert.ErrorIs(t, err, apperr.ErrAlreadyLikedTrack)

	// Count stayed at 1: the failed transaction committed nothing.
	track, err := svc.GetTrack(ctx, trackAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), track.LikesCount)
}

func TestUnlikeTrack(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")
	mustUser(t, svc, bob, "bob")
	trackAddr := mustTrack(t, svc, alice, "Song")

	err := svc.UnlikeTrack(ctx, bob, trackAddr)
	assert.ErrorIs(t, err, apperr.ErrTrackNotLiked)

	require.NoError(t, svc.LikeTrack(ctx, bob, trackAddr))
	require.NoError(t, svc.UnlikeTrack(ctx, bob, trackAddr))

	track, err := svc.GetTrack(ctx, trackAddr)
	require.NoError(t, err)
	assert.Zero(t, track.LikesCount)

	stats, err := svc.GetUserStats(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalLikesReceived)

	// The edge is gone, so liking again succeeds.
	require.NoError(t, svc.LikeTrack(ctx, bob, trackAddr))
}

func TestLikePlaylist(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")
	mustUser(t, svc, bob, "bob")

	playlistAddr, _, err := svc.CreatePlaylist(ctx, alice, graph.CreatePlaylistParams{Name: "mix"})
	require.NoError(t, err)

	require.NoError(t, svc.LikePlaylist(ctx, bob, playlistAddr))
	assert.ErrorIs(t, svc.LikePlaylist(ctx, bob, playlistAddr), apperr.ErrAlreadyLikedPlaylist)

	playlist, err := svc.GetPlaylist(ctx, playlistAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), playlist.LikesCount)

	stats, err := svc.GetUserStats(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.TotalLikesReceived)

	require.NoError(t, svc.UnlikePlaylist(ctx, bob, playlistAddr))
	assert.ErrorIs(t, svc.UnlikePlaylist(ctx, bob, playlistAddr), apperr.ErrPlaylistNotLiked)
}

//
// Follows
//

func TestFollowUser(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")
	mustUser(t, svc, bob, "bob")

	require.NoError(t, svc.FollowUser(ctx, alice, bob))

	following, err := svc.IsFollowing(ctx, alice, bob)
	require.NoError(t, err)
	assert.True(t, following)

	// Directional: bob does not follow alice.
	reverse, err := svc.IsFollowing(ctx, bob, alice)
	require.NoError(t, err)
	assert.False(t, reverse)

	aliceProfile, err := svc.GetUserProfile(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), aliceProfile.FollowingCount)
	assert.Zero(t, aliceProfile.FollowersCount)

	bobProfile, err := svc.GetUserProfile(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), bobProfile.FollowersCount)
}

func TestFollowSelf(t *testing.T) {
	svc := setupService(t)
	mustUser(t, svc, alice, "alice")
	assert.ErrorIs(t, svc.FollowUser(context.Background(), alice, alice), apperr.ErrCannotFollowSelf)
}

func TestFollowTwiceFails(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")
	mustUser(t, svc, bob, "bob")

	require.NoError(t, svc.FollowUser(ctx, alice, bob))
	assert.ErrorIs(t, svc.FollowUser(ctx, alice, bob), apperr.ErrAlreadyFollowing)

	bobProfile, err := svc.GetUserProfile(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), bobProfile.FollowersCount)
}

func TestFollowUnknownUser(t *testing.T) {
	svc := setupService(t)
	mustUser(t, svc, alice, "alice")
	assert.ErrorIs(t, svc.FollowUser(context.Background(), alice, bob), apperr.ErrInvalidAccount)
}

func TestUnfollowUser(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")
	mustUser(t, svc, bob, "bob")

	assert.ErrorIs(t, svc.UnfollowUser(ctx, alice, bob), apperr.ErrNotFollowing)

	require.NoError(t, svc.FollowUser(ctx, alice, bob))
	require.NoError(t, svc.UnfollowUser(ctx, alice, bob))

	bobProfile, err := svc.GetUserProfile(ctx, bob)
	require.NoError(t, err)
	assert.Zero(t, bobProfile.FollowersCount)

	aliceProfile, err := svc.GetUserProfile(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, aliceProfile.FollowingCount)
}

//
// Playlists
//

func TestPlaylistTrackPositions(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")

	playlistAddr, _, err := svc.CreatePlaylist(ctx, alice, graph.CreatePlaylistParams{Name: "mix"})
	require.NoError(t, err)

	for i, title := range []string{"one", "two", "three"} {
		trackAddr := mustTrack(t, svc, alice, title)
		entry, err := svc.AddTrackToPlaylist(ctx, alice, playlistAddr, trackAddr)
		require.NoError(t, err)
		assert.Equal(t, uint64(i), entry.Position)
	}

	playlist, err := svc.GetPlaylist(ctx, playlistAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), playlist.TracksCount)
}

func TestAddTrackToPlaylistDuplicate(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")

	playlistAddr, _, err := svc.CreatePlaylist(ctx, alice, graph.CreatePlaylistParams{Name: "mix"})
	require.NoError(t, err)
	trackAddr := mustTrack(t, svc, alice, "Song")

	_, err = svc.AddTrackToPlaylist(ctx, alice, playlistAddr, trackAddr)
	require.NoError(t, err)
	_, err = svc.AddTrackToPlaylist(ctx, alice, playlistAddr, trackAddr)
	assert.ErrorIs(t, err, apperr.ErrTrackAlreadyInPlaylist)
}

func TestRemoveTrackFromPlaylist(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")

	playlistAddr, _, err := svc.CreatePlaylist(ctx, alice, graph.CreatePlaylistParams{Name: "mix"})
	require.NoError(t, err)
	trackAddr := mustTrack(t, svc, alice, "Song")

	err = svc.RemoveTrackFromPlaylist(ctx, alice, playlistAddr, trackAddr)
	assert.ErrorIs(t, err, apperr.ErrTrackNotInPlaylist)

	_, err = svc.AddTrackToPlaylist(ctx, alice, playlistAddr, trackAddr)
	require.NoError(t, err)
	require.NoError(t, svc.RemoveTrackFromPlaylist(ctx, alice, playlistAddr, trackAddr))

	playlist, err := svc.GetPlaylist(ctx, playlistAddr)
	require.NoError(t, err)
	assert.Zero(t, playlist.TracksCount)
}

func TestCollaboratorPermissions(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")
	mustUser(t, svc, bob, "bob")
	mustUser(t, svc, carol, "carol")

	playlistAddr, _, err := svc.CreatePlaylist(ctx, alice, graph.CreatePlaylistParams{
		Name:            "shared",
		IsCollaborative: true,
	})
	require.NoError(t, err)
	track1 := mustTrack(t, svc, alice, "one")
	track2 := mustTrack(t, svc, alice, "two")

	// Only the owner may install collaborators.
	_, err = svc.AddCollaborator(ctx, bob, playlistAddr, carol, perm.CapAll)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	// Bob gets add-only.
	_, err = svc.AddCollaborator(ctx, alice, playlistAddr, bob, perm.CapAddTracks)
	require.NoError(t, err)
	_, err = svc.AddCollaborator(ctx, alice, playlistAddr, bob, perm.CapAll)
	assert.ErrorIs(t, err, apperr.ErrAlreadyCollaborator)

	// Bob can add but not remove or edit.
	_, err = svc.AddTrackToPlaylist(ctx, bob, playlistAddr, track1)
	require.NoError(t, err)
	err = svc.RemoveTrackFromPlaylist(ctx, bob, playlistAddr, track1)
	assert.ErrorIs(t, err, apperr.ErrNoPermissionToRemoveTrack)
	desc := "edited"
	_, err = svc.UpdatePlaylist(ctx, bob, playlistAddr, graph.UpdatePlaylistParams{Description: &desc})
	assert.ErrorIs(t, err, apperr.ErrNoPermissionToEditPlaylist)

	// Carol has no grant at all.
	_, err = svc.AddTrackToPlaylist(ctx, carol, playlistAddr, track2)
	assert.ErrorIs(t, err, apperr.ErrNoPermissionToAddTrack)

	// The owner may do everything without a grant.
	require.NoError(t, svc.RemoveTrackFromPlaylist(ctx, alice, playlistAddr, track1))
}

func TestAddCollaboratorRequiresCollaborativeFlag(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")
	mustUser(t, svc, bob, "bob")

	playlistAddr, _, err := svc.CreatePlaylist(ctx, alice, graph.CreatePlaylistParams{Name: "solo"})
	require.NoError(t, err)

	_, err = svc.AddCollaborator(ctx, alice, playlistAddr, bob, perm.CapAddTracks)
	assert.ErrorIs(t, err, apperr.ErrNotCollaborative)
}

func TestAddCollaboratorValidatesMask(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")
	mustUser(t, svc, bob, "bob")

	playlistAddr, _, err := svc.CreatePlaylist(ctx, alice, graph.CreatePlaylistParams{
		Name:            "shared",
		IsCollaborative: true,
	})
	require.NoError(t, err)

	_, err = svc.AddCollaborator(ctx, alice, playlistAddr, bob, perm.Capability(8))
	assert.ErrorIs(t, err, apperr.ErrInvalidPermissions)
}

func TestCollaboratorGrantIgnoredWhenFlagCleared(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")
	mustUser(t, svc, bob, "bob")

	playlistAddr, _, err := svc.CreatePlaylist(ctx, alice, graph.CreatePlaylistParams{
		Name:            "shared",
		IsCollaborative: true,
	})
	require.NoError(t, err)
	_, err = svc.AddCollaborator(ctx, alice, playlistAddr, bob, perm.CapAll)
	require.NoError(t, err)

	// Owner turns collaboration off; bob's grant no longer applies.
	off := false
	_, err = svc.UpdatePlaylist(ctx, alice, playlistAddr, graph.UpdatePlaylistParams{IsCollaborative: &off})
	require.NoError(t, err)

	track := mustTrack(t, svc, alice, "Song")
	_, err = svc.AddTrackToPlaylist(ctx, bob, playlistAddr, track)
	assert.ErrorIs(t, err, apperr.ErrNoPermissionToAddTrack)
}

//
// Discovery
//

func TestSearchIndexCaseInsensitive(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")
	trackAddr := mustTrack(t, svc, alice, "Kernel Panic")

	// CreateTrack indexed the lower-cased title.
	idx, err := svc.Search(ctx, "KERNEL PANIC", record.TargetTrack)
	require.NoError(t, err)
	assert.Equal(t, trackAddr, idx.Target)
	assert.Equal(t, "kernel panic", idx.Term)
}

func TestSearchIndexLastWriterWins(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")
	track1 := mustTrack(t, svc, alice, "one")
	track2 := mustTrack(t, svc, alice, "two")

	_, err := svc.CreateSearchIndex(ctx, "shared term", record.TargetTrack, track1)
	require.NoError(t, err)
	_, err = svc.CreateSearchIndex(ctx, "Shared Term", record.TargetTrack, track2)
	require.NoError(t, err)

	idx, err := svc.Search(ctx, "shared term", record.TargetTrack)
	require.NoError(t, err)
	assert.Equal(t, track2, idx.Target)
}

func TestSearchValidation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Search(ctx, "", record.TargetTrack)
	assert.ErrorIs(t, err, apperr.ErrSearchTermEmpty)

	// 64 bytes is the last accepted width.
	_, err = svc.Search(ctx, strings.Repeat("a", record.MaxSearchTermLen+1), record.TargetTrack)
	assert.ErrorIs(t, err, apperr.ErrSearchTermTooLong)
	_, err = svc.Search(ctx, strings.Repeat("a", record.MaxSearchTermLen), record.TargetTrack)
	assert.ErrorIs(t, err, apperr.ErrRecordNotFound)

	_, err = svc.Search(ctx, "term", 9)
	assert.ErrorIs(t, err, apperr.ErrInvalidTargetType)

	_, err = svc.Search(ctx, "no such term", record.TargetTrack)
	assert.ErrorIs(t, err, apperr.ErrRecordNotFound)
}

func TestRecommendationLifecycle(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")
	mustUser(t, svc, bob, "bob")
	trackAddr := mustTrack(t, svc, alice, "Song")

	_, err := svc.CreateRecommendation(ctx, bob, graph.CreateRecommendationParams{
		Type:   record.TargetTrack,
		Target: trackAddr,
		Score:  1.5,
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidScore)

	rec, err := svc.CreateRecommendation(ctx, bob, graph.CreateRecommendationParams{
		Type:   record.TargetTrack,
		Target: trackAddr,
		Score:  0.9,
		Reason: "similar listeners",
	})
	require.NoError(t, err)
	assert.False(t, rec.IsViewed)

	_, err = svc.CreateRecommendation(ctx, bob, graph.CreateRecommendationParams{
		Type:   record.TargetTrack,
		Target: trackAddr,
		Score:  0.2,
	})
	assert.ErrorIs(t, err, apperr.ErrRecordExists)

	viewed, err := svc.MarkRecommendationViewed(ctx, bob, trackAddr, record.TargetTrack)
	require.NoError(t, err)
	assert.True(t, viewed.IsViewed)

	// Idempotent.
	viewed, err = svc.MarkRecommendationViewed(ctx, bob, trackAddr, record.TargetTrack)
	require.NoError(t, err)
	assert.True(t, viewed.IsViewed)
}

func TestGenerateUserInsights(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")
	mustUser(t, svc, bob, "bob")
	trackAddr := mustTrack(t, svc, alice, "Song")
	_, err := svc.PlayTrack(ctx, bob, trackAddr, 120)
	require.NoError(t, err)

	insights, err := svc.GenerateUserInsights(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(120), insights.TotalListeningTime)
	assert.Equal(t, record.InsightGenreUnavailable, insights.FavoriteGenre)
	assert.False(t, insights.HasMostPlayed)

	// Snapshot is persisted and re-generation overwrites it.
	stored, err := svc.GetUserInsights(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, insights.GeneratedAt, stored.GeneratedAt)

	_, err = svc.PlayTrack(ctx, bob, trackAddr, 60)
	require.NoError(t, err)
	insights, err = svc.GenerateUserInsights(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(180), insights.TotalListeningTime)
}

func TestGenerateUserInsightsFreshAccount(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	// No profile, no stats: insights initializes stats instead of failing.
	insights, err := svc.GenerateUserInsights(ctx, carol)
	require.NoError(t, err)
	assert.Zero(t, insights.TotalListeningTime)
	assert.Zero(t, insights.DiscoveryScore)

	stats, err := svc.GetUserStats(ctx, carol)
	require.NoError(t, err)
	assert.Equal(t, carol, stats.Owner)
}

func TestSignupAfterInsightsGeneration(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	// Insights for a not-yet-registered identity initializes its stats
	// record; signup must adopt that record, not trip over it.
	_, err := svc.GenerateUserInsights(ctx, carol)
	require.NoError(t, err)

	profile, err := svc.CreateUserProfile(ctx, carol, graph.CreateUserProfileParams{Username: "carol"})
	require.NoError(t, err)
	assert.Equal(t, "carol", profile.Username)

	stats, err := svc.GetUserStats(ctx, carol)
	require.NoError(t, err)
	assert.Equal(t, carol, stats.Owner)

	// A second signup still fails on the profile itself.
	_, err = svc.CreateUserProfile(ctx, carol, graph.CreateUserProfileParams{Username: "carol2"})
	assert.ErrorIs(t, err, apperr.ErrRecordExists)
}

//
// Activity feed
//

func TestListActivityPagination(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")

	// Five activities: five created tracks.
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		mustTrack(t, svc, alice, title)
	}

	page, err := svc.ListActivity(ctx, alice, "", 2)
	require.NoError(t, err)
	require.Len(t, page.Entries, 2)
	assert.NotEmpty(t, page.NextToken)
	assert.Equal(t, "Created track: a", page.Entries[0].Metadata)
	assert.Equal(t, record.ActivityTrackCreated, page.Entries[0].ActivityType)

	page, err = svc.ListActivity(ctx, alice, page.NextToken, 2)
	require.NoError(t, err)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, "Created track: c", page.Entries[0].Metadata)

	page, err = svc.ListActivity(ctx, alice, page.NextToken, 2)
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	assert.Empty(t, page.NextToken)
	assert.Equal(t, "Created track: e", page.Entries[0].Metadata)
}

func TestActivityRecordedForSocialOps(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")
	mustUser(t, svc, bob, "bob")
	trackAddr := mustTrack(t, svc, alice, "Song")

	require.NoError(t, svc.LikeTrack(ctx, bob, trackAddr))
	require.NoError(t, svc.FollowUser(ctx, bob, alice))

	page, err := svc.ListActivity(ctx, bob, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, record.ActivityTrackLiked, page.Entries[0].ActivityType)
	assert.Equal(t, "Liked track: Song", page.Entries[0].Metadata)
	assert.Equal(t, record.ActivityUserFollowed, page.Entries[1].ActivityType)
	assert.Equal(t, "Followed alice", page.Entries[1].Metadata)
}

func TestActivityMetadataClipsOnRuneBoundary(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")

	// "Created track: " is 15 bytes; 48 ASCII bytes plus the two-byte rune
	// put the cut point inside the rune.
	title := strings.Repeat("a", 48) + "é"
	mustTrack(t, svc, alice, title)

	page, err := svc.ListActivity(ctx, alice, "", 1)
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)

	meta := page.Entries[0].Metadata
	assert.True(t, utf8.ValidString(meta))
	assert.LessOrEqual(t, len(meta), record.MaxMetadataLen)
	assert.Equal(t, "Created track: "+strings.Repeat("a", 48), meta)
}

//
// Cached counters
//

func TestCachedCounterReads(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	mustUser(t, svc, alice, "alice")
	mustUser(t, svc, bob, "bob")
	trackAddr := mustTrack(t, svc, alice, "Song")

	require.NoError(t, svc.LikeTrack(ctx, bob, trackAddr))

	// First read warms the cache from the ledger; subsequent mutations keep
	// the warm key in step.
	n, err := svc.TrackLikeCount(ctx, trackAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	require.NoError(t, svc.UnlikeTrack(ctx, bob, trackAddr))
	n, err = svc.TrackLikeCount(ctx, trackAddr)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, svc.FollowUser(ctx, bob, alice))
	n, err = svc.FollowerCount(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
}
