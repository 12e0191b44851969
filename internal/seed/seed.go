// Package seed loads demo data through the real service operations, so every
// invariant (paired counters, activity entries, search index) holds for the
// seeded graph exactly as it would in production.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/soundgraph/soundgraph/internal/addr"
	"github.com/soundgraph/soundgraph/internal/perm"
	"github.com/soundgraph/soundgraph/internal/service/graph"
)

type demoUser struct {
	username string
	display  string
	bio      string
}

var demoUsers = []demoUser{
	{"ada", "Ada L.", "analog synths and graph theory"},
	{"grace", "Grace H.", "compilers by day, basslines by night"},
	{"linus", "Linus T.", "just here for the drum solos"},
}

type demoTrack struct {
	owner    int // index into demoUsers
	title    string
	artist   string
	genre    string
	duration uint64
}

var demoTracks = []demoTrack{
	{0, "Difference Engine", "Ada L.", "electronic", 214},
	{0, "Notes on Nothing", "Ada L.", "ambient", 187},
	{1, "Compile Time", "Grace H.", "techno", 302},
	{2, "Kernel Panic", "Linus T.", "rock", 245},
}

// Run populates a development ledger. Identities are salted with a fresh
// UUID per run so re-seeding an existing store creates new accounts instead
// of tripping over occupied addresses.
func Run(ctx context.Context, svc *graph.Service) error {
	salt := uuid.NewString()

	ids := make([]addr.Identity, len(demoUsers))
	for i, u := range demoUsers {
		ids[i] = addr.IdentityFromSeed(u.username + ":" + salt)
		_, err := svc.CreateUserProfile(ctx, ids[i], graph.CreateUserProfileParams{
			Username:    u.username,
			DisplayName: u.display,
			Bio:         u.bio,
		})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.username, err)
		}
	}

	trackAddrs := make([]addr.Address, len(demoTracks))
	for i, t := range demoTracks {
		a, _, err := svc.CreateTrack(ctx, ids[t.owner], graph.CreateTrackParams{
			Title:    t.title,
			Artist:   t.artist,
			Genre:    t.genre,
			Duration: t.duration,
		})
		if err != nil {
			return fmt.Errorf("seed track %s: %w", t.title, err)
		}
		trackAddrs[i] = a
	}

	// A shared playlist with a collaborator who may add but not remove.
	playlistAddr, _, err := svc.CreatePlaylist(ctx, ids[0], graph.CreatePlaylistParams{
		Name:            "late night graphs",
		Description:     "for debugging after midnight",
		IsPublic:        true,
		IsCollaborative: true,
	})
	if err != nil {
		return fmt.Errorf("seed playlist: %w", err)
	}
	if _, err := svc.AddCollaborator(ctx, ids[0], playlistAddr, ids[1], perm.CapAddTracks); err != nil {
		return fmt.Errorf("seed collaborator: %w", err)
	}
	if _, err := svc.AddTrackToPlaylist(ctx, ids[0], playlistAddr, trackAddrs[0]); err != nil {
		return fmt.Errorf("seed playlist track: %w", err)
	}
	if _, err := svc.AddTrackToPlaylist(ctx, ids[1], playlistAddr, trackAddrs[2]); err != nil {
		return fmt.Errorf("seed playlist track: %w", err)
	}

	// Cross-likes, follows and a few plays to give the counters something
	// to show.
	if err := svc.LikeTrack(ctx, ids[1], trackAddrs[0]); err != nil {
		return err
	}
	if err := svc.LikeTrack(ctx, ids[2], trackAddrs[0]); err != nil {
		return err
	}
	if err := svc.LikePlaylist(ctx, ids[2], playlistAddr); err != nil {
		return err
	}
	if err := svc.FollowUser(ctx, ids[1], ids[0]); err != nil {
		return err
	}
	if err := svc.FollowUser(ctx, ids[2], ids[0]); err != nil {
		return err
	}
	if _, err := svc.PlayTrack(ctx, ids[2], trackAddrs[0], 214); err != nil {
		return err
	}
	if _, err := svc.PlayTrack(ctx, ids[2], trackAddrs[0], 120); err != nil {
		return err
	}

	return nil
}
