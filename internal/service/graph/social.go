package graph

import (
	"context"

	"github.com/soundgraph/soundgraph/internal/addr"
	"github.com/soundgraph/soundgraph/internal/cache"
	"github.com/soundgraph/soundgraph/internal/counter"
	apperr "github.com/soundgraph/soundgraph/internal/errors"
	"github.com/soundgraph/soundgraph/internal/record"
)

// LikeTrack creates the (user, track) like edge. Uniqueness is the derived
// address itself: liking twice finds the address occupied. The track's
// likes_count and the creator's total_likes_received move as a pair.
func (s *Service) LikeTrack(ctx context.Context, user addr.Identity, trackAddr addr.Address) error {
	if err := requireIdentity(user); err != nil {
		return err
	}

	now := s.now()
	err := s.update(ctx, func(tx storeTxn) error {
		track, err := loadTrack(tx, trackAddr)
		if err != nil {
			return err
		}
		userStats, err := loadStats(tx, user)
		if err != nil {
			return err
		}
		creatorStats := userStats
		if track.CreatedBy != user {
			creatorStats, err = loadStats(tx, track.CreatedBy)
			if err != nil {
				return err
			}
		}

		like := &record.TrackLike{User: user, Track: trackAddr, CreatedAt: now}
		if err := insertRec(tx, addr.TrackLike(user, trackAddr), like, apperr.ErrAlreadyLikedTrack); err != nil {
			return err
		}

		if err := counter.PairedInc(&track.LikesCount, &creatorStats.TotalLikesReceived); err != nil {
			return err
		}
		userStats.LastActive = now
		if err := recordActivity(tx, userStats, record.ActivityTrackLiked, trackAddr, "Liked track: "+track.Title, now); err != nil {
			return err
		}

		if err := putRec(tx, trackAddr, track); err != nil {
			return err
		}
		if err := putRec(tx, addr.UserStats(user), userStats); err != nil {
			return err
		}
		if creatorStats != userStats {
			if err := putRec(tx, addr.UserStats(creatorStats.Owner), creatorStats); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.appCtx.Counters != nil {
		s.appCtx.Counters.Incr(ctx, cache.KeyTrackLikes(trackAddr))
	}
	return nil
}

// UnlikeTrack is the exact inverse of LikeTrack: the edge record is deleted
// and both counters are reversed in the same transaction.
func (s *Service) UnlikeTrack(ctx context.Context, user addr.Identity, trackAddr addr.Address) error {
	if err := requireIdentity(user); err != nil {
		return err
	}

	now := s.now()
	err := s.update(ctx, func(tx storeTxn) error {
		track, err := loadTrack(tx, trackAddr)
		if err != nil {
			return err
		}
		userStats, err := loadStats(tx, user)
		if err != nil {
			return err
		}
		creatorStats := userStats
		if track.CreatedBy != user {
			creatorStats, err = loadStats(tx, track.CreatedBy)
			if err != nil {
				return err
			}
		}

		if err := tx.Delete(addr.TrackLike(user, trackAddr)); err != nil {
			if apperr.Is(err, apperr.ErrRecordNotFound) {
				return apperr.ErrTrackNotLiked
			}
			return err
		}

		if err := counter.PairedDec(&track.LikesCount, &creatorStats.TotalLikesReceived); err != nil {
			return err
		}
		userStats.LastActive = now

		if err := putRec(tx, trackAddr, track); err != nil {
			return err
		}
		if err := putRec(tx, addr.UserStats(user), userStats); err != nil {
			return err
		}
		if creatorStats != userStats {
			if err := putRec(tx, addr.UserStats(creatorStats.Owner), creatorStats); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.appCtx.Counters != nil {
		s.appCtx.Counters.Decr(ctx, cache.KeyTrackLikes(trackAddr))
	}
	return nil
}

// LikePlaylist mirrors LikeTrack for playlists; the paired counter on the
// stats side belongs to the playlist's owner.
func (s *Service) LikePlaylist(ctx context.Context, user addr.Identity, playlistAddr addr.Address) error {
	if err := requireIdentity(user); err != nil {
		return err
	}

	now := s.now()
	err := s.update(ctx, func(tx storeTxn) error {
		playlist, err := loadPlaylist(tx, playlistAddr)
		if err != nil {
			return err
		}
		userStats, err := loadStats(tx, user)
		if err != nil {
			return err
		}
		ownerStats := userStats
		if playlist.Owner != user {
			ownerStats, err = loadStats(tx, playlist.Owner)
			if err != nil {
				return err
			}
		}

		like := &record.PlaylistLike{User: user, Playlist: playlistAddr, CreatedAt: now}
		if err := insertRec(tx, addr.PlaylistLike(user, playlistAddr), like, apperr.ErrAlreadyLikedPlaylist); err != nil {
			return err
		}

		if err := counter.PairedInc(&playlist.LikesCount, &ownerStats.TotalLikesReceived); err != nil {
			return err
		}
		userStats.LastActive = now
		if err := recordActivity(tx, userStats, record.ActivityPlaylistLiked, playlistAddr, "Liked playlist: "+playlist.Name, now); err != nil {
			return err
		}

		if err := putRec(tx, playlistAddr, playlist); err != nil {
			return err
		}
		if err := putRec(tx, addr.UserStats(user), userStats); err != nil {
			return err
		}
		if ownerStats != userStats {
			if err := putRec(tx, addr.UserStats(ownerStats.Owner), ownerStats); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.appCtx.Counters != nil {
		s.appCtx.Counters.Incr(ctx, cache.KeyPlaylistLikes(playlistAddr))
	}
	return nil
}

// UnlikePlaylist reverses LikePlaylist.
func (s *Service) UnlikePlaylist(ctx context.Context, user addr.Identity, playlistAddr addr.Address) error {
	if err := requireIdentity(user); err != nil {
		return err
	}

	now := s.now()
	err := s.update(ctx, func(tx storeTxn) error {
		playlist, err := loadPlaylist(tx, playlistAddr)
		if err != nil {
			return err
		}
		userStats, err := loadStats(tx, user)
		if err != nil {
			return err
		}
		ownerStats := userStats
		if playlist.Owner != user {
			ownerStats, err = loadStats(tx, playlist.Owner)
			if err != nil {
				return err
			}
		}

		if err := tx.Delete(addr.PlaylistLike(user, playlistAddr)); err != nil {
			if apperr.Is(err, apperr.ErrRecordNotFound) {
				return apperr.ErrPlaylistNotLiked
			}
			return err
		}

		if err := counter.PairedDec(&playlist.LikesCount, &ownerStats.TotalLikesReceived); err != nil {
			return err
		}
		userStats.LastActive = now

		if err := putRec(tx, playlistAddr, playlist); err != nil {
			return err
		}
		if err := putRec(tx, addr.UserStats(user), userStats); err != nil {
			return err
		}
		if ownerStats != userStats {
			if err := putRec(tx, addr.UserStats(ownerStats.Owner), ownerStats); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.appCtx.Counters != nil {
		s.appCtx.Counters.Decr(ctx, cache.KeyPlaylistLikes(playlistAddr))
	}
	return nil
}

// FollowUser creates the follower -> following edge and moves the two
// denormalized profile counters together. Following yourself is rejected
// before anything is derived.
func (s *Service) FollowUser(ctx context.Context, follower, following addr.Identity) error {
	if err := firstErr(requireIdentity(follower), requireIdentity(following)); err != nil {
		return err
	}
	if follower == following {
		return apperr.ErrCannotFollowSelf
	}

	now := s.now()
	err := s.update(ctx, func(tx storeTxn) error {
		followerProfile, err := loadProfile(tx, follower)
		if err != nil {
			return err
		}
		followingProfile, err := loadProfile(tx, following)
		if err != nil {
			return err
		}
		followerStats, err := loadStats(tx, follower)
		if err != nil {
			return err
		}

		edge := &record.UserFollow{Follower: follower, Following: following, CreatedAt: now}
		if err := insertRec(tx, addr.UserFollow(follower, following), edge, apperr.ErrAlreadyFollowing); err != nil {
			return err
		}

		if err := counter.PairedInc(&followerProfile.FollowingCount, &followingProfile.FollowersCount); err != nil {
			return err
		}
		followerStats.LastActive = now
		if err := recordActivity(tx, followerStats, record.ActivityUserFollowed, addr.UserProfile(following), "Followed "+followingProfile.Username, now); err != nil {
			return err
		}

		if err := putRec(tx, addr.UserProfile(follower), followerProfile); err != nil {
			return err
		}
		if err := putRec(tx, addr.UserProfile(following), followingProfile); err != nil {
			return err
		}
		return putRec(tx, addr.UserStats(follower), followerStats)
	})
	if err != nil {
		return err
	}

	if s.appCtx.Counters != nil {
		s.appCtx.Counters.Incr(ctx, cache.KeyFollowers(following))
	}
	return nil
}

// UnfollowUser deletes the follow edge and reverses both profile counters.
func (s *Service) UnfollowUser(ctx context.Context, follower, following addr.Identity) error {
	if err := firstErr(requireIdentity(follower), requireIdentity(following)); err != nil {
		return err
	}
	if follower == following {
		return apperr.ErrCannotFollowSelf
	}

	now := s.now()
	err := s.update(ctx, func(tx storeTxn) error {
		followerProfile, err := loadProfile(tx, follower)
		if err != nil {
			return err
		}
		followingProfile, err := loadProfile(tx, following)
		if err != nil {
			return err
		}
		followerStats, err := loadStats(tx, follower)
		if err != nil {
			return err
		}

		if err := tx.Delete(addr.UserFollow(follower, following)); err != nil {
			if apperr.Is(err, apperr.ErrRecordNotFound) {
				return apperr.ErrNotFollowing
			}
			return err
		}

		if err := counter.PairedDec(&followerProfile.FollowingCount, &followingProfile.FollowersCount); err != nil {
			return err
		}
		followerStats.LastActive = now

		if err := putRec(tx, addr.UserProfile(follower), followerProfile); err != nil {
			return err
		}
		if err := putRec(tx, addr.UserProfile(following), followingProfile); err != nil {
			return err
		}
		return putRec(tx, addr.UserStats(follower), followerStats)
	})
	if err != nil {
		return err
	}

	if s.appCtx.Counters != nil {
		s.appCtx.Counters.Decr(ctx, cache.KeyFollowers(following))
	}
	return nil
}
