package graph

import (
	"context"

	"github.com/soundgraph/soundgraph/internal/addr"
	"github.com/soundgraph/soundgraph/internal/cache"
	apperr "github.com/soundgraph/soundgraph/internal/errors"
	"github.com/soundgraph/soundgraph/internal/record"
	"github.com/soundgraph/soundgraph/internal/utils/pagination"
)

// Read operations. All of them run in a single View transaction; the cached
// counter getters consult Redis first and fall back to the ledger on a miss,
// repopulating the cache for the next reader.

func (s *Service) GetUserProfile(ctx context.Context, owner addr.Identity) (*record.UserProfile, error) {
	var profile *record.UserProfile
	err := s.view(ctx, func(tx storeTxn) error {
		b, err := tx.Get(addr.UserProfile(owner))
		if err != nil {
			return err
		}
		profile, err = record.DecodeUserProfile(b)
		return err
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Service) GetUserStats(ctx context.Context, owner addr.Identity) (*record.UserStats, error) {
	var stats *record.UserStats
	err := s.view(ctx, func(tx storeTxn) error {
		b, err := tx.Get(addr.UserStats(owner))
		if err != nil {
			return err
		}
		stats, err = record.DecodeUserStats(b)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Service) GetTrack(ctx context.Context, trackAddr addr.Address) (*record.Track, error) {
	var track *record.Track
	err := s.view(ctx, func(tx storeTxn) error {
		var err error
		track, err = loadTrack(tx, trackAddr)
		return err
	})
	if err != nil {
		return nil, err
	}
	return track, nil
}

func (s *Service) GetPlaylist(ctx context.Context, playlistAddr addr.Address) (*record.Playlist, error) {
	var playlist *record.Playlist
	err := s.view(ctx, func(tx storeTxn) error {
		var err error
		playlist, err = loadPlaylist(tx, playlistAddr)
		return err
	})
	if err != nil {
		return nil, err
	}
	return playlist, nil
}

func (s *Service) GetTrackPlay(ctx context.Context, trackAddr addr.Address, user addr.Identity) (*record.TrackPlay, error) {
	var play *record.TrackPlay
	err := s.view(ctx, func(tx storeTxn) error {
		b, err := tx.Get(addr.TrackPlay(trackAddr, user))
		if err != nil {
			return err
		}
		play, err = record.DecodeTrackPlay(b)
		return err
	})
	if err != nil {
		return nil, err
	}
	return play, nil
}

func (s *Service) GetCollaborator(ctx context.Context, playlistAddr addr.Address, user addr.Identity) (*record.PlaylistCollaborator, error) {
	var collab *record.PlaylistCollaborator
	err := s.view(ctx, func(tx storeTxn) error {
		b, err := tx.Get(addr.PlaylistCollaborator(playlistAddr, user))
		if err != nil {
			return err
		}
		collab, err = record.DecodePlaylistCollaborator(b)
		return err
	})
	if err != nil {
		return nil, err
	}
	return collab, nil
}

// Search resolves a (term, type) pair to its current index entry. Terms are
// lower-cased the same way the writers address them.
func (s *Service) Search(ctx context.Context, term string, targetType uint8) (*record.SearchIndex, error) {
	term = lowerTerm(term)
	if err := validateRequired(term, record.MaxSearchTermLen, apperr.ErrSearchTermEmpty, apperr.ErrSearchTermTooLong); err != nil {
		return nil, err
	}
	if !record.ValidTargetType(targetType) {
		return nil, apperr.ErrInvalidTargetType
	}

	var idx *record.SearchIndex
	err := s.view(ctx, func(tx storeTxn) error {
		b, err := tx.Get(addr.SearchIndex(term, targetType))
		if err != nil {
			return err
		}
		idx, err = record.DecodeSearchIndex(b)
		return err
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

func (s *Service) GetRecommendation(ctx context.Context, user addr.Identity, target addr.Address, recType uint8) (*record.Recommendation, error) {
	var rec *record.Recommendation
	err := s.view(ctx, func(tx storeTxn) error {
		b, err := tx.Get(addr.Recommendation(user, target, recType))
		if err != nil {
			return err
		}
		rec, err = record.DecodeRecommendation(b)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) GetUserInsights(ctx context.Context, user addr.Identity) (*record.UserInsights, error) {
	var insights *record.UserInsights
	err := s.view(ctx, func(tx storeTxn) error {
		b, err := tx.Get(addr.UserInsights(user))
		if err != nil {
			return err
		}
		insights, err = record.DecodeUserInsights(b)
		return err
	})
	if err != nil {
		return nil, err
	}
	return insights, nil
}

// HasLikedTrack reports whether the like edge exists.
func (s *Service) HasLikedTrack(ctx context.Context, user addr.Identity, trackAddr addr.Address) (bool, error) {
	return s.exists(ctx, addr.TrackLike(user, trackAddr))
}

// HasLikedPlaylist reports whether the like edge exists.
func (s *Service) HasLikedPlaylist(ctx context.Context, user addr.Identity, playlistAddr addr.Address) (bool, error) {
	return s.exists(ctx, addr.PlaylistLike(user, playlistAddr))
}

// IsFollowing reports whether the follow edge exists.
func (s *Service) IsFollowing(ctx context.Context, follower, following addr.Identity) (bool, error) {
	return s.exists(ctx, addr.UserFollow(follower, following))
}

func (s *Service) exists(ctx context.Context, a addr.Address) (bool, error) {
	found := false
	err := s.view(ctx, func(tx storeTxn) error {
		_, err := tx.Get(a)
		if apperr.Is(err, apperr.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return found, err
}

// --- cached counter reads ---

// TrackLikeCount serves the track's like counter cache-first.
func (s *Service) TrackLikeCount(ctx context.Context, trackAddr addr.Address) (uint64, error) {
	return s.cachedCount(ctx, cache.KeyTrackLikes(trackAddr), func(tx storeTxn) (uint64, error) {
		track, err := loadTrack(tx, trackAddr)
		if err != nil {
			return 0, err
		}
		return track.LikesCount, nil
	})
}

// TrackPlayCount serves the track's play counter cache-first.
func (s *Service) TrackPlayCount(ctx context.Context, trackAddr addr.Address) (uint64, error) {
	return s.cachedCount(ctx, cache.KeyTrackPlays(trackAddr), func(tx storeTxn) (uint64, error) {
		track, err := loadTrack(tx, trackAddr)
		if err != nil {
			return 0, err
		}
		return track.PlaysCount, nil
	})
}

// PlaylistLikeCount serves the playlist's like counter cache-first.
func (s *Service) PlaylistLikeCount(ctx context.Context, playlistAddr addr.Address) (uint64, error) {
	return s.cachedCount(ctx, cache.KeyPlaylistLikes(playlistAddr), func(tx storeTxn) (uint64, error) {
		playlist, err := loadPlaylist(tx, playlistAddr)
		if err != nil {
			return 0, err
		}
		return playlist.LikesCount, nil
	})
}

// FollowerCount serves a profile's follower counter cache-first.
func (s *Service) FollowerCount(ctx context.Context, user addr.Identity) (uint64, error) {
	return s.cachedCount(ctx, cache.KeyFollowers(user), func(tx storeTxn) (uint64, error) {
		profile, err := loadProfile(tx, user)
		if err != nil {
			return 0, err
		}
		return profile.FollowersCount, nil
	})
}

// cachedCount is the teacher pattern for hot counters: serve from Redis when
// warm, otherwise read the ledger and warm the cache for the next caller. A
// cache error degrades to a ledger read rather than failing the request.
func (s *Service) cachedCount(ctx context.Context, key string, load func(storeTxn) (uint64, error)) (uint64, error) {
	if s.appCtx.Counters != nil {
		if n, ok, err := s.appCtx.Counters.Get(ctx, key); err == nil && ok {
			return n, nil
		} else if err != nil {
			s.appCtx.Logger.Warn("counter cache read failed", "key", key, "error", err)
		}
	}

	var n uint64
	err := s.view(ctx, func(tx storeTxn) error {
		var err error
		n, err = load(tx)
		return err
	})
	if err != nil {
		return 0, err
	}

	if s.appCtx.Counters != nil {
		if err := s.appCtx.Counters.Set(ctx, key, n); err != nil {
			s.appCtx.Logger.Warn("counter cache write failed", "key", key, "error", err)
		}
	}
	return n, nil
}

// ActivityPage is one page of a user's feed, oldest first.
type ActivityPage struct {
	Entries   []*record.ActivityFeed
	NextToken string
}

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

// ListActivity pages through a user's feed by sequence number. The token is
// an opaque cursor carrying the next sequence to read; an empty token starts
// from the beginning. The feed is dense (sequences 0..activity_count-1), so
// paging is a straight address walk with no scan.
func (s *Service) ListActivity(ctx context.Context, user addr.Identity, token string, limit int) (*ActivityPage, error) {
	if err := requireIdentity(user); err != nil {
		return nil, err
	}
	cur, err := pagination.Decode(token)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	page := &ActivityPage{}
	err = s.view(ctx, func(tx storeTxn) error {
		stats, err := loadStats(tx, user)
		if err != nil {
			return err
		}
		for seq := cur.Seq; seq < stats.ActivityCount && len(page.Entries) < limit; seq++ {
			b, err := tx.Get(addr.ActivityFeed(user, seq))
			if err != nil {
				return err
			}
			entry, err := record.DecodeActivityFeed(b)
			if err != nil {
				return err
			}
			page.Entries = append(page.Entries, entry)
		}
		next := cur.Seq + uint64(len(page.Entries))
		if next < stats.ActivityCount {
			token, err := pagination.Encode(pagination.Cursor{Seq: next})
			if err != nil {
				return err
			}
			page.NextToken = token
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}
