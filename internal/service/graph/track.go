package graph

import (
	"context"

	"github.com/soundgraph/soundgraph/internal/addr"
	"github.com/soundgraph/soundgraph/internal/cache"
	"github.com/soundgraph/soundgraph/internal/counter"
	apperr "github.com/soundgraph/soundgraph/internal/errors"
	"github.com/soundgraph/soundgraph/internal/record"
)

type CreateTrackParams struct {
	Title    string
	Artist   string
	Album    string
	Genre    string
	Duration uint64
	AudioURL string
	CoverURL string
}

// CreateTrack publishes a track under the creator's identity. The address is
// derived from (creator, title, artist), so republishing the same pair fails
// with an occupied address. A search index entry for the lower-cased title
// is written opportunistically in the same transaction.
func (s *Service) CreateTrack(ctx context.Context, creator addr.Identity, p CreateTrackParams) (addr.Address, *record.Track, error) {
	var zero addr.Address
	if err := firstErr(
		requireIdentity(creator),
		validateRequired(p.Title, record.MaxTrackTitleLen, apperr.ErrTrackTitleEmpty, apperr.ErrTrackTitleTooLong),
		validateLen(p.Artist, record.MaxArtistLen, apperr.ErrArtistNameTooLong),
		validateLen(p.Album, record.MaxAlbumLen, apperr.ErrAlbumNameTooLong),
		validateLen(p.Genre, record.MaxGenreLen, apperr.ErrGenreTooLong),
		validateLen(p.AudioURL, record.MaxAudioURLLen, apperr.ErrAudioURLTooLong),
		validateLen(p.CoverURL, record.MaxImageURLLen, apperr.ErrCoverImageURLTooLong),
	); err != nil {
		return zero, nil, err
	}
	if p.Duration == 0 {
		return zero, nil, apperr.ErrInvalidDuration
	}

	now := s.now()
	trackAddr := addr.Track(creator, p.Title, p.Artist)
	track := &record.Track{
		Title:     p.Title,
		Artist:    p.Artist,
		Album:     p.Album,
		Genre:     p.Genre,
		Duration:  p.Duration,
		AudioURL:  p.AudioURL,
		CoverURL:  p.CoverURL,
		CreatedBy: creator,
		CreatedAt: now,
	}

	err := s.update(ctx, func(tx storeTxn) error {
		stats, err := loadStats(tx, creator)
		if err != nil {
			return err
		}
		if err := insertRec(tx, trackAddr, track, nil); err != nil {
			return err
		}
		if err := counter.Inc(&stats.TracksCreated); err != nil {
			return err
		}
		stats.LastActive = now
		if err := recordActivity(tx, stats, record.ActivityTrackCreated, trackAddr, "Created track: "+p.Title, now); err != nil {
			return err
		}
		if err := putRec(tx, addr.UserStats(creator), stats); err != nil {
			return err
		}

		// Opportunistic discovery entry; last writer for this term wins.
		idx := &record.SearchIndex{
			Term:       lowerTerm(p.Title),
			TargetType: record.TargetTrack,
			Target:     trackAddr,
			CreatedAt:  now,
		}
		return putRec(tx, addr.SearchIndex(idx.Term, idx.TargetType), idx)
	})
	if err != nil {
		return zero, nil, err
	}

	s.appCtx.Logger.Info("track created", "title", p.Title, "artist", p.Artist, "addr", trackAddr)
	return trackAddr, track, nil
}

// PlayTrack records one play: the per-(track,user) aggregate is created or
// advanced, the track's play counter and the creator's total_plays move as a
// pair, and the listener's stats accumulate the played duration.
func (s *Service) PlayTrack(ctx context.Context, user addr.Identity, trackAddr addr.Address, durationPlayed uint64) (*record.TrackPlay, error) {
	if err := requireIdentity(user); err != nil {
		return nil, err
	}

	now := s.now()
	var play *record.TrackPlay
	err := s.update(ctx, func(tx storeTxn) error {
		track, err := loadTrack(tx, trackAddr)
		if err != nil {
			return err
		}
		userStats, err := loadStats(tx, user)
		if err != nil {
			return err
		}
		// The creator playing their own track touches a single stats record.
		creatorStats := userStats
		if track.CreatedBy != user {
			creatorStats, err = loadStats(tx, track.CreatedBy)
			if err != nil {
				return err
			}
		}

		playAddr := addr.TrackPlay(trackAddr, user)
		if b, err := tx.Get(playAddr); err == nil {
			play, err = record.DecodeTrackPlay(b)
			if err != nil {
				return err
			}
			if err := counter.Inc(&play.PlayCount); err != nil {
				return err
			}
			total, err := counter.Add(play.TotalDuration, durationPlayed)
			if err != nil {
				return err
			}
			play.TotalDuration = total
			play.LastPlayedAt = now
		} else if apperr.Is(err, apperr.ErrRecordNotFound) {
			play = &record.TrackPlay{
				Track:         trackAddr,
				User:          user,
				PlayCount:     1,
				TotalDuration: durationPlayed,
				FirstPlayedAt: now,
				LastPlayedAt:  now,
			}
			// Only the first play of a track lands in the feed; repeats
			// would drown everything else out.
			if err := recordActivity(tx, userStats, record.ActivityTrackPlayed, trackAddr, "Played track: "+track.Title, now); err != nil {
				return err
			}
		} else {
			return err
		}
		if err := putRec(tx, playAddr, play); err != nil {
			return err
		}

		if err := counter.PairedInc(&track.PlaysCount, &creatorStats.TotalPlays); err != nil {
			return err
		}
		listen, err := counter.Add(userStats.TotalListenTime, durationPlayed)
		if err != nil {
			return err
		}
		userStats.TotalListenTime = listen
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
		return nil, err
	}

	if s.appCtx.Counters != nil {
		s.appCtx.Counters.Incr(ctx, cache.KeyTrackPlays(trackAddr))
	}
	return play, nil
}
