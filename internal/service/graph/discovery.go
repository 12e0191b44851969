package graph

import (
	"context"
	"math"

	"github.com/soundgraph/soundgraph/internal/addr"
	apperr "github.com/soundgraph/soundgraph/internal/errors"
	"github.com/soundgraph/soundgraph/internal/record"
)

// CreateSearchIndex writes the single-pointer index entry for (term, type).
// Terms are lower-cased before addressing so lookups are case-insensitive.
// The entry is a plain Put: re-indexing a term replaces the previous target.
func (s *Service) CreateSearchIndex(ctx context.Context, term string, targetType uint8, target addr.Address) (*record.SearchIndex, error) {
	term = lowerTerm(term)
	if err := validateRequired(term, record.MaxSearchTermLen, apperr.ErrSearchTermEmpty, apperr.ErrSearchTermTooLong); err != nil {
		return nil, err
	}
	if !record.ValidTargetType(targetType) {
		return nil, apperr.ErrInvalidTargetType
	}

	idx := &record.SearchIndex{
		Term:       term,
		TargetType: targetType,
		Target:     target,
		CreatedAt:  s.now(),
	}
	err := s.update(ctx, func(tx storeTxn) error {
		return putRec(tx, addr.SearchIndex(term, targetType), idx)
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// GenerateUserInsights derives an analytics snapshot from the user's stats
// record and overwrites the previous snapshot. A user with no stats record
// yet gets one initialized in the same transaction, so insights generation
// never fails on a fresh account.
//
// Listening time is the real accumulated total. Favorite genre and most
// played track would need per-genre and per-track scans the ledger does not
// keep, so they stay explicitly unavailable.
func (s *Service) GenerateUserInsights(ctx context.Context, user addr.Identity) (*record.UserInsights, error) {
	if err := requireIdentity(user); err != nil {
		return nil, err
	}

	now := s.now()
	var insights *record.UserInsights
	err := s.update(ctx, func(tx storeTxn) error {
		stats, err := loadStats(tx, user)
		if apperr.Is(err, apperr.ErrInvalidAccount) {
			stats = &record.UserStats{Owner: user, LastActive: now}
			if err := insertRec(tx, addr.UserStats(user), stats, nil); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		insights = &record.UserInsights{
			User:               user,
			TotalListeningTime: stats.TotalListenTime,
			FavoriteGenre:      record.InsightGenreUnavailable,
			HasMostPlayed:      false,
			DiscoveryScore:     discoveryScore(stats),
			SocialEngagement:   socialEngagement(stats),
			GeneratedAt:        now,
		}
		return putRec(tx, addr.UserInsights(user), insights)
	})
	if err != nil {
		return nil, err
	}

	s.appCtx.Logger.Debug("insights generated", "user", user)
	return insights, nil
}

// discoveryScore rates how much the user creates versus only consumes:
// creations over total interactions, clamped to [0,1].
func discoveryScore(stats *record.UserStats) float32 {
	created := stats.TracksCreated + stats.PlaylistsCreated
	interactions := created + stats.TotalPlays
	if interactions == 0 {
		return 0
	}
	return float32(float64(created) / float64(interactions))
}

// socialEngagement rates received attention against activity volume: likes
// received over activity entries, capped at 1.
func socialEngagement(stats *record.UserStats) float32 {
	if stats.ActivityCount == 0 {
		return 0
	}
	ratio := float64(stats.TotalLikesReceived) / float64(stats.ActivityCount)
	if ratio > 1 {
		ratio = 1
	}
	return float32(ratio)
}

type CreateRecommendationParams struct {
	Type   uint8
	Target addr.Address
	Score  float32
	Reason string
}

// CreateRecommendation stores an advisory pointer for a user. Addressed by
// (user, target, type): recommending the same target to the same user for
// the same reason class twice fails with an occupied address.
func (s *Service) CreateRecommendation(ctx context.Context, user addr.Identity, p CreateRecommendationParams) (*record.Recommendation, error) {
	if err := firstErr(
		requireIdentity(user),
		validateLen(p.Reason, record.MaxReasonLen, apperr.ErrReasonTooLong),
	); err != nil {
		return nil, err
	}
	if !record.ValidTargetType(p.Type) {
		return nil, apperr.ErrInvalidTargetType
	}
	if math.IsNaN(float64(p.Score)) || p.Score < 0 || p.Score > 1 {
		return nil, apperr.ErrInvalidScore
	}

	rec := &record.Recommendation{
		User:      user,
		Type:      p.Type,
		Target:    p.Target,
		Score:     p.Score,
		Reason:    p.Reason,
		CreatedAt: s.now(),
	}
	err := s.update(ctx, func(tx storeTxn) error {
		return insertRec(tx, addr.Recommendation(user, p.Target, p.Type), rec, nil)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// MarkRecommendationViewed flips the viewed flag. Idempotent: marking an
// already-viewed recommendation is a no-op write.
func (s *Service) MarkRecommendationViewed(ctx context.Context, user addr.Identity, target addr.Address, recType uint8) (*record.Recommendation, error) {
	if err := requireIdentity(user); err != nil {
		return nil, err
	}

	var rec *record.Recommendation
	err := s.update(ctx, func(tx storeTxn) error {
		b, err := tx.Get(addr.Recommendation(user, target, recType))
		if err != nil {
			return err
		}
		rec, err = record.DecodeRecommendation(b)
		if err != nil {
			return err
		}
		if rec.IsViewed {
			return nil
		}
		rec.IsViewed = true
		return putRec(tx, addr.Recommendation(user, target, recType), rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
