package graph

import (
	"context"

	"github.com/soundgraph/soundgraph/internal/addr"
	apperr "github.com/soundgraph/soundgraph/internal/errors"
	"github.com/soundgraph/soundgraph/internal/record"
)

// CreateUserProfileParams carries the signup inputs.
type CreateUserProfileParams struct {
	Username    string
	DisplayName string
	Bio         string
	ImageURL    string
}

// CreateUserProfile creates the profile and its stats record in one
// transaction. The username is immutable afterwards; the profile address is
// derived from the owner identity alone, so one identity gets one profile.
func (s *Service) CreateUserProfile(ctx context.Context, owner addr.Identity, p CreateUserProfileParams) (*record.UserProfile, error) {
	if err := firstErr(
		requireIdentity(owner),
		validateRequired(p.Username, record.MaxUsernameLen, apperr.ErrUsernameEmpty, apperr.ErrUsernameTooLong),
		validateLen(p.DisplayName, record.MaxDisplayNameLen, apperr.ErrDisplayNameTooLong),
		validateLen(p.Bio, record.MaxBioLen, apperr.ErrBioTooLong),
		validateLen(p.ImageURL, record.MaxImageURLLen, apperr.ErrProfileImageURLTooLong),
	); err != nil {
		return nil, err
	}

	now := s.now()
	profile := &record.UserProfile{
		Owner:       owner,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		Bio:         p.Bio,
		ImageURL:    p.ImageURL,
		CreatedAt:   now,
	}
	stats := &record.UserStats{Owner: owner, LastActive: now}

	err := s.update(ctx, func(tx storeTxn) error {
		if err := insertRec(tx, addr.UserProfile(owner), profile, nil); err != nil {
			return err
		}
		// Insights generation may have initialized stats before signup;
		// adopt the accumulated record instead of failing on the occupied
		// address, which would lock the identity out of signup forever.
		if b, err := tx.Get(addr.UserStats(owner)); err == nil {
			existing, err := record.DecodeUserStats(b)
			if err != nil {
				return err
			}
			existing.LastActive = now
			return putRec(tx, addr.UserStats(owner), existing)
		} else if !apperr.Is(err, apperr.ErrRecordNotFound) {
			return err
		}
		return insertRec(tx, addr.UserStats(owner), stats, nil)
	})
	if err != nil {
		return nil, err
	}

	s.appCtx.Logger.Info("user profile created", "owner", owner, "username", p.Username)
	return profile, nil
}

// UpdateUserProfileParams updates only the fields that are non-nil. The
// username cannot change: it participates in nothing, but immutability is
// part of the profile contract.
type UpdateUserProfileParams struct {
	DisplayName *string
	Bio         *string
	ImageURL    *string
}

func (s *Service) UpdateUserProfile(ctx context.Context, owner addr.Identity, p UpdateUserProfileParams) (*record.UserProfile, error) {
	if err := requireIdentity(owner); err != nil {
		return nil, err
	}
	if p.DisplayName != nil {
		if err := validateLen(*p.DisplayName, record.MaxDisplayNameLen, apperr.ErrDisplayNameTooLong); err != nil {
			return nil, err
		}
	}
	if p.Bio != nil {
		if err := validateLen(*p.Bio, record.MaxBioLen, apperr.ErrBioTooLong); err != nil {
			return nil, err
		}
	}
	if p.ImageURL != nil {
		if err := validateLen(*p.ImageURL, record.MaxImageURLLen, apperr.ErrProfileImageURLTooLong); err != nil {
			return nil, err
		}
	}

	var profile *record.UserProfile
	err := s.update(ctx, func(tx storeTxn) error {
		var err error
		profile, err = loadProfile(tx, owner)
		if err != nil {
			return err
		}
		if p.DisplayName != nil {
			profile.DisplayName = *p.DisplayName
		}
		if p.Bio != nil {
			profile.Bio = *p.Bio
		}
		if p.ImageURL != nil {
			profile.ImageURL = *p.ImageURL
		}
		if err := putRec(tx, addr.UserProfile(owner), profile); err != nil {
			return err
		}

		stats, err := loadStats(tx, owner)
		if err != nil {
			return err
		}
		stats.LastActive = s.now()
		return putRec(tx, addr.UserStats(owner), stats)
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}
