package record

import (
	"github.com/soundgraph/soundgraph/internal/addr"
	apperr "github.com/soundgraph/soundgraph/internal/errors"
)

// Target types for search index entries and recommendations.
const (
	TargetTrack    uint8 = 1
	TargetPlaylist uint8 = 2
	TargetUser     uint8 = 3
)

// ValidTargetType reports whether t names a known target type.
func ValidTargetType(t uint8) bool {
	return t == TargetTrack || t == TargetPlaylist || t == TargetUser
}

// SearchIndex is a single-pointer secondary index: the address is keyed by
// (term, type) only, so indexing a different target under the same term
// replaces the previous pointer. Last writer wins; callers needing fan-out
// must maintain their own.
type SearchIndex struct {
	Term       string // stored lower-cased
	TargetType uint8
	Target     addr.Address
	CreatedAt  int64
}

func (s *SearchIndex) Encode() ([]byte, error) {
	w := newWriter(KindSearchIndex)
	w.str(s.Term, MaxSearchTermLen, apperr.ErrSearchTermTooLong)
	w.u8(s.TargetType)
	w.addr(s.Target)
	w.i64(s.CreatedAt)
	return w.bytes()
}

func DecodeSearchIndex(b []byte) (*SearchIndex, error) {
	r := newReader(b, KindSearchIndex)
	s := &SearchIndex{Term: r.str(MaxSearchTermLen)}
	s.TargetType = r.u8()
	s.Target = r.addr()
	s.CreatedAt = r.i64()
	if err := r.done(); err != nil {
		return nil, err
	}
	return s, nil
}

// UserInsights is a derived snapshot. Fields that cannot be computed from
// the stats record alone carry explicit unavailable markers (see
// InsightGenreUnavailable) rather than fabricated values.
type UserInsights struct {
	User               addr.Identity
	TotalListeningTime uint64
	FavoriteGenre      string
	HasMostPlayed      bool
	MostPlayedTrack    addr.Address
	DiscoveryScore     float32
	SocialEngagement   float32
	GeneratedAt        int64
}

// InsightGenreUnavailable marks a favorite-genre value that the engine
// cannot derive yet (it would need a per-genre play aggregate).
const InsightGenreUnavailable = "unavailable"

func (i *UserInsights) Encode() ([]byte, error) {
	w := newWriter(KindUserInsights)
	w.id(i.User)
	w.u64(i.TotalListeningTime)
	w.str(i.FavoriteGenre, MaxGenreLen, apperr.ErrGenreTooLong)
	w.bool(i.HasMostPlayed)
	w.addr(i.MostPlayedTrack)
	w.f32(i.DiscoveryScore)
	w.f32(i.SocialEngagement)
	w.i64(i.GeneratedAt)
	return w.bytes()
}

func DecodeUserInsights(b []byte) (*UserInsights, error) {
	r := newReader(b, KindUserInsights)
	i := &UserInsights{User: r.id()}
	i.TotalListeningTime = r.u64()
	i.FavoriteGenre = r.str(MaxGenreLen)
	i.HasMostPlayed = r.bool()
	i.MostPlayedTrack = r.addr()
	i.DiscoveryScore = r.f32()
	i.SocialEngagement = r.f32()
	i.GeneratedAt = r.i64()
	if err := r.done(); err != nil {
		return nil, err
	}
	return i, nil
}

// Recommendation is advisory; score is a confidence in [0,1].
type Recommendation struct {
	User      addr.Identity
	Type      uint8
	Target    addr.Address
	Score     float32
	Reason    string
	CreatedAt int64
	IsViewed  bool
}

func (c *Recommendation) Encode() ([]byte, error) {
	w := newWriter(KindRecommendation)
	w.id(c.User)
	w.u8(c.Type)
	w.addr(c.Target)
	w.f32(c.Score)
	w.str(c.Reason, MaxReasonLen, apperr.ErrReasonTooLong)
	w.i64(c.CreatedAt)
	w.bool(c.IsViewed)
	return w.bytes()
}

func DecodeRecommendation(b []byte) (*Recommendation, error) {
	r := newReader(b, KindRecommendation)
	c := &Recommendation{User: r.id()}
	c.Type = r.u8()
	c.Target = r.addr()
	c.Score = r.f32()
	c.Reason = r.str(MaxReasonLen)
	c.CreatedAt = r.i64()
	c.IsViewed = r.bool()
	if err := r.done(); err != nil {
		return nil, err
	}
	return c, nil
}
