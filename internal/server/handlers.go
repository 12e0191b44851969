package server

import (
	"net/http"
	"strconv"

	"github.com/soundgraph/soundgraph/internal/perm"
	"github.com/soundgraph/soundgraph/internal/record"
	"github.com/soundgraph/soundgraph/internal/service/graph"
)

// --- users ---

func (s *Server) handleCreateUserProfile(w http.ResponseWriter, r *http.Request) {
	owner, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	var body struct {
		Username    string `json:"username"`
		DisplayName string `json:"display_name"`
		Bio         string `json:"bio"`
		ImageURL    string `json:"image_url"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.badRequest(w, err)
		return
	}
	profile, err := s.svc.CreateUserProfile(r.Context(), owner, graph.CreateUserProfileParams{
		Username:    body.Username,
		DisplayName: body.DisplayName,
		Bio:         body.Bio,
		ImageURL:    body.ImageURL,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, profileResponse(profile))
}

func (s *Server) handleUpdateUserProfile(w http.ResponseWriter, r *http.Request) {
	owner, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	var body struct {
		DisplayName *string `json:"display_name"`
		Bio         *string `json:"bio"`
		ImageURL    *string `json:"image_url"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.badRequest(w, err)
		return
	}
	profile, err := s.svc.UpdateUserProfile(r.Context(), owner, graph.UpdateUserProfileParams{
		DisplayName: body.DisplayName,
		Bio:         body.Bio,
		ImageURL:    body.ImageURL,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse(profile))
}

func (s *Server) handleGetUserProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathIdentity(r, "id")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	profile, err := s.svc.GetUserProfile(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse(profile))
}

func (s *Server) handleGetUserStats(w http.ResponseWriter, r *http.Request) {
	id, err := pathIdentity(r, "id")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	stats, err := s.svc.GetUserStats(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse(stats))
}

func (s *Server) handleFollowerCount(w http.ResponseWriter, r *http.Request) {
	id, err := pathIdentity(r, "id")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	n, err := s.svc.FollowerCount(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"count": n})
}

func (s *Server) handleFollowUser(w http.ResponseWriter, r *http.Request) {
	follower, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	following, err := pathIdentity(r, "id")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	if err := s.svc.FollowUser(r.Context(), follower, following); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnfollowUser(w http.ResponseWriter, r *http.Request) {
	follower, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	following, err := pathIdentity(r, "id")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	if err := s.svc.UnfollowUser(r.Context(), follower, following); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleIsFollowing(w http.ResponseWriter, r *http.Request) {
	follower, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	following, err := pathIdentity(r, "id")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	ok, err := s.svc.IsFollowing(r.Context(), follower, following)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"following": ok})
}

func (s *Server) handleGenerateInsights(w http.ResponseWriter, r *http.Request) {
	user, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	insights, err := s.svc.GenerateUserInsights(r.Context(), user)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insightsResponse(insights))
}

func (s *Server) handleGetInsights(w http.ResponseWriter, r *http.Request) {
	id, err := pathIdentity(r, "id")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	insights, err := s.svc.GetUserInsights(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insightsResponse(insights))
}

// --- tracks ---

func (s *Server) handleCreateTrack(w http.ResponseWriter, r *http.Request) {
	creator, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	var body struct {
		Title    string `json:"title"`
		Artist   string `json:"artist"`
		Album    string `json:"album"`
		Genre    string `json:"genre"`
		Duration uint64 `json:"duration"`
		AudioURL string `json:"audio_url"`
		CoverURL string `json:"cover_url"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.badRequest(w, err)
		return
	}
	trackAddr, track, err := s.svc.CreateTrack(r.Context(), creator, graph.CreateTrackParams{
		Title:    body.Title,
		Artist:   body.Artist,
		Album:    body.Album,
		Genre:    body.Genre,
		Duration: body.Duration,
		AudioURL: body.AudioURL,
		CoverURL: body.CoverURL,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := trackResponse(track)
	resp["address"] = trackAddr.String()
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetTrack(w http.ResponseWriter, r *http.Request) {
	a, err := pathAddress(r, "addr")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	track, err := s.svc.GetTrack(r.Context(), a)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trackResponse(track))
}

func (s *Server) handlePlayTrack(w http.ResponseWriter, r *http.Request) {
	user, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	a, err := pathAddress(r, "addr")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	var body struct {
		DurationPlayed uint64 `json:"duration_played"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.badRequest(w, err)
		return
	}
	play, err := s.svc.PlayTrack(r.Context(), user, a, body.DurationPlayed)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playResponse(play))
}

func (s *Server) handleTrackPlayCount(w http.ResponseWriter, r *http.Request) {
	a, err := pathAddress(r, "addr")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	n, err := s.svc.TrackPlayCount(r.Context(), a)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"count": n})
}

func (s *Server) handleGetTrackPlay(w http.ResponseWriter, r *http.Request) {
	user, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	a, err := pathAddress(r, "addr")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	play, err := s.svc.GetTrackPlay(r.Context(), a, user)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playResponse(play))
}

func (s *Server) handleLikeTrack(w http.ResponseWriter, r *http.Request) {
	user, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	a, err := pathAddress(r, "addr")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	if err := s.svc.LikeTrack(r.Context(), user, a); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnlikeTrack(w http.ResponseWriter, r *http.Request) {
	user, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	a, err := pathAddress(r, "addr")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	if err := s.svc.UnlikeTrack(r.Context(), user, a); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTrackLikeCount(w http.ResponseWriter, r *http.Request) {
	a, err := pathAddress(r, "addr")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	n, err := s.svc.TrackLikeCount(r.Context(), a)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"count": n})
}

func (s *Server) handleHasLikedTrack(w http.ResponseWriter, r *http.Request) {
	user, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	a, err := pathAddress(r, "addr")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	ok, err := s.svc.HasLikedTrack(r.Context(), user, a)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"liked": ok})
}

// --- playlists ---

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	owner, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	var body struct {
		Name            string `json:"name"`
		Description     string `json:"description"`
		IsPublic        bool   `json:"is_public"`
		IsCollaborative bool   `json:"is_collaborative"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.badRequest(w, err)
		return
	}
	playlistAddr, playlist, err := s.svc.CreatePlaylist(r.Context(), owner, graph.CreatePlaylistParams{
		Name:            body.Name,
		Description:     body.Description,
		IsPublic:        body.IsPublic,
		IsCollaborative: body.IsCollaborative,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := playlistResponse(playlist)
	resp["address"] = playlistAddr.String()
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	a, err := pathAddress(r, "addr")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	playlist, err := s.svc.GetPlaylist(r.Context(), a)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlistResponse(playlist))
}

func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	user, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	a, err := pathAddress(r, "addr")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	var body struct {
		Description     *string `json:"description"`
		IsPublic        *bool   `json:"is_public"`
		IsCollaborative *bool   `json:"is_collaborative"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.badRequest(w, err)
		return
	}
	playlist, err := s.svc.UpdatePlaylist(r.Context(), user, a, graph.UpdatePlaylistParams{
		Description:     body.Description,
		IsPublic:        body.IsPublic,
		IsCollaborative: body.IsCollaborative,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlistResponse(playlist))
}

func (s *Server) handleAddTrackToPlaylist(w http.ResponseWriter, r *http.Request) {
	user, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	a, err := pathAddress(r, "addr")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	var body struct {
		Track string `json:"track"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.badRequest(w, err)
		return
	}
	trackAddr, err := parseAddress(body.Track)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	entry, err := s.svc.AddTrackToPlaylist(r.Context(), user, a, trackAddr)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, playlistTrackResponse(entry))
}

func (s *Server) handleRemoveTrackFromPlaylist(w http.ResponseWriter, r *http.Request) {
	user, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	a, err := pathAddress(r, "addr")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	trackAddr, err := pathAddress(r, "track")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	if err := s.svc.RemoveTrackFromPlaylist(r.Context(), user, a, trackAddr); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddCollaborator(w http.ResponseWriter, r *http.Request) {
	owner, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	a, err := pathAddress(r, "addr")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	var body struct {
		User        string `json:"user"`
		Permissions uint8  `json:"permissions"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.badRequest(w, err)
		return
	}
	collaborator, err := parseIdentity(body.User)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	collab, err := s.svc.AddCollaborator(r.Context(), owner, a, collaborator, perm.Capability(body.Permissions))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, collaboratorResponse(collab))
}

func (s *Server) handleGetCollaborator(w http.ResponseWriter, r *http.Request) {
	a, err := pathAddress(r, "addr")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	user, err := pathIdentity(r, "user")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	collab, err := s.svc.GetCollaborator(r.Context(), a, user)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, collaboratorResponse(collab))
}

func (s *Server) handleLikePlaylist(w http.ResponseWriter, r *http.Request) {
	user, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	a, err := pathAddress(r, "addr")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	if err := s.svc.LikePlaylist(r.Context(), user, a); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnlikePlaylist(w http.ResponseWriter, r *http.Request) {
	user, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	a, err := pathAddress(r, "addr")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	if err := s.svc.UnlikePlaylist(r.Context(), user, a); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlaylistLikeCount(w http.ResponseWriter, r *http.Request) {
	a, err := pathAddress(r, "addr")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	n, err := s.svc.PlaylistLikeCount(r.Context(), a)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"count": n})
}

// --- discovery ---

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	targetType, err := parseTargetType(r.URL.Query().Get("type"))
	if err != nil {
		s.badRequest(w, err)
		return
	}
	idx, err := s.svc.Search(r.Context(), term, targetType)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse(idx))
}

func (s *Server) handleCreateSearchIndex(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Term       string `json:"term"`
		TargetType uint8  `json:"target_type"`
		Target     string `json:"target"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.badRequest(w, err)
		return
	}
	target, err := parseAddress(body.Target)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	idx, err := s.svc.CreateSearchIndex(r.Context(), body.Term, body.TargetType, target)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, searchResponse(idx))
}

func (s *Server) handleCreateRecommendation(w http.ResponseWriter, r *http.Request) {
	user, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	var body struct {
		Type   uint8   `json:"type"`
		Target string  `json:"target"`
		Score  float32 `json:"score"`
		Reason string  `json:"reason"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.badRequest(w, err)
		return
	}
	target, err := parseAddress(body.Target)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	rec, err := s.svc.CreateRecommendation(r.Context(), user, graph.CreateRecommendationParams{
		Type:   body.Type,
		Target: target,
		Score:  body.Score,
		Reason: body.Reason,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, recommendationResponse(rec))
}

func (s *Server) handleGetRecommendation(w http.ResponseWriter, r *http.Request) {
	user, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	target, err := pathAddress(r, "target")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	recType, err := parseTargetType(r.URL.Query().Get("type"))
	if err != nil {
		s.badRequest(w, err)
		return
	}
	rec, err := s.svc.GetRecommendation(r.Context(), user, target, recType)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recommendationResponse(rec))
}

func (s *Server) handleMarkRecommendationViewed(w http.ResponseWriter, r *http.Request) {
	user, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	target, err := pathAddress(r, "target")
	if err != nil {
		s.badRequest(w, err)
		return
	}
	recType, err := parseTargetType(r.URL.Query().Get("type"))
	if err != nil {
		s.badRequest(w, err)
		return
	}
	rec, err := s.svc.MarkRecommendationViewed(r.Context(), user, target, recType)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recommendationResponse(rec))
}

func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	user, err := actor(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil {
			s.badRequest(w, err)
			return
		}
	}
	page, err := s.svc.ListActivity(r.Context(), user, r.URL.Query().Get("token"), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	entries := make([]map[string]any, 0, len(page.Entries))
	for _, e := range page.Entries {
		entries = append(entries, activityResponse(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries":    entries,
		"next_token": page.NextToken,
	})
}

// --- response shapes ---
//
// Identities and addresses go over the wire as hex strings, never as raw
// byte arrays.

func profileResponse(p *record.UserProfile) map[string]any {
	return map[string]any{
		"owner":           p.Owner.String(),
		"username":        p.Username,
		"display_name":    p.DisplayName,
		"bio":             p.Bio,
		"image_url":       p.ImageURL,
		"followers_count": p.FollowersCount,
		"following_count": p.FollowingCount,
		"created_at":      p.CreatedAt,
	}
}

func statsResponse(st *record.UserStats) map[string]any {
	return map[string]any{
		"owner":                st.Owner.String(),
		"tracks_created":       st.TracksCreated,
		"playlists_created":    st.PlaylistsCreated,
		"total_likes_received": st.TotalLikesReceived,
		"total_plays":          st.TotalPlays,
		"total_listen_time":    st.TotalListenTime,
		"activity_count":       st.ActivityCount,
		"last_active":          st.LastActive,
	}
}

func trackResponse(t *record.Track) map[string]any {
	return map[string]any{
		"title":       t.Title,
		"artist":      t.Artist,
		"album":       t.Album,
		"genre":       t.Genre,
		"duration":    t.Duration,
		"audio_url":   t.AudioURL,
		"cover_url":   t.CoverURL,
		"likes_count": t.LikesCount,
		"plays_count": t.PlaysCount,
		"created_by":  t.CreatedBy.String(),
		"created_at":  t.CreatedAt,
	}
}

func playResponse(p *record.TrackPlay) map[string]any {
	return map[string]any{
		"track":           p.Track.String(),
		"user":            p.User.String(),
		"play_count":      p.PlayCount,
		"total_duration":  p.TotalDuration,
		"first_played_at": p.FirstPlayedAt,
		"last_played_at":  p.LastPlayedAt,
	}
}

func playlistResponse(p *record.Playlist) map[string]any {
	return map[string]any{
		"owner":            p.Owner.String(),
		"name":             p.Name,
		"description":      p.Description,
		"is_public":        p.IsPublic,
		"is_collaborative": p.IsCollaborative,
		"tracks_count":     p.TracksCount,
		"likes_count":      p.LikesCount,
		"plays_count":      p.PlaysCount,
		"created_at":       p.CreatedAt,
		"updated_at":       p.UpdatedAt,
	}
}

func playlistTrackResponse(e *record.PlaylistTrack) map[string]any {
	return map[string]any{
		"playlist": e.Playlist.String(),
		"track":    e.Track.String(),
		"added_by": e.AddedBy.String(),
		"added_at": e.AddedAt,
		"position": e.Position,
	}
}

func collaboratorResponse(c *record.PlaylistCollaborator) map[string]any {
	return map[string]any{
		"playlist":    c.Playlist.String(),
		"user":        c.User.String(),
		"permissions": c.Permissions,
		"added_at":    c.AddedAt,
	}
}

func searchResponse(i *record.SearchIndex) map[string]any {
	return map[string]any{
		"term":        i.Term,
		"target_type": i.TargetType,
		"target":      i.Target.String(),
		"created_at":  i.CreatedAt,
	}
}

func insightsResponse(i *record.UserInsights) map[string]any {
	resp := map[string]any{
		"user":                 i.User.String(),
		"total_listening_time": i.TotalListeningTime,
		"favorite_genre":       i.FavoriteGenre,
		"discovery_score":      i.DiscoveryScore,
		"social_engagement":    i.SocialEngagement,
		"generated_at":         i.GeneratedAt,
	}
	if i.HasMostPlayed {
		resp["most_played_track"] = i.MostPlayedTrack.String()
	}
	return resp
}

func recommendationResponse(c *record.Recommendation) map[string]any {
	return map[string]any{
		"user":       c.User.String(),
		"type":       c.Type,
		"target":     c.Target.String(),
		"score":      c.Score,
		"reason":     c.Reason,
		"created_at": c.CreatedAt,
		"is_viewed":  c.IsViewed,
	}
}

func activityResponse(e *record.ActivityFeed) map[string]any {
	return map[string]any{
		"user":          e.User.String(),
		"activity_type": e.ActivityType,
		"target":        e.Target.String(),
		"metadata":      e.Metadata,
		"created_at":    e.CreatedAt,
	}
}
