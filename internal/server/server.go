// Package server exposes the graph operations over a JSON HTTP API. The
// actor performing a mutation is carried in the X-Actor-Id header as a hex
// identity; record addresses appear in paths as hex strings.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/soundgraph/soundgraph/internal/addr"
	"github.com/soundgraph/soundgraph/internal/app"
	"github.com/soundgraph/soundgraph/internal/config"
	apperr "github.com/soundgraph/soundgraph/internal/errors"
	"github.com/soundgraph/soundgraph/internal/service/graph"
)

const actorHeader = "X-Actor-Id"

type Server struct {
	appCtx *app.AppContext
	svc    *graph.Service
	http   *http.Server
}

func NewServer(cfg *config.Config, appCtx *app.AppContext, svc *graph.Service) *Server {
	s := &Server{appCtx: appCtx, svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/users", s.handleCreateUserProfile)
		r.Patch("/users/me", s.handleUpdateUserProfile)
		r.Get("/users/{id}", s.handleGetUserProfile)
		r.Get("/users/{id}/stats", s.handleGetUserStats)
		r.Get("/users/{id}/followers/count", s.handleFollowerCount)
		r.Post("/users/{id}/follow", s.handleFollowUser)
		r.Delete("/users/{id}/follow", s.handleUnfollowUser)
		r.Get("/users/{id}/follow", s.handleIsFollowing)
		r.Post("/users/me/insights", s.handleGenerateInsights)
		r.Get("/users/{id}/insights", s.handleGetInsights)

		r.Post("/tracks", s.handleCreateTrack)
		r.Get("/tracks/{addr}", s.handleGetTrack)
		r.Post("/tracks/{addr}/plays", s.handlePlayTrack)
		r.Get("/tracks/{addr}/plays/count", s.handleTrackPlayCount)
		r.Get("/tracks/{addr}/plays/me", s.handleGetTrackPlay)
		r.Post("/tracks/{addr}/likes", s.handleLikeTrack)
		r.Delete("/tracks/{addr}/likes", s.handleUnlikeTrack)
		r.Get("/tracks/{addr}/likes/count", s.handleTrackLikeCount)
		r.Get("/tracks/{addr}/likes/me", s.handleHasLikedTrack)

		r.Post("/playlists", s.handleCreatePlaylist)
		r.Get("/playlists/{addr}", s.handleGetPlaylist)
		r.Patch("/playlists/{addr}", s.handleUpdatePlaylist)
		r.Post("/playlists/{addr}/tracks", s.handleAddTrackToPlaylist)
		r.Delete("/playlists/{addr}/tracks/{track}", s.handleRemoveTrackFromPlaylist)
		r.Post("/playlists/{addr}/collaborators", s.handleAddCollaborator)
		r.Get("/playlists/{addr}/collaborators/{user}", s.handleGetCollaborator)
		r.Post("/playlists/{addr}/likes", s.handleLikePlaylist)
		r.Delete("/playlists/{addr}/likes", s.handleUnlikePlaylist)
		r.Get("/playlists/{addr}/likes/count", s.handlePlaylistLikeCount)

		r.Get("/search", s.handleSearch)
		r.Post("/search", s.handleCreateSearchIndex)

		r.Post("/recommendations", s.handleCreateRecommendation)
		r.Get("/recommendations/{target}", s.handleGetRecommendation)
		r.Post("/recommendations/{target}/viewed", s.handleMarkRecommendationViewed)

		r.Get("/activity", s.handleListActivity)
	})

	s.http = &http.Server{
		Addr:              net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Run serves until ctx is cancelled, then drains with a shutdown grace
// period.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.appCtx.Logger.Info("http server listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.appCtx.Logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- request plumbing ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.appCtx.Logger.Error("internal error", "error", err)
		writeJSON(w, status, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// actor parses the caller identity from the X-Actor-Id header.
func actor(r *http.Request) (addr.Identity, error) {
	return addr.ParseIdentity(r.Header.Get(actorHeader))
}

// pathAddress parses a hex record address from a URL parameter.
func pathAddress(r *http.Request, param string) (addr.Address, error) {
	return addr.ParseAddress(chi.URLParam(r, param))
}

// pathIdentity parses a hex identity from a URL parameter.
func pathIdentity(r *http.Request, param string) (addr.Identity, error) {
	return addr.ParseIdentity(chi.URLParam(r, param))
}

// parseAddress and parseIdentity parse hex values from request bodies.
func parseAddress(s string) (addr.Address, error)   { return addr.ParseAddress(s) }
func parseIdentity(s string) (addr.Identity, error) { return addr.ParseIdentity(s) }

// parseTargetType parses the target-type query or body value. Range checking
// stays in the service layer; this only rejects non-numeric input.
func parseTargetType(s string) (uint8, error) {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, apperr.New("invalid target type")
	}
	return uint8(n), nil
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.New("invalid request body")
	}
	return nil
}

// badRequest reports malformed identities, addresses and bodies: errors that
// never reached the service layer.
func (s *Server) badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}
