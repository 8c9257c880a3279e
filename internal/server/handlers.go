package server

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/services"
	"github.com/desertthunder/harmony/internal/shared"
)

const maxBodyBytes = 1 << 20

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	PlaylistURL string `json:"playlist_url"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		writeError(w, http.StatusInternalServerError, "Internal server error", "spotify credentials are not configured")
		return
	}

	session, err := s.sessions.Start(w, r)
	if err != nil {
		s.logger.Error("failed to start session", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error", "failed to start session")
		return
	}

	state := shared.GenerateID()
	session.SetState(state)
	if err := s.store.Update(r.Context(), session); err != nil {
		s.logger.Error("failed to store oauth state", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error", "failed to store session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"auth_url": s.auth.AuthURL(state)})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.Load(r)
	authenticated := err == nil && session.Authenticated()
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": authenticated})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if session, err := s.sessions.Load(r); err == nil {
		if err := s.store.Delete(r.Context(), session.ID()); err != nil && !errors.Is(err, shared.ErrSessionNotFound) {
			s.logger.Warn("failed to delete session", "error", err)
		}
	}
	s.sessions.Clear(w)

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// authorize returns the session and a valid token, or nil when the request is not authenticated.
func (s *Server) authorize(r *http.Request) (*models.Session, *models.Token) {
	session, err := s.sessions.Load(r)
	if err != nil {
		if !errors.Is(err, shared.ErrSessionNotFound) && !errors.Is(err, shared.ErrSessionExpired) {
			s.logger.Debug("session lookup failed", "error", err)
		}
		return nil, nil
	}
	return session, s.tokens.ValidToken(r.Context(), session)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	_, token := s.authorize(r)
	if token == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated", "")
		return
	}

	// A malformed body is treated like an empty one.
	var req AnalyzeRequest
	_ = json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req)

	input := strings.TrimSpace(req.PlaylistURL)
	if input == "" {
		writeError(w, http.StatusBadRequest, "Playlist URL is required", "")
		return
	}

	if s.clients == nil {
		writeError(w, http.StatusInternalServerError, "Internal server error", "spotify credentials are not configured")
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), input, s.clients(r.Context(), token))
	if err != nil {
		status, body := analysisFailure(err)
		if pe, ok := services.AsProviderError(err); ok && status == http.StatusTooManyRequests {
			if delay := pe.RetryDelay(); delay > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
				s.logger.Warn("spotify rate limit", "retry_in", delay)
			}
		}
		if status >= http.StatusInternalServerError {
			s.logger.Error("analysis failed", "input", input, "status", status, "error", err)
		} else {
			s.logger.Warn("analysis failed", "input", input, "status", status, "error", err)
		}
		writeJSON(w, status, body)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTokenInfo(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.Load(r)
	if err != nil || !session.Authenticated() {
		writeJSON(w, http.StatusOK, map[string]any{"token": nil})
		return
	}

	tok := session.Token()
	writeJSON(w, http.StatusOK, map[string]any{
		"has_token":             true,
		"scope":                 tok.Scope,
		"expires_at":            tok.ExpiresAt,
		"access_token_present":  tok.AccessToken != "",
		"refresh_token_present": tok.RefreshToken != "",
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	_, token := s.authorize(r)
	if token == nil || s.clients == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated", "")
		return
	}

	user, err := s.clients(r.Context(), token).CurrentUser(r.Context())
	if err != nil {
		s.logger.Error("debug me failed", "error", err)
		writeError(w, http.StatusInternalServerError, "spotify call failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":           user.ID,
		"display_name": user.DisplayName,
		"product":      user.Product,
	})
}

func (s *Server) handleFetchPlaylist(w http.ResponseWriter, r *http.Request) {
	_, token := s.authorize(r)
	if token == nil || s.clients == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated", "")
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Missing id param", "")
		return
	}

	pl, err := s.clients(r.Context(), token).FetchPlaylist(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch playlist", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"name":           pl.Name,
		"playlist_owner": pl.Owner.ID,
		"public":         pl.Public,
		"total_tracks":   pl.TotalTracks(),
	})
}
