package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/harmony/internal/shared"
)

// CallbackHandler completes the OAuth authorization code flow.
//
// It checks the state parameter against the one stored at login, exchanges the code for a token and stores the
// token in the session. The browser is then sent back to the frontend: "/analyze" on success,
// "/?error=auth_failed" otherwise.
type CallbackHandler struct {
	server *Server
}

// NewCallbackHandler creates the callback handler for s.
func NewCallbackHandler(s *Server) *CallbackHandler {
	return &CallbackHandler{server: s}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	frontend := strings.TrimRight(h.server.config.Server.FrontendURL, "/")

	if err := h.complete(r); err != nil {
		h.server.logger.Error("oauth callback failed", "error", err)
		http.Redirect(w, r, frontend+"/?error=auth_failed", http.StatusFound)
		return
	}

	http.Redirect(w, r, frontend+"/analyze", http.StatusFound)
}

func (h *CallbackHandler) complete(r *http.Request) error {
	s := h.server
	if s.auth == nil {
		return errors.New("spotify credentials are not configured")
	}

	query := r.URL.Query()
	code := query.Get("code")
	if code == "" {
		return fmt.Errorf("authorization failed: %s - %s", query.Get("error"), query.Get("error_description"))
	}

	session, err := s.sessions.Load(r)
	if err != nil {
		return fmt.Errorf("no session for callback: %w", err)
	}

	state := query.Get("state")
	if state == "" || state != session.State() {
		return shared.ErrStateMismatch
	}

	token, err := s.auth.Exchange(r.Context(), code)
	if err != nil {
		return err
	}
	if token == nil || token.AccessToken == "" {
		return errors.New("token exchange did not return an access token")
	}

	session.SetToken(token)
	session.SetState("")
	if err := s.store.Update(r.Context(), session); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	s.logger.Info("user authenticated", "session", session.ID()[:min(8, len(session.ID()))])
	return nil
}
