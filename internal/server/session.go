package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/shared"
)

const cookieIssuer = "harmony"

// Sessions ties the session cookie to the session store.
//
// The cookie carries an HS256 JWT whose subject is the session id. Everything else lives server-side.
type Sessions struct {
	store  models.SessionStore
	secret []byte
	name   string
	ttl    time.Duration
	secure bool
}

// NewSessions builds the cookie codec from the session configuration.
//
// An empty secret is replaced by a random one, so cookies do not survive a restart.
func NewSessions(store models.SessionStore, cfg *shared.Config) *Sessions {
	secret := cfg.Session.Secret
	if secret == "" {
		secret = shared.GenerateID()
	}
	name := cfg.Session.CookieName
	if name == "" {
		name = "harmony_session"
	}
	return &Sessions{
		store:  store,
		secret: []byte(secret),
		name:   name,
		ttl:    cfg.SessionTTL(),
		secure: cfg.Session.SecureCookie,
	}
}

// Load returns the session named by the request cookie.
func (s *Sessions) Load(r *http.Request) (*models.Session, error) {
	cookie, err := r.Cookie(s.name)
	if err != nil {
		return nil, shared.ErrSessionNotFound
	}

	id, err := s.Decode(cookie.Value)
	if err != nil {
		return nil, err
	}

	return s.store.Get(r.Context(), id)
}

// Start returns the request's session, creating one and setting its cookie when there is none.
func (s *Sessions) Start(w http.ResponseWriter, r *http.Request) (*models.Session, error) {
	session, err := s.Load(r)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, shared.ErrSessionNotFound) && !errors.Is(err, shared.ErrSessionExpired) &&
		!errors.Is(err, shared.ErrInvalidSession) {
		return nil, err
	}

	return s.create(r.Context(), w)
}

func (s *Sessions) create(ctx context.Context, w http.ResponseWriter) (*models.Session, error) {
	session := models.NewSession(s.ttl)
	if err := s.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	value, err := s.Encode(session)
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, s.cookie(value, session.ExpiresAt()))
	return session, nil
}

// Clear expires the session cookie in the browser.
func (s *Sessions) Clear(w http.ResponseWriter) {
	c := s.cookie("", time.Unix(0, 0))
	c.MaxAge = -1
	http.SetCookie(w, c)
}

func (s *Sessions) cookie(value string, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     s.name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if s.secure {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

// Encode signs a cookie value for session.
func (s *Sessions) Encode(session *models.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    cookieIssuer,
		Subject:   session.ID(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt()),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session cookie: %w", err)
	}
	return signed, nil
}

// Decode verifies a cookie value and returns the session id it carries.
func (s *Sessions) Decode(value string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(value, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cookieIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", shared.ErrSessionExpired
		}
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidSession, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: cookie without session id", shared.ErrInvalidSession)
	}
	return claims.Subject, nil
}
