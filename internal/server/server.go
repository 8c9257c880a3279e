package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/harmony/internal/analysis"
	"github.com/desertthunder/harmony/internal/auth"
	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/services"
	"github.com/desertthunder/harmony/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows which paths it serves.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router registers handlers and applies middleware.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Authenticator runs the OAuth authorization code flow against the music service.
type Authenticator interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*models.Token, error)
	auth.Refresher
}

// Client is a per-session music service client.
type Client interface {
	services.Provider
	CurrentUser(ctx context.Context) (*services.User, error)
}

// ClientFactory builds a [Client] for a valid token.
type ClientFactory func(ctx context.Context, token *models.Token) Client

// SpotifyClients adapts [services.SpotifyService.Client] to a [ClientFactory].
func SpotifyClients(svc *services.SpotifyService) ClientFactory {
	return func(ctx context.Context, token *models.Token) Client {
		return svc.Client(ctx, token)
	}
}

// Options configures a [Server].
//
// Auth and Clients may be nil when no Spotify credentials are configured; login and analysis then fail with 500.
type Options struct {
	Config  *shared.Config
	Store   models.SessionStore
	Auth    Authenticator
	Clients ClientFactory
	Logger  *log.Logger
}

// Server is the harmony HTTP API.
type Server struct {
	config   *shared.Config
	store    models.SessionStore
	auth     Authenticator
	clients  ClientFactory
	tokens   *auth.TokenManager
	analyzer *analysis.Analyzer
	sessions *Sessions
	logger   *log.Logger
	router   *BasicRouter
	handler  http.Handler
}

// New wires the routes and middleware for the API.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("%w: server requires a config", shared.ErrInvalidConfig)
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("%w: server requires a session store", shared.ErrInvalidConfig)
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	var refresher auth.Refresher
	if opts.Auth != nil {
		refresher = opts.Auth
	}

	s := &Server{
		config:   opts.Config,
		store:    opts.Store,
		auth:     opts.Auth,
		clients:  opts.Clients,
		tokens:   auth.NewTokenManager(opts.Store, refresher, logger),
		analyzer: analysis.NewAnalyzer(logger),
		sessions: NewSessions(opts.Store, opts.Config),
		logger:   shared.WithLogger(logger, "component", "server"),
		router:   NewBasicRouter(),
	}
	s.routes()
	s.handler = CORS(opts.Config.AllowedOrigins())(s.router)

	return s, nil
}

// Tokens exposes the token manager, mainly so tests can pin its clock.
func (s *Server) Tokens() *auth.TokenManager {
	return s.tokens
}

func (s *Server) routes() {
	r := s.router
	r.Use(Logging(s.logger), Recover(s.logger))

	r.Handle(http.MethodGet, "/health", http.HandlerFunc(s.handleHealth))
	r.Handle(http.MethodGet, "/api/auth/login", http.HandlerFunc(s.handleLogin))
	r.Handle(http.MethodGet, "/api/auth/status", http.HandlerFunc(s.handleStatus))
	r.Handle(http.MethodGet, "/api/auth/logout", http.HandlerFunc(s.handleLogout))
	r.Handle(http.MethodPost, "/api/analyze", http.HandlerFunc(s.handleAnalyze))
	r.Handler(NewCallbackHandler(s))

	if s.config.Server.Debug {
		r.Handle(http.MethodGet, "/debug/token_info", http.HandlerFunc(s.handleTokenInfo))
		r.Handle(http.MethodGet, "/debug/me", http.HandlerFunc(s.handleMe))
		r.Handle(http.MethodGet, "/debug/fetch_playlist", http.HandlerFunc(s.handleFetchPlaylist))
	}
}

// ServeHTTP serves the API behind the CORS layer.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run listens on the configured address until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
