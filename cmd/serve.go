package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/repositories"
	"github.com/desertthunder/harmony/internal/server"
	"github.com/desertthunder/harmony/internal/services"
)

const sessionPurgeInterval = 15 * time.Minute

// Serve runs the HTTP API until the process receives SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.config
	if port := int(cmd.Int("port")); port > 0 {
		config.Server.Port = port
	}
	if cmd.Bool("debug-routes") {
		config.Server.Debug = true
	}

	if err := config.Validate(); err != nil {
		return err
	}
	if !config.HasSpotifyCredentials() {
		r.logger.Warn("SPOTIFY_CLIENT_ID or SPOTIFY_CLIENT_SECRET missing - OAuth will fail until set")
	}
	if config.UsesDefaultSecret() {
		r.logger.Warn("using the default session secret; set SESSION_SECRET before deploying")
	}
	if config.CrossSiteFrontend() && !config.Session.SecureCookie {
		r.logger.Warn("frontend_url is on another site; set session.secure_cookie or login cannot complete",
			"frontend", config.Server.FrontendURL, "redirect_uri", config.Credentials.Spotify.RedirectURI)
	}
	if config.Server.Debug {
		r.logger.Warn("debug routes enabled")
	}

	store, closeStore, err := repositories.NewSessionStore(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer closeStore()

	opts := server.Options{Config: config, Store: store, Logger: r.logger}
	if config.HasSpotifyCredentials() {
		svc, err := services.NewSpotifyService(config.Credentials.Spotify, r.httpClient, r.logger)
		if err != nil {
			return err
		}
		opts.Auth = svc
		opts.Clients = server.SpotifyClients(svc)
	}

	srv, err := server.New(opts)
	if err != nil {
		return err
	}

	go r.purgeSessions(ctx, store, sessionPurgeInterval)

	r.logger.Info("starting harmony",
		"addr", config.Addr(),
		"store", config.Session.Store,
		"frontend", config.Server.FrontendURL,
		"redirect_uri", config.Credentials.Spotify.RedirectURI,
	)
	return srv.Run(ctx)
}

// purgeSessions deletes expired sessions every interval until ctx is done.
func (r *Runner) purgeSessions(ctx context.Context, store models.SessionStore, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := store.Purge(ctx, now)
			if err != nil {
				r.logger.Warn("failed to purge expired sessions", "error", err)
				continue
			}
			if n > 0 {
				r.logger.Debug("purged expired sessions", "count", n)
			}
		}
	}
}
