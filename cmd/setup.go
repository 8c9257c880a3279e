package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/harmony/internal/shared"
	"github.com/desertthunder/harmony/internal/ui"
)

// SetupConfig writes the example configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = cmd.String("config")
	}
	if path == "" {
		path = "config.toml"
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("%s\n", ui.Success("✓ Wrote "+path))
	r.writePlain("%s\n", ui.Help("Set SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET and SESSION_SECRET in the file or the environment."))
	return nil
}

// SetupDatabase creates the SQLite session database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Database.Path
	if path == "" {
		return fmt.Errorf("%w: database.path is not set", shared.ErrInvalidConfig)
	}

	r.logger.Info("initializing database", "path", path)

	db, err := shared.OpenDatabase(ctx, r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", path)
	r.writePlain("%s\n", ui.Success("✓ Database ready at "+path))
	if r.config.Session.Store != "sqlite" {
		r.writePlain("%s\n", ui.Warn(`Set session.store = "sqlite" (or SESSION_STORE=sqlite) to keep sessions across restarts.`))
	}
	return nil
}
