package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/harmony/internal/analysis"
	"github.com/desertthunder/harmony/internal/formatter"
	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/playlist"
	"github.com/desertthunder/harmony/internal/services"
	"github.com/desertthunder/harmony/internal/shared"
	"github.com/desertthunder/harmony/internal/ui"
)

// PlaylistID prints the playlist ID parsed from a URL, URI or bare ID.
func (r *Runner) PlaylistID(ctx context.Context, cmd *cli.Command) error {
	input := cmd.StringArg("input")
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("%w: playlist URL, URI or ID", shared.ErrMissingArgument)
	}

	id, ok := playlist.ExtractID(input)
	if !ok {
		return fmt.Errorf("%w: no playlist ID in %q", shared.ErrInvalidInput, input)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]string{"input": input, "id": id}, false)
	}
	return r.writePlain("%s\n", id)
}

// Mood classifies explicit averaged feature values.
func (r *Runner) Mood(ctx context.Context, cmd *cli.Command) error {
	valence, energy, danceability := cmd.Float("valence"), cmd.Float("energy"), cmd.Float("danceability")
	for name, v := range map[string]float64{"valence": valence, "energy": energy, "danceability": danceability} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s must be between 0 and 1, got %v", shared.ErrInvalidArgument, name, v)
		}
	}

	mood := analysis.Classify(valence, energy, danceability)
	if cmd.Bool("json") {
		return r.writeJSON(mood, true)
	}
	return r.writePlain("%s\n", ui.RenderMood(mood))
}

// Analyze runs the full analysis for one playlist with an access token obtained elsewhere.
//
// The token is used as is; it is never refreshed.
func (r *Runner) Analyze(ctx context.Context, cmd *cli.Command) error {
	input := cmd.StringArg("playlist")
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("%w: playlist URL, URI or ID", shared.ErrMissingArgument)
	}

	accessToken := strings.TrimSpace(cmd.String("token"))
	if accessToken == "" {
		return fmt.Errorf("%w: pass --token or set SPOTIFY_ACCESS_TOKEN", shared.ErrNotAuthenticated)
	}

	format, path := cmd.String("format"), cmd.String("output")
	var f formatter.Format
	if format != "pretty" || path != "" {
		if format == "pretty" {
			format = string(formatter.FormatText)
		}
		parsed, err := formatter.ParseFormat(format)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		f = parsed
	}

	svc, err := services.NewSpotifyService(r.config.Credentials.Spotify, r.httpClient, r.logger)
	if err != nil {
		return err
	}

	token := &models.Token{AccessToken: accessToken, TokenType: "Bearer"}
	result, err := analysis.NewAnalyzer(r.logger).Analyze(ctx, input, svc.Client(ctx, token))
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	switch {
	case path != "":
		written, err := formatter.WriteReport(result, f, path)
		if err != nil {
			return err
		}
		return r.writePlain("%s\n", ui.Success("✓ Report written to "+written))
	case f == "":
		return r.writePlain("%s\n", ui.RenderResult(result))
	default:
		data, err := formatter.Export(result, f)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	}
}
