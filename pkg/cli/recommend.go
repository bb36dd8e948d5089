/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/playfit/pkg/config"
	"github.com/NVIDIA/playfit/pkg/hardware"
	"github.com/NVIDIA/playfit/pkg/library"
	"github.com/NVIDIA/playfit/pkg/recommender"
	"github.com/NVIDIA/playfit/pkg/serializer"
)

// hardwareFlags override individual fields of the detected hardware.
func hardwareFlags() []cli.Flag {
	return []cli.Flag{
		snapshotFlag(),
		&cli.IntFlag{
			Name:  "cpu-cores",
			Usage: "override the detected physical CPU core count",
		},
		&cli.FloatFlag{
			Name:  "gpu-memory",
			Usage: "override the detected GPU memory in GB",
		},
		&cli.FloatFlag{
			Name:  "ram",
			Usage: "override the detected system RAM in GB",
		},
	}
}

func recommendCmd() *cli.Command {
	flags := append(hardwareFlags(),
		&cli.StringFlag{
			Name:    "library",
			Aliases: []string{"l"},
			Usage:   "read owned games from a library file instead of the Steam Web API",
		},
		&cli.StringFlag{
			Name:  "steam-id",
			Usage: "Steam ID whose library is fetched (overrides configuration and stored credentials)",
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "maximum number of suggestions (default: num_recommendations from configuration)",
		},
		outputFlag(),
		formatFlag(serializer.FormatText),
	)

	return &cli.Command{
		Name:                  "recommend",
		EnableShellCompletion: true,
		Usage:                 "Suggest catalog games that fit this machine and your play history",
		Description: `Suggest games from the catalog that:
  - run on this machine (CPU cores, GPU memory and RAM meet the title's minimums)
  - are not already in your library

Hardware is probed live unless --snapshot is given; --cpu-cores, --gpu-memory
and --ram override individual values. The library comes from the Steam Web API
using stored credentials unless --library is given. When Steam cannot be
reached the command warns and continues with an empty library.

Hardware probing and the library fetch run in parallel.

The result can be output as numbered text, JSON, YAML, or table format.`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			limit := cfg.NumRecommendations
			if cmd.IsSet("limit") {
				limit = int(cmd.Int("limit"))
			}

			var (
				profile hardware.Profile
				owned   []library.OwnedGame
			)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				p, perr := resolveProfile(gctx, cmd, cfg)
				if perr != nil {
					return fmt.Errorf("failed to determine hardware profile: %w", perr)
				}
				profile = p
				return nil
			})
			g.Go(func() error {
				games, lerr := resolveLibrary(gctx, cmd, cfg)
				if lerr != nil {
					return lerr
				}
				owned = games
				return nil
			})
			if err := g.Wait(); err != nil {
				return err
			}

			cat, err := loadCatalog(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}

			svc := recommender.NewService(
				recommender.WithVersion(version),
				recommender.WithCatalog(cat),
				recommender.WithLimit(cfg.NumRecommendations),
			)

			rec, err := svc.RecommendTop(ctx, profile, owned, limit)
			if err != nil {
				return fmt.Errorf("failed to generate recommendations: %w", err)
			}

			slog.Info("recommendations generated",
				"profile", profile.String(),
				"owned", len(owned),
				"compatible", rec.Summary.CompatibleTitles,
				"recommended", len(rec.Recommendations),
			)

			return writeOutput(ctx, cmd, outFormat, rec)
		},
	}
}

// resolveLibrary reads --library when given. Otherwise it fetches the Steam
// library and degrades to an empty one on failure.
func resolveLibrary(ctx context.Context, cmd *cli.Command, cfg *config.Config) ([]library.OwnedGame, error) {
	if path := cmd.String("library"); path != "" {
		src := &library.FileSource{Path: path}
		games, err := src.OwnedGames(ctx, "")
		if err != nil {
			return nil, fmt.Errorf("failed to load library from %q: %w", path, err)
		}
		return games, nil
	}

	steamID, games, err := fetchSteamLibrary(ctx, cfg, cmd.String("steam-id"))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Warn("failed to fetch Steam library, continuing with an empty library",
			"steam_id", steamID,
			"error", err,
		)
		return []library.OwnedGame{}, nil
	}

	slog.Info("fetched Steam library", "steam_id", steamID, "games", len(games))
	return games, nil
}
