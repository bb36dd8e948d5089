/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/playfit/pkg/library"
	"github.com/NVIDIA/playfit/pkg/serializer"
)

func libraryCmd() *cli.Command {
	return &cli.Command{
		Name:                  "library",
		EnableShellCompletion: true,
		Usage:                 "Fetch your owned games from the Steam Web API",
		Description: `Fetch the owned games of a Steam user with total hours played, sorted by
name. Credentials come from configuration or the sealed credentials file
created by 'credentials init'.

Save the output to a file and pass it to 'recommend --library' to work offline.
Use --format text for a summary with the total hours played.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "steam-id",
				Usage: "Steam ID to fetch (overrides configuration and stored credentials)",
			},
			outputFlag(),
			formatFlag(serializer.FormatYAML),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			steamID, games, err := fetchSteamLibrary(ctx, cfg, cmd.String("steam-id"))
			if err != nil {
				return fmt.Errorf("failed to fetch Steam library: %w", err)
			}

			return writeOutput(ctx, cmd, outFormat, library.New(steamID, games))
		},
	}
}
