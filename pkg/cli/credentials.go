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

	"github.com/NVIDIA/playfit/pkg/secrets"
	"github.com/NVIDIA/playfit/pkg/serializer"
)

func credentialsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "credentials",
		EnableShellCompletion: true,
		Usage:                 "Manage the sealed Steam credentials",
		Commands: []*cli.Command{
			credentialsInitCmd(),
			credentialsShowCmd(),
		},
	}
}

func credentialsInitCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Seal a Steam ID and Web API key on disk",
		Description: `Create the key file (when missing) and write the Steam ID and API key
sealed with AES-256-GCM. Both files are readable only by the current user.
Paths come from credentials.key_file and credentials.sealed_file.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "steam-id",
				Required: true,
				Usage:    "64-bit Steam ID",
			},
			&cli.StringFlag{
				Name:     "api-key",
				Required: true,
				Usage:    "Steam Web API key",
				Sources:  cli.EnvVars("PLAYFIT_STEAM_API_KEY"),
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			_, created, err := secrets.EnsureKeyFile(cfg.Credentials.KeyFile)
			if err != nil {
				return fmt.Errorf("failed to prepare key file: %w", err)
			}
			if created {
				slog.Info("created key file", "path", cfg.Credentials.KeyFile)
			}

			creds := secrets.Credentials{
				SteamID: cmd.String("steam-id"),
				APIKey:  cmd.String("api-key"),
			}
			if err := secrets.SaveCredentials(cfg.Credentials.KeyFile, cfg.Credentials.SealedFile, creds); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			slog.Info("credentials sealed",
				"path", cfg.Credentials.SealedFile,
				"steam_id", creds.SteamID,
				"api_key", secrets.Mask(creds.APIKey),
			)
			return nil
		},
	}
}

func credentialsShowCmd() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print the stored credentials with the API key masked",
		Flags: []cli.Flag{
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

			creds, err := secrets.LoadCredentials(cfg.Credentials.KeyFile, cfg.Credentials.SealedFile)
			if err != nil {
				return fmt.Errorf("failed to load credentials: %w", err)
			}

			return writeOutput(ctx, cmd, outFormat, creds.Masked())
		},
	}
}
