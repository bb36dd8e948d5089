/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/playfit/pkg/hardware"
	"github.com/NVIDIA/playfit/pkg/recommender"
	"github.com/NVIDIA/playfit/pkg/serializer"
)

func catalogCmd() *cli.Command {
	flags := append(hardwareFlags(),
		&cli.BoolFlag{
			Name:  "compatible",
			Usage: "list only the titles this machine (or --snapshot) can run",
		},
		&cli.StringFlag{
			Name:  "title",
			Usage: "look up a single title by name, ignoring case",
		},
		outputFlag(),
		formatFlag(serializer.FormatText),
	)

	return &cli.Command{
		Name:                  "catalog",
		EnableShellCompletion: true,
		Usage:                 "List candidate titles and their minimum hardware",
		Description: `List the candidate catalog with each title's minimum CPU cores,
GPU memory and RAM, in catalog order.

Use --compatible to keep only titles the hardware can run. The titles left
out are listed as excluded together with the requirements they miss.
Use --title to look up one title; unknown titles report the closest
catalog names.`,
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

			cat, err := loadCatalog(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			svc := recommender.NewService(recommender.WithVersion(version), recommender.WithCatalog(cat))

			if title := cmd.String("title"); title != "" {
				tl, lerr := svc.Lookup(ctx, title)
				if lerr != nil {
					return lerr
				}
				return writeOutput(ctx, cmd, outFormat, tl)
			}

			var profile *hardware.Profile
			if cmd.Bool("compatible") {
				p, perr := resolveProfile(ctx, cmd, cfg)
				if perr != nil {
					return fmt.Errorf("failed to determine hardware profile: %w", perr)
				}
				profile = &p
			}

			tl, err := svc.Titles(ctx, profile)
			if err != nil {
				return err
			}
			return writeOutput(ctx, cmd, outFormat, tl)
		},
	}
}
