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

	"github.com/NVIDIA/playfit/pkg/serializer"
	"github.com/NVIDIA/playfit/pkg/snapshotter"
)

func snapshotCmd() *cli.Command {
	return &cli.Command{
		Name:                  "snapshot",
		EnableShellCompletion: true,
		Usage:                 "Capture the hardware of this machine",
		Description: `Capture a snapshot of the hardware that decides game compatibility:
  - CPU: physical cores, logical threads and model
  - GPU: model and memory from nvidia-smi (configured fallback when unavailable)
  - Memory: total system RAM

Save a snapshot to reuse it with 'recommend --snapshot' or to compare machines.
The snapshot can be output in JSON, YAML, or table format.`,
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

			ser, err := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			if err != nil {
				return fmt.Errorf("failed to create output writer: %w", err)
			}
			defer func() {
				if err := ser.Close(); err != nil {
					slog.Warn("failed to close serializer", "error", err)
				}
			}()

			ns := snapshotter.NodeSnapshotter{
				Version:    version,
				Factory:    newFactory(cfg),
				Serializer: ser,
			}

			return ns.Measure(ctx)
		},
	}
}
