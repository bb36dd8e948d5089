/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/playfit/pkg/catalog"
	"github.com/NVIDIA/playfit/pkg/collector"
	"github.com/NVIDIA/playfit/pkg/config"
	"github.com/NVIDIA/playfit/pkg/hardware"
	"github.com/NVIDIA/playfit/pkg/library"
	"github.com/NVIDIA/playfit/pkg/library/steam"
	"github.com/NVIDIA/playfit/pkg/secrets"
	"github.com/NVIDIA/playfit/pkg/serializer"
	"github.com/NVIDIA/playfit/pkg/snapshotter"
)

func outputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
	}
}

func formatFlag(def serializer.Format) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(def),
		Usage:   fmt.Sprintf("output format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
	}
}

func snapshotFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "snapshot",
		Aliases: []string{"s"},
		Usage:   "read hardware from a snapshot file instead of probing this machine",
	}
}

// parseOutputFormat extracts and validates the output format from CLI flags.
// Returns the validated format or an error if the format is unknown.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, valid formats are: %s",
			outFormat, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return outFormat, nil
}

// writeOutput serializes data to --output (or stdout) in format.
func writeOutput(ctx context.Context, cmd *cli.Command, format serializer.Format, data any) error {
	ser, err := serializer.NewFileWriterOrStdout(format, cmd.String("output"))
	if err != nil {
		return fmt.Errorf("failed to create output writer: %w", err)
	}
	defer func() {
		if err := ser.Close(); err != nil {
			slog.Warn("failed to close serializer", "error", err)
		}
	}()

	return ser.Serialize(ctx, data)
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	slog.Debug("configuration loaded", "config", cfg.String())
	return cfg, nil
}

func loadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path != "" {
		return catalog.LoadFile(cfg.Catalog.Path)
	}
	return catalog.Load(ctx)
}

func newFactory(cfg *config.Config) collector.Factory {
	return &collector.DefaultFactory{
		SMIPath:             cfg.Hardware.SMIPath,
		GPUFallbackMemoryGB: cfg.Hardware.GPUFallbackMemoryGB,
	}
}

// resolveProfile reads the hardware profile from --snapshot or probes the
// machine, then applies any --cpu-cores, --gpu-memory and --ram overrides.
func resolveProfile(ctx context.Context, cmd *cli.Command, cfg *config.Config) (hardware.Profile, error) {
	var (
		profile hardware.Profile
		err     error
	)

	if path := cmd.String("snapshot"); path != "" {
		snap, serr := snapshotter.SnapshotFromFile(path)
		if serr != nil {
			return hardware.Profile{}, fmt.Errorf("failed to load snapshot from %q: %w", path, serr)
		}
		profile, err = hardware.ProfileFromSnapshot(snap)
	} else {
		profile, err = hardware.Probe(ctx, newFactory(cfg))
	}
	if err != nil {
		return hardware.Profile{}, err
	}

	var (
		cores    *int
		gpu, ram *float64
	)
	if cmd.IsSet("cpu-cores") {
		v := int(cmd.Int("cpu-cores"))
		cores = &v
	}
	if cmd.IsSet("gpu-memory") {
		v := cmd.Float("gpu-memory")
		gpu = &v
	}
	if cmd.IsSet("ram") {
		v := cmd.Float("ram")
		ram = &v
	}
	profile = profile.Override(cores, gpu, ram)

	if err := profile.Validate(); err != nil {
		return hardware.Profile{}, err
	}
	slog.Debug("hardware profile resolved", "profile", profile.String())
	return profile, nil
}

// steamCredentials returns the Steam ID and API key from configuration,
// falling back to the sealed credentials file for whichever is missing.
// A non-empty steamIDOverride wins over both.
func steamCredentials(cfg *config.Config, steamIDOverride string) (secrets.Credentials, error) {
	creds := secrets.Credentials{
		SteamID: cfg.Steam.SteamID,
		APIKey:  cfg.Steam.APIKey,
	}
	if creds.SteamID == "" || creds.APIKey == "" {
		sealed, err := secrets.LoadCredentials(cfg.Credentials.KeyFile, cfg.Credentials.SealedFile)
		if err != nil {
			return secrets.Credentials{}, fmt.Errorf("failed to load Steam credentials (run '%s credentials init'): %w", name, err)
		}
		if creds.SteamID == "" {
			creds.SteamID = sealed.SteamID
		}
		if creds.APIKey == "" {
			creds.APIKey = sealed.APIKey
		}
	}
	if steamIDOverride != "" {
		creds.SteamID = steamIDOverride
	}
	return creds, nil
}

func newSteamSource(cfg *config.Config, apiKey string) (library.Source, error) {
	return steam.NewClient(steam.Config{
		BaseURL:           cfg.Steam.BaseURL,
		APIKey:            apiKey,
		Timeout:           cfg.Steam.Timeout,
		MaxRetries:        cfg.Steam.MaxRetries,
		RetryBaseDelay:    cfg.Steam.RetryBaseDelay,
		RequestsPerSecond: cfg.Steam.RequestsPerSecond,
	})
}

// fetchSteamLibrary returns the owned games of the configured Steam user.
func fetchSteamLibrary(ctx context.Context, cfg *config.Config, steamIDOverride string) (string, []library.OwnedGame, error) {
	creds, err := steamCredentials(cfg, steamIDOverride)
	if err != nil {
		return "", nil, err
	}
	src, err := newSteamSource(cfg, creds.APIKey)
	if err != nil {
		return creds.SteamID, nil, err
	}
	games, err := src.OwnedGames(ctx, creds.SteamID)
	if err != nil {
		return creds.SteamID, nil, err
	}
	return creds.SteamID, games, nil
}
