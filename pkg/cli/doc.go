/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the command-line interface for the playfit tool.
//
// # Overview
//
// playfit suggests games from a fixed catalog that the current machine can
// run and that the user does not own yet, ranked against the play time in
// the user's Steam library.
//
// # Commands
//
// recommend - Suggest games:
//
//	playfit recommend
//	playfit recommend --limit 10 --format json --output suggestions.json
//	playfit recommend --snapshot laptop.yaml --library library.yaml
//	playfit recommend --gpu-memory 4 --ram 16
//
// Probes the hardware and fetches the Steam library in parallel, filters the
// catalog for the hardware, drops owned titles and ranks the rest. When the
// Steam API cannot be reached the command logs a warning and continues with
// an empty library.
//
// snapshot - Capture hardware:
//
//	playfit snapshot --output laptop.yaml
//
// Records CPU cores, GPU memory (nvidia-smi, with a configured fallback)
// and system RAM.
//
// catalog - Browse candidate titles:
//
//	playfit catalog
//	playfit catalog --compatible
//	playfit catalog --title "portal 2"
//
// library - Fetch the Steam library:
//
//	playfit library --format yaml --output library.yaml
//
// credentials - Manage sealed Steam credentials:
//
//	playfit credentials init --steam-id 7656119... --api-key XXXXXXXX
//	playfit credentials show
//
// # Global Flags
//
//	--config, -c   Configuration file path
//	--debug        Enable debug logging
//	--log-json     Output logs in JSON format
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Output Formats
//
// Text (recommend and catalog default):
//   - Numbered suggestion list: "(1) Half-Life 2"
//
// YAML, JSON:
//   - Versioned documents with kind, apiVersion and metadata
//
// Table:
//   - Flattened key/value view for terminals
//
// # Environment Variables
//
//	LOG_LEVEL               Set logging verbosity (debug, info, warn, error)
//	PLAYFIT_CONFIG          Configuration file path
//	PLAYFIT_STEAM_ID        Steam ID to fetch
//	PLAYFIT_STEAM_API_KEY   Steam Web API key
//	PLAYFIT_*               Any other configuration key, see pkg/config
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, execution failure)
//	2  Context canceled or timeout
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/playfit/pkg/cli.version=1.0.0'"
package cli
