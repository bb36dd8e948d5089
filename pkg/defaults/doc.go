// Package defaults provides centralized configuration constants for playfit.
//
// This package defines timeout values, retry parameters, and recommendation
// tuning defaults used across the codebase. Configuration files and
// environment variables override most of these at runtime (see pkg/config).
//
// # Timeout Categories
//
//   - Collector timeouts: hardware probing (gopsutil, nvidia-smi)
//   - Handler timeouts: HTTP request processing
//   - Server timeouts: HTTP server lifecycle
//   - HTTP client timeouts: outbound Steam Web API requests
//
// # Usage
//
//	import "github.com/NVIDIA/playfit/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.CollectorTimeout)
//	defer cancel()
package defaults
