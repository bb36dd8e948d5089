/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package defaults

import "time"

// Recommendation defaults.
const (
	// NumRecommendations is the default cap on recommendation output length.
	NumRecommendations = 30

	// MaxRecommendations bounds the limit accepted by the HTTP API.
	MaxRecommendations = 1000
)

// Hardware probe defaults.
const (
	// CollectorTimeout bounds a single hardware collector.
	CollectorTimeout = 10 * time.Second

	// GPUFallbackMemoryGB is assumed when GPU memory cannot be detected.
	GPUFallbackMemoryGB = 2.0

	// SMIPath is the nvidia-smi binary looked up on PATH.
	SMIPath = "nvidia-smi"
)

// Steam Web API client defaults.
const (
	SteamBaseURL = "https://api.steampowered.com"

	// HTTPClientTimeout bounds a single outbound request.
	HTTPClientTimeout = 30 * time.Second

	SteamMaxRetries     = 5
	SteamRetryBaseDelay = time.Second

	// SteamRequestsPerSecond paces outbound calls; the public API allows
	// roughly one request per second sustained.
	SteamRequestsPerSecond = 1.0

	// MaxErrorBodyBytes caps how much of an error response is read.
	MaxErrorBodyBytes = 64 * 1024
)

// HTTP server defaults.
const (
	RecommendHandlerTimeout = 30 * time.Second
	CatalogHandlerTimeout   = 10 * time.Second

	ServerReadTimeout     = 10 * time.Second
	ServerWriteTimeout    = 30 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second

	// MaxRequestBodyBytes caps POST bodies accepted by the API.
	MaxRequestBodyBytes = 1 << 20
)
