/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package config loads playfit settings.
//
// Values are layered, later layers winning:
//
//  1. built-in defaults
//  2. an optional YAML file
//  3. PLAYFIT_* environment variables
//
// The file is the one passed to Load, else $PLAYFIT_CONFIG, else the first
// of ./playfit.yaml and $XDG_CONFIG_HOME/playfit/config.yaml that exists.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/NVIDIA/playfit/pkg/defaults"
	pferrors "github.com/NVIDIA/playfit/pkg/errors"
	"github.com/NVIDIA/playfit/pkg/validation"
)

const (
	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "PLAYFIT_"

	// EnvConfigPath names the configuration file when no path is given.
	EnvConfigPath = "PLAYFIT_CONFIG"

	appDir = "playfit"
)

// Config is the complete playfit configuration.
type Config struct {
	NumRecommendations int    `koanf:"num_recommendations" validate:"gt=0,lte=1000"`
	LogLevel           string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	Catalog     CatalogConfig     `koanf:"catalog"`
	Steam       SteamConfig       `koanf:"steam"`
	Credentials CredentialsConfig `koanf:"credentials"`
	Hardware    HardwareConfig    `koanf:"hardware"`
	Server      ServerConfig      `koanf:"server"`
}

// CatalogConfig selects the candidate title table.
type CatalogConfig struct {
	// Path to a catalog file; empty uses the embedded catalog.
	Path string `koanf:"path"`
}

// SteamConfig configures the Steam Web API client.
type SteamConfig struct {
	BaseURL           string        `koanf:"base_url" validate:"required,url"`
	SteamID           string        `koanf:"steam_id" validate:"omitempty,numeric"`
	APIKey            string        `koanf:"api_key"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
	MaxRetries        int           `koanf:"max_retries" validate:"gte=0,lte=10"`
	RetryBaseDelay    time.Duration `koanf:"retry_base_delay" validate:"gt=0"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"finite,gte=0"`
}

// CredentialsConfig locates the sealed Steam credentials.
type CredentialsConfig struct {
	KeyFile    string `koanf:"key_file" validate:"required"`
	SealedFile string `koanf:"sealed_file" validate:"required"`
}

// HardwareConfig tunes hardware detection.
type HardwareConfig struct {
	GPUFallbackMemoryGB float64 `koanf:"gpu_fallback_memory_gb" validate:"finite,gte=0"`
	SMIPath             string  `koanf:"smi_path" validate:"required"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int     `koanf:"port" validate:"gt=0,lte=65535"`
	RateLimit      float64 `koanf:"rate_limit" validate:"finite,gt=0"`
	RateLimitBurst int     `koanf:"rate_limit_burst" validate:"gt=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	dir := configDir()
	return &Config{
		NumRecommendations: defaults.NumRecommendations,
		LogLevel:           "info",
		Steam: SteamConfig{
			BaseURL:           defaults.SteamBaseURL,
			Timeout:           defaults.HTTPClientTimeout,
			MaxRetries:        defaults.SteamMaxRetries,
			RetryBaseDelay:    defaults.SteamRetryBaseDelay,
			RequestsPerSecond: defaults.SteamRequestsPerSecond,
		},
		Credentials: CredentialsConfig{
			KeyFile:    filepath.Join(dir, "key.txt"),
			SealedFile: filepath.Join(dir, "credentials.enc"),
		},
		Hardware: HardwareConfig{
			GPUFallbackMemoryGB: defaults.GPUFallbackMemoryGB,
			SMIPath:             defaults.SMIPath,
		},
		Server: ServerConfig{
			Port:           8080,
			RateLimit:      100,
			RateLimitBurst: 200,
		},
	}
}

// configDir returns $XDG_CONFIG_HOME/playfit (or the platform equivalent),
// falling back to the working directory.
func configDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return appDir
	}
	return filepath.Join(base, appDir)
}

// envKeys maps environment variables to configuration keys. Variables not
// listed are ignored.
var envKeys = map[string]string{
	"PLAYFIT_NUM_RECOMMENDATIONS":       "num_recommendations",
	"PLAYFIT_LOG_LEVEL":                 "log_level",
	"PLAYFIT_CATALOG_PATH":              "catalog.path",
	"PLAYFIT_STEAM_BASE_URL":            "steam.base_url",
	"PLAYFIT_STEAM_ID":                  "steam.steam_id",
	"PLAYFIT_STEAM_API_KEY":             "steam.api_key",
	"PLAYFIT_STEAM_TIMEOUT":             "steam.timeout",
	"PLAYFIT_STEAM_MAX_RETRIES":         "steam.max_retries",
	"PLAYFIT_STEAM_RETRY_BASE_DELAY":    "steam.retry_base_delay",
	"PLAYFIT_STEAM_REQUESTS_PER_SECOND": "steam.requests_per_second",
	"PLAYFIT_CREDENTIALS_KEY_FILE":      "credentials.key_file",
	"PLAYFIT_CREDENTIALS_SEALED_FILE":   "credentials.sealed_file",
	"PLAYFIT_HARDWARE_GPU_FALLBACK_GB":  "hardware.gpu_fallback_memory_gb",
	"PLAYFIT_HARDWARE_SMI_PATH":         "hardware.smi_path",
	"PLAYFIT_SERVER_PORT":               "server.port",
	"PLAYFIT_SERVER_RATE_LIMIT":         "server.rate_limit",
	"PLAYFIT_SERVER_RATE_LIMIT_BURST":   "server.rate_limit_burst",
}

func envTransform(key string) string {
	return envKeys[strings.ToUpper(key)]
}

// Load builds the configuration from defaults, the configuration file and
// the environment. An explicit path that does not exist is an error; a
// missing default file is not.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, pferrors.Wrap(pferrors.ErrCodeInternal, "failed to load defaults", err)
	}

	cfgPath, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	if cfgPath != "" {
		if err := k.Load(file.Provider(cfgPath), yaml.Parser()); err != nil {
			return nil, pferrors.WrapWithContext(pferrors.ErrCodeInvalidRequest, "failed to load config file", err,
				map[string]any{"path": cfgPath})
		}
		slog.Debug("loaded config file", slog.String("path", cfgPath))
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, pferrors.Wrap(pferrors.ErrCodeInternal, "failed to load environment variables", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, pferrors.Wrap(pferrors.ErrCodeInvalidRequest, "failed to decode configuration", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolvePath(path string) (string, error) {
	explicit := strings.TrimSpace(path)
	if explicit == "" {
		explicit = strings.TrimSpace(os.Getenv(EnvConfigPath))
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", pferrors.WrapWithContext(pferrors.ErrCodeNotFound, "config file not found", err,
					map[string]any{"path": explicit})
			}
			return "", pferrors.WrapWithContext(pferrors.ErrCodeInvalidRequest, "config file not readable", err,
				map[string]any{"path": explicit})
		}
		return explicit, nil
	}

	for _, p := range []string{"playfit.yaml", filepath.Join(configDir(), "config.yaml")} {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// Validate checks every field constraint.
func (c *Config) Validate() error {
	return validation.Struct(c, pferrors.ErrCodeInvalidRequest, "invalid configuration")
}

// String implements fmt.Stringer without revealing the API key.
func (c *Config) String() string {
	key := ""
	if c.Steam.APIKey != "" {
		key = "(set)"
	}
	return fmt.Sprintf("num_recommendations=%d catalog=%q steam.base_url=%s steam.api_key=%s server.port=%d",
		c.NumRecommendations, c.Catalog.Path, c.Steam.BaseURL, key, c.Server.Port)
}
