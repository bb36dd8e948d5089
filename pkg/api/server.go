/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/NVIDIA/playfit/pkg/catalog"
	"github.com/NVIDIA/playfit/pkg/config"
	"github.com/NVIDIA/playfit/pkg/logging"
	"github.com/NVIDIA/playfit/pkg/recommender"
	"github.com/NVIDIA/playfit/pkg/server"
)

const (
	name           = "playfitd"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/playfit/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve starts the API server and blocks until shutdown.
// It loads configuration, configures logging, sets up routes, and handles
// graceful shutdown. Returns an error if the server fails to start or
// encounters a fatal error.
func Serve() error {
	ctx := context.Background()

	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.LogLevel)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)
	slog.Debug("configuration loaded", "config", cfg.String())

	s, err := newServer(ctx, cfg)
	if err != nil {
		return err
	}

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

// newServer builds the server for cfg without starting it.
func newServer(ctx context.Context, cfg *config.Config) (*server.Server, error) {
	svc, err := newService(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sc := server.DefaultConfig()
	sc.Port = cfg.Server.Port
	sc.RateLimit = rate.Limit(cfg.Server.RateLimit)
	sc.RateLimitBurst = cfg.Server.RateLimitBurst

	return server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithConfig(sc),
		server.WithHandler(routes(svc)),
	), nil
}

// newService loads the configured catalog once so a bad catalog file fails
// at startup rather than on the first request.
func newService(ctx context.Context, cfg *config.Config) (*recommender.Service, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	if cfg.Catalog.Path != "" {
		cat, err = catalog.LoadFile(cfg.Catalog.Path)
	} else {
		cat, err = catalog.Load(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	slog.Info("catalog loaded", "titles", cat.Len(), "path", cfg.Catalog.Path)

	return recommender.NewService(
		recommender.WithVersion(version),
		recommender.WithCatalog(cat),
		recommender.WithLimit(cfg.NumRecommendations),
	), nil
}

func routes(svc *recommender.Service) map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/recommendations": svc.HandleRecommendations,
		"/v1/catalog":         svc.HandleCatalog,
	}
}
