/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package recommender

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NVIDIA/playfit/pkg/catalog"
	"github.com/NVIDIA/playfit/pkg/compat"
	"github.com/NVIDIA/playfit/pkg/defaults"
	pferrors "github.com/NVIDIA/playfit/pkg/errors"
	"github.com/NVIDIA/playfit/pkg/hardware"
	"github.com/NVIDIA/playfit/pkg/library"
	"github.com/NVIDIA/playfit/pkg/similarity"
)

// Option is a functional option for configuring Service instances.
type Option func(*Service)

// WithVersion sets the version recorded in recommendation metadata.
func WithVersion(version string) Option {
	return func(s *Service) {
		s.Version = version
	}
}

// WithCatalog replaces the embedded catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		s.catalog = c
	}
}

// WithLimit sets the default number of recommendations. Values below 1 are
// ignored.
func WithLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.Limit = limit
		}
	}
}

// Service filters the catalog for a hardware profile and ranks what is left
// against a user's library.
type Service struct {
	// Version is recorded in recommendation metadata.
	Version string

	// Limit is the number of recommendations returned by Recommend.
	Limit int

	catalog *catalog.Catalog
}

// NewService creates a Service with the provided functional options.
func NewService(opts ...Option) *Service {
	s := &Service{
		Limit: defaults.NumRecommendations,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the catalog the service recommends from.
func (s *Service) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	if s.catalog != nil {
		return s.catalog, nil
	}
	return catalog.Load(ctx)
}

// Recommend runs the pipeline with the service's default limit.
func (s *Service) Recommend(ctx context.Context, profile hardware.Profile, owned []library.OwnedGame) (*Recommendation, error) {
	return s.RecommendTop(ctx, profile, owned, s.Limit)
}

// RecommendTop runs the pipeline and returns at most limit suggestions.
// An empty library, a machine that fits no title and a library that already
// holds every compatible title are not errors: the Recommendation carries
// no entries and a notice instead.
func (s *Service) RecommendTop(ctx context.Context, profile hardware.Profile, owned []library.OwnedGame, limit int) (*Recommendation, error) {
	start := time.Now()
	defer func() {
		recommendGenerateDuration.Observe(time.Since(start).Seconds())
	}()

	rec, err := s.recommend(ctx, profile, owned, limit)
	if err != nil {
		recommendGenerateTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	recommendGenerateTotal.WithLabelValues("success").Inc()
	return rec, nil
}

func (s *Service) recommend(ctx context.Context, profile hardware.Profile, owned []library.OwnedGame, limit int) (*Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, pferrors.Wrap(pferrors.ErrCodeTimeout, "recommendation canceled", err)
	}
	if limit <= 0 {
		return nil, pferrors.NewWithContext(pferrors.ErrCodeInvalidRequest,
			"number of recommendations must be positive", map[string]any{"limit": limit})
	}
	if err := library.Validate(owned); err != nil {
		return nil, err
	}

	cat, err := s.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	compatible, err := compat.Filter(profile, cat.Titles())
	if err != nil {
		return nil, err
	}
	compatibleTitles.Observe(float64(len(compatible)))

	rec := &Recommendation{
		Profile: profile,
		Limit:   limit,
		Summary: Summary{
			CatalogTitles:    cat.Len(),
			CompatibleTitles: len(compatible),
			OwnedGames:       len(owned),
		},
		Recommendations: []RankedRecommendation{},
	}
	rec.Set(KindRecommendation)
	if s.Version != "" {
		rec.Metadata["recommender-version"] = s.Version
	}

	slog.Debug("filtered catalog for hardware",
		"profile", profile.String(),
		"catalog", cat.Len(),
		"compatible", len(compatible),
		"owned", len(owned),
	)

	if len(owned) == 0 || len(compatible) == 0 {
		rec.Notice = NoticeNothingToAnalyze
		return rec, nil
	}

	candidates := similarity.ExcludeOwned(owned, compatible)
	rec.Summary.Candidates = len(candidates)
	if len(candidates) == 0 {
		rec.Notice = NoticeNothingNew
		return rec, nil
	}

	names, err := similarity.Recommend(owned, compatible, limit)
	if err != nil {
		return nil, err
	}
	for i, name := range names {
		rec.Recommendations = append(rec.Recommendations, RankedRecommendation{Rank: i + 1, Name: name})
	}
	rec.Summary.Recommended = len(names)

	return rec, nil
}

// Titles returns the catalog titles. When profile is not nil only the titles
// it can run are listed, and the rest are reported as excluded.
func (s *Service) Titles(ctx context.Context, profile *hardware.Profile) (*TitleList, error) {
	cat, err := s.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if profile == nil {
		return NewTitleList(nil, cat.Titles()), nil
	}

	compatible, excluded, err := compat.Partition(*profile, cat.Titles())
	if err != nil {
		return nil, err
	}
	compatibleTitles.Observe(float64(len(compatible)))

	tl := NewTitleList(profile, compatible)
	tl.Excluded = excluded
	return tl, nil
}

// Lookup returns a single-title list for name.
func (s *Service) Lookup(ctx context.Context, name string) (*TitleList, error) {
	cat, err := s.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	t, err := cat.Lookup(name)
	if err != nil {
		return nil, err
	}
	return NewTitleList(nil, []catalog.Title{t}), nil
}
