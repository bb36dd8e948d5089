/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package recommender runs the recommendation pipeline.
//
// A Service takes a hardware profile and an owned-games library and:
//
//  1. validates the library records
//  2. keeps the catalog titles the hardware can run
//  3. drops titles the user already owns
//  4. ranks the rest against the library's play-time distribution
//
// The result is a Recommendation document that serializes to JSON, YAML or
// a numbered text listing:
//
//	Game suggestions:
//	(1) Portal
//	(2) Celeste
//
// Usage:
//
//	svc := recommender.NewService(recommender.WithVersion(version))
//	rec, err := svc.Recommend(ctx, profile, owned)
//
// The same Service backs the HTTP handlers served by playfitd:
//
//	POST /v1/recommendations  {"profile": {...}, "owned": [...], "limit": 10}
//	GET  /v1/catalog?cpuCores=4&gpuMemoryGB=2&totalRamGB=8
//	GET  /v1/catalog?title=portal
package recommender
