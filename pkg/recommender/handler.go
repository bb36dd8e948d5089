/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package recommender

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/NVIDIA/playfit/pkg/defaults"
	pferrors "github.com/NVIDIA/playfit/pkg/errors"
	"github.com/NVIDIA/playfit/pkg/hardware"
	"github.com/NVIDIA/playfit/pkg/library"
	"github.com/NVIDIA/playfit/pkg/serializer"
	"github.com/NVIDIA/playfit/pkg/server"
)

// Request is the body of POST /v1/recommendations.
type Request struct {
	Profile *hardware.Profile   `json:"profile"`
	Owned   []library.OwnedGame `json:"owned"`
	Limit   *int                `json:"limit,omitempty"`
}

// requestBody defers decoding of the owned records so a malformed record is
// reported as DATA_FORMAT rather than as a malformed request.
type requestBody struct {
	Profile *hardware.Profile `json:"profile"`
	Owned   json.RawMessage   `json:"owned"`
	Limit   *int              `json:"limit,omitempty"`
}

// HandleRecommendations processes recommendation requests.
// It supports POST with a JSON Request body. An absent limit defaults to the
// service limit; a present one must be between 1 and
// defaults.MaxRecommendations.
func (s *Service) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		server.WriteError(w, r, http.StatusMethodNotAllowed, pferrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{
				"method": r.Method,
			})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.RecommendHandlerTimeout)
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, defaults.MaxRequestBodyBytes)
	defer r.Body.Close()

	req, err := decodeRequest(r.Body)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid request body", nil)
		return
	}

	if req.Profile == nil {
		server.WriteError(w, r, http.StatusBadRequest, pferrors.ErrCodeInvalidRequest,
			"profile is required", false, nil)
		return
	}

	limit := s.Limit
	if req.Limit != nil {
		limit = *req.Limit
	}
	if limit < 1 || limit > defaults.MaxRecommendations {
		server.WriteError(w, r, http.StatusBadRequest, pferrors.ErrCodeInvalidRequest,
			"limit out of range", false, map[string]any{
				"limit": limit,
				"min":   1,
				"max":   defaults.MaxRecommendations,
			})
		return
	}

	rec, err := s.RecommendTop(ctx, *req.Profile, req.Owned, limit)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to generate recommendations", nil)
		return
	}

	slog.Debug("recommendations generated",
		"profile", req.Profile.String(),
		"owned", len(req.Owned),
		"recommended", len(rec.Recommendations),
	)

	serializer.RespondJSON(w, http.StatusOK, rec)
}

// decodeRequest reads a Request from body. Syntax errors and unknown fields
// are INVALID_REQUEST; owned records of the wrong shape are DATA_FORMAT.
func decodeRequest(body io.Reader) (*Request, error) {
	var raw requestBody
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, pferrors.Wrap(pferrors.ErrCodeInvalidRequest, "malformed request body", err)
	}

	req := &Request{Profile: raw.Profile, Limit: raw.Limit}
	if len(raw.Owned) == 0 || string(raw.Owned) == "null" {
		return req, nil
	}

	owned := json.NewDecoder(bytes.NewReader(raw.Owned))
	owned.DisallowUnknownFields()
	if err := owned.Decode(&req.Owned); err != nil {
		return nil, pferrors.Wrap(pferrors.ErrCodeDataFormat, "invalid library record", err)
	}
	return req, nil
}

// HandleCatalog lists catalog titles.
// It supports GET with optional query parameters:
//   - title: look up a single title, case-insensitively
//   - cpuCores, gpuMemoryGB, totalRamGB: keep only titles that fit; all
//     three must be given together
func (s *Service) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		server.WriteError(w, r, http.StatusMethodNotAllowed, pferrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{
				"method": r.Method,
			})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.CatalogHandlerTimeout)
	defer cancel()

	q := r.URL.Query()

	if title := q.Get("title"); title != "" {
		tl, err := s.Lookup(ctx, title)
		if err != nil {
			server.WriteErrorFromErr(w, r, err, "Failed to look up title", nil)
			return
		}
		serializer.RespondJSON(w, http.StatusOK, tl)
		return
	}

	profile, err := profileFromQuery(q)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid query parameters", nil)
		return
	}

	tl, err := s.Titles(ctx, profile)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to list catalog", nil)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	serializer.RespondJSON(w, http.StatusOK, tl)
}

// profileFromQuery returns nil when no hardware parameter is present.
func profileFromQuery(q url.Values) (*hardware.Profile, error) {
	keys := []string{"cpuCores", "gpuMemoryGB", "totalRamGB"}
	present := 0
	for _, k := range keys {
		if q.Has(k) {
			present++
		}
	}
	if present == 0 {
		return nil, nil
	}
	if present != len(keys) {
		return nil, pferrors.NewWithContext(pferrors.ErrCodeInvalidRequest,
			"cpuCores, gpuMemoryGB and totalRamGB must be given together",
			map[string]any{"required": keys})
	}

	cores, err := strconv.Atoi(q.Get("cpuCores"))
	if err != nil {
		return nil, pferrors.WrapWithContext(pferrors.ErrCodeInvalidRequest,
			"invalid cpuCores", err, map[string]any{"value": q.Get("cpuCores")})
	}
	gpu, err := strconv.ParseFloat(q.Get("gpuMemoryGB"), 64)
	if err != nil {
		return nil, pferrors.WrapWithContext(pferrors.ErrCodeInvalidRequest,
			"invalid gpuMemoryGB", err, map[string]any{"value": q.Get("gpuMemoryGB")})
	}
	ram, err := strconv.ParseFloat(q.Get("totalRamGB"), 64)
	if err != nil {
		return nil, pferrors.WrapWithContext(pferrors.ErrCodeInvalidRequest,
			"invalid totalRamGB", err, map[string]any{"value": q.Get("totalRamGB")})
	}

	p := hardware.Profile{CPUCores: cores, GPUMemoryGB: gpu, TotalRAMGB: ram}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
