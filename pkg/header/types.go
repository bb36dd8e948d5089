/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package header

import (
	"fmt"
	"strings"
	"time"
)

const (
	// APIDomain is appended to the lower-cased kind to form APIVersion.
	APIDomain = "playfit.nvidia.com"

	// APIVersionV1 is the current document schema version.
	APIVersionV1 = "v1"

	// MetadataGeneratedAt is the metadata key stamped by Set.
	MetadataGeneratedAt = "generated-at"
)

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata returns an Option that adds a metadata key-value pair.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithKind returns an Option that sets Kind (e.g. "Snapshot", "Recommendation").
func WithKind(kind string) Option {
	return func(h *Header) {
		h.Kind = kind
	}
}

// WithAPIVersion returns an Option that sets APIVersion.
func WithAPIVersion(version string) Option {
	return func(h *Header) {
		h.APIVersion = version
	}
}

// New creates a Header with the provided options applied.
func New(opts ...Option) *Header {
	h := &Header{
		Metadata: make(map[string]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Header carries the kind, schema version and metadata of every document
// playfit emits: snapshots, title lists and recommendations.
type Header struct {
	// Kind is the type of the document.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the schema version of the document.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata contains free-form key-value pairs about the document.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Set stamps kind, the derived "<kind>.playfit.nvidia.com/v1" APIVersion and
// a generated-at timestamp. Existing metadata is preserved.
func (h *Header) Set(kind string) {
	h.Kind = kind
	h.APIVersion = APIVersionFor(kind)
	if h.Metadata == nil {
		h.Metadata = make(map[string]string)
	}
	h.Metadata[MetadataGeneratedAt] = time.Now().UTC().Format(time.RFC3339)
}

// APIVersionFor returns the APIVersion string for kind.
func APIVersionFor(kind string) string {
	return fmt.Sprintf("%s.%s/%s", strings.ToLower(kind), APIDomain, APIVersionV1)
}
