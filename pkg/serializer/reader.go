/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package serializer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FormatFromPath infers the encoding of a file from its extension.
// Anything other than .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Reader decodes a JSON or YAML document.
type Reader struct {
	format Format
	input  io.Reader
	closer io.Closer
}

// NewReader returns a Reader decoding format from input.
func NewReader(format Format, input io.Reader) (*Reader, error) {
	if format != FormatJSON && format != FormatYAML {
		return nil, fmt.Errorf("unsupported input format %q, expected json or yaml", format)
	}
	return &Reader{format: format, input: input}, nil
}

// NewFileReader opens path for decoding. The caller must Close the reader.
func NewFileReader(format Format, path string) (*Reader, error) {
	if format != FormatJSON && format != FormatYAML {
		return nil, fmt.Errorf("unsupported input format %q, expected json or yaml", format)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}

	return &Reader{format: format, input: f, closer: f}, nil
}

// Deserialize decodes the whole document into v.
func (r *Reader) Deserialize(v any) error {
	switch r.format {
	case FormatYAML:
		if err := yaml.NewDecoder(r.input).Decode(v); err != nil {
			return fmt.Errorf("failed to decode yaml: %w", err)
		}
	default:
		if err := json.NewDecoder(r.input).Decode(v); err != nil {
			return fmt.Errorf("failed to decode json: %w", err)
		}
	}
	return nil
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// ReadFile decodes the file at path, inferring its format from the extension.
func ReadFile(path string, v any) error {
	r, err := NewFileReader(FormatFromPath(path), path)
	if err != nil {
		return err
	}
	defer r.Close()

	return r.Deserialize(v)
}
