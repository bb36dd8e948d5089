/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Serializer writes a value in some output format.
type Serializer interface {
	Serialize(ctx context.Context, data any) error
}

// Closer releases the resources held by a serializer.
type Closer interface {
	Close() error
}

// WriteCloser is a Serializer that must be closed when done.
type WriteCloser interface {
	Serializer
	Closer
}

// Writer serializes values to an io.Writer in the configured format.
type Writer struct {
	format Format
	output io.Writer
	closer io.Closer

	mu     sync.Mutex
	closed bool
}

// NewWriter returns a Writer for format writing to output. Unknown formats
// fall back to JSON and a nil output falls back to stdout.
func NewWriter(format Format, output io.Writer) *Writer {
	if format.IsUnknown() {
		slog.Warn("unknown output format, using json", "format", string(format))
		format = FormatJSON
	}
	if output == nil {
		output = os.Stdout
	}
	return &Writer{
		format: format,
		output: output,
	}
}

// NewStdoutWriter returns a Writer for format writing to stdout.
func NewStdoutWriter(format Format) *Writer {
	return NewWriter(format, os.Stdout)
}

// NewFileWriterOrStdout returns a serializer writing to path. An empty path,
// whitespace or "-" selects stdout. The caller must Close the result.
func NewFileWriterOrStdout(format Format, path string) (WriteCloser, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == StdoutURI {
		return NewStdoutWriter(format), nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %q: %w", path, err)
	}

	w := NewWriter(format, f)
	w.closer = f
	return w, nil
}

// Serialize writes data in the writer's format.
func (w *Writer) Serialize(ctx context.Context, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("serializer is closed")
	}

	switch w.format {
	case FormatYAML:
		return w.writeYAML(data)
	case FormatTable:
		return writeTable(w.output, data)
	case FormatText:
		return w.writeText(data)
	default:
		return w.writeJSON(data)
	}
}

// Close closes the underlying file, if any. It is safe to call repeatedly.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if w.closer != nil {
		if err := w.closer.Close(); err != nil {
			return fmt.Errorf("failed to close output: %w", err)
		}
	}
	return nil
}

func (w *Writer) writeJSON(data any) error {
	enc := json.NewEncoder(w.output)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to serialize to json: %w", err)
	}
	return nil
}

func (w *Writer) writeYAML(data any) error {
	enc := yaml.NewEncoder(w.output)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to serialize to yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush yaml: %w", err)
	}
	return nil
}

func (w *Writer) writeText(data any) error {
	s, ok := data.(fmt.Stringer)
	if !ok {
		return writeTable(w.output, data)
	}

	out := s.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	if _, err := io.WriteString(w.output, out); err != nil {
		return fmt.Errorf("failed to write text: %w", err)
	}
	return nil
}
