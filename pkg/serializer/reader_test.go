/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package serializer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"snapshot.yaml", FormatYAML},
		{"snapshot.YML", FormatYAML},
		{"library.json", FormatJSON},
		{"noext", FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatFromPath(tt.path); got != tt.want {
				t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "title.yaml")
	if err := os.WriteFile(yamlPath, []byte("name: Fallout 2\ncores: 1\nram: 0.032\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	jsonPath := filepath.Join(dir, "title.json")
	if err := os.WriteFile(jsonPath, []byte(`{"name":"Diablo II","cores":1,"ram":0.032}`), 0o600); err != nil {
		t.Fatal(err)
	}

	var fromYAML testTitle
	if err := ReadFile(yamlPath, &fromYAML); err != nil {
		t.Fatalf("ReadFile(yaml) error = %v", err)
	}
	if fromYAML.Name != "Fallout 2" {
		t.Errorf("Name = %q, want Fallout 2", fromYAML.Name)
	}

	var fromJSON testTitle
	if err := ReadFile(jsonPath, &fromJSON); err != nil {
		t.Fatalf("ReadFile(json) error = %v", err)
	}
	if fromJSON.Name != "Diablo II" {
		t.Errorf("Name = %q, want Diablo II", fromJSON.Name)
	}
}

func TestNewReader_RejectsOutputOnlyFormats(t *testing.T) {
	if _, err := NewReader(FormatTable, strings.NewReader("")); err == nil {
		t.Error("expected error for table input format")
	}
	if _, err := NewFileReader(FormatText, "x.txt"); err == nil {
		t.Error("expected error for text input format")
	}
}

func TestNewFileReader_MissingFile(t *testing.T) {
	_, err := NewFileReader(FormatJSON, filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to open") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestReader_DeserializeInvalid(t *testing.T) {
	r, err := NewReader(FormatJSON, strings.NewReader("{not json"))
	if err != nil {
		t.Fatal(err)
	}
	var v testTitle
	if err := r.Deserialize(&v); err == nil {
		t.Error("expected decode error")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
